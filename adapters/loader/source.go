package loader

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// Source retrieves the raw bytes of a data document.
type Source interface {
	Open(ctx context.Context, location string) ([]byte, error)
}

// HTTPSource fetches documents with GET. Relative locations resolve against BaseURL.
// No retries are attempted; a zero Timeout means none is configured.
type HTTPSource struct {
	Client  *http.Client
	BaseURL string
	Timeout time.Duration
}

// maxDocumentSize bounds how much of a response body is read.
const maxDocumentSize = 32 << 20

// Open implements Source.
func (s *HTTPSource) Open(ctx context.Context, location string) ([]byte, error) {
	target, err := s.resolve(location)
	if err != nil {
		return nil, err
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request rejected: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func (s *HTTPSource) resolve(location string) (string, error) {
	ref, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("invalid location %q: %w", location, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	if s.BaseURL == "" {
		return "", fmt.Errorf("relative location %q without base URL", location)
	}
	base, err := url.Parse(s.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", s.BaseURL, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// FSSource reads documents from a filesystem. Prefix is stripped from locations first,
// so "/blog/data/anomaly.json" maps to "anomaly.json" with Prefix "/blog/data/".
type FSSource struct {
	FS     fs.FS
	Prefix string
}

// Open implements Source.
func (s *FSSource) Open(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := strings.TrimPrefix(location, s.Prefix)
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("invalid path %q", location)
	}
	return fs.ReadFile(s.FS, name)
}
