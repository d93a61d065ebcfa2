package widget

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"chartfolio/domain/core"
	"chartfolio/internal/render"

	"golang.org/x/sync/semaphore"
)

// DefaultParallelism bounds concurrent chart builds.
const DefaultParallelism = 4

// Options configures a Registry.
type Options struct {
	DataPrefix  string // e.g. "/blog/data/" or "http://host/blog/data/"
	Theme       render.Theme
	Metrics     *Metrics
	Page        Page // nil means every container is present
	Parallelism int64
	Overrides   map[Kind]string // document URL per kind
}

// Registry holds the widgets of one page.
type Registry struct {
	widgets []*Widget
	byKind  map[Kind]*Widget
	sem     *semaphore.Weighted
}

// NewRegistry creates one widget per kind, in the given order.
func NewRegistry(ld DataLoader, opts Options, kinds ...Kind) *Registry {
	if len(kinds) == 0 {
		kinds = AllKinds
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = DefaultParallelism
	}
	r := &Registry{
		byKind: make(map[Kind]*Widget, len(kinds)),
		sem:    semaphore.NewWeighted(opts.Parallelism),
	}
	for _, k := range kinds {
		if _, dup := r.byKind[k]; dup {
			continue
		}
		url := opts.Overrides[k]
		if url == "" {
			url = joinURL(opts.DataPrefix, k.Document())
		}
		w := New(k, url, ld, opts.Theme, opts.Metrics)
		w.page = opts.Page
		r.widgets = append(r.widgets, w)
		r.byKind[k] = w
	}
	return r
}

// Get returns the widget for a kind.
func (r *Registry) Get(kind Kind) (*Widget, error) {
	w, ok := r.byKind[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q not on this page", core.ErrUnknownChart, kind)
	}
	return w, nil
}

// Widgets returns the widgets in page order.
func (r *Registry) Widgets() []*Widget {
	out := make([]*Widget, len(r.widgets))
	copy(out, r.widgets)
	return out
}

// BuildAll builds every widget concurrently, at most Parallelism at a time across every
// caller of the registry. Each chart loads independently; a failing chart shows its
// placeholder and never stops the others. The returned error joins every widget failure.
func (r *Registry) BuildAll(ctx context.Context, width float64) error {
	start := time.Now()
	errs := make([]error, len(r.widgets))

	var wg sync.WaitGroup
	for i, w := range r.widgets {
		i, w := i, w
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.sem.Acquire(ctx, 1); err != nil {
				errs[i] = fmt.Errorf("%s: %w", w.Kind, err)
				return
			}
			defer r.sem.Release(1)
			errs[i] = w.Build(ctx, width)
		}()
	}
	wg.Wait()

	err := errors.Join(errs...)
	log.Printf("[Registry] Built %d widgets at width %.0f in %s", len(r.widgets), width, time.Since(start))
	return err
}

// Rebuild is BuildAll shaped for reflow.RebuildFunc.
func (r *Registry) Rebuild(ctx context.Context, width float64) error {
	return r.BuildAll(ctx, width)
}

func joinURL(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return strings.TrimSuffix(prefix, "/") + "/" + name
}
