package datahost

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func TestFixturesContainEveryDocument(t *testing.T) {
	files := Fixtures()
	for _, name := range Documents {
		f, err := files.Open(name)
		if err != nil {
			t.Errorf("fixture %s: %v", name, err)
			continue
		}
		f.Close()
	}
}

func TestHostServesDocuments(t *testing.T) {
	srv := httptest.NewServer(New(Fixtures()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/blog/data/anomaly.json")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "api_metrics") {
		t.Error("anomaly document has no api_metrics")
	}

	resp2, err := http.Get(srv.URL + "/blog/data/example.csv")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if ct := resp2.Header.Get("Content-Type"); !strings.Contains(ct, "text/csv") {
		t.Errorf("csv Content-Type = %q", ct)
	}

	resp3, err := http.Get(srv.URL + "/blog/data/nope.json")
	if err != nil {
		t.Fatal(err)
	}
	resp3.Body.Close()
	if resp3.StatusCode != http.StatusNotFound {
		t.Errorf("missing document status = %d, want 404", resp3.StatusCode)
	}
}

func TestHostIndexAndHead(t *testing.T) {
	files := fstest.MapFS{"a.json": {Data: []byte(`{}`)}}
	h := New(files)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := rec.Body.String(); got != "/blog/data/a.json\n" {
		t.Errorf("index = %q", got)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/a.json", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("HEAD status = %d, want 200", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("HEAD wrote a body: %q", rec.Body.String())
	}
}

func TestOpen(t *testing.T) {
	files, err := Open("")
	if err != nil {
		t.Fatalf("Open(\"\"): %v", err)
	}
	if _, err := files.Open("survival.json"); err != nil {
		t.Errorf("embedded survival.json: %v", err)
	}

	dir := t.TempDir()
	if files, err = Open(dir); err != nil || files == nil {
		t.Errorf("Open(tempdir) = %v, %v", files, err)
	}

	if _, err := Open(dir + "/missing"); err == nil {
		t.Error("Open on a missing directory should fail")
	}
}
