// Package datahost serves the static chart documents under /blog/data.
package datahost

import (
	"embed"
	"io/fs"
	"log"
	"mime"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Prefix is the URL path every data document lives under.
const Prefix = "/blog/data/"

//go:embed fixtures/*
var embedded embed.FS

// Documents lists the file names the pages expect to find.
var Documents = []string{"anomaly.json", "features.json", "survival.json", "example.csv"}

// Fixtures returns the embedded document set.
func Fixtures() fs.FS {
	sub, err := fs.Sub(embedded, "fixtures")
	if err != nil {
		panic(err)
	}
	return sub
}

// Open picks the document set: a directory on disk when dir is set, the fixtures otherwise.
func Open(dir string) (fs.FS, error) {
	if dir == "" {
		return Fixtures(), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: dir, Err: fs.ErrInvalid}
	}
	log.Printf("[DataHost] Serving documents from %s", dir)
	return os.DirFS(dir), nil
}

// Host serves documents from an fs.FS.
type Host struct {
	files  fs.FS
	router *chi.Mux
}

// New builds the router. Mount the result at Prefix.
func New(files fs.FS) *Host {
	h := &Host{files: files, router: chi.NewRouter()}
	h.router.Use(middleware.Logger)
	h.router.Use(middleware.Recoverer)
	h.router.Use(middleware.Compress(5, "application/json", "text/csv"))

	h.router.Get("/", h.handleIndex)
	h.router.Get("/{name}", h.handleDocument)
	h.router.Head("/{name}", h.handleDocument)
	return h
}

// ServeHTTP implements http.Handler; it expects the Prefix already stripped.
func (h *Host) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Handler returns the host wrapped to accept full /blog/data/... paths.
func (h *Host) Handler() http.Handler {
	return http.StripPrefix(strings.TrimSuffix(Prefix, "/"), h)
}

func (h *Host) handleIndex(w http.ResponseWriter, r *http.Request) {
	entries, err := fs.ReadDir(h.files, ".")
	if err != nil {
		http.Error(w, "listing unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		_, _ = w.Write([]byte(Prefix + e.Name() + "\n"))
	}
}

func (h *Host) handleDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !fs.ValidPath(name) || strings.Contains(name, "/") {
		http.NotFound(w, r)
		return
	}
	b, err := fs.ReadFile(h.files, name)
	if err != nil {
		log.Printf("[DataHost] %s not found: %v", name, err)
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentType(name))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(b)
	}
}

func contentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return "application/json"
	case ".csv":
		return "text/csv; charset=utf-8"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
