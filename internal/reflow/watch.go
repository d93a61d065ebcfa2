package reflow

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher refreshes a Reflow whenever a data document in a directory changes.
type Watcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	dir     string
	exts    map[string]bool
	target  *Reflow
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewWatcher watches dir for changes to files with the given extensions
// (".json", ".csv" and ".xlsx" when none are given).
func NewWatcher(dir string, target *Reflow, exts ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if len(exts) == 0 {
		exts = []string{".json", ".csv", ".xlsx"}
	}
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		set[strings.ToLower(e)] = true
	}
	return &Watcher{
		watcher: fw,
		dir:     dir,
		exts:    set,
		target:  target,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Start adds the directory and begins the event loop. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	log.Printf("[Watcher] Watching %s for data changes", w.dir)

	go w.run(ctx)
	return nil
}

// Stop ends the event loop and releases the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		log.Printf("[Watcher] close: %v", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[Watcher] error: %v", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !w.exts[strings.ToLower(filepath.Ext(ev.Name))] {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}
	log.Printf("[Watcher] %s %s, scheduling refresh", ev.Op, filepath.Base(ev.Name))
	w.target.Refresh()
}
