package reflow

import (
	"context"
	"log"
	"sync"
	"time"
)

// RebuildFunc re-runs load, scale and render for a container width.
type RebuildFunc func(ctx context.Context, width float64) error

// Event describes one finished rebuild.
type Event struct {
	Seq    uint64    `json:"seq"`
	Width  float64   `json:"width"`
	Err    string    `json:"error,omitempty"`
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

// Reflow debounces resize notifications into full rebuilds and publishes the results.
//
// Rebuilds that are already running are not cancelled when a newer one starts;
// the last one to finish wins.
type Reflow struct {
	rebuild  RebuildFunc
	debounce *Debouncer

	mu     sync.Mutex
	width  float64
	seq    uint64
	subs   map[chan Event]struct{}
	closed bool

	inflight sync.WaitGroup
}

// New creates a Reflow. quiet <= 0 uses DefaultQuiet.
func New(rebuild RebuildFunc, quiet time.Duration) *Reflow {
	return &Reflow{
		rebuild:  rebuild,
		debounce: NewDebouncer(quiet),
		subs:     make(map[chan Event]struct{}),
	}
}

// Width returns the last width handed to a rebuild.
func (r *Reflow) Width() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width
}

// OnResize records the new container width and schedules a rebuild after the quiet period.
func (r *Reflow) OnResize(width float64) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	r.debounce.Trigger(func() { r.run(width, "resize") })
}

// Refresh schedules a rebuild at the current width, e.g. after the data changed.
func (r *Reflow) Refresh() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	width := r.width
	r.mu.Unlock()

	r.debounce.Trigger(func() { r.run(width, "refresh") })
}

// Now rebuilds immediately on the caller's goroutine and drops any waiting call.
func (r *Reflow) Now(width float64) error {
	r.debounce.Stop()
	return r.run(width, "initial")
}

func (r *Reflow) run(width float64, reason string) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.width = width
	r.inflight.Add(1)
	r.mu.Unlock()
	defer r.inflight.Done()

	start := time.Now()
	err := r.rebuild(context.Background(), width)
	if err != nil {
		log.Printf("[Reflow] %s rebuild at width %.0f failed after %s: %v", reason, width, time.Since(start), err)
	} else {
		log.Printf("[Reflow] %s rebuild at width %.0f took %s", reason, width, time.Since(start))
	}

	r.mu.Lock()
	r.seq++
	ev := Event{Seq: r.seq, Width: width, Reason: reason, At: time.Now()}
	if err != nil {
		ev.Err = err.Error()
	}
	for ch := range r.subs {
		select {
		case ch <- ev:
		default:
			log.Printf("[Reflow] subscriber channel full, dropping event %d", ev.Seq)
		}
	}
	r.mu.Unlock()
	return err
}

// Subscribe returns a channel of rebuild events and a function that releases it.
func (r *Reflow) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	r.subs[ch] = struct{}{}
	r.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			if _, ok := r.subs[ch]; ok {
				delete(r.subs, ch)
				close(ch)
			}
			r.mu.Unlock()
		})
	}
}

// Close stops pending rebuilds, waits for running ones and closes all subscriptions.
func (r *Reflow) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	r.debounce.Stop()
	r.inflight.Wait()

	r.mu.Lock()
	for ch := range r.subs {
		delete(r.subs, ch)
		close(ch)
	}
	r.mu.Unlock()
}
