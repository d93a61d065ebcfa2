package widget

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"chartfolio/domain/core"
	"chartfolio/domain/series"
	"chartfolio/internal/inspect"
	"chartfolio/internal/render"
)

// DataLoader fetches the documents behind the charts.
type DataLoader interface {
	Anomaly(ctx context.Context, url string) (series.Series[series.AnomalySample], error)
	Survival(ctx context.Context, url string) (series.Series[series.SurvivalSample], error)
	Features(ctx context.Context, url string) (series.Features, error)
	Scatter(ctx context.Context, url string) (series.Series[series.ScatterPoint], error)
}

const (
	resultOK        = "ok"
	resultLoadError = "load_error"
	resultDataError = "data_error"
	resultMissing   = "container_missing"
)

// Page reports which chart containers a page provides.
type Page interface {
	HasContainer(id string) bool
}

// Containers is a Page backed by a set of element ids.
type Containers map[string]bool

func (c Containers) HasContainer(id string) bool { return c[id] }

// ContainersFor builds the page for a set of widget kinds.
func ContainersFor(kinds ...Kind) Containers {
	c := make(Containers, len(kinds))
	for _, k := range kinds {
		c[k.ContainerID()] = true
	}
	return c
}

// Snapshot is a consistent view of a widget after its latest build.
type Snapshot struct {
	Kind     Kind
	Drawing  *render.Drawing // nil when the build failed
	SVG      []byte          // the drawing or the error placeholder
	Err      error
	Width    float64
	Selected string   // features only
	Options  []string // features only
	BuiltAt  time.Time
}

// Widget owns one chart's series, scales and drawing. Every Build replaces them wholesale.
type Widget struct {
	ID    core.WidgetID
	Kind  Kind
	URL   string
	theme render.Theme

	loader  DataLoader
	metrics *Metrics
	page    Page

	mu        sync.RWMutex
	snap      Snapshot
	features  series.Features
	inspector *inspect.Inspector
	focus     inspect.Result
}

// New creates an unbuilt widget reading url through ld.
func New(kind Kind, url string, ld DataLoader, th render.Theme, m *Metrics) *Widget {
	return &Widget{
		ID:      core.WidgetID(core.NewID()),
		Kind:    kind,
		URL:     url,
		theme:   th,
		loader:  ld,
		metrics: m,
		snap:    Snapshot{Kind: kind},
		focus:   inspect.Hidden(),
	}
}

// CheckPage fails with a container-missing error when page has no element for this
// widget. A nil page provides every container.
func (w *Widget) CheckPage(page Page) error {
	if page == nil || page.HasContainer(w.Kind.ContainerID()) {
		return nil
	}
	return core.NewContainerMissingError(w.Kind.ContainerID())
}

// Placeholder draws the error indicator for err at width without touching the stored build.
func (w *Widget) Placeholder(width float64, err error) []byte {
	return render.ErrorPlaceholder(string(w.Kind), w.Layout(width), placeholderDetail(err))
}

// Layout returns the geometry for a container width.
func (w *Widget) Layout(width float64) render.Layout {
	if !w.Kind.Responsive() {
		return render.ScatterLayout()
	}
	return render.ResponsiveLayout(width)
}

// Build loads the document and draws the chart at width. On failure the stored
// drawing becomes the error placeholder and the error is returned.
func (w *Widget) Build(ctx context.Context, width float64) error {
	start := time.Now()
	l := w.Layout(width)

	w.mu.RLock()
	selected := w.snap.Selected
	w.mu.RUnlock()

	var (
		dr  *render.Drawing
		fs  series.Features
		err error
	)
	if err = w.CheckPage(w.page); err == nil {
		dr, fs, err = w.draw(ctx, l, selected)
	}
	result := classify(err)
	w.metrics.observe(w.Kind, start, result)

	snap := Snapshot{Kind: w.Kind, Width: width, BuiltAt: time.Now(), Err: err}
	if err != nil {
		log.Printf("[Widget] %s build failed (%s): %v", w.Kind, result, err)
		snap.SVG = w.Placeholder(width, err)
	} else {
		snap.Drawing = dr
		snap.SVG = dr.SVG
	}
	if fs != nil {
		snap.Options = fs.Names()
		snap.Selected = selectedOrFirst(fs, selected)
	}

	w.mu.Lock()
	w.snap = snap
	if fs != nil {
		w.features = fs
	}
	w.inspector = dr.Inspector()
	w.focus = inspect.Hidden()
	w.mu.Unlock()
	return err
}

func (w *Widget) draw(ctx context.Context, l render.Layout, selected string) (*render.Drawing, series.Features, error) {
	switch w.Kind {
	case Anomaly:
		s, err := w.loader.Anomaly(ctx, w.URL)
		if err != nil {
			return nil, nil, err
		}
		if err := s.RequireMin(string(w.Kind), w.Kind.MinSamples()); err != nil {
			return nil, nil, err
		}
		dr, err := render.Anomaly(s, l, w.theme)
		return dr, nil, err
	case Survival:
		s, err := w.loader.Survival(ctx, w.URL)
		if err != nil {
			return nil, nil, err
		}
		if err := s.RequireMin(string(w.Kind), w.Kind.MinSamples()); err != nil {
			return nil, nil, err
		}
		dr, err := render.Survival(s, l, w.theme)
		return dr, nil, err
	case Scatter:
		s, err := w.loader.Scatter(ctx, w.URL)
		if err != nil {
			return nil, nil, err
		}
		if err := s.RequireMin(string(w.Kind), w.Kind.MinSamples()); err != nil {
			return nil, nil, err
		}
		dr, err := render.Scatter(s, l, w.theme)
		return dr, nil, err
	case Features:
		fs, err := w.loader.Features(ctx, w.URL)
		if err != nil {
			return nil, nil, err
		}
		dr, err := w.drawFeature(fs, selected, l)
		return dr, fs, err
	}
	return nil, nil, fmt.Errorf("%w: %q", core.ErrUnknownChart, w.Kind)
}

func (w *Widget) drawFeature(fs series.Features, name string, l render.Layout) (*render.Drawing, error) {
	if len(fs) < w.Kind.MinSamples() {
		return nil, core.NewDegenerateError(string(w.Kind), len(fs), w.Kind.MinSamples())
	}
	name = selectedOrFirst(fs, name)
	st, _ := fs.Lookup(name)
	return render.Feature(name, st, l, w.theme)
}

// SelectFeature redraws the feature chart for another feature using the loaded summaries.
func (w *Widget) SelectFeature(name string) error {
	if w.Kind != Features {
		return fmt.Errorf("%w: %s has no feature selector", core.ErrUnknownChart, w.Kind)
	}
	w.mu.RLock()
	fs := w.features
	width := w.snap.Width
	w.mu.RUnlock()

	if _, ok := fs.Lookup(name); !ok {
		return fmt.Errorf("%w: %q", core.ErrUnknownFeature, name)
	}
	l := w.Layout(width)
	dr, err := w.drawFeature(fs, name, l)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.snap = Snapshot{
		Kind: w.Kind, Drawing: dr, SVG: dr.SVG, Width: width,
		Selected: name, Options: fs.Names(), BuiltAt: time.Now(),
	}
	w.inspector = nil
	w.focus = inspect.Hidden()
	w.mu.Unlock()
	log.Printf("[Widget] features switched to %s", name)
	return nil
}

// Snapshot returns the latest build result.
func (w *Widget) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snap
}

// Inspect handles a pointer move in plot-area pixels.
func (w *Widget) Inspect(px, py float64) inspect.Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inspector == nil {
		w.focus = inspect.Hidden()
	} else {
		w.focus = w.inspector.OnPointerMove(px, py)
	}
	return w.focus
}

// Leave handles the pointer leaving the plot.
func (w *Widget) Leave() inspect.Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.focus = inspect.Hidden()
	return w.focus
}

// Focus returns the current hover state.
func (w *Widget) Focus() inspect.Result {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.focus
}

func selectedOrFirst(fs series.Features, name string) string {
	if _, ok := fs.Lookup(name); ok {
		return name
	}
	if len(fs) == 0 {
		return ""
	}
	return fs[0].Name
}

func classify(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, core.ErrContainerMissing):
		return resultMissing
	case core.IsLoadError(err):
		return resultLoadError
	default:
		return resultDataError
	}
}

func placeholderDetail(err error) string {
	var le *core.LoadError
	if errors.As(err, &le) {
		return le.URL
	}
	if core.IsDegenerateError(err) {
		return "not enough data to draw"
	}
	if errors.Is(err, core.ErrContainerMissing) {
		return err.Error()
	}
	return ""
}
