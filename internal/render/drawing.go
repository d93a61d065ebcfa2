package render

import (
	"time"

	"chartfolio/domain/core"
	"chartfolio/internal/inspect"
	"chartfolio/internal/scale"
)

// Drawing is the product of one render pass. It owns its scales; the next rebuild
// produces a new Drawing instead of changing this one.
type Drawing struct {
	ID         core.RenderID
	Kind       string
	SVG        []byte
	Layout     Layout
	X          scale.Linear
	Y          scale.Linear
	Markers    []inspect.Marker
	Plot       *inspect.Plot // nil when the chart has no hover inspection
	Trend      *Trendline    // scatter only
	RenderedAt time.Time
}

// Trendline is the least-squares fit drawn over the scatter plot.
type Trendline struct {
	Slope     float64
	Intercept float64
}

// At evaluates the fitted line.
func (t Trendline) At(x float64) float64 { return t.Slope*x + t.Intercept }

// Inspector returns a hover inspector for the drawing, or nil if it is not hoverable.
func (d *Drawing) Inspector() *inspect.Inspector {
	if d == nil || d.Plot == nil {
		return nil
	}
	return inspect.NewInspector(*d.Plot)
}

func newDrawing(kind string, l Layout) *Drawing {
	return &Drawing{
		ID:         core.RenderID(core.NewID()),
		Kind:       kind,
		Layout:     l,
		RenderedAt: time.Now(),
	}
}

// openSVG writes the root element sized by the layout and the translated plot group.
func openSVG(d *Doc, kind string, l Layout, th Theme) {
	d.Open("svg",
		A("xmlns", "http://www.w3.org/2000/svg"),
		A("class", "chart chart-"+kind+" theme-"+th.Name),
		A("viewBox", "0 0 "+num(l.OuterWidth())+" "+num(l.OuterHeight())),
		A("preserveAspectRatio", "xMidYMid meet"),
		A("font-family", "system-ui, sans-serif"),
	)
	d.Open("g", A("class", "plot"), A("transform", translate(l.Margin.Left, l.Margin.Top)))
}

func closeSVG(d *Doc) {
	d.Close("g")
	d.Close("svg")
}

// focusLayer adds the hidden focus marker and the pointer overlay covering the plot area.
func focusLayer(d *Doc, l Layout, th Theme) {
	d.Open("g", A("class", "focus"), A("style", "display: none"))
	d.Empty("circle", F("r", 5), A("fill", th.Focus))
	d.Close("g")
	d.Empty("rect", A("class", "overlay"), F("width", l.Width), F("height", l.Height), A("fill", "none"), A("pointer-events", "all"))
}

// ErrorPlaceholder draws the visible error indicator that replaces a chart whose data
// could not be loaded or validated. Nothing of the failed plot is included.
func ErrorPlaceholder(kind string, l Layout, message string) []byte {
	var d Doc
	d.Open("svg",
		A("xmlns", "http://www.w3.org/2000/svg"),
		A("class", "chart chart-"+kind+" chart-error"),
		A("viewBox", "0 0 "+num(l.OuterWidth())+" "+num(l.OuterHeight())),
		A("preserveAspectRatio", "xMidYMid meet"),
	)
	d.Text("Error loading visualization data", A("class", "load-error"),
		F("x", l.OuterWidth()/2), F("y", l.OuterHeight()/2), A("text-anchor", "middle"), A("fill", "red"))
	if message != "" {
		d.Text(message, A("class", "load-error-detail"),
			F("x", l.OuterWidth()/2), F("y", l.OuterHeight()/2+20), A("text-anchor", "middle"), A("fill", "red"), A("font-size", "11"))
	}
	d.Close("svg")
	return d.Bytes()
}
