package inspect

import (
	"math"

	"chartfolio/domain/series"
	"chartfolio/internal/scale"
)

// Plot is everything the inspector needs from one render pass: the scales, the ordered
// sample coordinates in domain units and a tooltip formatter. It is owned by that pass.
type Plot struct {
	X      scale.Linear
	Y      scale.Linear
	Xs     []float64
	Ys     []float64
	Width  float64
	Height float64
	Format func(i int) Tooltip
}

// Marker is the focus marker position in plot-area pixels.
type Marker struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Result is the outcome of one pointer event.
type Result struct {
	Focus   series.FocusState `json:"focus"`
	Marker  *Marker           `json:"marker,omitempty"`
	Tooltip *Tooltip          `json:"tooltip,omitempty"`
}

// Hidden is the result for pointer-leave: no marker and no overlay.
func Hidden() Result {
	return Result{Focus: series.NoFocus()}
}

// Inspector answers pointer events for a single Plot.
type Inspector struct {
	plot Plot
}

// NewInspector binds an inspector to a plot.
func NewInspector(p Plot) *Inspector {
	return &Inspector{plot: p}
}

// OnPointerMove inverts the pointer's x pixel, selects the nearest sample and positions
// the focus marker on it. Pointers outside the plot area, or NaN coordinates, behave
// like pointer-leave.
func (in *Inspector) OnPointerMove(px, py float64) Result {
	p := in.plot
	if len(p.Xs) == 0 || math.IsNaN(px) || math.IsNaN(py) ||
		px < 0 || px > p.Width || py < 0 || py > p.Height {
		return Hidden()
	}
	x0 := p.X.Invert(px)
	i := Nearest(p.Xs, x0)
	if i < 0 {
		return Hidden()
	}
	res := Result{
		Focus:  series.FocusState{Index: i, Visible: true},
		Marker: &Marker{X: p.X.Map(p.Xs[i]), Y: p.Y.Map(p.Ys[i])},
	}
	if p.Format != nil {
		tt := p.Format(i)
		res.Tooltip = &tt
	}
	return res
}

// OnPointerLeave hides the focus marker and tooltip.
func (in *Inspector) OnPointerLeave() Result {
	return Hidden()
}
