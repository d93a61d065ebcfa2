package render

import (
	"chartfolio/internal/scale"
)

// KindBar names the small project card bar chart.
const KindBar = "bar"

// bandPadding is the inner and outer padding of the band scale, as a share of one step.
const bandPadding = 0.3

// BarLayout is the 300x300 canvas used inside a project card.
func BarLayout() Layout {
	return FixedLayout(300, 300, Margin{})
}

// Band places n equal bands across [0, width] with bandPadding around them.
// It returns the left edge of each band and the band width.
func Band(n int, width float64) ([]float64, float64) {
	if n <= 0 {
		return nil, 0
	}
	step := width / (float64(n) + bandPadding)
	start := step * bandPadding
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = start + float64(i)*step
	}
	return xs, step * (1 - bandPadding)
}

// Bar draws one bar per value on a [0, max] scale. Bars highlight on hover.
func Bar(values []float64, l Layout, th Theme) (*Drawing, error) {
	lo, hi := scale.ZeroToMaxNoPad(scale.MaxOf(values))
	y := scale.NewLinear(lo, hi, l.Height, 0)
	lefts, bw := Band(len(values), l.Width)

	dr := newDrawing(KindBar, l)
	dr.Y = y
	dr.X = scale.NewLinear(0, float64(max(len(values), 1)), 0, l.Width)

	var d Doc
	openSVG(&d, KindBar, l, th)
	d.Open("style")
	d.buf.WriteString(".bar{fill:#007bff}.bar:hover{fill:#0056b3}")
	d.Close("style")
	for i, v := range values {
		top := y.Map(v)
		d.Open("rect", A("class", "bar"), F("x", lefts[i]), F("y", top), F("width", bw), F("height", l.Height-top))
		d.Title(FormatNumber(v))
		d.Close("rect")
	}
	closeSVG(&d)

	dr.SVG = d.Bytes()
	return dr, nil
}
