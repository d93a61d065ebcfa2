package render

import (
	"strconv"

	"chartfolio/domain/series"
	"chartfolio/internal/inspect"
	"chartfolio/internal/scale"

	"gonum.org/v1/gonum/stat"
)

// KindScatter names the scatter plot with trendline.
const KindScatter = "scatter"

// ScatterMargin is the fixed margin of the scatter plot.
var ScatterMargin = Margin{Top: 50, Right: 50, Bottom: 70, Left: 70}

// ScatterLayout is the fixed 800x500 plot area of the scatter widget.
func ScatterLayout() Layout {
	return FixedLayout(800, 500, ScatterMargin)
}

// Scatter draws X,Y points with a dashed least-squares trendline. Two points are required
// for a fit; when every X is equal the line is omitted instead of dividing by zero.
func Scatter(s series.Series[series.ScatterPoint], l Layout, th Theme) (*Drawing, error) {
	if err := s.RequireMin(KindScatter, 2); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	xs, ys := s.Xs(), s.Ys()
	x0, x1 := scale.ZeroToMax(scale.MaxOf(xs), scale.DefaultHeadroom)
	y0, y1 := scale.ZeroToMax(scale.MaxOf(ys), scale.DefaultHeadroom)
	x := scale.NewLinear(x0, x1, 0, l.Width)
	y := scale.NewLinear(y0, y1, l.Height, 0)

	dr := newDrawing(KindScatter, l)
	dr.X, dr.Y = x, y

	var d Doc
	openSVG(&d, KindScatter, l, th)
	d.Empty("rect", A("class", "background"), F("x", -l.Margin.Left), F("y", -l.Margin.Top),
		F("width", l.OuterWidth()), F("height", l.OuterHeight()), A("fill", th.Background))
	for i := range xs {
		m := inspect.Marker{X: x.Map(xs[i]), Y: y.Map(ys[i])}
		dr.Markers = append(dr.Markers, m)
		d.Empty("circle", A("class", "dot"), F("cx", m.X), F("cy", m.Y), F("r", 6), A("fill", th.Dot))
	}
	bottomAxis(&d, NumberTicks(x, 10, nil), l.Width, l.Height, th)
	leftAxis(&d, NumberTicks(y, 10, nil), l.Height, th)

	if fit, ok := fitTrend(xs, ys); ok {
		dr.Trend = &fit
		lo, hi := xs[0], xs[len(xs)-1]
		d.Empty("line", A("class", "trendline"),
			F("x1", x.Map(lo)), F("y1", y.Map(fit.At(lo))),
			F("x2", x.Map(hi)), F("y2", y.Map(fit.At(hi))),
			A("stroke", th.Trend), A("stroke-width", "2"), A("stroke-dasharray", "5,5"))
	}
	focusLayer(&d, l, th)
	closeSVG(&d)

	dr.SVG = d.Bytes()
	dr.Plot = &inspect.Plot{
		X: x, Y: y,
		Xs: xs, Ys: ys,
		Width: l.Width, Height: l.Height,
		Format: func(i int) inspect.Tooltip { return inspect.ScatterTooltip(s.At(i)) },
	}
	return dr, nil
}

// fitTrend is an ordinary least-squares fit; ok is false when X has no variance.
func fitTrend(xs, ys []float64) (Trendline, bool) {
	if len(xs) < 2 || stat.Variance(xs, nil) == 0 {
		return Trendline{}, false
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return Trendline{Slope: beta, Intercept: alpha}, true
}

// FormatFixed prints v with a fixed number of decimals.
func FormatFixed(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
