package render

import (
	"chartfolio/domain/series"
	"chartfolio/internal/inspect"
	"chartfolio/internal/scale"
)

// KindSurvival names the survival curve chart.
const KindSurvival = "survival"

// Survival draws the survival probability with its 95% confidence band. Samples that
// violate lower_ci <= survival_prob <= upper_ci are rejected rather than drawn.
func Survival(s series.Series[series.SurvivalSample], l Layout, th Theme) (*Drawing, error) {
	if err := s.RequireMin(KindSurvival, 1); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	x := scale.NewLinear(0, s.At(s.Len()-1).Time, 0, l.Width).Nice(10)
	p0, p1 := scale.Probability()
	y := scale.NewLinear(p0, p1, l.Height, 0).Nice(10)

	dr := newDrawing(KindSurvival, l)
	dr.X, dr.Y = x, y

	line := make([]XY, s.Len())
	upper := make([]XY, s.Len())
	lower := make([]XY, s.Len())
	for i := range line {
		p := s.At(i)
		px := x.Map(p.Time)
		line[i] = XY{X: px, Y: y.Map(p.SurvivalProb)}
		upper[i] = XY{X: px, Y: y.Map(p.UpperCI)}
		lower[i] = XY{X: px, Y: y.Map(p.LowerCI)}
	}
	yTicks := NumberTicks(y, 10, FormatPercent0)

	var d Doc
	openSVG(&d, KindSurvival, l, th)
	d.Empty("path", A("class", "confidence-interval"), A("fill", th.Band), A("opacity", "0.5"), A("d", AreaPath(upper, lower)))
	d.Empty("path", A("class", "survival-line"), A("fill", "none"), A("stroke", th.Line), A("stroke-width", "2"), A("d", LinePath(line)))
	horizontalGrid(&d, yTicks, l.Width, th)
	focusLayer(&d, l, th)
	bottomAxis(&d, NumberTicks(x, 10, func(v float64) string { return FormatNumber(v) + " days" }), l.Width, l.Height, th)
	leftAxis(&d, yTicks, l.Height, th)
	labels(&d, l, th, "Customer Survival Analysis", "Time Since Customer Sign-up (Days)", "Survival Probability")
	closeSVG(&d)

	dr.SVG = d.Bytes()
	dr.Plot = &inspect.Plot{
		X: x, Y: y,
		Xs: s.Xs(), Ys: s.Ys(),
		Width: l.Width, Height: l.Height,
		Format: func(i int) inspect.Tooltip { return inspect.SurvivalTooltip(s.At(i)) },
	}
	return dr, nil
}
