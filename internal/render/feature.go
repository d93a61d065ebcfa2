package render

import (
	"math"
	"strings"

	"chartfolio/domain/series"
	"chartfolio/internal/scale"

	"gonum.org/v1/gonum/stat/distuv"
)

// KindFeatures names the feature distribution chart.
const KindFeatures = "features"

// densityPoints is the resolution of the gaussian curve drawn over the box plot.
const densityPoints = 100

// FeatureTitle turns a feature key into its display title (request_size -> REQUEST SIZE).
func FeatureTitle(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "_", " "))
}

// Feature draws a box plot of one feature's summary with a mirrored normal density curve.
func Feature(name string, st series.FeatureStats, l Layout, th Theme) (*Drawing, error) {
	if err := st.Validate(); err != nil {
		return nil, err
	}

	x := scale.NewLinear(st.Min, st.Max, 0, l.Width).Nice(10)
	dr := newDrawing(KindFeatures, l)
	dr.X = x

	boxHeight := l.Height * 0.3
	yOffset := l.Height / 2
	xTicks := NumberTicks(x, 10, nil)

	var d Doc
	openSVG(&d, KindFeatures, l, th)
	d.Open("g", A("transform", translate(0, l.Height)))
	verticalGrid(&d, xTicks, -l.Height, th)
	d.Close("g")

	d.Empty("rect", A("class", "box"), F("x", x.Map(st.Q25)), F("y", yOffset-boxHeight/2),
		F("width", x.Map(st.Q75)-x.Map(st.Q25)), F("height", boxHeight), A("fill", th.Line), A("opacity", "0.7"))
	vline := func(class string, v, half float64, width string) {
		d.Empty("line", A("class", class), F("x1", x.Map(v)), F("x2", x.Map(v)),
			F("y1", yOffset-half), F("y2", yOffset+half), A("stroke", th.Text), A("stroke-width", width))
	}
	hline := func(from, to float64) {
		d.Empty("line", A("class", "whisker"), F("x1", x.Map(from)), F("x2", x.Map(to)),
			F("y1", yOffset), F("y2", yOffset), A("stroke", th.Text), A("stroke-width", "1"))
	}
	vline("mean", st.Mean, boxHeight/2, "2")
	hline(st.Min, st.Q25)
	hline(st.Q75, st.Max)
	vline("cap", st.Min, boxHeight/4, "1")
	vline("cap", st.Max, boxHeight/4, "1")

	curve := densityCurve(st)
	maxDensity := 0.0
	for _, c := range curve {
		maxDensity = math.Max(maxDensity, c.Y)
	}
	dy := scale.NewLinear(0, maxDensity, boxHeight/2, 0)
	above := make([]XY, len(curve))
	below := make([]XY, len(curve))
	for i, c := range curve {
		px := x.Map(c.X)
		above[i] = XY{X: px, Y: yOffset - dy.Map(c.Y)}
		below[i] = XY{X: px, Y: yOffset + dy.Map(c.Y)}
	}
	for _, pts := range [][]XY{above, below} {
		d.Empty("path", A("class", "density"), A("fill", "none"), A("stroke", th.Curve), A("stroke-width", "2"), A("d", BasisPath(pts)))
	}

	bottomAxis(&d, xTicks, l.Width, l.Height, th)
	title := FeatureTitle(name)
	labels(&d, l, th, title, "Value", "")
	for i, line := range []string{
		"Mean: " + fixed2(st.Mean),
		"Std Dev: " + fixed2(st.Std),
		"Range: [" + fixed2(st.Min) + ", " + fixed2(st.Max) + "]",
	} {
		d.Text(line, A("class", "stat-text"), F("x", l.Width-20), F("y", float64(20+i*20)),
			A("text-anchor", "end"), A("fill", th.Text), A("font-size", "12px"))
	}
	closeSVG(&d)

	dr.SVG = d.Bytes()
	return dr, nil
}

// densityCurve samples the normal density N(mean, std) across [min, max].
// A zero std is replaced by a hundredth of the range so the curve stays finite.
func densityCurve(st series.FeatureStats) []XY {
	sigma := st.Std
	if !(sigma > 0) {
		sigma = math.Max((st.Max-st.Min)/100, 1e-9)
	}
	dist := distuv.Normal{Mu: st.Mean, Sigma: sigma}
	pts := make([]XY, densityPoints)
	for i := range pts {
		xv := st.Min + float64(i)/float64(densityPoints-1)*(st.Max-st.Min)
		pts[i] = XY{X: xv, Y: dist.Prob(xv)}
	}
	return pts
}

func fixed2(v float64) string {
	return FormatFixed(v, 2)
}
