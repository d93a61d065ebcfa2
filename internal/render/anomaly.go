package render

import (
	"chartfolio/domain/series"
	"chartfolio/internal/inspect"
	"chartfolio/internal/scale"
)

// KindAnomaly names the API latency chart.
const KindAnomaly = "anomaly"

// Anomaly draws API latency over time with anomalous samples marked.
// The y domain is [0, max latency * 1.1].
func Anomaly(s series.Series[series.AnomalySample], l Layout, th Theme) (*Drawing, error) {
	if err := s.RequireMin(KindAnomaly, 1); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	first, last := s.At(0).Timestamp, s.At(s.Len()-1).Timestamp
	x := scale.NewTime(first, last, 0, l.Width)
	y0, y1 := scale.ZeroToMax(s.MaxY(), scale.DefaultHeadroom)
	y := scale.NewLinear(y0, y1, l.Height, 0)

	dr := newDrawing(KindAnomaly, l)
	dr.X, dr.Y = x.Linear, y

	yTicks := NumberTicks(y, 10, nil)
	pts := make([]XY, s.Len())
	for i := range pts {
		a := s.At(i)
		pts[i] = XY{X: x.MapTime(a.Timestamp), Y: y.Map(a.Latency)}
	}

	var d Doc
	openSVG(&d, KindAnomaly, l, th)
	horizontalGrid(&d, yTicks, l.Width, th)
	d.Empty("path", A("class", "line"), A("fill", "none"), A("stroke", th.Line), A("stroke-width", "2"), A("d", LinePath(pts)))

	anomalies, idx := s.Filter(func(a series.AnomalySample) bool { return a.IsAnomaly })
	for k := range anomalies {
		m := inspect.Marker{X: pts[idx[k]].X, Y: pts[idx[k]].Y}
		dr.Markers = append(dr.Markers, m)
		d.Empty("circle", A("class", "anomaly"), F("cx", m.X), F("cy", m.Y), F("r", 5), A("fill", th.Marker), A("opacity", "0.7"))
	}

	focusLayer(&d, l, th)
	bottomAxis(&d, TimeTicks(x, 6), l.Width, l.Height, th)
	leftAxis(&d, yTicks, l.Height, th)
	labels(&d, l, th, "API Latency with Detected Anomalies", "Time", "Latency (ms)")
	anomalyLegend(&d, l, th)
	closeSVG(&d)

	dr.SVG = d.Bytes()
	dr.Plot = &inspect.Plot{
		X: x.Linear, Y: y,
		Xs: s.Xs(), Ys: s.Ys(),
		Width: l.Width, Height: l.Height,
		Format: func(i int) inspect.Tooltip { return inspect.AnomalyTooltip(s.At(i)) },
	}
	return dr, nil
}

func anomalyLegend(d *Doc, l Layout, th Theme) {
	d.Open("g", A("class", "legend"), A("transform", translate(l.Width-100, 0)))
	d.Empty("line", F("x1", 0), F("x2", 20), F("y1", 0), F("y2", 0), A("stroke", th.Line), A("stroke-width", "2"))
	d.Text("Normal", F("x", 25), F("y", 0), A("dy", "0.32em"), A("fill", th.Text))
	d.Empty("circle", F("cx", 10), F("cy", 20), F("r", 5), A("fill", th.Marker), A("opacity", "0.7"))
	d.Text("Anomaly", F("x", 25), F("y", 20), A("dy", "0.32em"), A("fill", th.Text))
	d.Close("g")
}
