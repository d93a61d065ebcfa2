package render

import (
	"strconv"

	"chartfolio/internal/scale"
)

const tickSize = 6

// Tick is one labelled position along an axis, in pixels.
type Tick struct {
	Pos   float64
	Label string
}

// NumberTicks maps the scale's round ticks through format.
func NumberTicks(s scale.Linear, count int, format func(float64) string) []Tick {
	if format == nil {
		format = FormatNumber
	}
	values := s.Ticks(count)
	ticks := make([]Tick, len(values))
	for i, v := range values {
		ticks[i] = Tick{Pos: s.Map(v), Label: format(v)}
	}
	return ticks
}

// TimeTicks maps the time scale's aligned instants through the interval's layout.
func TimeTicks(s scale.Time, count int) []Tick {
	instants, interval := s.TimeTicks(count)
	layout := scale.TickLayout(interval)
	ticks := make([]Tick, len(instants))
	for i, t := range instants {
		ticks[i] = Tick{Pos: s.MapTime(t), Label: t.Format(layout)}
	}
	return ticks
}

// FormatNumber prints a tick value without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatPercent0 prints a fraction as a whole percentage (0.4 -> 40%).
func FormatPercent0(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 0, 64) + "%"
}

// bottomAxis draws a horizontal axis at y = height.
func bottomAxis(d *Doc, ticks []Tick, width, height float64, th Theme) {
	d.Open("g", A("class", "x-axis"), A("transform", translate(0, height)), A("fill", "none"), A("font-size", "10"), A("text-anchor", "middle"))
	d.Empty("path", A("class", "domain"), A("stroke", th.Axis), A("d", "M0,"+num(tickSize)+"V0H"+num(width)+"V"+num(tickSize)))
	for _, t := range ticks {
		d.Open("g", A("class", "tick"), A("transform", translate(t.Pos, 0)))
		d.Empty("line", A("stroke", th.Axis), F("y2", tickSize))
		d.Text(t.Label, A("fill", th.Text), F("y", 9), A("dy", "0.71em"))
		d.Close("g")
	}
	d.Close("g")
}

// leftAxis draws a vertical axis at x = 0.
func leftAxis(d *Doc, ticks []Tick, height float64, th Theme) {
	d.Open("g", A("class", "y-axis"), A("fill", "none"), A("font-size", "10"), A("text-anchor", "end"))
	d.Empty("path", A("class", "domain"), A("stroke", th.Axis), A("d", "M-"+num(tickSize)+","+num(height)+"H0V0H-"+num(tickSize)))
	for _, t := range ticks {
		d.Open("g", A("class", "tick"), A("transform", translate(0, t.Pos)))
		d.Empty("line", A("stroke", th.Axis), F("x2", -tickSize))
		d.Text(t.Label, A("fill", th.Text), F("x", -9), A("dy", "0.32em"))
		d.Close("g")
	}
	d.Close("g")
}

// horizontalGrid draws faint lines across the plot at each y tick.
func horizontalGrid(d *Doc, ticks []Tick, width float64, th Theme) {
	d.Open("g", A("class", "grid"), A("opacity", "0.1"))
	for _, t := range ticks {
		d.Empty("line", A("stroke", th.Axis), F("x1", 0), F("x2", width), F("y1", t.Pos), F("y2", t.Pos))
	}
	d.Close("g")
}

// verticalGrid draws faint lines down the plot at each x tick.
func verticalGrid(d *Doc, ticks []Tick, height float64, th Theme) {
	d.Open("g", A("class", "grid"), A("opacity", "0.1"))
	for _, t := range ticks {
		d.Empty("line", A("stroke", th.Axis), F("x1", t.Pos), F("x2", t.Pos), F("y1", 0), F("y2", height))
	}
	d.Close("g")
}

// labels draws the title above the plot and the axis captions.
func labels(d *Doc, l Layout, th Theme, title, xLabel, yLabel string) {
	if title != "" {
		d.Text(title, A("class", "title"), F("x", l.Width/2), F("y", -l.Margin.Top/2),
			A("text-anchor", "middle"), A("font-size", "16px"), A("font-weight", "bold"), A("fill", th.Text))
	}
	if xLabel != "" {
		d.Text(xLabel, A("class", "x-label"), F("x", l.Width/2), F("y", l.Height+l.Margin.Bottom-10),
			A("text-anchor", "middle"), A("fill", th.Text))
	}
	if yLabel != "" {
		d.Text(yLabel, A("class", "y-label"), A("transform", "rotate(-90)"), F("x", -l.Height/2), F("y", -l.Margin.Left+20),
			A("text-anchor", "middle"), A("fill", th.Text))
	}
}
