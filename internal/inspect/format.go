package inspect

import (
	"fmt"
	"strconv"
	"strings"

	"chartfolio/domain/series"
)

// Line is one "Label: value" row of the tooltip overlay.
type Line struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Alert bool   `json:"alert,omitempty"`
}

// Tooltip is the text overlay shown next to the focus marker.
type Tooltip struct {
	Lines []Line `json:"lines"`
}

// String renders the tooltip as plain text, one line per row.
func (t Tooltip) String() string {
	var b strings.Builder
	for i, l := range t.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.Label)
		b.WriteString(": ")
		b.WriteString(l.Value)
	}
	return b.String()
}

// Percent formats a fraction in [0,1] as a percentage with the given decimals, e.g. 12.34%.
func Percent(v float64, decimals int) string {
	return strconv.FormatFloat(v*100, 'f', decimals, 64) + "%"
}

// Millis formats a latency in milliseconds with one decimal.
func Millis(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "ms"
}

// Days formats a duration measured in days.
func Days(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " days"
}

// AnomalyTooltip formats an API metrics sample.
func AnomalyTooltip(s series.AnomalySample) Tooltip {
	status := Line{Label: "Status", Value: "Normal"}
	if s.IsAnomaly {
		status = Line{Label: "Status", Value: "Anomaly", Alert: true}
	}
	return Tooltip{Lines: []Line{
		{Label: "Time", Value: s.Timestamp.Format("15:04:05")},
		{Label: "Latency", Value: Millis(s.Latency)},
		{Label: "Requests", Value: strconv.Itoa(s.RequestCount)},
		{Label: "Error Rate", Value: Percent(s.ErrorRate, 2)},
		status,
	}}
}

// SurvivalTooltip formats a survival curve sample.
func SurvivalTooltip(s series.SurvivalSample) Tooltip {
	return Tooltip{Lines: []Line{
		{Label: "Time", Value: Days(s.Time)},
		{Label: "Survival Rate", Value: Percent(s.SurvivalProb, 1)},
		{Label: "95% CI", Value: fmt.Sprintf("[%s, %s]", Percent(s.LowerCI, 1), Percent(s.UpperCI, 1))},
	}}
}

// ScatterTooltip formats a scatter point.
func ScatterTooltip(p series.ScatterPoint) Tooltip {
	return Tooltip{Lines: []Line{
		{Label: "X", Value: strconv.FormatFloat(p.X, 'f', 2, 64)},
		{Label: "Y", Value: strconv.FormatFloat(p.Y, 'f', 2, 64)},
	}}
}
