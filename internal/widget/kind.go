// Package widget wires the loader, scales and renderer into per-chart pipelines.
package widget

import (
	"fmt"

	"chartfolio/domain/core"
	"chartfolio/internal/render"
)

// Kind identifies one of the chart widgets.
type Kind string

const (
	Anomaly  Kind = render.KindAnomaly
	Features Kind = render.KindFeatures
	Survival Kind = render.KindSurvival
	Scatter  Kind = render.KindScatter
)

// AllKinds lists the widgets in page order.
var AllKinds = []Kind{Anomaly, Features, Survival, Scatter}

type kindInfo struct {
	container  string
	document   string
	minSamples int
	responsive bool
}

var kinds = map[Kind]kindInfo{
	Anomaly:  {container: "anomaly-viz", document: "anomaly.json", minSamples: 1, responsive: true},
	Features: {container: "feature-viz", document: "features.json", minSamples: 1, responsive: true},
	Survival: {container: "survival-curve", document: "survival.json", minSamples: 1, responsive: true},
	Scatter:  {container: "chart", document: "example.csv", minSamples: 2},
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := kinds[k]; !ok {
		return "", fmt.Errorf("%w: %q", core.ErrUnknownChart, s)
	}
	return k, nil
}

func (k Kind) String() string { return string(k) }

// ContainerID is the element id the chart draws into.
func (k Kind) ContainerID() string { return kinds[k].container }

// Document is the data file name under the data prefix.
func (k Kind) Document() string { return kinds[k].document }

// MinSamples is the smallest series the chart can draw.
func (k Kind) MinSamples() int { return kinds[k].minSamples }

// Responsive reports whether the chart follows its container width.
func (k Kind) Responsive() bool { return kinds[k].responsive }
