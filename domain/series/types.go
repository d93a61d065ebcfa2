// Package series holds the sample types and ordered series that back every chart.
package series

import (
	"math"
	"sort"
	"time"

	"chartfolio/domain/core"
)

// Point is a single observation that can be placed on an x/y plane.
type Point interface {
	XValue() float64
	YValue() float64
}

// AnomalySample is one API metrics observation.
type AnomalySample struct {
	Timestamp    time.Time `json:"timestamp"`
	Latency      float64   `json:"latency"`
	RequestCount int       `json:"request_count"`
	ErrorRate    float64   `json:"error_rate"`
	IsAnomaly    bool      `json:"isAnomaly"`
}

// XValue returns the timestamp as Unix nanoseconds so time axes share the linear math.
func (s AnomalySample) XValue() float64 { return float64(s.Timestamp.UnixNano()) }
func (s AnomalySample) YValue() float64 { return s.Latency }

// SurvivalSample is one point of a Kaplan-Meier style survival curve.
type SurvivalSample struct {
	Time         float64 `json:"time"`
	SurvivalProb float64 `json:"survival_prob"`
	LowerCI      float64 `json:"lower_ci"`
	UpperCI      float64 `json:"upper_ci"`
}

func (s SurvivalSample) XValue() float64 { return s.Time }
func (s SurvivalSample) YValue() float64 { return s.SurvivalProb }

// Validate checks the confidence band invariant lower <= prob <= upper and the value ranges.
func (s SurvivalSample) Validate() error {
	switch {
	case math.IsNaN(s.Time) || s.Time < 0:
		return errReason("time must be >= 0")
	case s.SurvivalProb < 0 || s.SurvivalProb > 1:
		return errReason("survival_prob outside [0,1]")
	case s.LowerCI > s.SurvivalProb:
		return errReason("lower_ci above survival_prob")
	case s.SurvivalProb > s.UpperCI:
		return errReason("upper_ci below survival_prob")
	}
	return nil
}

// Validate checks anomaly sample ranges.
func (s AnomalySample) Validate() error {
	switch {
	case s.Timestamp.IsZero():
		return errReason("missing timestamp")
	case s.Latency < 0:
		return errReason("negative latency")
	case s.ErrorRate < 0 || s.ErrorRate > 1:
		return errReason("error_rate outside [0,1]")
	case s.RequestCount < 0:
		return errReason("negative request_count")
	}
	return nil
}

// ScatterPoint is one row of the X,Y scatter document.
type ScatterPoint struct {
	X float64 `json:"X"`
	Y float64 `json:"Y"`
}

func (p ScatterPoint) XValue() float64 { return p.X }
func (p ScatterPoint) YValue() float64 { return p.Y }

// FeatureStats summarizes one feature's distribution.
type FeatureStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Q25  float64 `json:"q25"`
	Q75  float64 `json:"q75"`
}

// Validate checks that the summary is internally ordered.
func (f FeatureStats) Validate() error {
	switch {
	case f.Min > f.Max:
		return errReason("min above max")
	case f.Q25 > f.Q75:
		return errReason("q25 above q75")
	case f.Q25 < f.Min || f.Q75 > f.Max:
		return errReason("quartiles outside [min,max]")
	case f.Std < 0:
		return errReason("negative std")
	}
	return nil
}

// Feature pairs a feature name with its summary.
type Feature struct {
	Name  string
	Stats FeatureStats
}

// Features is an ordered set of feature summaries; order follows the source document.
type Features []Feature

// Names returns feature names in document order.
func (fs Features) Names() []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return names
}

// Lookup finds a feature by name.
func (fs Features) Lookup(name string) (FeatureStats, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f.Stats, true
		}
	}
	return FeatureStats{}, false
}

// FocusState is the sample currently highlighted by the hover inspector.
type FocusState struct {
	Index   int  `json:"index"`
	Visible bool `json:"visible"`
}

// NoFocus is the state after pointer-leave or before any pointer movement.
func NoFocus() FocusState { return FocusState{Index: -1} }

// Valid reports whether the focus refers to an index inside a series of length n.
func (f FocusState) Valid(n int) bool {
	if !f.Visible {
		return f.Index == -1
	}
	return f.Index >= 0 && f.Index < n
}

type reasonError string

func (e reasonError) Error() string { return string(e) }

func errReason(s string) error { return reasonError(s) }

// Series is an x-ordered sequence of samples. Hover lookup relies on the ordering.
type Series[T Point] struct {
	samples []T
}

// NewSeries copies and stably sorts samples by x ascending.
func NewSeries[T Point](samples []T) Series[T] {
	out := make([]T, len(samples))
	copy(out, samples)
	sort.SliceStable(out, func(i, j int) bool { return out[i].XValue() < out[j].XValue() })
	return Series[T]{samples: out}
}

// FromOrdered wraps samples that the caller claims are already x-ordered.
// Validate reports ErrUnsortedSeries if the claim is false.
func FromOrdered[T Point](samples []T) Series[T] {
	out := make([]T, len(samples))
	copy(out, samples)
	return Series[T]{samples: out}
}

// Len returns the number of samples.
func (s Series[T]) Len() int { return len(s.samples) }

// At returns the i-th sample.
func (s Series[T]) At(i int) T { return s.samples[i] }

// Samples returns a copy of the underlying slice.
func (s Series[T]) Samples() []T {
	out := make([]T, len(s.samples))
	copy(out, s.samples)
	return out
}

// Xs returns the x coordinates in series order.
func (s Series[T]) Xs() []float64 {
	xs := make([]float64, len(s.samples))
	for i, p := range s.samples {
		xs[i] = p.XValue()
	}
	return xs
}

// Ys returns the y coordinates in series order.
func (s Series[T]) Ys() []float64 {
	ys := make([]float64, len(s.samples))
	for i, p := range s.samples {
		ys[i] = p.YValue()
	}
	return ys
}

// Extent returns min and max x. ok is false for an empty series.
func (s Series[T]) Extent() (lo, hi float64, ok bool) {
	if len(s.samples) == 0 {
		return 0, 0, false
	}
	return s.samples[0].XValue(), s.samples[len(s.samples)-1].XValue(), true
}

// MaxY returns the largest y value, or 0 for an empty series.
func (s Series[T]) MaxY() float64 {
	max := math.Inf(-1)
	for _, p := range s.samples {
		if y := p.YValue(); y > max {
			max = y
		}
	}
	if math.IsInf(max, -1) {
		return 0
	}
	return max
}

// Filter returns the samples matching keep along with their series indexes.
func (s Series[T]) Filter(keep func(T) bool) ([]T, []int) {
	var out []T
	var idx []int
	for i, p := range s.samples {
		if keep(p) {
			out = append(out, p)
			idx = append(idx, i)
		}
	}
	return out, idx
}

// Validate checks x ordering and any per-sample validation the sample type provides.
func (s Series[T]) Validate() error {
	for i, p := range s.samples {
		x := p.XValue()
		if math.IsNaN(x) || math.IsNaN(p.YValue()) {
			return core.NewSampleError(i, "NaN coordinate")
		}
		if i > 0 && x < s.samples[i-1].XValue() {
			return core.ErrUnsortedSeries
		}
		if v, ok := any(p).(interface{ Validate() error }); ok {
			if err := v.Validate(); err != nil {
				return core.NewSampleError(i, err.Error())
			}
		}
	}
	return nil
}

// RequireMin reports a degenerate-data error when the series is shorter than min.
func (s Series[T]) RequireMin(chart string, min int) error {
	if len(s.samples) < min {
		return core.NewDegenerateError(chart, len(s.samples), min)
	}
	return nil
}
