// Package scale maps data domains onto pixel ranges and back.
//
// Scales are plain values: every method that changes a scale returns a new one, so a
// render pass can hand its scales to the hover inspector without sharing mutable state.
package scale

import (
	"math"
)

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// Linear is a continuous linear mapping from Domain to Range.
type Linear struct {
	Domain [2]float64
	Range  [2]float64
	Clamp  bool
}

// NewLinear builds a linear scale. A zero-width domain is widened so mapping never divides by zero.
func NewLinear(d0, d1, r0, r1 float64) Linear {
	d0, d1 = nonDegenerate(d0, d1)
	return Linear{Domain: [2]float64{d0, d1}, Range: [2]float64{r0, r1}}
}

// WithClamp returns a copy whose Map and Invert results stay within range and domain.
func (s Linear) WithClamp(clamp bool) Linear {
	s.Clamp = clamp
	return s
}

// Map converts a domain value to a pixel coordinate.
func (s Linear) Map(v float64) float64 {
	d0, d1 := s.Domain[0], s.Domain[1]
	r0, r1 := s.Range[0], s.Range[1]
	t := (v - d0) / (d1 - d0)
	if s.Clamp {
		t = clamp01(t)
	}
	return r0 + t*(r1-r0)
}

// Invert converts a pixel coordinate back to a domain value.
func (s Linear) Invert(px float64) float64 {
	d0, d1 := s.Domain[0], s.Domain[1]
	r0, r1 := s.Range[0], s.Range[1]
	if r1 == r0 {
		return d0
	}
	t := (px - r0) / (r1 - r0)
	if s.Clamp {
		t = clamp01(t)
	}
	return d0 + t*(d1-d0)
}

// Nice extends the domain outward to round tick boundaries.
func (s Linear) Nice(count int) Linear {
	if count <= 0 {
		count = 10
	}
	d0, d1 := s.Domain[0], s.Domain[1]
	reversed := d1 < d0
	if reversed {
		d0, d1 = d1, d0
	}
	prev := 0.0
	for i := 0; i < 10; i++ {
		step := tickStep(d0, d1, count)
		if step == prev || step == 0 || math.IsInf(step, 0) || math.IsNaN(step) {
			break
		}
		d0 = math.Floor(d0/step) * step
		d1 = math.Ceil(d1/step) * step
		prev = step
	}
	if reversed {
		d0, d1 = d1, d0
	}
	s.Domain = [2]float64{d0, d1}
	return s
}

// Ticks returns roughly count evenly spaced round values covering the domain.
func (s Linear) Ticks(count int) []float64 {
	if count <= 0 {
		count = 10
	}
	lo, hi := s.Domain[0], s.Domain[1]
	if hi < lo {
		lo, hi = hi, lo
	}
	step := tickStep(lo, hi, count)
	if step == 0 || math.IsInf(step, 0) || math.IsNaN(step) {
		return []float64{lo}
	}
	start := math.Ceil(lo / step)
	stop := math.Floor(hi / step)
	ticks := make([]float64, 0, int(stop-start)+1)
	for i := start; i <= stop; i++ {
		ticks = append(ticks, roundTo(i*step, step))
	}
	return ticks
}

// tickStep follows the 1-2-5 ladder: the step is a power of ten times 1, 2, 5 or 10.
func tickStep(start, stop float64, count int) float64 {
	step0 := math.Abs(stop-start) / float64(count)
	if step0 == 0 {
		return 0
	}
	step1 := math.Pow(10, math.Floor(math.Log10(step0)))
	err := step0 / step1
	switch {
	case err >= e10:
		step1 *= 10
	case err >= e5:
		step1 *= 5
	case err >= e2:
		step1 *= 2
	}
	return step1
}

// roundTo strips floating point noise from i*step (0.30000000000000004 -> 0.3).
func roundTo(v, step float64) float64 {
	digits := math.Max(0, -math.Floor(math.Log10(step))) + 1
	p := math.Pow(10, digits)
	return math.Round(v*p) / p
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// nonDegenerate substitutes a minimal span for an empty domain.
func nonDegenerate(d0, d1 float64) (float64, float64) {
	if math.IsNaN(d0) || math.IsNaN(d1) || math.IsInf(d0, 0) || math.IsInf(d1, 0) {
		return 0, 1
	}
	if d0 != d1 {
		return d0, d1
	}
	if d0 == 0 {
		return 0, 1
	}
	return d0 - 0.5, d1 + 0.5
}
