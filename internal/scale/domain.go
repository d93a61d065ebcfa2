package scale

import (
	"math"
)

// DefaultHeadroom pads the upper bound of a magnitude axis by 10%.
const DefaultHeadroom = 1.1

// Extent returns [min, max] of values, widened when degenerate. Empty input yields [0, 1].
func Extent(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 1
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	return nonDegenerate(lo, hi)
}

// ZeroToMax returns [0, max*headroom]. A non-positive max yields [0, 1].
func ZeroToMax(max, headroom float64) (float64, float64) {
	if headroom <= 0 {
		headroom = 1
	}
	upper := max * headroom
	if !(upper > 0) || math.IsInf(upper, 0) {
		return 0, 1
	}
	return 0, upper
}

// ZeroToMaxNoPad returns [0, max] for charts whose tallest mark touches the top edge.
func ZeroToMaxNoPad(max float64) (float64, float64) {
	return ZeroToMax(max, 1)
}

// Probability is the fixed [0, 1] domain used for probability axes regardless of data.
func Probability() (float64, float64) {
	return 0, 1
}

// MaxOf returns the largest value, or 0 when values is empty.
func MaxOf(values []float64) float64 {
	max := 0.0
	for i, v := range values {
		if i == 0 || v > max {
			max = v
		}
	}
	return max
}
