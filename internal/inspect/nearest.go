// Package inspect implements nearest-sample lookup for pointer hover over a chart.
package inspect

import (
	"math"
	"sort"
)

// Nearest returns the index of the sample in xs (ascending) closest to x0.
//
// The bracketing pair is found by bisection starting at index 1. When x0 is equidistant
// from both neighbours the later sample wins. Values outside [xs[0], xs[n-1]] clamp to the
// first or last sample. An empty slice or a NaN x0 yields -1.
func Nearest(xs []float64, x0 float64) int {
	n := len(xs)
	switch {
	case n == 0 || math.IsNaN(x0):
		return -1
	case n == 1:
		return 0
	}
	i := bisectLeft(xs, x0, 1)
	if i >= n {
		return n - 1
	}
	prev, next := xs[i-1], xs[i]
	if x0-prev >= next-x0 {
		return i
	}
	return i - 1
}

// bisectLeft returns the first index in [lo, len(xs)) whose value is >= x.
func bisectLeft(xs []float64, x float64, lo int) int {
	return lo + sort.Search(len(xs)-lo, func(k int) bool { return xs[lo+k] >= x })
}
