package inspect

import (
	"math"
	"math/rand"
	"sort"
	"testing"
	"time"

	"chartfolio/domain/series"
	"chartfolio/internal/scale"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNearestBoundaries(t *testing.T) {
	xs := []float64{0, 10, 20, 30}

	assert.Equal(t, 0, Nearest(xs, -100))
	assert.Equal(t, 0, Nearest(xs, 0))
	assert.Equal(t, 3, Nearest(xs, 30))
	assert.Equal(t, 3, Nearest(xs, 1000))
	assert.Equal(t, 1, Nearest(xs, 11))
	assert.Equal(t, 2, Nearest(xs, 16))
	assert.Equal(t, -1, Nearest(nil, 5))
	assert.Equal(t, 0, Nearest([]float64{42}, -5))
}

func TestNearestTieResolvesToLater(t *testing.T) {
	xs := []float64{0, 10, 20, 30}
	assert.Equal(t, 1, Nearest(xs, 5))
	assert.Equal(t, 2, Nearest(xs, 15))
	assert.Equal(t, 3, Nearest(xs, 25))
}

func TestNearestMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		n := 2 + rng.Intn(50)
		xs := make([]float64, n)
		for i := range xs {
			xs[i] = rng.Float64() * 1000
		}
		sort.Float64s(xs)

		x0 := rng.Float64()*1200 - 100
		got := Nearest(xs, x0)

		best := 0
		for i := range xs {
			d, bd := abs(xs[i]-x0), abs(xs[best]-x0)
			if d < bd || (d == bd && i > best) {
				best = i
			}
		}
		require.InDelta(t, abs(xs[best]-x0), abs(xs[got]-x0), 1e-12, "xs=%v x0=%v", xs, x0)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func survivalPlot() (Plot, []series.SurvivalSample) {
	samples := []series.SurvivalSample{
		{Time: 0, SurvivalProb: 1, LowerCI: 1, UpperCI: 1},
		{Time: 10, SurvivalProb: 0.8, LowerCI: 0.7, UpperCI: 0.9},
		{Time: 20, SurvivalProb: 0.6, LowerCI: 0.5, UpperCI: 0.7},
	}
	s := series.NewSeries(samples)
	p := Plot{
		X:      scale.NewLinear(0, 20, 0, 400),
		Y:      scale.NewLinear(0, 1, 300, 0),
		Xs:     s.Xs(),
		Ys:     s.Ys(),
		Width:  400,
		Height: 300,
		Format: func(i int) Tooltip { return SurvivalTooltip(s.At(i)) },
	}
	return p, samples
}

func TestInspectorEndpoints(t *testing.T) {
	p, _ := survivalPlot()
	in := NewInspector(p)

	first := in.OnPointerMove(0, 100)
	assert.Equal(t, series.FocusState{Index: 0, Visible: true}, first.Focus)

	last := in.OnPointerMove(p.Width, 100)
	assert.Equal(t, 2, last.Focus.Index)
	require.NotNil(t, last.Marker)
	assert.Equal(t, 400.0, last.Marker.X)
	assert.InDelta(t, 120, last.Marker.Y, 1e-9)
}

func TestInspectorWithinExtent(t *testing.T) {
	p, _ := survivalPlot()
	in := NewInspector(p)
	for px := 0.0; px <= p.Width; px += 3.7 {
		res := in.OnPointerMove(px, 10)
		require.True(t, res.Focus.Visible)
		x := p.Xs[res.Focus.Index]
		assert.True(t, x >= p.Xs[0] && x <= p.Xs[len(p.Xs)-1])
	}
}

func TestInspectorTooltipAndLeave(t *testing.T) {
	p, _ := survivalPlot()
	in := NewInspector(p)

	res := in.OnPointerMove(190, 50)
	require.NotNil(t, res.Tooltip)
	assert.Equal(t, "Time: 10 days\nSurvival Rate: 80.0%\n95% CI: [70.0%, 90.0%]", res.Tooltip.String())

	assert.Equal(t, Hidden(), in.OnPointerLeave())
	assert.Equal(t, Hidden(), in.OnPointerMove(-1, 50))
	assert.Equal(t, Hidden(), in.OnPointerMove(100, 301))
}

func TestInspectorIgnoresNaNPointer(t *testing.T) {
	p, _ := survivalPlot()
	in := NewInspector(p)

	for _, pt := range [][2]float64{{math.NaN(), 10}, {10, math.NaN()}, {math.NaN(), math.NaN()}} {
		res := in.OnPointerMove(pt[0], pt[1])
		if res.Focus.Visible || res.Marker != nil || res.Tooltip != nil {
			t.Errorf("OnPointerMove(%v, %v) = %+v, want hidden", pt[0], pt[1], res)
		}
	}
	if i := Nearest([]float64{1, 2, 3}, math.NaN()); i != -1 {
		t.Errorf("Nearest(NaN) = %d, want -1", i)
	}
}

func TestAnomalyTooltipFormatting(t *testing.T) {
	s := series.AnomalySample{
		Timestamp:    time.Date(2025, 1, 1, 0, 5, 0, 0, time.UTC),
		Latency:      900,
		RequestCount: 1200,
		ErrorRate:    0.0456,
		IsAnomaly:    true,
	}
	tt := AnomalyTooltip(s)
	assert.Equal(t, "Time: 00:05:00\nLatency: 900.0ms\nRequests: 1200\nError Rate: 4.56%\nStatus: Anomaly", tt.String())
	assert.True(t, tt.Lines[4].Alert)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "12.35%", Percent(0.123456, 2))
	assert.Equal(t, "100.0%", Percent(1, 1))
	assert.Equal(t, "1.5 days", Days(1.5))
}
