package scale

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLinearRoundTrip(t *testing.T) {
	s := NewLinear(0, 990, 330, 0)

	for _, v := range []float64{0, 1, 12.5, 100, 495, 899.99, 990} {
		got := s.Invert(s.Map(v))
		assert.InDelta(t, v, got, 1e-9*math.Max(1, math.Abs(v)), "round trip of %v", v)
	}
	assert.Equal(t, 330.0, s.Map(0))
	assert.Equal(t, 0.0, s.Map(990))
}

func TestLinearDegenerateDomain(t *testing.T) {
	cases := []struct {
		d0, d1 float64
	}{
		{5, 5},
		{0, 0},
		{math.NaN(), 1},
		{-3, -3},
	}
	for _, c := range cases {
		s := NewLinear(c.d0, c.d1, 0, 100)
		px := s.Map(c.d1)
		assert.False(t, math.IsNaN(px) || math.IsInf(px, 0), "domain [%v,%v] mapped to %v", c.d0, c.d1, px)
		assert.NotEqual(t, s.Domain[0], s.Domain[1])
	}

	lo, hi := Extent([]float64{7})
	assert.Less(t, lo, hi)
	lo, hi = Extent(nil)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
}

func TestZeroToMaxHeadroom(t *testing.T) {
	lo, hi := ZeroToMax(900, DefaultHeadroom)
	assert.Equal(t, 0.0, lo)
	assert.InDelta(t, 990, hi, 1e-9)

	_, hi = ZeroToMax(0, DefaultHeadroom)
	assert.Equal(t, 1.0, hi)

	lo, hi = Probability()
	assert.Equal(t, [2]float64{0, 1}, [2]float64{lo, hi})
}

func TestZeroToMaxNoPad(t *testing.T) {
	if lo, hi := ZeroToMaxNoPad(80); lo != 0 || hi != 80 {
		t.Errorf("ZeroToMaxNoPad(80) = [%v, %v], want [0, 80]", lo, hi)
	}
	if _, hi := ZeroToMaxNoPad(-3); hi != 1 {
		t.Errorf("ZeroToMaxNoPad(-3) upper = %v, want 1", hi)
	}
}

func TestLinearClamp(t *testing.T) {
	s := NewLinear(0, 10, 0, 100).WithClamp(true)
	assert.Equal(t, 100.0, s.Map(20))
	assert.Equal(t, 0.0, s.Invert(-50))

	unclamped := NewLinear(0, 10, 0, 100)
	assert.Equal(t, 200.0, unclamped.Map(20))
}

func TestLinearNiceAndTicks(t *testing.T) {
	s := NewLinear(0, 97.3, 0, 500).Nice(10)
	assert.Equal(t, [2]float64{0, 100}, s.Domain)
	assert.Equal(t, []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, s.Ticks(10))

	p := NewLinear(0, 1, 0, 100)
	assert.Equal(t, []float64{0, 0.2, 0.4, 0.6, 0.8, 1}, p.Ticks(5))

	odd := NewLinear(0.13, 0.87, 0, 100).Nice(10)
	assert.InDelta(t, 0.1, odd.Domain[0], 1e-12)
	assert.InDelta(t, 0.9, odd.Domain[1], 1e-12)
}

func TestLinearNiceDoesNotMutate(t *testing.T) {
	s := NewLinear(0, 97.3, 0, 500)
	_ = s.Nice(10)
	assert.Equal(t, 97.3, s.Domain[1])
}

func TestTimeScale(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(5 * time.Minute)
	s := NewTime(t0, t1, 0, 600)

	assert.Equal(t, 0.0, s.MapTime(t0))
	assert.Equal(t, 600.0, s.MapTime(t1))

	mid := s.InvertTime(300)
	assert.WithinDuration(t, t0.Add(150*time.Second), mid, time.Microsecond)

	ticks, interval := s.TimeTicks(6)
	assert.Equal(t, time.Minute, interval)
	assert.Len(t, ticks, 6)
	assert.Equal(t, "15:04", TickLayout(interval))
}

func TestTimeScaleSingleInstant(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewTime(t0, t0, 0, 600)
	assert.InDelta(t, 300, s.MapTime(t0), 1e-6)
}

func TestMaxOf(t *testing.T) {
	assert.Equal(t, 0.0, MaxOf(nil))
	assert.Equal(t, -1.0, MaxOf([]float64{-3, -1, -2}))
}
