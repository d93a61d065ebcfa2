package scale

import (
	"time"
)

// minTimeSpan is substituted around a single instant.
const minTimeSpan = time.Minute

// Time maps instants to pixels. Internally it is a Linear scale over Unix nanoseconds.
type Time struct {
	Linear
}

// NewTime builds a time scale over [t0, t1]. Equal instants are widened by a minute each side.
func NewTime(t0, t1 time.Time, r0, r1 float64) Time {
	if t0.Equal(t1) {
		t0 = t0.Add(-minTimeSpan)
		t1 = t1.Add(minTimeSpan)
	}
	return Time{Linear: Linear{
		Domain: [2]float64{float64(t0.UnixNano()), float64(t1.UnixNano())},
		Range:  [2]float64{r0, r1},
	}}
}

// MapTime converts an instant to a pixel coordinate.
func (s Time) MapTime(t time.Time) float64 {
	return s.Map(float64(t.UnixNano()))
}

// InvertTime converts a pixel coordinate to an instant.
func (s Time) InvertTime(px float64) time.Time {
	return time.Unix(0, int64(s.Invert(px))).UTC()
}

// DomainTimes returns the domain endpoints as instants.
func (s Time) DomainTimes() (time.Time, time.Time) {
	return time.Unix(0, int64(s.Domain[0])).UTC(), time.Unix(0, int64(s.Domain[1])).UTC()
}

var timeIntervals = []time.Duration{
	time.Second, 5 * time.Second, 15 * time.Second, 30 * time.Second,
	time.Minute, 5 * time.Minute, 15 * time.Minute, 30 * time.Minute,
	time.Hour, 3 * time.Hour, 6 * time.Hour, 12 * time.Hour,
	24 * time.Hour, 2 * 24 * time.Hour, 7 * 24 * time.Hour,
	30 * 24 * time.Hour, 90 * 24 * time.Hour, 365 * 24 * time.Hour,
}

// TimeTicks returns instants aligned to the interval closest to span/count, and that interval.
func (s Time) TimeTicks(count int) ([]time.Time, time.Duration) {
	if count <= 0 {
		count = 10
	}
	t0, t1 := s.DomainTimes()
	if t1.Before(t0) {
		t0, t1 = t1, t0
	}
	target := t1.Sub(t0) / time.Duration(count)
	interval := timeIntervals[len(timeIntervals)-1]
	for _, iv := range timeIntervals {
		if iv >= target {
			interval = iv
			break
		}
	}
	var ticks []time.Time
	for t := t0.Truncate(interval); !t.After(t1); t = t.Add(interval) {
		if t.Before(t0) {
			continue
		}
		ticks = append(ticks, t)
	}
	return ticks, interval
}

// TickLayout picks a label layout for ticks spaced by interval.
func TickLayout(interval time.Duration) string {
	switch {
	case interval < time.Minute:
		return "15:04:05"
	case interval < 24*time.Hour:
		return "15:04"
	case interval < 365*24*time.Hour:
		return "Jan 02"
	default:
		return "2006"
	}
}
