package core

import (
	"fmt"
	"strings"
	"time"
)

// instantLayouts lists the timestamp encodings accepted in data documents, most specific first.
var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseInstant parses a timestamp string from a data document into a UTC instant.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// DateKey formats a calendar day as the ISO key used by event tables (YYYY-MM-DD).
func DateKey(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// SameDay reports whether two instants fall on the same calendar day in t's location.
func SameDay(t, u time.Time) bool {
	y1, m1, d1 := t.Date()
	y2, m2, d2 := u.In(t.Location()).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
