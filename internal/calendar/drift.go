package calendar

import "sort"

// Difference is one date on which two tables disagree.
type Difference struct {
	Date  string `json:"date"`
	Field string `json:"field"` // "missing", "text" or "color"
	Left  *Event `json:"left,omitempty"`
	Right *Event `json:"right,omitempty"`
}

// Drift compares the events of two tables date by date. Holidays are folded in first,
// as a cell would show them. Differences are reported, never reconciled.
func Drift(a, b *Calendar) []Difference {
	left, right := merged(a), merged(b)
	dates := left.Dates()
	for _, d := range right.Dates() {
		if _, ok := left[d]; !ok {
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)

	var out []Difference
	for _, d := range dates {
		l, lok := left[d]
		r, rok := right[d]
		switch {
		case !lok || !rok:
			diff := Difference{Date: d, Field: "missing"}
			if lok {
				diff.Left = &l
			}
			if rok {
				diff.Right = &r
			}
			out = append(out, diff)
		case l.Label() != r.Label():
			out = append(out, Difference{Date: d, Field: "text", Left: &l, Right: &r})
		case l.Color != r.Color:
			out = append(out, Difference{Date: d, Field: "color", Left: &l, Right: &r})
		}
	}
	return out
}

// merged flattens events over holidays; the event wins where both exist.
func merged(c *Calendar) Table {
	t := make(Table, len(c.Events)+len(c.Holidays))
	for d, e := range c.Holidays {
		t[d] = e
	}
	for d, e := range c.Events {
		t[d] = e
	}
	return t
}
