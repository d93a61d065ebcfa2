package render

import (
	"strings"
)

// XY is a point in plot-area pixels.
type XY struct {
	X, Y float64
}

// LinePath joins points with straight segments.
func LinePath(pts []XY) string {
	if len(pts) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range pts {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString("L")
		}
		b.WriteString(num(p.X))
		b.WriteString(",")
		b.WriteString(num(p.Y))
	}
	return b.String()
}

// AreaPath closes a band running along upper left-to-right and back along lower.
func AreaPath(upper, lower []XY) string {
	if len(upper) == 0 || len(upper) != len(lower) {
		return ""
	}
	pts := make([]XY, 0, 2*len(upper))
	pts = append(pts, upper...)
	for i := len(lower) - 1; i >= 0; i-- {
		pts = append(pts, lower[i])
	}
	return LinePath(pts) + "Z"
}

// BasisPath draws a uniform cubic B-spline through the control points. The curve starts
// at the first point and ends at the last one.
func BasisPath(pts []XY) string {
	switch len(pts) {
	case 0:
		return ""
	case 1, 2:
		return LinePath(pts)
	}
	var b strings.Builder
	cmd := func(c string, xy ...float64) {
		b.WriteString(c)
		for i, v := range xy {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(num(v))
		}
	}
	bezier := func(p0, p1, p XY) {
		cmd("C",
			(2*p0.X+p1.X)/3, (2*p0.Y+p1.Y)/3,
			(p0.X+2*p1.X)/3, (p0.Y+2*p1.Y)/3,
			(p0.X+4*p1.X+p.X)/6, (p0.Y+4*p1.Y+p.Y)/6)
	}

	cmd("M", pts[0].X, pts[0].Y)
	cmd("L", (5*pts[0].X+pts[1].X)/6, (5*pts[0].Y+pts[1].Y)/6)
	for i := 2; i < len(pts); i++ {
		bezier(pts[i-2], pts[i-1], pts[i])
	}
	n := len(pts)
	bezier(pts[n-2], pts[n-1], pts[n-1])
	cmd("L", pts[n-1].X, pts[n-1].Y)
	return b.String()
}
