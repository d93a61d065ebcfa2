package render

import (
	"math"
)

// Margin is the space reserved around the plot area for axes, labels and the title.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// DefaultMargin is shared by the responsive widgets.
var DefaultMargin = Margin{Top: 40, Right: 50, Bottom: 60, Left: 70}

// minPlotWidth keeps very narrow containers drawable.
const minPlotWidth = 10

// Layout is the geometry of one render pass.
type Layout struct {
	Margin         Margin
	ContainerWidth float64
	Width          float64 // plot area
	Height         float64 // plot area
}

// ResponsiveLayout derives the plot area from the container width. The outer height is
// half the width, bounded to [400, 500] pixels.
func ResponsiveLayout(containerWidth float64) Layout {
	m := DefaultMargin
	w := math.Max(minPlotWidth, containerWidth-m.Left-m.Right)
	outer := math.Min(500, math.Max(400, containerWidth*0.5))
	return Layout{
		Margin:         m,
		ContainerWidth: containerWidth,
		Width:          w,
		Height:         outer - m.Top - m.Bottom,
	}
}

// FixedLayout is used by the scatter widget, which does not reflow.
func FixedLayout(width, height float64, m Margin) Layout {
	return Layout{Margin: m, ContainerWidth: width + m.Left + m.Right, Width: width, Height: height}
}

// OuterWidth is the full SVG width including margins.
func (l Layout) OuterWidth() float64 { return l.Width + l.Margin.Left + l.Margin.Right }

// OuterHeight is the full SVG height including margins.
func (l Layout) OuterHeight() float64 { return l.Height + l.Margin.Top + l.Margin.Bottom }
