// Package chart computes the auto-scaling plot of the rolling sample
// window. Render is pure geometry: a snapshot of samples plus canvas
// dimensions in, a full set of drawable primitives out. Draw rasterizes
// a frame onto a terminal cell grid.
package chart

import (
	"fmt"
	"math"
)

const (
	// DefaultPadding is the label margin reserved on all four sides.
	DefaultPadding = 40

	// gridCount is the number of gridlines per axis.
	gridCount = 5

	// labelGutter is the minimum horizontal margin in cells, wide
	// enough for a right-aligned "%.2f" value label.
	labelGutter = 9
)

// CellMargins converts a pixel padding into terminal cell margins.
// Cells are roughly twice as tall as wide, so the vertical margin
// shrinks faster; the horizontal margin doubles as the value-label
// gutter and never drops below it.
func CellMargins(padding int) (padX, padY int) {
	padX = padding / 4
	if padX < labelGutter {
		padX = labelGutter
	}
	padY = padding / 20
	if padY < 1 {
		padY = 1
	}
	return padX, padY
}

// Point is a polyline vertex in canvas pixel coordinates.
type Point struct {
	X, Y float64
}

// Level is one horizontal gridline with its value label.
type Level struct {
	Y     float64
	Value float64
	Label string
}

// Tick is one vertical gridline with its sample-index label.
type Tick struct {
	X     float64
	Index int
	Label string
}

// Frame is the complete set of primitives for one redraw. Each frame
// replaces the previous one; nothing is diffed.
type Frame struct {
	Width, Height int
	PadX, PadY    int

	Min, Max, Range float64

	Levels []Level
	Ticks  []Tick
	Line   []Point
}

// Render computes a frame from a sample snapshot and canvas dimensions.
// The caller guarantees at least two samples; with a flat signal the
// effective range is forced to 1 so the line renders mid-plot instead
// of dividing by zero.
func Render(values []float64, width, height, padding int) Frame {
	return RenderRect(values, width, height, padding, padding)
}

// RenderRect is Render with independent horizontal and vertical label
// margins. Terminal cells are much taller than wide, so the rasterized
// chart uses a narrow vertical margin while keeping a gutter wide
// enough for value labels.
func RenderRect(values []float64, width, height, padX, padY int) Frame {
	if len(values) < 2 {
		return Frame{Width: width, Height: height, PadX: padX, PadY: padY}
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	rng := max - min
	if rng == 0 {
		rng = 1
	}

	plotW := float64(width - 2*padX)
	plotH := float64(height - 2*padY)
	bottom := float64(height - padY)

	f := Frame{
		Width:  width,
		Height: height,
		PadX:   padX,
		PadY:   padY,
		Min:    min,
		Max:    max,
		Range:  rng,
	}

	for i := 0; i < gridCount; i++ {
		v := min + float64(i)*(max-min)/float64(gridCount-1)
		f.Levels = append(f.Levels, Level{
			Y:     bottom - float64(i)*plotH/float64(gridCount-1),
			Value: v,
			Label: fmt.Sprintf("%.2f", v),
		})
	}

	count := len(values)
	for i := 0; i < gridCount; i++ {
		idx := int(math.Round(float64(i) * float64(count-1) / float64(gridCount-1)))
		f.Ticks = append(f.Ticks, Tick{
			X:     float64(padX) + float64(i)*plotW/float64(gridCount-1),
			Index: idx,
			Label: fmt.Sprintf("%d", idx),
		})
	}

	f.Line = make([]Point, count)
	for i, v := range values {
		f.Line[i] = Point{
			X: float64(padX) + float64(i)/float64(count-1)*plotW,
			Y: bottom - (v-min)/rng*plotH,
		}
	}

	return f
}
