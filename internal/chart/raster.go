package chart

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Cell classes used when styling the rasterized grid.
const (
	cellBlank = iota
	cellGrid
	cellLabel
	cellLine
)

var (
	styleGrid  = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	styleLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	styleLine  = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
)

// Draw rasterizes a frame onto a cell grid of the frame's dimensions,
// one cell per pixel: gridlines, axis labels in the padding margins, and
// the polyline on top. Returns the styled multi-line string.
func Draw(f Frame) string {
	w, h := f.Width, f.Height
	if w <= 0 || h <= 0 || len(f.Line) < 2 {
		return ""
	}

	runes := make([][]rune, h)
	kinds := make([][]byte, h)
	for y := 0; y < h; y++ {
		runes[y] = make([]rune, w)
		kinds[y] = make([]byte, w)
		for x := 0; x < w; x++ {
			runes[y][x] = ' '
		}
	}

	set := func(x, y int, r rune, kind byte) {
		if x < 0 || x >= w || y < 0 || y >= h {
			return
		}
		runes[y][x] = r
		kinds[y][x] = kind
	}

	left, right := f.PadX, w-f.PadX
	top, bottom := f.PadY, h-f.PadY

	for _, lv := range f.Levels {
		row := int(lv.Y + 0.5)
		for x := left; x <= right && x < w; x++ {
			if row >= 0 && row < h && kinds[row][x] == cellBlank {
				set(x, row, '┈', cellGrid)
			}
		}
		start := left - 1 - len(lv.Label)
		if start < 0 {
			start = 0
		}
		for i, r := range lv.Label {
			set(start+i, row, r, cellLabel)
		}
	}

	for _, tk := range f.Ticks {
		col := int(tk.X + 0.5)
		for y := top; y <= bottom && y < h; y++ {
			if col >= 0 && col < w && kinds[y][col] == cellBlank {
				set(col, y, '┊', cellGrid)
			}
		}
		start := col - len(tk.Label)/2
		for i, r := range tk.Label {
			set(start+i, bottom+1, r, cellLabel)
		}
	}

	for i := 1; i < len(f.Line); i++ {
		x0, y0 := int(f.Line[i-1].X+0.5), int(f.Line[i-1].Y+0.5)
		x1, y1 := int(f.Line[i].X+0.5), int(f.Line[i].Y+0.5)
		plotSegment(x0, y0, x1, y1, func(x, y int) {
			set(x, y, '•', cellLine)
		})
	}

	var sb strings.Builder
	for y := 0; y < h; y++ {
		x := 0
		for x < w {
			kind := kinds[y][x]
			run := x
			for run < w && kinds[y][run] == kind {
				run++
			}
			text := string(runes[y][x:run])
			switch kind {
			case cellGrid:
				sb.WriteString(styleGrid.Render(text))
			case cellLabel:
				sb.WriteString(styleLabel.Render(text))
			case cellLine:
				sb.WriteString(styleLine.Render(text))
			default:
				sb.WriteString(text)
			}
			x = run
		}
		if y < h-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// plotSegment visits every cell of the line from (x0,y0) to (x1,y1)
// using Bresenham's algorithm.
func plotSegment(x0, y0, x1, y1 int, visit func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		visit(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
