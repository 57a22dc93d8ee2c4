package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-natal/internal/wheel"
)

// cellAspect is the height of a terminal cell relative to its width.
const cellAspect = 2.0

// Canvas is a rune grid that maps wheel pixel coordinates onto terminal
// cells. Cells are roughly twice as tall as they are wide, so the vertical
// scale is halved to keep the wheel round.
type Canvas struct {
	cols, rows     int
	scaleX, scaleY float64
	offX, offY     float64

	cells  [][]rune
	colors [][]lipgloss.Color
}

// NewCanvas creates a cols×rows canvas fitted to the viewport.
func NewCanvas(cols, rows int, vp wheel.Viewport) *Canvas {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	size := vp.Size
	if size <= 0 {
		size = 1
	}

	scaleX := math.Min(float64(cols)/size, cellAspect*float64(rows)/size)
	scaleY := scaleX / cellAspect

	c := &Canvas{
		cols:   cols,
		rows:   rows,
		scaleX: scaleX,
		scaleY: scaleY,
		offX:   (float64(cols) - size*scaleX) / 2,
		offY:   (float64(rows) - size*scaleY) / 2,
		cells:  make([][]rune, rows),
		colors: make([][]lipgloss.Color, rows),
	}
	for y := range c.cells {
		c.cells[y] = []rune(strings.Repeat(" ", cols))
		c.colors[y] = make([]lipgloss.Color, cols)
	}
	return c
}

// Size returns the canvas dimensions in cells.
func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }

// PointToCell maps a wheel point to the cell containing it.
func (c *Canvas) PointToCell(p wheel.Point) (col, row int, ok bool) {
	col = int(math.Floor(c.offX + p.X*c.scaleX))
	row = int(math.Floor(c.offY + p.Y*c.scaleY))
	return col, row, col >= 0 && col < c.cols && row >= 0 && row < c.rows
}

// CellToPoint maps a cell back to the wheel point at its centre, for
// pointer hit-testing.
func (c *Canvas) CellToPoint(col, row int) wheel.Point {
	return wheel.Point{
		X: (float64(col) + 0.5 - c.offX) / c.scaleX,
		Y: (float64(row) + 0.5 - c.offY) / c.scaleY,
	}
}

// Set writes r at a cell; out-of-range cells are ignored.
func (c *Canvas) Set(col, row int, r rune, color lipgloss.Color) {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return
	}
	c.cells[row][col] = r
	c.colors[row][col] = color
}

// At returns the rune at a cell.
func (c *Canvas) At(col, row int) rune {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return 0
	}
	return c.cells[row][col]
}

// Plot sets the cell under p.
func (c *Canvas) Plot(p wheel.Point, r rune, color lipgloss.Color) {
	col, row, ok := c.PointToCell(p)
	if ok {
		c.Set(col, row, r, color)
	}
}

// Line samples the segment p1→p2 at sub-cell resolution.
func (c *Canvas) Line(p1, p2 wheel.Point, r rune, color lipgloss.Color) {
	dx := (p2.X - p1.X) * c.scaleX
	dy := (p2.Y - p1.Y) * c.scaleY
	steps := int(math.Ceil(2 * math.Max(math.Abs(dx), math.Abs(dy))))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.Plot(wheel.Point{X: p1.X + (p2.X-p1.X)*t, Y: p1.Y + (p2.Y-p1.Y)*t}, r, color)
	}
}

// Circle draws a ring of radius r (pixels) around the viewport centre using
// the wheel projection.
func (c *Canvas) Circle(vp wheel.Viewport, r float64, glyph rune, color lipgloss.Color) {
	steps := int(2 * math.Pi * r * c.scaleX * 2)
	if steps < 16 {
		steps = 16
	}
	if steps > 720 {
		steps = 720
	}
	for i := 0; i < steps; i++ {
		a := 360 * float64(i) / float64(steps)
		c.Plot(wheel.ProjectAngle(a, r, vp), glyph, color)
	}
}

// Text writes s centred on p, nudged inside the canvas when it would be
// clipped at an edge.
func (c *Canvas) Text(p wheel.Point, s string, color lipgloss.Color) {
	col, row, _ := c.PointToCell(p)
	row = clamp(row, 0, c.rows-1)

	runes := []rune(s)
	start := clamp(col-len(runes)/2, 0, c.cols-len(runes))
	for i, r := range runes {
		c.Set(start+i, row, r, color)
	}
}

// Plain returns the grid without colour, trailing spaces trimmed.
func (c *Canvas) Plain() string {
	lines := make([]string, c.rows)
	for y, row := range c.cells {
		lines[y] = strings.TrimRight(string(row), " ")
	}
	return strings.Join(lines, "\n")
}

// Render returns the grid with lipgloss colours. Runs of equally coloured
// cells are styled together.
func (c *Canvas) Render() string {
	var b strings.Builder
	for y := 0; y < c.rows; y++ {
		x := 0
		for x < c.cols {
			color := c.colors[y][x]
			end := x + 1
			for end < c.cols && c.colors[y][end] == color {
				end++
			}
			run := string(c.cells[y][x:end])
			if color == "" {
				b.WriteString(run)
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(color).Render(run))
			}
			x = end
		}
		if y < c.rows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
