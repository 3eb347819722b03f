// Package term hosts the swarm in a terminal. The engine works in virtual
// pixels; each cell covers a fixed block of them and shows at most one
// particle as a direction rune.
package term

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/folio/renderer"
)

// SpriteRune stands in for a sprite cursor image.
const SpriteRune = '◆'

// arrows are indexed by octant, starting east and turning clockwise in
// y-down space.
var arrows = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

// Cell is one terminal cell of the swarm layer. A zero Rune is empty.
type Cell struct {
	Rune   rune
	Fill   color.RGBA
	Stroke color.RGBA
}

// Color returns the visible color: the outline when stroked.
func (c Cell) Color() color.RGBA {
	if c.Stroke.A > 0 {
		return c.Stroke
	}
	return c.Fill
}

// Canvas implements renderer.Canvas over a grid of cells.
type Canvas struct {
	*renderer.State

	cellW, cellH float32
	cols, rows   int
	cells        []Cell
	last         int // cell written by the last Fill, -1 for none
}

// NewCanvas creates an empty canvas whose cells cover cellW x cellH
// virtual pixels.
func NewCanvas(cellW, cellH int) *Canvas {
	return &Canvas{
		State: renderer.NewState(),
		cellW: float32(max(cellW, 1)),
		cellH: float32(max(cellH, 1)),
		last:  -1,
	}
}

// Resize reallocates the grid. Contents are dropped.
func (c *Canvas) Resize(cols, rows int) {
	c.cols, c.rows = max(cols, 0), max(rows, 0)
	c.cells = make([]Cell, c.cols*c.rows)
	c.last = -1
}

// Grid returns the grid size in cells.
func (c *Canvas) Grid() (cols, rows int) { return c.cols, c.rows }

// At returns the cell at (col, row). Out-of-range cells are empty.
func (c *Canvas) At(col, row int) Cell {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return Cell{}
	}
	return c.cells[row*c.cols+col]
}

// index maps a device-space point to a cell.
func (c *Canvas) index(x, y float32) (int, bool) {
	col := int(math.Floor(float64(x / c.cellW)))
	row := int(math.Floor(float64(y / c.cellH)))
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return 0, false
	}
	return row*c.cols + col, true
}

// ClearRect empties every cell whose origin lies inside the rectangle.
// Rotation is ignored.
func (c *Canvas) ClearRect(x, y, w, h float32) {
	t := c.Current()
	x0, y0 := t.Apply(x, y)
	x1, y1 := t.Apply(x+w, y+h)

	c0 := max(int(math.Ceil(float64(x0/c.cellW))), 0)
	r0 := max(int(math.Ceil(float64(y0/c.cellH))), 0)
	c1 := min(int(math.Ceil(float64(x1/c.cellW))), c.cols)
	r1 := min(int(math.Ceil(float64(y1/c.cellH))), c.rows)
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			c.cells[row*c.cols+col] = Cell{}
		}
	}
	c.last = -1
}

// Fill marks the cell under the first path point with a rune pointing from
// the path's centroid toward that point.
func (c *Canvas) Fill(col color.RGBA) {
	c.last = -1
	path, _ := c.Path()
	if len(path) == 0 {
		return
	}
	tip := path[0]
	i, ok := c.index(tip.X, tip.Y)
	if !ok {
		return
	}

	var cx, cy float32
	for _, p := range path {
		cx += p.X
		cy += p.Y
	}
	n := float32(len(path))
	c.cells[i] = Cell{Rune: arrowRune(tip.X-cx/n, tip.Y-cy/n), Fill: col}
	c.last = i
}

// Stroke outlines the glyph placed by the preceding Fill.
func (c *Canvas) Stroke(col color.RGBA, width float32) {
	if c.last < 0 || width <= 0 {
		return
	}
	c.cells[c.last].Stroke = col
}

// DrawImage marks the cell under the image center with SpriteRune.
func (c *Canvas) DrawImage(img renderer.Image, x, y, w, h float32) {
	if img == nil {
		return
	}
	cx, cy := c.Current().Apply(x+w/2, y+h/2)
	if i, ok := c.index(cx, cy); ok {
		c.cells[i] = Cell{Rune: SpriteRune, Fill: color.RGBA{R: 255, G: 255, B: 255, A: 255}}
	}
	c.last = -1
}

// Flush writes every non-empty cell to screen on top of whatever is there.
func (c *Canvas) Flush(screen tcell.Screen, base tcell.Style) {
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			cell := c.cells[row*c.cols+col]
			if cell.Rune == 0 {
				continue
			}
			rgb := cell.Color()
			fg := tcell.NewRGBColor(int32(rgb.R), int32(rgb.G), int32(rgb.B))
			screen.SetContent(col, row, cell.Rune, nil, base.Foreground(fg))
		}
	}
}

// arrowRune picks the arrow closest to the direction (dx, dy).
func arrowRune(dx, dy float32) rune {
	if dx == 0 && dy == 0 {
		return arrows[0]
	}
	a := math.Atan2(float64(dy), float64(dx))
	octant := int(math.Round(a/(math.Pi/4))+8) % 8
	return arrows[octant]
}
