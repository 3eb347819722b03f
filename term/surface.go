package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/folio/renderer"
)

// Surface adapts a Canvas to swarm.Surface. Backing sizes are in virtual
// pixels and round down to whole cells.
type Surface struct {
	canvas *Canvas
}

func NewSurface(c *Canvas) *Surface { return &Surface{canvas: c} }

func (s *Surface) Context() renderer.Canvas { return s.canvas }

func (s *Surface) SetBackingSize(w, h int) {
	s.canvas.ResetTransform()
	s.canvas.Resize(w/int(s.canvas.cellW), h/int(s.canvas.cellH))
}

// ScreenViewport reports the terminal as a viewport of virtual pixels.
type ScreenViewport struct {
	Screen       tcell.Screen
	CellW, CellH int
}

func (v ScreenViewport) Size() (float32, float32) {
	cols, rows := v.Screen.Size()
	return float32(cols * v.CellW), float32(rows * v.CellH)
}

func (v ScreenViewport) PixelRatio() float32 { return 1 }

// CellCenter maps a cell to the virtual pixel at its center.
func (v ScreenViewport) CellCenter(col, row int) (float32, float32) {
	return (float32(col) + 0.5) * float32(v.CellW), (float32(row) + 0.5) * float32(v.CellH)
}
