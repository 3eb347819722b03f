package page

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/folio/page/layout"
)

var (
	colorBackground = rl.NewColor(244, 243, 238, 255)
	colorText       = rl.NewColor(24, 24, 24, 255)
	colorMuted      = rl.NewColor(120, 120, 116, 255)
	colorLink       = rl.NewColor(32, 64, 200, 255)
)

// drawLayout renders the visible blocks of the current layout.
func (p *Page) drawLayout() {
	mouse := rl.GetMousePosition()
	for _, b := range p.layout.Blocks {
		y := b.Y - p.scroll
		if y+b.H < 0 || y > p.screenHeight {
			continue
		}

		col := colorText
		switch b.Style {
		case layout.StyleMuted:
			col = colorMuted
		case layout.StyleLink:
			col = colorLink
		}
		rl.DrawText(b.Text, int32(b.X), int32(y), b.Size, col)

		// Underline clickable blocks under the pointer
		if b.Route != "" && b.Contains(mouse.X, mouse.Y+p.scroll) {
			rl.DrawLineEx(rl.Vector2{X: b.X, Y: y + b.H + 2}, rl.Vector2{X: b.X + b.W, Y: y + b.H + 2}, 1.5, col)
		}
	}
}
