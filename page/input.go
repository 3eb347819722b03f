package page

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/folio/page/layout"
)

const scrollStep = 48

// handleInput processes mouse and keyboard input.
func (p *Page) handleInput() {
	p.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyF3) {
		p.showDebug = !p.showDebug
	}

	if rl.IsKeyPressed(rl.KeyBackspace) && p.route != "" {
		p.navigate(layout.RouteHome)
	}

	// Swarm follows the pointer in viewport coordinates
	mouse := rl.GetMousePosition()
	if mouse.X != p.pointerX || mouse.Y != p.pointerY {
		p.pointerX, p.pointerY = mouse.X, mouse.Y
		p.engine.UpdatePointer(mouse.X, mouse.Y)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		p.scrollBy(-wheel * scrollStep)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		p.scrollBy(scrollStep / 4)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		p.scrollBy(-scrollStep / 4)
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		if route, ok := p.layout.HitRoute(mouse.X, mouse.Y+p.scroll); ok {
			p.navigate(route)
		}
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (p *Page) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == p.screenWidth && h == p.screenHeight {
		return
	}
	p.screenWidth = w
	p.screenHeight = h

	p.engine.Resize()
	p.relayout()
	p.scrollBy(0)
	p.placeToggle()
}

func (p *Page) scrollBy(dy float32) {
	maxScroll := p.layout.Height - p.screenHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	p.scroll = min(max(p.scroll+dy, 0), maxScroll)
}
