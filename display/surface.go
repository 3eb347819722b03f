package display

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/folio/renderer"
)

// Surface is a transparent render texture the swarm draws into. It is
// composited over the page each frame, so clearing it never touches the
// page underneath.
type Surface struct {
	target rl.RenderTexture2D
	loaded bool
	w, h   int
	canvas *Canvas
}

// NewSurface creates a surface. The texture is allocated on the first
// SetBackingSize, which must happen after the window exists.
func NewSurface() *Surface {
	return &Surface{canvas: newCanvas()}
}

func (s *Surface) Context() renderer.Canvas { return s.canvas }

// SetBackingSize reallocates the texture when the size changes and always
// resets the canvas transform.
func (s *Surface) SetBackingSize(w, h int) {
	s.canvas.ResetTransform()
	if w < 1 || h < 1 {
		return
	}
	if s.loaded && w == s.w && h == s.h {
		return
	}
	if s.loaded {
		rl.UnloadRenderTexture(s.target)
	}
	s.target = rl.LoadRenderTexture(int32(w), int32(h))
	rl.SetTextureFilter(s.target.Texture, rl.FilterBilinear)
	s.w, s.h = w, h
	s.loaded = true

	// New textures hold undefined pixels
	rl.BeginTextureMode(s.target)
	rl.ClearBackground(rl.Blank)
	rl.EndTextureMode()
}

// Begin redirects drawing into the surface.
func (s *Surface) Begin() {
	if s.loaded {
		rl.BeginTextureMode(s.target)
	}
}

// End restores drawing to the window.
func (s *Surface) End() {
	if s.loaded {
		rl.EndTextureMode()
	}
}

// Draw composites the surface over the window at layout size w x h.
func (s *Surface) Draw(w, h float32) {
	if !s.loaded {
		return
	}
	// Render textures are stored upside down
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(s.w), Height: -float32(s.h)}
	dst := rl.Rectangle{X: 0, Y: 0, Width: w, Height: h}
	rl.DrawTexturePro(s.target.Texture, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees the texture.
func (s *Surface) Unload() {
	if s.loaded {
		rl.UnloadRenderTexture(s.target)
		s.loaded = false
	}
}

// Window reports the raylib window as a swarm viewport.
type Window struct{}

func (Window) Size() (float32, float32) {
	return float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
}

func (Window) PixelRatio() float32 {
	return rl.GetWindowScaleDPI().X
}
