// Package display hosts the swarm in a raylib window: a render-texture
// surface, a canvas that rasterizes paths with raylib primitives, and a
// texture loader for cursor sprites and project media.
package display

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/folio/renderer"
)

// Canvas implements renderer.Canvas with raylib draw calls. Calls must be
// made between Surface.Begin and Surface.End.
type Canvas struct {
	*renderer.State
	tris []renderer.Vec
}

func newCanvas() *Canvas {
	return &Canvas{State: renderer.NewState()}
}

func vec(v renderer.Vec) rl.Vector2 { return rl.Vector2{X: v.X, Y: v.Y} }

// ClearRect resets the covered pixels to transparent. Rotation is ignored.
func (c *Canvas) ClearRect(x, y, w, h float32) {
	t := c.Current()
	x0, y0 := t.Apply(x, y)
	x1, y1 := t.Apply(x+w, y+h)

	rl.BeginScissorMode(int32(x0), int32(y0), int32(math.Ceil(float64(x1-x0))), int32(math.Ceil(float64(y1-y0))))
	rl.ClearBackground(rl.Blank)
	rl.EndScissorMode()
}

// Fill triangulates the current path and draws it.
func (c *Canvas) Fill(col color.RGBA) {
	path, _ := c.Path()
	c.tris = renderer.Triangulate(path, c.tris[:0])
	for i := 0; i+2 < len(c.tris); i += 3 {
		// raylib wants counter-clockwise on screen, the reverse of the
		// triangulator's winding in y-down space
		rl.DrawTriangle(vec(c.tris[i]), vec(c.tris[i+2]), vec(c.tris[i+1]), col)
	}
}

// Stroke outlines the current path. width is in user units.
func (c *Canvas) Stroke(col color.RGBA, width float32) {
	path, closed := c.Path()
	if len(path) < 2 {
		return
	}
	thick := width * c.Current().ScaleX()
	for i := 0; i+1 < len(path); i++ {
		rl.DrawLineEx(vec(path[i]), vec(path[i+1]), thick, col)
	}
	if closed {
		rl.DrawLineEx(vec(path[len(path)-1]), vec(path[0]), thick, col)
	}
}

// DrawImage draws a Texture into the user-space rectangle, following the
// current rotation. Images from other hosts are ignored.
func (c *Canvas) DrawImage(img renderer.Image, x, y, w, h float32) {
	tex, ok := img.(*Texture)
	if !ok || tex == nil {
		return
	}
	t := c.Current()
	cx, cy := t.Apply(x+w/2, y+h/2)
	scale := t.ScaleX()
	dw, dh := w*scale, h*scale

	src := rl.Rectangle{X: 0, Y: 0, Width: float32(tex.tex.Width), Height: float32(tex.tex.Height)}
	dst := rl.Rectangle{X: cx, Y: cy, Width: dw, Height: dh}
	origin := rl.Vector2{X: dw / 2, Y: dh / 2}
	rl.DrawTexturePro(tex.tex, src, dst, origin, t.Angle()*rl.Rad2deg, rl.White)
}
