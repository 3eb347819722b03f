// Package renderer provides the host-agnostic 2D drawing contract used by the
// swarm and the helpers hosts share to implement it.
package renderer

import "image/color"

// Image is a drawable handle produced by a host (a texture, a sprite).
type Image interface {
	Size() (w, h int)
}

// Canvas is a 2D drawing context with an alpha channel. Paths and images are
// drawn through the current transform, which Save and Restore bracket.
type Canvas interface {
	ClearRect(x, y, w, h float32)

	Save()
	Restore()
	Scale(sx, sy float32)
	Translate(x, y float32)
	Rotate(angle float32)

	BeginPath()
	MoveTo(x, y float32)
	LineTo(x, y float32)
	ClosePath()
	Fill(c color.RGBA)
	Stroke(c color.RGBA, width float32)

	// DrawImage draws img into the rectangle (x, y, w, h) in local space.
	DrawImage(img Image, x, y, w, h float32)
}

// Vec is a 2D point.
type Vec struct {
	X, Y float32
}
