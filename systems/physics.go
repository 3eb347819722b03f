package systems

import "github.com/pthm-cable/folio/components"

// Bounds represents the viewport extent in viewport units.
type Bounds struct {
	Width, Height float32
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float32
}

// Contains reports whether (x, y) lies inside r. All four edges are inclusive.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// CentralZone returns the full-height band of width pct*b.Width centered
// horizontally in b.
func CentralZone(b Bounds, pct float32) Rect {
	w := b.Width * pct
	return Rect{
		X: (b.Width - w) / 2,
		Y: 0,
		W: w,
		H: b.Height,
	}
}

// ClampToBounds pulls a position back inside [0, Width] x [0, Height].
// Velocity is left untouched.
func ClampToBounds(pos *components.Position, b Bounds) {
	pos.X = clampFloat(pos.X, 0, b.Width)
	pos.Y = clampFloat(pos.Y, 0, b.Height)
}

// wrap moves a position that left the viewport to the opposite edge.
func wrap(pos *components.Position, b Bounds) {
	if pos.X < 0 {
		pos.X = b.Width
	}
	if pos.X > b.Width {
		pos.X = 0
	}
	if pos.Y < 0 {
		pos.Y = b.Height
	}
	if pos.Y > b.Height {
		pos.Y = 0
	}
}

// bounce keeps a position at least margin inside each edge, reflecting the
// offending velocity component inward at restitution times its magnitude.
func bounce(pos *components.Position, vel *components.Velocity, b Bounds, margin, restitution float32) {
	if pos.X < margin {
		pos.X = margin
		vel.X = absf(vel.X) * restitution
	}
	if pos.X > b.Width-margin {
		pos.X = b.Width - margin
		vel.X = -absf(vel.X) * restitution
	}
	if pos.Y < margin {
		pos.Y = margin
		vel.Y = absf(vel.Y) * restitution
	}
	if pos.Y > b.Height-margin {
		pos.Y = b.Height - margin
		vel.Y = -absf(vel.Y) * restitution
	}
}
