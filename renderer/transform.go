package renderer

import "math"

// Transform is a 2D affine matrix in canvas order:
//
//	| A C E |
//	| B D F |
type Transform struct {
	A, B, C, D, E, F float32
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{A: 1, D: 1}
}

// Apply maps a local point to device space.
func (t Transform) Apply(x, y float32) (float32, float32) {
	return t.A*x + t.C*y + t.E, t.B*x + t.D*y + t.F
}

// Translate returns t followed by a local translation.
func (t Transform) Translate(x, y float32) Transform {
	t.E += t.A*x + t.C*y
	t.F += t.B*x + t.D*y
	return t
}

// Scale returns t followed by a local scale.
func (t Transform) Scale(sx, sy float32) Transform {
	t.A *= sx
	t.B *= sx
	t.C *= sy
	t.D *= sy
	return t
}

// Rotate returns t followed by a local rotation in radians.
func (t Transform) Rotate(angle float32) Transform {
	cos := float32(math.Cos(float64(angle)))
	sin := float32(math.Sin(float64(angle)))
	a, b, c, d := t.A, t.B, t.C, t.D
	t.A = a*cos + c*sin
	t.B = b*cos + d*sin
	t.C = c*cos - a*sin
	t.D = d*cos - b*sin
	return t
}

// Angle returns the rotation of the local x axis in device space.
func (t Transform) Angle() float32 {
	return float32(math.Atan2(float64(t.B), float64(t.A)))
}

// ScaleX returns the length of the local x axis in device space.
func (t Transform) ScaleX() float32 {
	return float32(math.Hypot(float64(t.A), float64(t.B)))
}

// ScaleY returns the length of the local y axis in device space.
func (t Transform) ScaleY() float32 {
	return float32(math.Hypot(float64(t.C), float64(t.D)))
}

// State tracks the transform stack and the current path for hosts that
// implement Canvas on top of immediate-mode primitives. Path points are
// stored in device space.
type State struct {
	current Transform
	saved   []Transform

	path   []Vec
	closed bool
}

// NewState returns a State with the identity transform.
func NewState() *State {
	return &State{current: Identity()}
}

// Reset drops saved transforms and the path and restores identity.
func (s *State) Reset() {
	s.current = Identity()
	s.saved = s.saved[:0]
	s.path = s.path[:0]
	s.closed = false
}

// ResetTransform drops saved transforms and restores identity. The path is kept.
func (s *State) ResetTransform() {
	s.current = Identity()
	s.saved = s.saved[:0]
}

// Current returns the active transform.
func (s *State) Current() Transform { return s.current }

func (s *State) Save() { s.saved = append(s.saved, s.current) }

// Restore pops the last saved transform. Unbalanced calls are ignored.
func (s *State) Restore() {
	n := len(s.saved)
	if n == 0 {
		return
	}
	s.current = s.saved[n-1]
	s.saved = s.saved[:n-1]
}

func (s *State) Scale(sx, sy float32)   { s.current = s.current.Scale(sx, sy) }
func (s *State) Translate(x, y float32) { s.current = s.current.Translate(x, y) }
func (s *State) Rotate(angle float32)   { s.current = s.current.Rotate(angle) }

func (s *State) BeginPath() {
	s.path = s.path[:0]
	s.closed = false
}

func (s *State) MoveTo(x, y float32) {
	// Single-subpath model: MoveTo starts over
	s.path = s.path[:0]
	s.closed = false
	s.LineTo(x, y)
}

func (s *State) LineTo(x, y float32) {
	dx, dy := s.current.Apply(x, y)
	s.path = append(s.path, Vec{X: dx, Y: dy})
}

func (s *State) ClosePath() { s.closed = true }

// Path returns the current path in device space and whether it is closed.
// The slice is reused by the next path operation.
func (s *State) Path() ([]Vec, bool) { return s.path, s.closed }
