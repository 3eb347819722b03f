package swarm

import "github.com/pthm-cable/folio/renderer"

// FixedViewport is a Viewport with settable geometry.
type FixedViewport struct {
	W, H float32
	DPR  float32
}

func (v *FixedViewport) Size() (float32, float32) { return v.W, v.H }
func (v *FixedViewport) PixelRatio() float32      { return v.DPR }

// OffscreenSurface wraps any Canvas as a Surface with no window behind it.
type OffscreenSurface struct {
	Canvas renderer.Canvas
	W, H   int
}

// NewOffscreenSurface creates a surface drawing into c.
func NewOffscreenSurface(c renderer.Canvas) *OffscreenSurface {
	return &OffscreenSurface{Canvas: c}
}

func (s *OffscreenSurface) Context() renderer.Canvas { return s.Canvas }

func (s *OffscreenSurface) SetBackingSize(w, h int) {
	s.W, s.H = w, h
	if r, ok := s.Canvas.(interface{ ResetTransform() }); ok {
		r.ResetTransform()
	}
}
