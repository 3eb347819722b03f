package swarm

import (
	"context"
	"errors"

	"github.com/pthm-cable/folio/renderer"
)

// Construction errors. All are fatal configuration errors.
var (
	ErrNoContext   = errors.New("swarm: drawing context unavailable")
	ErrNoScheduler = errors.New("swarm: no frame scheduler")
	ErrNoViewport  = errors.New("swarm: no viewport")
)

// Surface is the drawing target the swarm renders into.
type Surface interface {
	// Context returns the 2D context with alpha, or nil if unavailable.
	Context() renderer.Canvas
	// SetBackingSize resizes the backing store in device pixels and resets
	// the context transform to identity.
	SetBackingSize(w, h int)
}

// FrameHandle identifies a requested frame. Zero is never issued.
type FrameHandle uint64

// Scheduler issues per-frame callbacks at the host's refresh cadence.
type Scheduler interface {
	RequestFrame(fn func()) FrameHandle
	CancelFrame(h FrameHandle)
}

// Viewport reports layout geometry.
type Viewport interface {
	// Size returns the viewport size in layout units.
	Size() (w, h float32)
	// PixelRatio returns device pixels per layout unit. Values <= 0 mean 1.
	PixelRatio() float32
}

// MotionPreference observes the user's reduced-motion setting.
type MotionPreference interface {
	ReducedMotion() bool
	// Subscribe registers fn for changes and returns a function that
	// removes it. fn may be called from any goroutine.
	Subscribe(fn func(reduced bool)) (cancel func())
}

// ImageLoader resolves a URL or path to a drawable image. done is called
// exactly once, from any goroutine, unless ctx is cancelled first, in which
// case it may be called with ctx.Err() or not at all.
type ImageLoader interface {
	Load(ctx context.Context, url string, done func(renderer.Image, error))
}

// ImageLoaderFunc adapts a function to ImageLoader.
type ImageLoaderFunc func(ctx context.Context, url string, done func(renderer.Image, error))

func (f ImageLoaderFunc) Load(ctx context.Context, url string, done func(renderer.Image, error)) {
	f(ctx, url, done)
}

// Host bundles the capabilities the engine consumes. Motion and Images are
// optional.
type Host struct {
	Scheduler Scheduler
	Viewport  Viewport
	Motion    MotionPreference
	Images    ImageLoader
}
