package swarm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/pthm-cable/folio/renderer"
)

type testImage struct{ w, h int }

func (i testImage) Size() (int, int) { return i.w, i.h }

type harness struct {
	engine   *Engine
	canvas   *renderer.Recorder
	surface  *OffscreenSurface
	queue    *FrameQueue
	viewport *FixedViewport
	motion   *MotionSignal
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newHarness builds an engine over fake host capabilities.
func newHarness(t *testing.T, w, h float32, opts Options, images ImageLoader) *harness {
	t.Helper()
	hs := &harness{
		canvas:   renderer.NewRecorder(),
		queue:    NewFrameQueue(),
		viewport: &FixedViewport{W: w, H: h, DPR: 1},
		motion:   NewMotionSignal(false),
	}
	hs.surface = NewOffscreenSurface(hs.canvas)
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}

	e, err := New(hs.surface, Host{
		Scheduler: hs.queue,
		Viewport:  hs.viewport,
		Motion:    hs.motion,
		Images:    images,
	}, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	hs.engine = e
	return hs
}

func speed(p Particle) float64 {
	return math.Hypot(float64(p.VX), float64(p.VY))
}

func TestNew_MissingCapabilities(t *testing.T) {
	canvas := renderer.NewRecorder()
	vp := &FixedViewport{W: 100, H: 100}
	q := NewFrameQueue()

	tests := []struct {
		name    string
		surface Surface
		host    Host
		want    error
	}{
		{"nil surface", nil, Host{Scheduler: q, Viewport: vp}, ErrNoContext},
		{"surface without context", NewOffscreenSurface(nil), Host{Scheduler: q, Viewport: vp}, ErrNoContext},
		{"no scheduler", NewOffscreenSurface(canvas), Host{Viewport: vp}, ErrNoScheduler},
		{"no viewport", NewOffscreenSurface(canvas), Host{Scheduler: q}, ErrNoViewport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(tt.surface, tt.host, Options{Logger: quietLogger()})
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if e != nil {
				t.Error("engine returned alongside error")
			}
		})
	}
}

func TestEngine_EndToEndScenario(t *testing.T) {
	hs := newHarness(t, 100, 100, Options{ParticleCount: 3, CentralWidthPct: 0.5}, nil)
	e := hs.engine

	if got := e.Mode(); got != ModeIdle {
		t.Fatalf("initial mode = %v, want idle", got)
	}

	e.Init()
	ps := e.Particles()
	if len(ps) != 3 {
		t.Fatalf("got %d particles, want 3", len(ps))
	}
	for i, p := range ps {
		if p.X < 0 || p.X > 100 || p.Y < 0 || p.Y > 100 {
			t.Errorf("particle %d at (%v, %v) outside viewport", i, p.X, p.Y)
		}
	}

	e.UpdatePointer(50, 50)
	if got := e.Mode(); got != ModeIdle {
		t.Errorf("pointer at center: mode = %v, want idle", got)
	}
	e.UpdatePointer(0, 0)
	if got := e.Mode(); got != ModeActivate {
		t.Errorf("pointer at corner: mode = %v, want activate", got)
	}
}

func TestEngine_Defaults(t *testing.T) {
	hs := newHarness(t, 200, 100, Options{}, nil)
	hs.engine.Init()

	if got := hs.engine.Len(); got != DefaultParticleCount {
		t.Errorf("Len() = %d, want %d", got, DefaultParticleCount)
	}
	zone := hs.engine.Zone()
	if math.Abs(float64(zone.W)-90) > 1e-3 || math.Abs(float64(zone.X)-55) > 1e-3 {
		t.Errorf("zone = %+v, want width 90 at x 55", zone)
	}
	if zone.Y != 0 || zone.H != 100 {
		t.Errorf("zone should span full height, got %+v", zone)
	}
	for i, p := range hs.engine.Particles() {
		if p.Size < 10 || p.Size > 14 {
			t.Errorf("particle %d size %v outside [10, 14]", i, p.Size)
		}
	}
}

func TestEngine_ModeFollowsPointer(t *testing.T) {
	hs := newHarness(t, 100, 100, Options{ParticleCount: 1, CentralWidthPct: 0.5}, nil)
	e := hs.engine
	e.Init()

	tests := []struct {
		x, y float32
		want Mode
	}{
		{25, 10, ModeIdle},
		{75, 100, ModeIdle},
		{24.9, 10, ModeActivate},
		{75.1, 50, ModeActivate},
		{50, 0, ModeIdle},
		{-10, 50, ModeActivate},
		{50, 50, ModeIdle},
	}
	for _, tt := range tests {
		e.UpdatePointer(tt.x, tt.y)
		if got := e.Mode(); got != tt.want {
			t.Errorf("pointer (%v, %v): mode = %v, want %v", tt.x, tt.y, got, tt.want)
		}
		if x, y := e.Pointer(); x != tt.x || y != tt.y {
			t.Errorf("Pointer() = (%v, %v), want (%v, %v)", x, y, tt.x, tt.y)
		}
	}
}

func TestEngine_OnModeChange(t *testing.T) {
	var got []Mode
	var hs *harness
	hs = newHarness(t, 100, 100, Options{
		ParticleCount:   1,
		CentralWidthPct: 0.5,
		OnModeChange: func(m Mode) {
			// Reading engine state from the callback must not deadlock
			if hs.engine.Mode() != m {
				t.Errorf("callback saw stale mode")
			}
			got = append(got, m)
		},
	}, nil)
	e := hs.engine
	e.Init()

	e.UpdatePointer(50, 50)
	e.UpdatePointer(0, 0)
	e.UpdatePointer(0, 5)
	e.UpdatePointer(50, 5)

	want := []Mode{ModeActivate, ModeIdle}
	if len(got) != len(want) {
		t.Fatalf("callbacks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("callback %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEngine_ResizePixelRatio(t *testing.T) {
	hs := newHarness(t, 100, 50, Options{ParticleCount: 1}, nil)
	hs.viewport.DPR = 2
	hs.engine.Init()

	if hs.surface.W != 200 || hs.surface.H != 100 {
		t.Errorf("backing size = %dx%d, want 200x100", hs.surface.W, hs.surface.H)
	}
	if got := hs.canvas.Current().ScaleX(); math.Abs(float64(got)-2) > 1e-6 {
		t.Errorf("context scale = %v, want 2", got)
	}

	// A second resize must not compound the scale
	hs.engine.Resize()
	if got := hs.canvas.Current().ScaleX(); math.Abs(float64(got)-2) > 1e-6 {
		t.Errorf("context scale after second resize = %v, want 2", got)
	}

	hs.viewport.DPR = 0
	hs.engine.Resize()
	if hs.surface.W != 100 || hs.surface.H != 50 {
		t.Errorf("non-positive ratio: backing size = %dx%d, want 100x50", hs.surface.W, hs.surface.H)
	}
}

func TestEngine_ResizeClampsParticles(t *testing.T) {
	hs := newHarness(t, 200, 200, Options{ParticleCount: 30, CentralWidthPct: 0.5}, nil)
	e := hs.engine
	e.Init()
	e.UpdatePointer(190, 10)
	for i := 0; i < 20; i++ {
		e.Step()
	}
	before := e.Particles()

	hs.viewport.W, hs.viewport.H = 50, 40
	e.Resize()

	after := e.Particles()
	if len(after) != len(before) {
		t.Fatalf("resize changed population: %d -> %d", len(before), len(after))
	}
	for i, p := range after {
		if p.X < 0 || p.X > 50 || p.Y < 0 || p.Y > 40 {
			t.Errorf("particle %d at (%v, %v) outside 50x40", i, p.X, p.Y)
		}
		if p.VX != before[i].VX || p.VY != before[i].VY {
			t.Errorf("particle %d velocity changed on resize", i)
		}
	}
	if zone := e.Zone(); zone.W != 25 || zone.H != 40 {
		t.Errorf("zone after resize = %+v, want width 25 height 40", zone)
	}
	if b := e.Viewport(); b.Width != 50 || b.Height != 40 {
		t.Errorf("bounds after resize = %+v", b)
	}
}

func TestEngine_ResizeKeepsMode(t *testing.T) {
	hs := newHarness(t, 100, 100, Options{ParticleCount: 1, CentralWidthPct: 0.5}, nil)
	e := hs.engine
	e.Init()
	e.UpdatePointer(10, 10)
	if e.Mode() != ModeActivate {
		t.Fatal("expected activate")
	}

	// (10, 10) is inside the new zone, but only pointer updates change mode
	hs.viewport.W = 20
	e.Resize()
	if e.Mode() != ModeActivate {
		t.Error("resize changed mode")
	}
	e.UpdatePointer(10, 10)
	if e.Mode() != ModeIdle {
		t.Error("pointer update after resize should use the new zone")
	}
}

func TestEngine_StartSchedulesOnce(t *testing.T) {
	hs := newHarness(t, 100, 100, Options{ParticleCount: 2}, nil)
	hs.engine.Init()

	hs.engine.Start()
	hs.engine.Start()
	if got := hs.queue.Requested(); got != 1 {
		t.Errorf("requested %d frames, want 1", got)
	}
	if !hs.engine.Running() {
		t.Error("engine should be running")
	}
}

func TestEngine_AnimateFrame(t *testing.T) {
	hs := newHarness(t, 100, 100, Options{ParticleCount: 5}, nil)
	hs.engine.Init()
	hs.engine.Start()
	hs.canvas.Reset()

	if ran := hs.queue.Tick(); ran != 1 {
		t.Fatalf("tick ran %d callbacks, want 1", ran)
	}

	ops := hs.canvas.Ops
	if len(ops) == 0 || ops[0].Name != "clearRect" {
		t.Fatalf("first op should be clearRect, got %v", ops)
	}
	want := []float32{0, 0, 100, 100}
	for i, a := range want {
		if ops[0].Args[i] != a {
			t.Errorf("clearRect args = %v, want %v", ops[0].Args, want)
			break
		}
	}
	if got := hs.canvas.Count("fill"); got != 5 {
		t.Errorf("fills = %d, want 5", got)
	}
	if got := hs.canvas.Count("stroke"); got != 5 {
		t.Errorf("strokes = %d, want 5", got)
	}
	if hs.canvas.Count("save") != hs.canvas.Count("restore") {
		t.Error("unbalanced save/restore")
	}
	if got := hs.engine.Frame(); got != 1 {
		t.Errorf("frame = %d, want 1", got)
	}
	if got := hs.queue.Pending(); got != 1 {
		t.Errorf("pending = %d, want next frame queued", got)
	}

	for i := 0; i < 9; i++ {
		hs.queue.Tick()
	}
	if got := hs.engine.Frame(); got != 10 {
		t.Errorf("frame = %d after ten ticks", got)
	}
}

func TestEngine_Stop(t *testing.T) {
	hs := newHarness(t, 100, 100, Options{ParticleCount: 2}, nil)
	e := hs.engine
	e.Init()

	e.Stop() // not running
	e.Start()
	e.Stop()
	e.Stop()

	if ran := hs.queue.Tick(); ran != 0 {
		t.Errorf("tick ran %d callbacks after stop", ran)
	}
	if e.Running() || e.Frame() != 0 {
		t.Errorf("running=%v frame=%d after stop", e.Running(), e.Frame())
	}

	e.Start()
	hs.queue.Tick()
	if e.Frame() != 1 {
		t.Error("restart did not animate")
	}
}

func TestEngine_ReducedMotionAtStart(t *testing.T) {
	hs := newHarness(t, 100, 100, Options{ParticleCount: 2}, nil)
	hs.motion.Set(true)
	hs.engine.Init()

	hs.engine.Start()
	if got := hs.queue.Requested(); got != 0 {
		t.Errorf("requested %d frames with reduced motion", got)
	}
	if hs.engine.Running() {
		t.Error("engine running with reduced motion")
	}
	if !hs.engine.ReducedMotion() {
		t.Error("preference change not observed")
	}
}

func TestEngine_ReducedMotionSampledAtConstruction(t *testing.T) {
	motion := NewMotionSignal(true)
	e, err := New(NewOffscreenSurface(renderer.NewRecorder()), Host{
		Scheduler: NewFrameQueue(),
		Viewport:  &FixedViewport{W: 10, H: 10},
		Motion:    motion,
	}, Options{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !e.ReducedMotion() {
		t.Error("initial preference not sampled")
	}
	if motion.Subscribers() != 1 {
		t.Errorf("subscribers = %d, want 1", motion.Subscribers())
	}
	e.Destroy()
}

func TestEngine_ReducedMotionStopsLoop(t *testing.T) {
	hs := newHarness(t, 100, 100, Options{ParticleCount: 2}, nil)
	e := hs.engine
	e.Init()
	e.Start()
	hs.queue.Tick()

	hs.motion.Set(true)
	if e.Running() {
		t.Error("loop still running after reduced motion enabled")
	}
	if hs.queue.Pending() != 0 {
		t.Error("frame still pending after reduced motion enabled")
	}
	hs.queue.Tick()
	if e.Frame() != 1 {
		t.Errorf("frame = %d, want 1", e.Frame())
	}

	// Turning the preference off does not restart on its own
	hs.motion.Set(false)
	if e.Running() {
		t.Error("loop restarted without Start")
	}
	e.Start()
	if !e.Running() {
		t.Error("explicit Start after preference cleared should run")
	}
}

func TestEngine_Destroy(t *testing.T) {
	hs := newHarness(t, 100, 100, Options{ParticleCount: 4}, nil)
	e := hs.engine
	e.Init()
	e.Start()

	e.Destroy()
	if hs.queue.Pending() != 0 {
		t.Error("frame pending after destroy")
	}
	if e.Len() != 0 || len(e.Particles()) != 0 {
		t.Error("particles survived destroy")
	}
	if hs.motion.Subscribers() != 0 {
		t.Error("motion subscription survived destroy")
	}
	if !e.Destroyed() {
		t.Error("Destroyed() = false")
	}

	requested := hs.queue.Requested()
	e.Start()
	e.Init()
	e.Step()
	e.Destroy()
	if hs.queue.Requested() != requested {
		t.Error("destroyed engine scheduled a frame")
	}
	if e.Len() != 0 {
		t.Error("destroyed engine respawned")
	}
	if e.Frame() != 0 {
		t.Error("destroyed engine advanced")
	}

	// Preference changes after destroy reach nobody
	hs.motion.Set(true)
}

func TestEngine_InitReplacesPopulation(t *testing.T) {
	hs := newHarness(t, 100, 100, Options{ParticleCount: 6}, nil)
	hs.engine.Init()
	hs.engine.Init()
	if got := hs.engine.Len(); got != 6 {
		t.Errorf("Len() = %d after second init, want 6", got)
	}
}

func TestEngine_IdleSpeedCap(t *testing.T) {
	hs := newHarness(t, 300, 300, Options{ParticleCount: 20}, nil)
	e := hs.engine
	e.Init()
	e.UpdatePointer(150, 150)

	for step := 0; step < 300; step++ {
		e.Step()
		for i, p := range e.Particles() {
			if speed(p) > 0.3+1e-4 {
				t.Fatalf("step %d particle %d speed %v exceeds idle cap", step, i, speed(p))
			}
			if p.X < 0 || p.X > 300 || p.Y < 0 || p.Y > 300 {
				t.Fatalf("step %d particle %d escaped to (%v, %v)", step, i, p.X, p.Y)
			}
		}
	}
	if e.Frame() != 300 {
		t.Errorf("frame = %d, want 300", e.Frame())
	}
	if hs.queue.Requested() != 0 {
		t.Error("Step scheduled a frame")
	}
}

func TestEngine_ActiveSpeedCapAndMargin(t *testing.T) {
	hs := newHarness(t, 300, 300, Options{ParticleCount: 20}, nil)
	e := hs.engine
	e.Init()
	e.UpdatePointer(0, 0)

	for step := 0; step < 300; step++ {
		e.Step()
		for i, p := range e.Particles() {
			if speed(p) > 8+1e-3 {
				t.Fatalf("step %d particle %d speed %v exceeds active cap", step, i, speed(p))
			}
			if p.X < 20 || p.X > 280 || p.Y < 20 || p.Y > 280 {
				t.Fatalf("step %d particle %d at (%v, %v) outside margin", step, i, p.X, p.Y)
			}
		}
	}
}

func TestEngine_ActiveConvergesOnPointer(t *testing.T) {
	hs := newHarness(t, 300, 300, Options{ParticleCount: 1}, nil)
	e := hs.engine
	e.Init()
	e.UpdatePointer(250, 150)
	if e.Mode() != ModeActivate {
		t.Fatal("expected activate")
	}

	for i := 0; i < 500; i++ {
		e.Step()
	}
	p := e.Particles()[0]
	if d := math.Hypot(float64(p.X-250), float64(p.Y-150)); d > 1 {
		t.Errorf("particle %v from pointer after 500 frames", d)
	}
}

func TestEngine_SetCursorImage(t *testing.T) {
	hs := newHarness(t, 100, 100, Options{ParticleCount: 3}, nil)
	hs.engine.Init()
	hs.engine.Start()

	sprite := testImage{32, 32}
	hs.engine.SetCursorImage(sprite)
	hs.canvas.Reset()
	hs.queue.Tick()
	if got := hs.canvas.Count("drawImage"); got != 3 {
		t.Errorf("drawImage = %d, want 3", got)
	}
	if got := hs.canvas.Count("fill"); got != 0 {
		t.Errorf("arrow drawn %d times alongside sprite", got)
	}

	hs.engine.SetCursorImage(nil)
	hs.canvas.Reset()
	hs.queue.Tick()
	if hs.canvas.Count("drawImage") != 0 || hs.canvas.Count("fill") != 3 {
		t.Error("nil sprite should restore the arrow")
	}
}

func TestEngine_CursorImageOption(t *testing.T) {
	sprite := testImage{16, 16}
	loads := 0
	loader := ImageLoaderFunc(func(ctx context.Context, url string, done func(renderer.Image, error)) {
		loads++
	})
	hs := newHarness(t, 100, 100, Options{ParticleCount: 2, CursorImage: sprite, CursorURL: "cursor.png"}, loader)
	hs.engine.Init()
	hs.engine.Start()
	hs.queue.Tick()

	if loads != 0 {
		t.Error("URL fetched although an image was supplied")
	}
	if got := hs.canvas.Count("drawImage"); got != 2 {
		t.Errorf("drawImage = %d, want 2", got)
	}
}

func TestEngine_AsyncCursorLoad(t *testing.T) {
	defer goleak.VerifyNone(t)

	release := make(chan struct{})
	finished := make(chan struct{})
	sprite := testImage{24, 24}
	loader := ImageLoaderFunc(func(ctx context.Context, url string, done func(renderer.Image, error)) {
		go func() {
			defer close(finished)
			select {
			case <-release:
				done(sprite, nil)
			case <-ctx.Done():
			}
		}()
	})

	hs := newHarness(t, 100, 100, Options{ParticleCount: 4, CursorURL: "https://example.test/cursor.svg"}, loader)
	e := hs.engine
	e.Init()
	e.Start()

	hs.queue.Tick()
	if got := hs.canvas.Count("fill"); got != 4 {
		t.Errorf("before load: fills = %d, want 4", got)
	}

	close(release)
	<-finished

	hs.canvas.Reset()
	hs.queue.Tick()
	if got := hs.canvas.Count("drawImage"); got != 4 {
		t.Errorf("after load: drawImage = %d, want 4", got)
	}
	e.Destroy()
}

func TestEngine_SetCursorImageSupersedesLoad(t *testing.T) {
	defer goleak.VerifyNone(t)

	finished := make(chan struct{})
	loader := ImageLoaderFunc(func(ctx context.Context, url string, done func(renderer.Image, error)) {
		go func() {
			defer close(finished)
			<-ctx.Done()
			done(testImage{8, 8}, nil)
		}()
	})
	hs := newHarness(t, 100, 100, Options{ParticleCount: 2, CursorURL: "late.png"}, loader)
	e := hs.engine
	e.Init()
	e.Start()

	e.SetCursorImage(nil)
	<-finished

	hs.queue.Tick()
	if hs.canvas.Count("drawImage") != 0 || hs.canvas.Count("fill") != 2 {
		t.Error("late URL result replaced the explicitly set cursor")
	}
	e.Destroy()
}

func TestEngine_AsyncCursorLoadFailure(t *testing.T) {
	loader := ImageLoaderFunc(func(ctx context.Context, url string, done func(renderer.Image, error)) {
		done(nil, errors.New("404 not found"))
	})
	hs := newHarness(t, 100, 100, Options{ParticleCount: 3, CursorURL: "missing.png"}, loader)
	hs.engine.Init()
	hs.engine.Start()
	hs.queue.Tick()

	if got := hs.canvas.Count("fill"); got != 3 {
		t.Errorf("fills = %d, want arrow fallback for 3 particles", got)
	}
	if hs.canvas.Count("drawImage") != 0 {
		t.Error("sprite drawn after failed load")
	}
}

func TestEngine_CursorURLWithoutLoader(t *testing.T) {
	hs := newHarness(t, 100, 100, Options{ParticleCount: 1, CursorURL: "cursor.png"}, nil)
	hs.engine.Init()
	hs.engine.Start()
	hs.queue.Tick()
	if hs.canvas.Count("fill") != 1 {
		t.Error("expected arrow fallback")
	}
}

func TestEngine_DestroyCancelsLoad(t *testing.T) {
	defer goleak.VerifyNone(t)

	finished := make(chan struct{})
	var cancelled bool
	loader := ImageLoaderFunc(func(ctx context.Context, url string, done func(renderer.Image, error)) {
		go func() {
			defer close(finished)
			<-ctx.Done()
			cancelled = true
			done(testImage{8, 8}, nil)
		}()
	})

	hs := newHarness(t, 100, 100, Options{ParticleCount: 2, CursorURL: "slow.png"}, loader)
	hs.engine.Init()
	hs.engine.Destroy()
	<-finished

	if !cancelled {
		t.Error("load context not cancelled by destroy")
	}
	hs.engine.mu.Lock()
	sprite := hs.engine.sprite
	hs.engine.mu.Unlock()
	if sprite != nil {
		t.Error("late image accepted after destroy")
	}
}

func TestEngine_ConcurrentPointerUpdates(t *testing.T) {
	defer goleak.VerifyNone(t)

	hs := newHarness(t, 200, 200, Options{ParticleCount: 10}, nil)
	e := hs.engine
	e.Init()
	e.Start()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			e.UpdatePointer(float32(i%200), float32(i%150))
		}
	}()
	for i := 0; i < 100; i++ {
		hs.queue.Tick()
	}
	wg.Wait()

	if e.Frame() != 100 {
		t.Errorf("frame = %d, want 100", e.Frame())
	}
	e.Destroy()
}

// sloppyScheduler hands out callbacks and ignores CancelFrame, like a host
// that cannot take back a frame it already queued.
type sloppyScheduler struct {
	next    FrameHandle
	pending []func()
}

func (s *sloppyScheduler) RequestFrame(fn func()) FrameHandle {
	s.next++
	s.pending = append(s.pending, fn)
	return s.next
}

func (s *sloppyScheduler) CancelFrame(FrameHandle) {}

func (s *sloppyScheduler) runPending() {
	batch := s.pending
	s.pending = nil
	for _, fn := range batch {
		fn()
	}
}

func TestEngine_RestartIgnoresUncancelledFrame(t *testing.T) {
	sched := &sloppyScheduler{}
	e, err := New(NewOffscreenSurface(renderer.NewRecorder()), Host{
		Scheduler: sched,
		Viewport:  &FixedViewport{W: 100, H: 100, DPR: 1},
		Motion:    NewMotionSignal(false),
	}, Options{ParticleCount: 2, Seed: 1, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.Init()

	e.Start()
	e.Stop()
	e.Start()
	sched.runPending()

	if got := e.Frame(); got != 1 {
		t.Errorf("frame = %d after one round, want 1 (two loops running)", got)
	}
	if got := len(sched.pending); got != 1 {
		t.Errorf("pending frames = %d, want 1", got)
	}

	sched.runPending()
	if got := e.Frame(); got != 2 {
		t.Errorf("frame = %d after two rounds, want 2", got)
	}
}

func TestEngine_ModeChangeOrderUnderContention(t *testing.T) {
	defer goleak.VerifyNone(t)

	var mu sync.Mutex
	var got []Mode
	hs := newHarness(t, 200, 200, Options{
		ParticleCount:   1,
		CentralWidthPct: 0.5,
		OnModeChange: func(m Mode) {
			mu.Lock()
			got = append(got, m)
			mu.Unlock()
		},
	}, nil)
	e := hs.engine
	e.Init()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if (i+w)%2 == 0 {
					e.UpdatePointer(100, 100)
				} else {
					e.UpdatePointer(0, 0)
				}
			}
		}(w)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(got) == 0 {
		t.Fatal("no mode changes delivered")
	}
	for i := 1; i < len(got); i++ {
		if got[i] == got[i-1] {
			t.Fatalf("notification %d repeats %v: delivered out of order", i, got[i])
		}
	}
	if last := got[len(got)-1]; last != e.Mode() {
		t.Errorf("last notification %v, engine mode %v", last, e.Mode())
	}
}
