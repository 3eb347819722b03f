// Package swarm runs the cursor swarm: a fixed population of pointer-shaped
// particles that drift around the viewport while the pointer rests over the
// central content column, and converge on the pointer when it leaves it.
package swarm

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/folio/components"
	"github.com/pthm-cable/folio/renderer"
	"github.com/pthm-cable/folio/systems"
	"github.com/pthm-cable/folio/telemetry"
)

// Defaults applied to zero-valued Options fields.
const (
	DefaultParticleCount   = 80
	DefaultCentralWidthPct = 0.45
	DefaultCursorSize      = 12
	DefaultSizeJitter      = 4 // sizes fall in CursorSize ± 2
)

// Mode is the swarm's behaviour regime.
type Mode uint8

const (
	// ModeIdle: the pointer is over the central zone and particles wander.
	ModeIdle Mode = iota
	// ModeActivate: the pointer is outside the central zone and particles chase it.
	ModeActivate
)

func (m Mode) String() string {
	if m == ModeActivate {
		return "activate"
	}
	return "idle"
}

// Options configures an Engine. Zero values select defaults.
type Options struct {
	ParticleCount   int
	CentralWidthPct float32

	// Sprite drawn instead of the built-in arrow. CursorImage wins over
	// CursorURL; the URL is fetched through Host.Images.
	CursorImage renderer.Image
	CursorURL   string

	Params     systems.Params
	Style      renderer.CursorStyle
	CursorSize float32
	SizeJitter float32 // full width of the size spread around CursorSize

	Seed         int64 // 0 = time-based
	Logger       *slog.Logger
	Perf         *telemetry.PerfCollector
	// OnModeChange runs outside the engine lock, in mode order. It must not
	// call UpdatePointer.
	OnModeChange func(Mode)
}

// Particle is a read-only copy of one particle's state.
type Particle struct {
	X, Y             float32
	VX, VY           float32
	TargetX, TargetY float32
	Size             float32
	Angle            float32
	Phase            float32
}

// Engine owns the particle population and its animation loop. All methods
// are safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	// notifyMu serializes UpdatePointer so OnModeChange sees modes in order
	notifyMu sync.Mutex

	surface Surface
	ctx     renderer.Canvas
	host    Host
	log     *slog.Logger
	perf    *telemetry.PerfCollector
	rng     *rand.Rand

	count        int
	pct          float32
	params       systems.Params
	size, jitter float32
	cursor       *renderer.CursorRenderer
	sprite       renderer.Image
	onMode       func(Mode)

	world     *ecs.World
	mapper    *ecs.Map4[components.Position, components.Velocity, components.Wander, components.Glyph]
	filter    *ecs.Filter2[components.Position, components.Glyph]
	particles []ecs.Entity

	// Scratch buffers for the active-mode two-pass update
	snap []components.Position
	sep  []components.Velocity
	near []systems.Neighbor
	grid *systems.SpatialGrid

	bounds   systems.Bounds
	zone     systems.Rect
	pointerX float32
	pointerY float32
	mode     Mode

	handle      FrameHandle
	loop        uint64 // bumped by Start and Stop; frames of older loops are stale
	frame       uint64
	reduced     bool
	unsubscribe func()
	cancelLoad  context.CancelFunc
	destroyed   bool
}

// New creates an engine drawing into surface. It fails only when a required
// capability is missing. The swarm is empty until Init is called.
func New(surface Surface, host Host, opts Options) (*Engine, error) {
	if surface == nil {
		return nil, fmt.Errorf("creating swarm: %w", ErrNoContext)
	}
	ctx := surface.Context()
	if ctx == nil {
		return nil, fmt.Errorf("creating swarm: %w", ErrNoContext)
	}
	if host.Scheduler == nil {
		return nil, fmt.Errorf("creating swarm: %w", ErrNoScheduler)
	}
	if host.Viewport == nil {
		return nil, fmt.Errorf("creating swarm: %w", ErrNoViewport)
	}

	opts = withDefaults(opts)
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	world := ecs.NewWorld()
	e := &Engine{
		surface: surface,
		ctx:     ctx,
		host:    host,
		log:     opts.Logger,
		perf:    opts.Perf,
		rng:     rand.New(rand.NewSource(seed)),
		count:   opts.ParticleCount,
		pct:     opts.CentralWidthPct,
		params:  opts.Params,
		size:    opts.CursorSize,
		jitter:  opts.SizeJitter,
		cursor:  renderer.NewCursorRenderer(opts.Style),
		sprite:  opts.CursorImage,
		onMode:  opts.OnModeChange,
		world:   world,
		mapper:  ecs.NewMap4[components.Position, components.Velocity, components.Wander, components.Glyph](world),
		filter:  ecs.NewFilter2[components.Position, components.Glyph](world),
		mode:    ModeIdle,
	}

	if host.Motion != nil {
		e.reduced = host.Motion.ReducedMotion()
		e.unsubscribe = host.Motion.Subscribe(e.onMotionChange)
	}
	if e.sprite == nil && opts.CursorURL != "" {
		e.loadCursor(opts.CursorURL)
	}

	e.log.Debug("swarm created",
		"particles", e.count,
		"central_width_pct", e.pct,
		"reduced_motion", e.reduced,
		"seed", seed,
	)
	return e, nil
}

func withDefaults(o Options) Options {
	if o.ParticleCount <= 0 {
		o.ParticleCount = DefaultParticleCount
	}
	if o.CentralWidthPct <= 0 || o.CentralWidthPct > 1 {
		o.CentralWidthPct = DefaultCentralWidthPct
	}
	if o.Params == (systems.Params{}) {
		o.Params = systems.DefaultParams()
	}
	if o.Style == (renderer.CursorStyle{}) {
		o.Style = renderer.DefaultCursorStyle()
	}
	if o.CursorSize <= 0 {
		o.CursorSize = DefaultCursorSize
		o.SizeJitter = DefaultSizeJitter
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// loadCursor starts an asynchronous sprite fetch. Failure keeps the arrow.
func (e *Engine) loadCursor(url string) {
	if e.host.Images == nil {
		e.log.Warn("no image loader, using default cursor", "url", url)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.cancelLoad = cancel
	e.host.Images.Load(ctx, url, func(img renderer.Image, err error) {
		if err != nil {
			if ctx.Err() == nil {
				e.log.Warn("cursor image failed to load, using default cursor", "url", url, "error", err)
			}
			return
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		// Superseded by SetCursorImage or Destroy
		if e.destroyed || img == nil || ctx.Err() != nil {
			return
		}
		e.sprite = img
		e.log.Debug("cursor image loaded", "url", url)
	})
}

func (e *Engine) onMotionChange(reduced bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reduced = reduced
	if reduced && e.handle != 0 {
		e.stopLocked()
		e.log.Info("animation stopped: reduced motion enabled")
	}
}

// Init sizes the surface to the viewport and spawns the population,
// replacing any existing particles.
func (e *Engine) Init() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		e.log.Warn("init after destroy ignored")
		return
	}
	e.resizeLocked()
	e.removeParticlesLocked()

	e.particles = make([]ecs.Entity, 0, e.count)
	for i := 0; i < e.count; i++ {
		pos, vel, w, g := systems.Spawn(e.bounds, e.size, e.jitter, e.rng)
		e.particles = append(e.particles, e.mapper.NewEntity(&pos, &vel, &w, &g))
	}
}

// Resize re-reads the viewport, resizes the backing store and pulls every
// particle back inside the new bounds. Velocities and mode are unchanged.
func (e *Engine) Resize() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.resizeLocked()
}

func (e *Engine) resizeLocked() {
	w, h := e.host.Viewport.Size()
	dpr := e.host.Viewport.PixelRatio()
	if dpr <= 0 {
		dpr = 1
	}

	// Resizing the backing store resets the transform, so rescale after
	e.surface.SetBackingSize(int(w*dpr), int(h*dpr))
	e.ctx.Scale(dpr, dpr)

	e.bounds = systems.Bounds{Width: w, Height: h}
	e.zone = systems.CentralZone(e.bounds, e.pct)
	e.grid = systems.NewSpatialGrid(w, h, e.params.SeparationRadius)

	for _, ent := range e.particles {
		pos, _, _, _ := e.mapper.Get(ent)
		systems.ClampToBounds(pos, e.bounds)
	}
}

// UpdatePointer records the pointer position in viewport units and derives
// the mode: idle inside the central zone, activate outside it.
func (e *Engine) UpdatePointer(x, y float32) {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()

	e.mu.Lock()
	e.pointerX, e.pointerY = x, y
	mode := ModeActivate
	if e.zone.Contains(x, y) {
		mode = ModeIdle
	}
	changed := mode != e.mode
	e.mode = mode
	cb := e.onMode
	e.mu.Unlock()

	if changed && cb != nil {
		cb(mode)
	}
}

// Start schedules the animation loop. It does nothing while reduced motion
// is preferred, after Destroy, or when the loop is already running.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case e.destroyed:
		e.log.Warn("start after destroy ignored")
		return
	case e.reduced:
		e.log.Info("animation disabled: reduced motion preferred")
		return
	case e.handle != 0:
		return
	}
	e.loop++
	e.scheduleLocked()
}

// scheduleLocked requests the next frame for the current loop.
func (e *Engine) scheduleLocked() {
	loop := e.loop
	e.handle = e.host.Scheduler.RequestFrame(func() { e.animate(loop) })
}

// Stop cancels the pending frame. Safe to call when not running.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	if e.handle != 0 {
		e.host.Scheduler.CancelFrame(e.handle)
		e.handle = 0
		e.loop++
	}
}

// Destroy stops the loop, drops the reduced-motion subscription, abandons
// any sprite fetch and releases the particles. The engine is unusable after.
func (e *Engine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.stopLocked()
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	if e.cancelLoad != nil {
		e.cancelLoad()
		e.cancelLoad = nil
	}
	e.removeParticlesLocked()
	e.destroyed = true
	e.log.Debug("swarm destroyed", "frames", e.frame)
}

func (e *Engine) removeParticlesLocked() {
	for _, ent := range e.particles {
		e.world.RemoveEntity(ent)
	}
	e.particles = e.particles[:0]
}

// SetCursorImage replaces the sprite and abandons any pending URL load. nil
// restores the built-in arrow.
func (e *Engine) SetCursorImage(img renderer.Image) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancelLoad != nil {
		e.cancelLoad()
	}
	e.sprite = img
}

// animate is the frame callback: clear, update, render, reschedule.
func (e *Engine) animate(loop uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	// Stale callback from before Stop or Destroy
	if loop != e.loop || e.handle == 0 || e.destroyed {
		return
	}

	e.perf.StartFrame()
	e.ctx.ClearRect(0, 0, e.bounds.Width, e.bounds.Height)
	e.updateLocked(e.perf)

	e.perf.StartPhase(telemetry.PhaseRender)
	e.renderLocked()
	e.perf.EndFrame()

	e.frame++
	e.scheduleLocked()
}

// Step advances the simulation by one frame without drawing. It ignores the
// loop state and the reduced-motion preference.
func (e *Engine) Step() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.updateLocked(nil)
	e.frame++
}

// updateLocked advances every particle by one frame. perf may be nil.
func (e *Engine) updateLocked(perf *telemetry.PerfCollector) {
	perf.StartPhase(telemetry.PhaseUpdate)

	if e.mode == ModeIdle {
		for _, ent := range e.particles {
			pos, vel, w, g := e.mapper.Get(ent)
			systems.IdleStep(pos, vel, w, g, e.bounds, e.params, e.rng)
		}
		return
	}

	// Separation reads frame-start positions for every particle, so it is
	// computed in full before any particle moves
	perf.StartPhase(telemetry.PhaseSeparation)
	e.snap = e.snap[:0]
	for _, ent := range e.particles {
		pos, _, _, _ := e.mapper.Get(ent)
		e.snap = append(e.snap, *pos)
	}
	if e.grid == nil {
		e.sep = systems.SeparationPass(e.snap, e.params, e.sep)
	} else {
		e.sep, e.near = e.grid.SeparationPass(e.snap, e.params, e.sep, e.near)
	}

	perf.StartPhase(telemetry.PhaseUpdate)
	for i, ent := range e.particles {
		pos, vel, _, g := e.mapper.Get(ent)
		systems.ActiveStep(pos, vel, g, e.sep[i], e.pointerX, e.pointerY, e.bounds, e.params)
	}
}

func (e *Engine) renderLocked() {
	query := e.filter.Query()
	for query.Next() {
		pos, g := query.Get()
		e.cursor.Draw(e.ctx, pos.X, pos.Y, g.Angle, g.Size, e.sprite)
	}
}

// Mode returns the current mode.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Pointer returns the last recorded pointer position.
func (e *Engine) Pointer() (x, y float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pointerX, e.pointerY
}

// Zone returns the central zone for the current viewport.
func (e *Engine) Zone() systems.Rect {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.zone
}

// Viewport returns the viewport extent used by the simulation.
func (e *Engine) Viewport() systems.Bounds {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bounds
}

// Running reports whether a frame is scheduled.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.handle != 0
}

// ReducedMotion returns the last observed reduced-motion preference.
func (e *Engine) ReducedMotion() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reduced
}

// Destroyed reports whether Destroy has been called.
func (e *Engine) Destroyed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed
}

// Frame returns the number of simulated frames.
func (e *Engine) Frame() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frame
}

// Len returns the number of live particles.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.particles)
}

// Particles returns a copy of every particle's state in spawn order.
func (e *Engine) Particles() []Particle {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Particle, 0, len(e.particles))
	for _, ent := range e.particles {
		pos, vel, w, g := e.mapper.Get(ent)
		out = append(out, Particle{
			X: pos.X, Y: pos.Y,
			VX: vel.X, VY: vel.Y,
			TargetX: w.TargetX, TargetY: w.TargetY,
			Size:  g.Size,
			Angle: g.Angle,
			Phase: w.Phase,
		})
	}
	return out
}
