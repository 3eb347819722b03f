// Package page is the raylib portfolio: the content pages with the cursor
// swarm composited over them.
package page

import (
	"errors"
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/folio/config"
	"github.com/pthm-cable/folio/content"
	"github.com/pthm-cable/folio/display"
	"github.com/pthm-cable/folio/page/layout"
	"github.com/pthm-cable/folio/swarm"
	"github.com/pthm-cable/folio/telemetry"
)

// Options configures a Page.
type Options struct {
	Config    *config.Config
	Portfolio *content.Portfolio
	Medias    map[string]string
	Route     string // initial route, empty = home

	Seed          int64 // overrides swarm.seed when non-zero
	ReducedMotion bool  // initial reduced-motion preference
	LogStats      bool
	OutputDir     string
	Logger        *slog.Logger
}

// Page holds the portfolio state. It must be created after the raylib
// window is open and driven from the thread that opened it.
type Page struct {
	cfg       *config.Config
	log       *slog.Logger
	portfolio *content.Portfolio
	medias    map[string]string

	// Swarm and its host capabilities
	engine  *swarm.Engine
	surface *display.Surface
	loader  *display.TextureLoader
	frames  *swarm.FrameQueue
	motion  *swarm.MotionSignal
	toggle  *display.MotionToggle

	// Telemetry
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	logStats  bool
	showDebug bool

	// View state
	route    string
	layout   layout.Layout
	scroll   float32
	pointerX float32
	pointerY float32

	screenWidth, screenHeight float32
}

// NewPage builds the page and starts the swarm.
func NewPage(opts Options) (*Page, error) {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		log.Error("failed to write config", "error", err)
	}

	p := &Page{
		cfg:          cfg,
		log:          log,
		portfolio:    opts.Portfolio,
		medias:       opts.Medias,
		surface:      display.NewSurface(),
		loader:       display.NewTextureLoader(content.AssetFetcher{}, log),
		frames:       swarm.NewFrameQueue(),
		motion:       swarm.NewMotionSignal(opts.ReducedMotion),
		collector:    telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.FrameSeconds),
		perf:         telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		output:       output,
		logStats:     opts.LogStats,
		screenWidth:  float32(rl.GetScreenWidth()),
		screenHeight: float32(rl.GetScreenHeight()),
	}
	p.toggle = &display.MotionToggle{Signal: p.motion}

	swarmOpts, err := swarm.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if opts.Seed != 0 {
		swarmOpts.Seed = opts.Seed
	}
	swarmOpts.Logger = log
	swarmOpts.Perf = p.perf
	swarmOpts.OnModeChange = func(m swarm.Mode) {
		log.Debug("swarm mode", "mode", m.String())
	}

	p.engine, err = swarm.New(p.surface, swarm.Host{
		Scheduler: p.frames,
		Viewport:  display.Window{},
		Motion:    p.motion,
		Images:    p.loader,
	}, swarmOpts)
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}
	p.engine.Init()
	p.engine.Start()

	p.navigate(opts.Route)
	p.placeToggle()
	return p, nil
}

// Update processes input and advances the swarm by at most one frame.
func (p *Page) Update() {
	p.handleInput()
	p.loader.Pump()

	p.surface.Begin()
	ran := p.frames.Tick()
	p.surface.End()

	if ran > 0 {
		p.recordTelemetry()
	}
}

// Draw renders the page and composites the swarm over it.
func (p *Page) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(colorBackground)

	p.drawLayout()
	p.surface.Draw(p.screenWidth, p.screenHeight)
	if p.showDebug {
		p.drawDebug()
	}
	if p.toggle.Draw() && !p.motion.ReducedMotion() {
		p.engine.Start()
	}

	rl.EndDrawing()
	p.perf.RecordPresent()
}

// Unload stops the swarm and releases GPU and file resources.
func (p *Page) Unload() {
	p.engine.Destroy()
	p.loader.Unload()
	p.surface.Unload()
	if err := p.output.Close(); err != nil {
		p.log.Error("failed to close output", "error", err)
	}
}

// Route returns the current route, empty for home.
func (p *Page) Route() string { return p.route }

// Engine returns the page's swarm.
func (p *Page) Engine() *swarm.Engine { return p.engine }

// navigate switches to route. Unknown slugs render the 404 page.
func (p *Page) navigate(route string) {
	if route == layout.RouteHome {
		route = ""
	}
	p.route = route
	p.scroll = 0
	p.relayout()
}

func (p *Page) relayout() {
	measure := func(text string, size int32) float32 {
		return float32(rl.MeasureText(text, size))
	}
	if p.route == "" {
		p.layout = layout.Home(p.portfolio, p.screenWidth, measure)
		return
	}

	project, err := content.LoadProject(p.portfolio, p.medias, p.route)
	switch {
	case errors.Is(err, content.ErrProjectNotFound):
		p.log.Info("project not found", "route", p.route)
		p.layout = layout.NotFound(p.route, p.screenWidth, measure)
	case err != nil:
		p.log.Error("failed to load project", "route", p.route, "error", err)
		p.layout = layout.NotFound(p.route, p.screenWidth, measure)
	default:
		p.layout = layout.Project(project, p.screenWidth, measure)
	}
}

func (p *Page) placeToggle() {
	p.toggle.Bounds = rl.Rectangle{X: p.screenWidth - 150, Y: 12, Width: 138, Height: 28}
}
