package term

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/folio/config"
	"github.com/pthm-cable/folio/content"
	"github.com/pthm-cable/folio/swarm"
)

var (
	styleText   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(200, 200, 196))
	styleMuted  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(120, 120, 116))
	styleStatus = tcell.StyleDefault.Reverse(true)
)

// Options configures an App.
type Options struct {
	Config        *config.Config
	Portfolio     *content.Portfolio
	Seed          int64 // overrides swarm.seed when non-zero
	ReducedMotion bool
	Blipper       *Blipper
	Logger        *slog.Logger
}

// App runs the swarm over a text rendition of the home page.
type App struct {
	screen   tcell.Screen
	log      *slog.Logger
	viewport ScreenViewport
	canvas   *Canvas
	frames   *swarm.FrameQueue
	motion   *swarm.MotionSignal
	engine   *swarm.Engine
	blip     *Blipper

	lines    []string
	frameDur time.Duration
}

// NewApp builds the swarm on an initialized screen and starts it.
func NewApp(screen tcell.Screen, opts Options) (*App, error) {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	a := &App{
		screen:   screen,
		log:      log,
		viewport: ScreenViewport{Screen: screen, CellW: cfg.Terminal.CellWidth, CellH: cfg.Terminal.CellHeight},
		canvas:   NewCanvas(cfg.Terminal.CellWidth, cfg.Terminal.CellHeight),
		frames:   swarm.NewFrameQueue(),
		motion:   swarm.NewMotionSignal(opts.ReducedMotion),
		blip:     opts.Blipper,
		lines:    homeLines(opts.Portfolio),
		frameDur: time.Duration(max(cfg.Terminal.FrameMs, 1)) * time.Millisecond,
	}

	swarmOpts, err := swarm.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	// Sprites cannot be fetched here; the arrow is drawn as a rune anyway
	swarmOpts.CursorURL = ""
	if opts.Seed != 0 {
		swarmOpts.Seed = opts.Seed
	}
	swarmOpts.Logger = log
	swarmOpts.OnModeChange = func(m swarm.Mode) {
		a.blip.Play(m == swarm.ModeActivate)
	}

	a.engine, err = swarm.New(NewSurface(a.canvas), swarm.Host{
		Scheduler: a.frames,
		Viewport:  a.viewport,
		Motion:    a.motion,
	}, swarmOpts)
	if err != nil {
		return nil, fmt.Errorf("creating terminal app: %w", err)
	}

	screen.EnableMouse(tcell.MouseMotionEvents)
	a.engine.Init()
	a.engine.Start()
	return a, nil
}

// Run polls input and draws frames until ctx is done or the user quits.
// The caller still owns the screen and must Fini it, which also ends the
// polling goroutine.
func (a *App) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(a.frameDur)
	defer ticker.Stop()
	defer a.engine.Destroy()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !a.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			a.Tick()
		}
	}
}

// HandleEvent applies one input event. It returns false when the user asked
// to quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'm':
				a.motion.Set(!a.motion.ReducedMotion())
				if !a.motion.ReducedMotion() {
					a.engine.Start()
				}
			}
		}

	case *tcell.EventMouse:
		col, row := ev.Position()
		a.engine.UpdatePointer(a.viewport.CellCenter(col, row))

	case *tcell.EventResize:
		a.screen.Sync()
		a.engine.Resize()
	}
	return true
}

// Tick runs the pending animation frame and redraws the screen.
func (a *App) Tick() {
	a.frames.Tick()
	a.draw()
}

// Engine returns the app's swarm.
func (a *App) Engine() *swarm.Engine { return a.engine }

func (a *App) draw() {
	a.screen.Clear()
	for row, line := range a.lines {
		style := styleText
		if row > 0 {
			style = styleMuted
		}
		drawString(a.screen, 2, row+1, line, style)
	}
	a.canvas.Flush(a.screen, tcell.StyleDefault)

	_, rows := a.screen.Size()
	motion := "on"
	if a.motion.ReducedMotion() {
		motion = "off"
	}
	status := fmt.Sprintf(" %s  motion %s  [m] toggle  [q] quit ", a.engine.Mode(), motion)
	drawString(a.screen, 0, rows-1, status, styleStatus)
	a.screen.Show()
}

func drawString(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// homeLines is the text backdrop: header and highlighted items.
func homeLines(p *content.Portfolio) []string {
	if p == nil {
		return nil
	}
	lines := []string{p.Header.Name, p.Header.Title, ""}
	for _, it := range p.Highlighted() {
		line := it.Title
		if it.Timespan != "" {
			line += "  " + it.Timespan
		}
		lines = append(lines, line)
	}
	return lines
}
