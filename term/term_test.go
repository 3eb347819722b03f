package term

import (
	"context"
	"image/color"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/goleak"

	"github.com/pthm-cable/folio/config"
	"github.com/pthm-cable/folio/content"
	"github.com/pthm-cable/folio/renderer"
	"github.com/pthm-cable/folio/swarm"
)

// mockScreen is a minimal tcell.Screen that records cell contents.
type mockScreen struct {
	tcell.Screen
	width, height int
	cells         map[[2]int]rune
	shows, syncs  int
	mouse         bool
	events        chan tcell.Event
}

func newMockScreen(w, h int) *mockScreen {
	return &mockScreen{width: w, height: h, cells: map[[2]int]rune{}, events: make(chan tcell.Event)}
}

func (m *mockScreen) Size() (int, int) { return m.width, m.height }
func (m *mockScreen) Clear()           { clear(m.cells) }
func (m *mockScreen) Show()            { m.shows++ }
func (m *mockScreen) Sync()            { m.syncs++ }
func (m *mockScreen) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	m.cells[[2]int{x, y}] = mainc
}
func (m *mockScreen) EnableMouse(...tcell.MouseFlags) { m.mouse = true }

func (m *mockScreen) PollEvent() tcell.Event {
	ev, ok := <-m.events
	if !ok {
		return nil
	}
	return ev
}

func (m *mockScreen) row(y int) string {
	var sb strings.Builder
	for x := 0; x < m.width; x++ {
		r, ok := m.cells[[2]int{x, y}]
		if !ok {
			r = ' '
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func isArrow(r rune) bool {
	for _, a := range arrows {
		if a == r {
			return true
		}
	}
	return false
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp(t *testing.T, reduced bool) (*App, *mockScreen) {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	p, err := content.Load()
	if err != nil {
		t.Fatalf("content.Load: %v", err)
	}
	screen := newMockScreen(80, 24)
	app, err := NewApp(screen, Options{
		Config:        cfg,
		Portfolio:     p,
		Seed:          7,
		ReducedMotion: reduced,
		Logger:        quietLogger(),
	})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app, screen
}

func TestArrowRune(t *testing.T) {
	tests := []struct {
		dx, dy float32
		want   rune
	}{
		{1, 0, '→'},
		{1, 1, '↘'},
		{0, 1, '↓'},
		{-1, 1, '↙'},
		{-1, 0, '←'},
		{-1, -1, '↖'},
		{0, -1, '↑'},
		{1, -1, '↗'},
		{0, 0, '→'},
		{1, 0.2, '→'},
	}
	for _, tt := range tests {
		if got := arrowRune(tt.dx, tt.dy); got != tt.want {
			t.Errorf("arrowRune(%v, %v) = %q, want %q", tt.dx, tt.dy, got, tt.want)
		}
	}
}

func TestCanvas_ArrowPointsAtTip(t *testing.T) {
	c := NewCanvas(8, 16)
	c.Resize(10, 5)
	cursor := renderer.NewCursorRenderer(renderer.DefaultCursorStyle())

	// Unrotated arrow: tip up-left of its body
	cursor.Draw(c, 20, 20, 0, 12, nil)
	cell := c.At(2, 1)
	if cell.Rune != '↖' {
		t.Fatalf("rune = %q, want ↖", cell.Rune)
	}
	if cell.Color() != renderer.DefaultCursorStyle().Stroke {
		t.Errorf("color = %v, want stroke color", cell.Color())
	}

	// Half a turn points the other way
	cursor.Draw(c, 60, 40, math.Pi, 12, nil)
	if got := c.At(7, 2).Rune; got != '↘' {
		t.Errorf("rotated rune = %q, want ↘", got)
	}
}

func TestCanvas_ClearRect(t *testing.T) {
	c := NewCanvas(8, 16)
	c.Resize(4, 4)
	c.BeginPath()
	c.MoveTo(4, 4)
	c.LineTo(0, 0)
	c.Fill(color.RGBA{A: 255})
	c.BeginPath()
	c.MoveTo(28, 56)
	c.LineTo(20, 50)
	c.Fill(color.RGBA{A: 255})

	c.ClearRect(0, 0, 16, 32)
	if c.At(0, 0).Rune != 0 {
		t.Error("cell inside cleared rect survived")
	}
	if c.At(3, 3).Rune == 0 {
		t.Error("cell outside cleared rect was cleared")
	}

	c.ClearRect(0, 0, 32, 64)
	if c.At(3, 3).Rune != 0 {
		t.Error("full clear left a cell")
	}
}

func TestCanvas_OutOfRange(t *testing.T) {
	c := NewCanvas(8, 16)
	c.Resize(2, 2)
	c.BeginPath()
	c.MoveTo(100, 100)
	c.Fill(color.RGBA{A: 255})
	c.Stroke(color.RGBA{R: 1, A: 255}, 1)
	if c.At(5, 5) != (Cell{}) {
		t.Error("At out of range should be empty")
	}
	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			if c.At(col, row).Rune != 0 {
				t.Errorf("cell %d,%d written", col, row)
			}
		}
	}
}

type testImage struct{}

func (testImage) Size() (int, int) { return 8, 8 }

func TestCanvas_DrawImageAndFlush(t *testing.T) {
	c := NewCanvas(8, 16)
	c.Resize(4, 2)
	c.Save()
	c.Translate(20, 24)
	c.DrawImage(testImage{}, -6, -6, 12, 12)
	c.Restore()

	if got := c.At(2, 1).Rune; got != SpriteRune {
		t.Fatalf("rune = %q, want %q", got, SpriteRune)
	}

	screen := newMockScreen(4, 2)
	c.Flush(screen, tcell.StyleDefault)
	if len(screen.cells) != 1 || screen.cells[[2]int{2, 1}] != SpriteRune {
		t.Errorf("flushed cells = %v", screen.cells)
	}
}

func TestSurface_SetBackingSize(t *testing.T) {
	c := NewCanvas(8, 16)
	s := NewSurface(c)
	c.Scale(3, 3)

	s.SetBackingSize(84, 50)
	if cols, rows := c.Grid(); cols != 10 || rows != 3 {
		t.Errorf("grid = %dx%d, want 10x3", cols, rows)
	}
	if got := c.Current().ScaleX(); got != 1 {
		t.Errorf("scale after resize = %v, want 1", got)
	}
}

func TestScreenViewport(t *testing.T) {
	v := ScreenViewport{Screen: newMockScreen(80, 24), CellW: 8, CellH: 16}
	if w, h := v.Size(); w != 640 || h != 384 {
		t.Errorf("Size = %v x %v", w, h)
	}
	if v.PixelRatio() != 1 {
		t.Error("pixel ratio should be 1")
	}
	if x, y := v.CellCenter(2, 3); x != 20 || y != 56 {
		t.Errorf("CellCenter = %v, %v", x, y)
	}
}

func TestApp_QuitKeys(t *testing.T) {
	app, _ := newTestApp(t, false)
	defer app.Engine().Destroy()

	tests := []struct {
		name string
		ev   tcell.Event
		want bool
	}{
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), false},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone), false},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), false},
		{"other rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), true},
		{"resize", tcell.NewEventResize(80, 24), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := app.HandleEvent(tt.ev); got != tt.want {
				t.Errorf("HandleEvent = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApp_MouseDrivesMode(t *testing.T) {
	app, screen := newTestApp(t, false)
	defer app.Engine().Destroy()

	if !screen.mouse {
		t.Error("mouse not enabled")
	}

	// Column 0 is left of the central zone
	app.HandleEvent(tcell.NewEventMouse(0, 5, tcell.ButtonNone, tcell.ModNone))
	if got := app.Engine().Mode(); got != swarm.ModeActivate {
		t.Errorf("mode at left edge = %v, want activate", got)
	}
	if x, y := app.Engine().Pointer(); x != 4 || y != 88 {
		t.Errorf("pointer = %v, %v, want cell center 4, 88", x, y)
	}

	app.HandleEvent(tcell.NewEventMouse(40, 12, tcell.ButtonNone, tcell.ModNone))
	if got := app.Engine().Mode(); got != swarm.ModeIdle {
		t.Errorf("mode at center = %v, want idle", got)
	}
}

func TestApp_MotionToggle(t *testing.T) {
	app, _ := newTestApp(t, true)
	defer app.Engine().Destroy()

	if app.Engine().Running() {
		t.Fatal("running despite reduced motion")
	}

	m := tcell.NewEventKey(tcell.KeyRune, 'm', tcell.ModNone)
	app.HandleEvent(m)
	if !app.Engine().Running() {
		t.Error("not running after motion allowed")
	}

	app.HandleEvent(m)
	if app.Engine().Running() {
		t.Error("still running after motion reduced")
	}
}

func TestApp_TickDraws(t *testing.T) {
	app, screen := newTestApp(t, false)
	defer app.Engine().Destroy()

	app.Tick()
	if screen.shows != 1 {
		t.Errorf("shows = %d, want 1", screen.shows)
	}
	if app.Engine().Frame() != 1 {
		t.Errorf("frame = %d, want 1", app.Engine().Frame())
	}

	if status := screen.row(23); !strings.Contains(status, "idle") || !strings.Contains(status, "motion on") {
		t.Errorf("status row = %q", status)
	}

	arrowsSeen := 0
	for _, r := range screen.cells {
		if isArrow(r) {
			arrowsSeen++
		}
	}
	if arrowsSeen == 0 {
		t.Error("no particles drawn")
	}
}

func TestApp_TickReducedMotion(t *testing.T) {
	app, screen := newTestApp(t, true)
	defer app.Engine().Destroy()

	app.Tick()
	if app.Engine().Frame() != 0 {
		t.Errorf("frame = %d, want 0", app.Engine().Frame())
	}
	if !strings.Contains(screen.row(1), "Tommaso Prinetti") {
		t.Errorf("header row = %q", screen.row(1))
	}
	if status := screen.row(23); !strings.Contains(status, "motion off") {
		t.Errorf("status row = %q", status)
	}
	for _, r := range screen.cells {
		if isArrow(r) {
			t.Fatal("particle drawn with motion reduced")
		}
	}
}

func TestApp_RunQuits(t *testing.T) {
	defer goleak.VerifyNone(t)

	app, screen := newTestApp(t, false)
	errc := make(chan error, 1)
	go func() { errc <- app.Run(context.Background()) }()

	screen.events <- tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after q")
	}
	if !app.Engine().Destroyed() {
		t.Error("engine not destroyed after Run")
	}
	close(screen.events)
}

func TestApp_RunContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	app, screen := newTestApp(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- app.Run(ctx) }()

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	close(screen.events)
}

func TestHomeLines(t *testing.T) {
	if homeLines(nil) != nil {
		t.Error("nil portfolio should give no lines")
	}
	p := &content.Portfolio{
		Header: content.Header{Name: "N", Title: "T"},
		Sections: []content.Section{{Items: []content.Item{
			{Title: "a", Timespan: "2020", IsHighlighted: true},
			{Title: "b"},
			{Title: "c", IsHighlighted: true},
		}}},
	}
	got := homeLines(p)
	want := []string{"N", "T", "", "a  2020", "c"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("homeLines = %q, want %q", got, want)
	}
}

func TestTone(t *testing.T) {
	for _, activate := range []bool{false, true} {
		s, err := Tone(activate)
		if err != nil {
			t.Fatalf("Tone(%v): %v", activate, err)
		}
		buf := make([][2]float64, 512)
		total := 0
		peak := 0.0
		for {
			n, ok := s.Stream(buf)
			for _, smp := range buf[:n] {
				peak = math.Max(peak, math.Abs(smp[0]))
			}
			total += n
			if !ok {
				break
			}
		}
		if want := blipRate.N(blipDuration); total != want {
			t.Errorf("Tone(%v) length = %d, want %d", activate, total, want)
		}
		if peak > 0.25+1e-9 || peak == 0 {
			t.Errorf("Tone(%v) peak = %v, want in (0, 0.25]", activate, peak)
		}
	}
}

func TestBlipper_Disabled(t *testing.T) {
	b, err := NewBlipper(false)
	if err != nil {
		t.Fatalf("NewBlipper: %v", err)
	}
	if b.Enabled() {
		t.Error("disabled blipper reports enabled")
	}
	b.Play(true)
	b.Close()

	var nilBlip *Blipper
	nilBlip.Play(false)
	if nilBlip.Enabled() {
		t.Error("nil blipper reports enabled")
	}
}
