package page

import (
	"fmt"
	"slices"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	colorZone       = rl.NewColor(32, 64, 200, 40)
	colorPanel      = rl.NewColor(16, 16, 16, 200)
	colorPanelText  = rl.NewColor(230, 230, 230, 255)
	colorPanelWarn  = rl.NewColor(255, 160, 0, 255)
	colorPanelAlert = rl.NewColor(230, 41, 55, 255)
)

// drawDebug renders the central zone and the frame timing panel. Toggled
// with F3.
func (p *Page) drawDebug() {
	zone := p.engine.Zone()
	rl.DrawRectangleRec(rl.Rectangle{X: zone.X, Y: zone.Y, Width: zone.W, Height: zone.H}, colorZone)

	stats := p.perf.Stats()
	x, y := int32(10), int32(10)
	rl.DrawRectangle(x-4, y-4, 260, 40+int32(len(stats.PhaseAvg))*14, colorPanel)

	rl.DrawText(fmt.Sprintf("%s  %d particles  %.0f fps", p.engine.Mode(), p.engine.Len(), stats.FPS),
		x, y, 14, colorPanelText)
	y += 18
	rl.DrawText(fmt.Sprintf("frame %s  headroom %.0f/s", stats.AvgFrame.Round(time.Microsecond), stats.Headroom),
		x, y, 12, colorPanelText)
	y += 16

	// Most expensive phase first
	names := make([]string, 0, len(stats.PhaseAvg))
	for name := range stats.PhaseAvg {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		return int(stats.PhaseAvg[b] - stats.PhaseAvg[a])
	})

	for _, name := range names {
		pct := stats.PhasePct[name]
		col := colorPanelText
		if pct > 50 {
			col = colorPanelAlert
		} else if pct > 25 {
			col = colorPanelWarn
		}
		rl.DrawText(fmt.Sprintf("%-12s %8s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct),
			x, y, 12, col)
		y += 14
	}
}
