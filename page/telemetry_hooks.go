package page

import (
	"github.com/pthm-cable/folio/swarm"
)

// recordTelemetry records the frame that just ran and flushes the window
// when it is complete.
func (p *Page) recordTelemetry() {
	px, py := p.engine.Pointer()
	speeds, dist := swarm.Sample(p.engine.Particles(), px, py)
	p.collector.RecordFrame(p.engine.Mode() == swarm.ModeActivate, dist)

	if !p.collector.ShouldFlush() {
		return
	}

	stats := p.collector.Flush(speeds)
	perfStats := p.perf.Stats()

	if p.logStats {
		p.log.Info("stats", "window", stats)
		p.log.Info("perf", "stats", perfStats)
	}

	if p.output != nil {
		if err := p.output.WriteStats(stats); err != nil {
			p.log.Error("failed to write stats", "error", err)
		}
		if err := p.output.WritePerf(perfStats, stats.WindowEnd); err != nil {
			p.log.Error("failed to write perf", "error", err)
		}
	}
}
