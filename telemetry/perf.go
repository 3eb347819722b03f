package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one swarm frame.
const (
	PhaseUpdate     = "update"
	PhaseSeparation = "separation"
	PhaseRender     = "render"
)

var phases = []string{PhaseUpdate, PhaseSeparation, PhaseRender}

// FrameTiming holds the measured cost of one animation frame.
type FrameTiming struct {
	Total  time.Duration
	Phases map[string]time.Duration
}

// PerfCollector keeps a rolling window of frame timings. A nil collector
// accepts every call and records nothing, so callers never need to check.
type PerfCollector struct {
	size    int
	ring    []FrameTiming
	next    int
	filled  int
	current map[string]time.Duration

	frameStart time.Time
	phaseStart time.Time
	phase      string

	// Wall-clock presentation interval, measured by the host
	lastPresent time.Time
	interval    time.Duration
}

// NewPerfCollector creates a collector averaging over size frames.
func NewPerfCollector(size int) *PerfCollector {
	if size < 1 {
		size = 60
	}
	return &PerfCollector{
		size:    size,
		ring:    make([]FrameTiming, size),
		current: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a frame.
func (p *PerfCollector) StartFrame() {
	if p == nil {
		return
	}
	p.frameStart = time.Now()
	p.current = make(map[string]time.Duration, len(phases))
	p.phase = ""
}

// StartPhase closes the running phase, if any, and opens the named one.
func (p *PerfCollector) StartPhase(name string) {
	if p == nil {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = name
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.current[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndFrame closes the running phase and stores the frame in the window.
func (p *PerfCollector) EndFrame() {
	if p == nil {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.phase = ""

	p.ring[p.next] = FrameTiming{Total: now.Sub(p.frameStart), Phases: p.current}
	p.next = (p.next + 1) % p.size
	if p.filled < p.size {
		p.filled++
	}
}

// RecordPresent marks a host presentation. The interval between calls
// gives the delivered frame rate.
func (p *PerfCollector) RecordPresent() {
	if p == nil {
		return
	}
	now := time.Now()
	if !p.lastPresent.IsZero() {
		p.interval = now.Sub(p.lastPresent)
	}
	p.lastPresent = now
}

// PerfStats aggregates the window.
type PerfStats struct {
	AvgFrame time.Duration
	MinFrame time.Duration
	MaxFrame time.Duration

	PhaseAvg map[string]time.Duration
	// Share of the average frame spent in each phase, in percent
	PhasePct map[string]float64

	// Frames the engine could compute per second at the average cost
	Headroom float64

	Interval time.Duration
	FPS      float64
}

// Stats computes aggregates over the stored frames.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}
	if p == nil {
		return out
	}
	out.Interval = p.interval
	if p.interval > 0 {
		out.FPS = float64(time.Second) / float64(p.interval)
	}
	if p.filled == 0 {
		return out
	}

	var total time.Duration
	sums := make(map[string]time.Duration)
	for i := 0; i < p.filled; i++ {
		f := p.ring[i]
		total += f.Total
		if i == 0 || f.Total < out.MinFrame {
			out.MinFrame = f.Total
		}
		if f.Total > out.MaxFrame {
			out.MaxFrame = f.Total
		}
		for name, d := range f.Phases {
			sums[name] += d
		}
	}

	n := time.Duration(p.filled)
	out.AvgFrame = total / n
	for name, sum := range sums {
		out.PhaseAvg[name] = sum / n
		if out.AvgFrame > 0 {
			out.PhasePct[name] = float64(out.PhaseAvg[name]) / float64(out.AvgFrame) * 100
		}
	}
	if out.AvgFrame > 0 {
		out.Headroom = float64(time.Second) / float64(out.AvgFrame)
	}
	return out
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_frame_us", s.AvgFrame.Microseconds()),
		slog.Int64("min_frame_us", s.MinFrame.Microseconds()),
		slog.Int64("max_frame_us", s.MaxFrame.Microseconds()),
		slog.Float64("headroom", s.Headroom),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, name := range phases {
		if pct, ok := s.PhasePct[name]; ok {
			attrs = append(attrs, slog.Float64(name+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfRecord is the flat perf.csv row.
type PerfRecord struct {
	WindowEnd     int64   `csv:"window_end"`
	AvgFrameUS    int64   `csv:"avg_frame_us"`
	MinFrameUS    int64   `csv:"min_frame_us"`
	MaxFrameUS    int64   `csv:"max_frame_us"`
	Headroom      float64 `csv:"headroom"`
	FPS           float64 `csv:"fps"`
	UpdatePct     float64 `csv:"update_pct"`
	SeparationPct float64 `csv:"separation_pct"`
	RenderPct     float64 `csv:"render_pct"`
}

// Record flattens the stats for CSV output.
func (s PerfStats) Record(windowEnd int64) PerfRecord {
	return PerfRecord{
		WindowEnd:     windowEnd,
		AvgFrameUS:    s.AvgFrame.Microseconds(),
		MinFrameUS:    s.MinFrame.Microseconds(),
		MaxFrameUS:    s.MaxFrame.Microseconds(),
		Headroom:      s.Headroom,
		FPS:           s.FPS,
		UpdatePct:     s.PhasePct[PhaseUpdate],
		SeparationPct: s.PhasePct[PhaseSeparation],
		RenderPct:     s.PhasePct[PhaseRender],
	}
}
