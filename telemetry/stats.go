package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats summarises swarm behaviour over one stats window.
type WindowStats struct {
	WindowStart int64   `csv:"-"`
	WindowEnd   int64   `csv:"window_end"`
	SimTimeSec  float64 `csv:"sim_time"`

	// Frames spent in each mode during the window
	IdleFrames   int `csv:"idle_frames"`
	ActiveFrames int `csv:"active_frames"`
	ModeSwitches int `csv:"mode_switches"`

	// Particle speed distribution, sampled at window end
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`

	// Mean particle distance to the pointer over active frames
	PointerDistMean float64 `csv:"pointer_dist_mean"`
}

// Percentile returns the p-th percentile of a sorted slice using linear
// interpolation between closest ranks. p is in [0, 1]; an empty slice gives 0.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case p <= 0:
		return sorted[0]
	case p >= 1:
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	if lo+1 >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}

// SpeedStats describes a set of particle speeds.
type SpeedStats struct {
	Mean, Std     float64
	P50, P90, Max float64
}

// ComputeSpeedStats summarises values. Std is the sample standard deviation
// and is zero for fewer than two values.
func ComputeSpeedStats(values []float64) SpeedStats {
	n := len(values)
	if n == 0 {
		return SpeedStats{}
	}

	var s SpeedStats
	if n == 1 {
		s.Mean = values[0]
	} else {
		s.Mean, s.Std = stat.MeanStdDev(values, nil)
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	s.P50 = Percentile(sorted, 0.5)
	s.P90 = Percentile(sorted, 0.9)
	s.Max = sorted[n-1]
	return s
}

// LogValue implements slog.LogValuer.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStart),
		slog.Int64("window_end", s.WindowEnd),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("idle_frames", s.IdleFrames),
		slog.Int("active_frames", s.ActiveFrames),
		slog.Int("mode_switches", s.ModeSwitches),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("pointer_dist_mean", s.PointerDistMean),
	)
}
