package main

import (
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/folio/config"
	"github.com/pthm-cable/folio/renderer"
	"github.com/pthm-cable/folio/swarm"
	"github.com/pthm-cable/folio/telemetry"
)

// Headless viewport used for every run.
const (
	viewW = 1280
	viewH = 800
)

// Evaluator runs headless swarms with the pointer parked outside the central
// zone and scores how well they settle around it.
type Evaluator struct {
	params     *ParamVector
	baseConfig *config.Config
	seeds      []int64
	frames     int
	warmup     int
	targetDist float64
	stdWeight  float64

	mu         sync.Mutex
	lastResult runResult
}

// runResult holds the measurements of one run or the mean over seeds.
type runResult struct {
	PointerDist float64
	SpeedStd    float64
}

// NewEvaluator creates an evaluator. Only frames after warmup are scored.
func NewEvaluator(params *ParamVector, baseCfg *config.Config, seeds []int64, frames, warmup int, targetDist, stdWeight float64) *Evaluator {
	return &Evaluator{
		params:     params,
		baseConfig: baseCfg,
		seeds:      seeds,
		frames:     frames,
		warmup:     min(warmup, frames-1),
		targetDist: targetDist,
		stdWeight:  stdWeight,
	}
}

// LastResult returns the seed-averaged measurements of the latest Evaluate.
func (ev *Evaluator) LastResult() runResult {
	ev.mu.Lock()
	defer ev.mu.Unlock()
	return ev.lastResult
}

// Evaluate computes fitness for raw parameter values (lower = better).
func (ev *Evaluator) Evaluate(x []float64) float64 {
	cfg := ev.copyConfig()
	ev.params.ApplyToConfig(cfg, x)

	// Seeds are independent swarms, run them in parallel
	results := make([]runResult, len(ev.seeds))
	var wg sync.WaitGroup
	for i, seed := range ev.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = ev.run(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var mean runResult
	for _, r := range results {
		mean.PointerDist += r.PointerDist
		mean.SpeedStd += r.SpeedStd
	}
	n := float64(len(results))
	mean.PointerDist /= n
	mean.SpeedStd /= n

	ev.mu.Lock()
	ev.lastResult = mean
	ev.mu.Unlock()

	return ev.fitness(mean, cfg.Physics.MaxVelocity)
}

// fitness is the squared relative distance error plus the weighted speed
// spread relative to the velocity cap.
func (ev *Evaluator) fitness(r runResult, maxVelocity float64) float64 {
	if math.IsNaN(r.PointerDist) || math.IsNaN(r.SpeedStd) {
		return math.Inf(1)
	}
	rel := (r.PointerDist - ev.targetDist) / ev.targetDist
	spread := r.SpeedStd
	if maxVelocity > 0 {
		spread /= maxVelocity
	}
	return rel*rel + ev.stdWeight*spread
}

// run drives one seeded swarm and reduces its scored frames.
func (ev *Evaluator) run(cfg *config.Config, seed int64) runResult {
	opts, err := swarm.OptionsFromConfig(cfg)
	if err != nil {
		return runResult{PointerDist: math.NaN(), SpeedStd: math.NaN()}
	}
	opts.Seed = seed
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	engine, err := swarm.New(swarm.NewOffscreenSurface(renderer.Discard), swarm.Host{
		Scheduler: swarm.NewFrameQueue(),
		Viewport:  &swarm.FixedViewport{W: viewW, H: viewH, DPR: 1},
		Motion:    swarm.NewMotionSignal(false),
	}, opts)
	if err != nil {
		return runResult{PointerDist: math.NaN(), SpeedStd: math.NaN()}
	}
	defer engine.Destroy()
	engine.Init()

	// Left of the central zone, vertically centered
	px, py := float32(viewW)*0.1, float32(viewH)*0.5
	engine.UpdatePointer(px, py)

	scored := ev.frames - ev.warmup
	collector := telemetry.NewCollector(float64(scored), 1)
	var speeds []float64
	for f := 0; f < ev.frames; f++ {
		engine.Step()
		if f < ev.warmup {
			continue
		}
		var dist float64
		speeds, dist = swarm.Sample(engine.Particles(), px, py)
		collector.RecordFrame(engine.Mode() == swarm.ModeActivate, dist)
	}

	stats := collector.Flush(speeds)
	return runResult{PointerDist: stats.PointerDistMean, SpeedStd: stats.SpeedStd}
}

// copyConfig returns an independent copy of the base config.
func (ev *Evaluator) copyConfig() *config.Config {
	cfg := *ev.baseConfig
	return &cfg
}
