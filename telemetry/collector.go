package telemetry

// Collector accumulates per-frame observations into fixed-length windows.
type Collector struct {
	windowFrames int64
	frameSeconds float64

	frame       int64
	windowStart int64

	idleFrames   int
	activeFrames int
	modeSwitches int
	lastActive   bool
	observed     bool

	// Pointer distance, accumulated over active frames only
	distSum    float64
	distFrames int
}

// NewCollector creates a collector whose windows last windowSec seconds of
// animation at frameSeconds per frame.
func NewCollector(windowSec, frameSeconds float64) *Collector {
	if frameSeconds <= 0 {
		frameSeconds = 1.0 / 60
	}
	frames := int64(windowSec / frameSeconds)
	if frames < 1 {
		frames = 1
	}
	return &Collector{windowFrames: frames, frameSeconds: frameSeconds}
}

// RecordFrame records one animated frame. pointerDist is the mean particle
// distance to the pointer and only counts when active is set.
func (c *Collector) RecordFrame(active bool, pointerDist float64) {
	c.frame++
	if active {
		c.activeFrames++
		c.distSum += pointerDist
		c.distFrames++
	} else {
		c.idleFrames++
	}
	if c.observed && active != c.lastActive {
		c.modeSwitches++
	}
	c.lastActive = active
	c.observed = true
}

// ShouldFlush reports whether the current window is complete.
func (c *Collector) ShouldFlush() bool {
	return c.frame-c.windowStart >= c.windowFrames
}

// Flush closes the window, with speeds sampled now, and starts the next one.
func (c *Collector) Flush(speeds []float64) WindowStats {
	sp := ComputeSpeedStats(speeds)
	stats := WindowStats{
		WindowStart:  c.windowStart,
		WindowEnd:    c.frame,
		SimTimeSec:   float64(c.frame) * c.frameSeconds,
		IdleFrames:   c.idleFrames,
		ActiveFrames: c.activeFrames,
		ModeSwitches: c.modeSwitches,
		SpeedMean:    sp.Mean,
		SpeedStd:     sp.Std,
		SpeedP50:     sp.P50,
		SpeedP90:     sp.P90,
		SpeedMax:     sp.Max,
	}
	if c.distFrames > 0 {
		stats.PointerDistMean = c.distSum / float64(c.distFrames)
	}

	c.windowStart = c.frame
	c.idleFrames, c.activeFrames, c.modeSwitches = 0, 0, 0
	c.distSum, c.distFrames = 0, 0
	return stats
}

// Frame returns the number of frames recorded so far.
func (c *Collector) Frame() int64 { return c.frame }

// WindowFrames returns the window length in frames.
func (c *Collector) WindowFrames() int64 { return c.windowFrames }
