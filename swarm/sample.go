package swarm

import "math"

// Sample reduces a particle snapshot to per-particle speeds and the mean
// distance to (px, py). An empty snapshot yields nil and 0.
func Sample(ps []Particle, px, py float32) (speeds []float64, meanDist float64) {
	if len(ps) == 0 {
		return nil, 0
	}
	speeds = make([]float64, len(ps))
	var dist float64
	for i, p := range ps {
		speeds[i] = math.Hypot(float64(p.VX), float64(p.VY))
		dist += math.Hypot(float64(p.X-px), float64(p.Y-py))
	}
	return speeds, dist / float64(len(ps))
}
