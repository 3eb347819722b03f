package systems

import "math"

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// absf returns the absolute value of a float32.
func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// velocityMagnitude returns the magnitude of a velocity vector.
func velocityMagnitude(vx, vy float32) float32 {
	return float32(math.Sqrt(float64(vx*vx + vy*vy)))
}

// Speed returns the magnitude of a velocity vector.
func Speed(vx, vy float32) float32 {
	return velocityMagnitude(vx, vy)
}

// limitSpeed rescales (vx, vy) so its magnitude does not exceed maxSpeed.
func limitSpeed(vx, vy, maxSpeed float32) (float32, float32) {
	speed := velocityMagnitude(vx, vy)
	if speed > maxSpeed {
		scale := maxSpeed / speed
		return vx * scale, vy * scale
	}
	return vx, vy
}

// heading returns the direction of (vx, vy) in radians.
func heading(vx, vy float32) float32 {
	return float32(math.Atan2(float64(vy), float64(vx)))
}

func sinf(a float32) float32 { return float32(math.Sin(float64(a))) }
func cosf(a float32) float32 { return float32(math.Cos(float64(a))) }
