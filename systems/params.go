// Package systems contains the per-particle swarm physics.
package systems

import "github.com/pthm-cable/folio/config"

// Params holds the swarm dynamics. Units are viewport units and frames.
type Params struct {
	SpringStrength     float32 // Active: velocity gain per unit of pointer distance
	Damping            float32 // Active velocity multiplier per frame
	IdleDamping        float32 // Idle velocity multiplier per frame
	SeparationRadius   float32
	SeparationStrength float32
	IdleSpeed          float32 // Idle velocity cap
	IdleNudge          float32 // Idle steering gain, scaled by IdleSpeed
	WaveAmplitude      float32
	WaveFrequency      float32 // Idle phase advance per frame
	WaveRatio          float32 // Vertical bob frequency relative to horizontal
	MaxVelocity        float32 // Active velocity cap
	TargetReach        float32 // Distance at which a wander target is replaced
	EdgeMargin         float32 // Active bounce inset from each edge
	BounceRestitution  float32 // Fraction of speed kept on bounce

	// Per-axis speed thresholds above which facing follows velocity
	IdleHeadingThreshold   float32
	ActiveHeadingThreshold float32
}

// DefaultParams returns the stock dynamics.
func DefaultParams() Params {
	return Params{
		SpringStrength:         0.015,
		Damping:                0.92,
		IdleDamping:            0.95,
		SeparationRadius:       40,
		SeparationStrength:     0.5,
		IdleSpeed:              0.3,
		IdleNudge:              0.1,
		WaveAmplitude:          0.5,
		WaveFrequency:          0.02,
		WaveRatio:              0.7,
		MaxVelocity:            8,
		TargetReach:            20,
		EdgeMargin:             20,
		BounceRestitution:      0.5,
		IdleHeadingThreshold:   0.1,
		ActiveHeadingThreshold: 0.5,
	}
}

// NewParams converts the physics section of the config.
func NewParams(c config.PhysicsConfig) Params {
	return Params{
		SpringStrength:         float32(c.SpringStrength),
		Damping:                float32(c.Damping),
		IdleDamping:            float32(c.IdleDamping),
		SeparationRadius:       float32(c.SeparationRadius),
		SeparationStrength:     float32(c.SeparationStrength),
		IdleSpeed:              float32(c.IdleSpeed),
		IdleNudge:              float32(c.IdleNudge),
		WaveAmplitude:          float32(c.WaveAmplitude),
		WaveFrequency:          float32(c.WaveFrequency),
		WaveRatio:              float32(c.WaveRatio),
		MaxVelocity:            float32(c.MaxVelocity),
		TargetReach:            float32(c.TargetReach),
		EdgeMargin:             float32(c.EdgeMargin),
		BounceRestitution:      float32(c.BounceRestitution),
		IdleHeadingThreshold:   float32(c.IdleHeadingThreshold),
		ActiveHeadingThreshold: float32(c.ActiveHeadingThreshold),
	}
}
