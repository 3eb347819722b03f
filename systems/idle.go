package systems

import (
	"math/rand"

	"github.com/pthm-cable/folio/components"
)

// IdleStep advances one particle by one idle frame: drift toward its wander
// target with a per-particle bob, damp, cap at IdleSpeed, integrate, and wrap
// across the viewport edges.
func IdleStep(pos *components.Position, vel *components.Velocity, w *components.Wander, g *components.Glyph, b Bounds, p Params, rng *rand.Rand) {
	w.Phase += p.WaveFrequency

	dx := w.TargetX - pos.X
	dy := w.TargetY - pos.Y
	dist := velocityMagnitude(dx, dy)

	if dist < p.TargetReach {
		w.TargetX = rng.Float32() * b.Width
		w.TargetY = rng.Float32() * b.Height
	}

	// Steer along the direction measured this frame
	d := dist
	if d == 0 {
		d = 1
	}
	vel.X += dx / d * p.IdleSpeed * p.IdleNudge
	vel.Y += dy / d * p.IdleSpeed * p.IdleNudge

	// Decorrelated bob: different horizontal and vertical frequencies
	vel.X += sinf(w.Phase) * p.WaveAmplitude * p.IdleNudge
	vel.Y += cosf(w.Phase*p.WaveRatio) * p.WaveAmplitude * p.IdleNudge

	vel.X *= p.IdleDamping
	vel.Y *= p.IdleDamping

	vel.X, vel.Y = limitSpeed(vel.X, vel.Y, p.IdleSpeed)

	pos.X += vel.X
	pos.Y += vel.Y

	wrap(pos, b)

	if absf(vel.X) > p.IdleHeadingThreshold || absf(vel.Y) > p.IdleHeadingThreshold {
		g.Angle = heading(vel.X, vel.Y)
	}
}
