package systems

import "github.com/pthm-cable/folio/components"

// Separation returns the repulsive velocity contribution on particle i from
// every other particle in snap closer than SeparationRadius. snap is the
// frame-start position of every particle, so the result does not depend on
// the order in which particles are later integrated.
func Separation(i int, snap []components.Position, p Params) (sx, sy float32) {
	self := snap[i]
	for j := range snap {
		if j == i {
			continue
		}
		ndx := self.X - snap[j].X
		ndy := self.Y - snap[j].Y
		ndist := velocityMagnitude(ndx, ndy)

		// Coincident particles have no defined direction
		if ndist <= 0 || ndist >= p.SeparationRadius {
			continue
		}

		force := (1 - ndist/p.SeparationRadius) * p.SeparationStrength
		sx += ndx / ndist * force
		sy += ndy / ndist * force
	}
	return sx, sy
}

// SeparationPass computes Separation for every particle into out, which is
// grown as needed and returned.
func SeparationPass(snap []components.Position, p Params, out []components.Velocity) []components.Velocity {
	if cap(out) < len(snap) {
		out = make([]components.Velocity, len(snap))
	}
	out = out[:len(snap)]
	for i := range snap {
		out[i].X, out[i].Y = Separation(i, snap, p)
	}
	return out
}

// ActiveStep advances one particle by one active frame: spring toward the
// pointer, add the precomputed separation push, damp, cap at MaxVelocity,
// integrate, and soft-bounce inside EdgeMargin.
func ActiveStep(pos *components.Position, vel *components.Velocity, g *components.Glyph, sep components.Velocity, pointerX, pointerY float32, b Bounds, p Params) {
	// Linear spring: pull grows with distance
	dx := pointerX - pos.X
	dy := pointerY - pos.Y
	dist := velocityMagnitude(dx, dy)
	if dist > 0 {
		force := dist * p.SpringStrength
		vel.X += dx / dist * force
		vel.Y += dy / dist * force
	}

	vel.X += sep.X
	vel.Y += sep.Y

	vel.X *= p.Damping
	vel.Y *= p.Damping

	vel.X, vel.Y = limitSpeed(vel.X, vel.Y, p.MaxVelocity)

	pos.X += vel.X
	pos.Y += vel.Y

	bounce(pos, vel, b, p.EdgeMargin, p.BounceRestitution)

	if absf(vel.X) > p.ActiveHeadingThreshold || absf(vel.Y) > p.ActiveHeadingThreshold {
		g.Angle = heading(vel.X, vel.Y)
	}
}
