package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/folio/components"
)

// Spawn creates the initial state of one particle: uniform position and
// wander target inside b, velocity components in [-1, 1), random facing and
// phase, and a size uniform in [base - jitter/2, base + jitter/2).
func Spawn(b Bounds, base, jitter float32, rng *rand.Rand) (components.Position, components.Velocity, components.Wander, components.Glyph) {
	pos := components.Position{
		X: rng.Float32() * b.Width,
		Y: rng.Float32() * b.Height,
	}
	vel := components.Velocity{
		X: (rng.Float32() - 0.5) * 2,
		Y: (rng.Float32() - 0.5) * 2,
	}
	w := components.Wander{
		TargetX: rng.Float32() * b.Width,
		TargetY: rng.Float32() * b.Height,
		Phase:   rng.Float32() * 2 * math.Pi,
	}
	g := components.Glyph{
		Size:  base + (rng.Float32()-0.5)*jitter,
		Angle: rng.Float32() * 2 * math.Pi,
	}
	return pos, vel, w, g
}
