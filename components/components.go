// Package components defines ECS components for swarm particles.
package components

// Position represents a particle's position in viewport space.
type Position struct {
	X, Y float32
}

// Velocity represents a particle's velocity in units per frame.
type Velocity struct {
	X, Y float32
}

// Wander holds idle-mode state: the current wander destination and the
// particle's own bobbing oscillator.
type Wander struct {
	TargetX, TargetY float32
	Phase            float32 // radians, advanced every idle frame
}

// Glyph holds render state.
type Glyph struct {
	Size  float32 // fixed at spawn
	Angle float32 // facing, radians; follows velocity direction
}
