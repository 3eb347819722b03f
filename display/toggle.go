package display

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/folio/swarm"
)

// MotionToggle is the on-page reduced-motion switch. It drives a
// MotionSignal the same way an OS preference change would.
type MotionToggle struct {
	Signal *swarm.MotionSignal
	Bounds rl.Rectangle
}

// Draw renders the button and flips the preference when clicked. M flips
// it from the keyboard. It reports whether the preference changed.
func (t *MotionToggle) Draw() bool {
	label := "Reduce motion"
	if t.Signal.ReducedMotion() {
		label = "Allow motion"
	}
	if gui.Button(t.Bounds, label) || rl.IsKeyPressed(rl.KeyM) {
		t.Signal.Set(!t.Signal.ReducedMotion())
		return true
	}
	return false
}
