package term

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	blipRate     = beep.SampleRate(44100)
	blipDuration = 60 * time.Millisecond
	blipVolume   = -2 // base-2 exponent, a quarter of full scale

	freqActivate = 880
	freqIdle     = 440
)

// Blipper plays a short tone when the swarm changes mode. A disabled or
// nil Blipper is silent.
type Blipper struct {
	enabled bool
}

// NewBlipper opens the speaker when enabled. On failure it returns a silent
// Blipper along with the error; sound is never required.
func NewBlipper(enabled bool) (*Blipper, error) {
	if !enabled {
		return &Blipper{}, nil
	}
	if err := speaker.Init(blipRate, blipRate.N(time.Second/10)); err != nil {
		return &Blipper{}, err
	}
	return &Blipper{enabled: true}, nil
}

// Enabled reports whether the speaker is open.
func (b *Blipper) Enabled() bool { return b != nil && b.enabled }

// Tone builds the blip for a mode: higher when the swarm activates.
func Tone(activate bool) (beep.Streamer, error) {
	freq := freqIdle
	if activate {
		freq = freqActivate
	}
	sine, err := generators.SineTone(blipRate, float64(freq))
	if err != nil {
		return nil, err
	}
	return &effects.Volume{
		Streamer: beep.Take(blipRate.N(blipDuration), sine),
		Base:     2,
		Volume:   blipVolume,
	}, nil
}

// Play starts the blip and returns immediately.
func (b *Blipper) Play(activate bool) {
	if !b.Enabled() {
		return
	}
	s, err := Tone(activate)
	if err != nil {
		return
	}
	speaker.Play(s)
}

// Close releases the speaker.
func (b *Blipper) Close() {
	if b.Enabled() {
		speaker.Close()
		b.enabled = false
	}
}
