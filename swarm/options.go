package swarm

import (
	"fmt"

	"github.com/pthm-cable/folio/config"
	"github.com/pthm-cable/folio/renderer"
	"github.com/pthm-cable/folio/systems"
)

// OptionsFromConfig maps the swarm, physics and cursor config sections onto
// engine options. Callers add the logger, perf collector and callbacks.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	style, err := renderer.NewCursorStyle(cfg.Cursor)
	if err != nil {
		return Options{}, fmt.Errorf("swarm options: %w", err)
	}
	return Options{
		ParticleCount:   cfg.Swarm.ParticleCount,
		CentralWidthPct: float32(cfg.Swarm.CentralWidthPct),
		CursorURL:       cfg.Swarm.CursorImage,
		Params:          systems.NewParams(cfg.Physics),
		Style:           style,
		CursorSize:      float32(cfg.Cursor.Size),
		SizeJitter:      float32(cfg.Cursor.SizeJitter),
		Seed:            cfg.Swarm.Seed,
	}, nil
}
