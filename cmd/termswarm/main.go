// Package main runs the cursor swarm in a terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/folio/config"
	"github.com/pthm-cable/folio/content"
	"github.com/pthm-cable/folio/telemetry"
	"github.com/pthm-cable/folio/term"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config, then time-based)")
	reducedMotion := flag.Bool("reduced-motion", false, "Start with reduced motion preferred")
	sound := flag.Bool("sound", false, "Blip on mode changes (overrides config when set)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// The screen owns stdout, so only the log file (if any) receives logs
	logger, closer := telemetry.NewLogger(nil, cfg.Logging, slog.LevelInfo)
	defer closer.Close()
	slog.SetDefault(logger)

	rngSeed := *seed
	if rngSeed == 0 && cfg.Swarm.Seed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	portfolio, err := content.LoadFile(cfg.Content.PortfolioFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load portfolio: %v\n", err)
		os.Exit(1)
	}

	blip, err := term.NewBlipper(*sound || cfg.Terminal.Sound)
	if err != nil {
		// Non-fatal, the swarm runs without sound
		logger.Warn("audio initialization failed", "error", err)
	}
	defer blip.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	app, err := term.NewApp(screen, term.Options{
		Config:        cfg,
		Portfolio:     portfolio,
		Seed:          rngSeed,
		ReducedMotion: *reducedMotion,
		Blipper:       blip,
		Logger:        logger,
	})
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := app.Run(ctx); err != nil {
		logger.Error("run failed", "error", err)
	}
}
