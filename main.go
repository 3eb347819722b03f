package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/folio/config"
	"github.com/pthm-cable/folio/content"
	"github.com/pthm-cable/folio/page"
	"github.com/pthm-cable/folio/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config, then time-based)")
	reducedMotion := flag.Bool("reduced-motion", false, "Start with reduced motion preferred")
	route := flag.String("route", "", "Open this project route instead of the home page")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}

	// Set up slog (JSON to stdout, plus a rotating file when configured)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger, closer := telemetry.NewLogger(os.Stdout, cfg.Logging, level)
	defer closer.Close()
	slog.SetDefault(logger)

	rngSeed := *seed
	if rngSeed == 0 && cfg.Swarm.Seed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	portfolio, err := content.LoadFile(cfg.Content.PortfolioFile)
	if err != nil {
		slog.Error("failed to load portfolio", "error", err)
		os.Exit(1)
	}
	medias, err := content.IndexMedias(os.DirFS("."), cfg.Content.MediaDir)
	if err != nil {
		// Pages still render without media
		slog.Warn("failed to index medias", "dir", cfg.Content.MediaDir, "error", err)
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	p, err := page.NewPage(page.Options{
		Config:        cfg,
		Portfolio:     portfolio,
		Medias:        medias,
		Route:         *route,
		Seed:          rngSeed,
		ReducedMotion: *reducedMotion,
		LogStats:      *logStats,
		OutputDir:     *outputDir,
		Logger:        logger,
	})
	if err != nil {
		slog.Error("failed to create page", "error", err)
		return
	}
	defer p.Unload()

	slog.Info("portfolio started",
		"seed", rngSeed,
		"route", *route,
		"medias", len(medias),
		"reduced_motion", *reducedMotion,
	)

	for !rl.WindowShouldClose() {
		p.Update()
		p.Draw()
	}
}
