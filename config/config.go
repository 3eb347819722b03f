// Package config provides configuration loading and access for the portfolio and its swarm.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Swarm     SwarmConfig     `yaml:"swarm"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Cursor    CursorConfig    `yaml:"cursor"`
	Content   ContentConfig   `yaml:"content"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
	Terminal  TerminalConfig  `yaml:"terminal"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// SwarmConfig holds the engine construction parameters.
type SwarmConfig struct {
	ParticleCount   int     `yaml:"particle_count"`
	CentralWidthPct float64 `yaml:"central_width_pct"` // Fraction of viewport width, horizontally centered
	CursorImage     string  `yaml:"cursor_image"`      // Path or URL; empty = built-in arrow
	Seed            int64   `yaml:"seed"`              // 0 = time-based
}

// PhysicsConfig holds the per-frame dynamics. One frame is one time unit.
type PhysicsConfig struct {
	SpringStrength         float64 `yaml:"spring_strength"`
	Damping                float64 `yaml:"damping"`      // Active mode
	IdleDamping            float64 `yaml:"idle_damping"` // Idle mode
	SeparationRadius       float64 `yaml:"separation_radius"`
	SeparationStrength     float64 `yaml:"separation_strength"`
	IdleSpeed              float64 `yaml:"idle_speed"` // Also the idle velocity cap
	IdleNudge              float64 `yaml:"idle_nudge"`
	WaveAmplitude          float64 `yaml:"wave_amplitude"`
	WaveFrequency          float64 `yaml:"wave_frequency"`
	WaveRatio              float64 `yaml:"wave_ratio"` // Vertical bob runs at phase * ratio
	MaxVelocity            float64 `yaml:"max_velocity"`
	TargetReach            float64 `yaml:"target_reach"`
	EdgeMargin             float64 `yaml:"edge_margin"`
	BounceRestitution      float64 `yaml:"bounce_restitution"`
	IdleHeadingThreshold   float64 `yaml:"idle_heading_threshold"`
	ActiveHeadingThreshold float64 `yaml:"active_heading_threshold"`
}

// CursorConfig holds particle appearance.
type CursorConfig struct {
	Size        float64 `yaml:"size"`
	SizeJitter  float64 `yaml:"size_jitter"`
	Fill        string  `yaml:"fill"`
	FillAlpha   float64 `yaml:"fill_alpha"`
	Stroke      string  `yaml:"stroke"`
	StrokeAlpha float64 `yaml:"stroke_alpha"`
	LineWidth   float64 `yaml:"line_width"`
}

// ContentConfig holds portfolio content locations.
type ContentConfig struct {
	PortfolioFile string `yaml:"portfolio_file"` // Empty = embedded portfolio
	MediaDir      string `yaml:"media_dir"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// LoggingConfig holds log output parameters.
type LoggingConfig struct {
	File       string `yaml:"file"` // Empty = console only
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// TerminalConfig holds terminal host parameters.
type TerminalConfig struct {
	CellWidth  int  `yaml:"cell_width"`  // Virtual pixels per column
	CellHeight int  `yaml:"cell_height"` // Virtual pixels per row
	FrameMs    int  `yaml:"frame_ms"`
	Sound      bool `yaml:"sound"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32     float32 // Screen.Width as float32
	ScreenH32     float32 // Screen.Height as float32
	StatsWindowFr int     // Telemetry.StatsWindow in frames at TargetFPS
	FrameSeconds  float64 // 1 / TargetFPS
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Screen.TargetFPS <= 0 {
		c.Screen.TargetFPS = 60
	}
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.FrameSeconds = 1.0 / float64(c.Screen.TargetFPS)

	frames := int(c.Telemetry.StatsWindow * float64(c.Screen.TargetFPS))
	if frames < 1 {
		frames = 1
	}
	c.Derived.StatsWindowFr = frames

	if c.Terminal.CellWidth <= 0 {
		c.Terminal.CellWidth = 8
	}
	if c.Terminal.CellHeight <= 0 {
		c.Terminal.CellHeight = 16
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
