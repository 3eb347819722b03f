package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/folio/config"
)

// OutputManager writes run artefacts to a directory: window stats to
// frames.csv, perf stats to perf.csv and the effective config to config.yaml.
// A nil manager is valid and discards everything.
type OutputManager struct {
	dir    string
	frames csvFile
	perf   csvFile
}

type csvFile struct {
	f      *os.File
	header bool
}

// append writes records, emitting the header row only on the first call.
func (c *csvFile) append(records any) error {
	if !c.header {
		if err := gocsv.Marshal(records, c.f); err != nil {
			return err
		}
		c.header = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, c.f)
}

// NewOutputManager creates dir and opens the CSV files. An empty dir disables
// output and returns a nil manager.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	frames, err := os.Create(filepath.Join(dir, "frames.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating frames.csv: %w", err)
	}
	perf, err := os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		frames.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}

	return &OutputManager{
		dir:    dir,
		frames: csvFile{f: frames},
		perf:   csvFile{f: perf},
	}, nil
}

// WriteConfig saves cfg as config.yaml.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteStats appends a window to frames.csv.
func (om *OutputManager) WriteStats(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.frames.append([]WindowStats{stats}); err != nil {
		return fmt.Errorf("writing frames: %w", err)
	}
	return nil
}

// WritePerf appends a perf row to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int64) error {
	if om == nil {
		return nil
	}
	if err := om.perf.append([]PerfRecord{stats.Record(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// Dir returns the output directory, or "" when disabled.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes both files and returns the first error.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	err := om.frames.f.Close()
	if perr := om.perf.f.Close(); err == nil {
		err = perr
	}
	return err
}
