package telemetry

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pthm-cable/folio/config"
)

// NewLogger builds the process logger: JSON records to w and, when cfg.File
// is set, to a size-rotated log file as well. A nil w logs to the file only,
// or nowhere. The returned closer releases the file and is a no-op otherwise.
func NewLogger(w io.Writer, cfg config.LoggingConfig, level slog.Level) (*slog.Logger, io.Closer) {
	opts := &slog.HandlerOptions{Level: level}
	if cfg.File == "" {
		if w == nil {
			w = io.Discard
		}
		return slog.New(slog.NewJSONHandler(w, opts)), nopCloser{}
	}

	rotated := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	if w == nil {
		return slog.New(slog.NewJSONHandler(rotated, opts)), rotated
	}
	return slog.New(slog.NewJSONHandler(io.MultiWriter(w, rotated), opts)), rotated
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
