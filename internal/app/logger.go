// Package app holds the wiring shared by the insight CLI and HTTP server.
package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/tsawler/insight/internal/config"
)

// NewLogger builds the process logger from cfg, writes to stderr and
// installs it with slog.SetDefault so library code logging through
// slog.Default ends up in the same stream. The text format adds source
// locations.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	logger := newLogger(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	text := strings.EqualFold(cfg.Format, "text")
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level), AddSource: text}
	if text {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// parseLevel accepts slog's level names in any case; anything else is info.
func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
