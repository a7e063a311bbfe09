package app

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns a configured slog.Logger based on configuration.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg)}
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// parseLevel maps the LOGLEVEL variable onto a slog level. Unknown values
// fall back to debug, the service default.
func parseLevel(cfg *Config) slog.Level {
	if cfg == nil {
		return slog.LevelDebug
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "info":
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
