package app

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"", slog.LevelDebug},
		{"nonsense", slog.LevelDebug},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(&Config{LogLevel: tt.input}), "input %q", tt.input)
	}
	assert.Equal(t, slog.LevelDebug, parseLevel(nil))
}
