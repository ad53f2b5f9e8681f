// Package logger_test contains tests for the logger package
package logger_test

import (
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/chadananda/flashcard/internal/config"
	"github.com/chadananda/flashcard/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{name: "debug", input: "debug", want: slog.LevelDebug},
		{name: "info", input: "info", want: slog.LevelInfo},
		{name: "warn", input: "warn", want: slog.LevelWarn},
		{name: "error", input: "error", want: slog.LevelError},
		{name: "mixed case", input: "DeBuG", want: slog.LevelDebug},
		{name: "unknown falls back to info", input: "verbose", want: slog.LevelInfo},
		{name: "empty falls back to info", input: "", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, logger.ParseLevel(tt.input))
		})
	}
}

// The Setup tests replace the default logger, so they run sequentially.

func TestSetupWithWriter_JSON(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	buf := &logger.TestLogBuffer{}
	l, err := logger.SetupWithWriter(config.LogConfig{Level: "info", Format: "json"}, buf)
	require.NoError(t, err)
	require.NotNil(t, l)

	assert.Same(t, l, slog.Default())

	slog.Debug("hidden")
	slog.Info("card rescheduled", slog.String("card_id", "c1"), slog.Int("card_level", 2))

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1, "debug must be filtered at info level")

	entry := entries[0]
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "card rescheduled", entry["msg"])
	assert.Equal(t, "c1", entry["card_id"])
	assert.Equal(t, float64(2), entry["card_level"])
}

func TestSetupWithWriter_Text(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	buf := &logger.TestLogBuffer{}
	l, err := logger.SetupWithWriter(config.LogConfig{Level: "debug", Format: "text"}, buf)
	require.NoError(t, err)

	l.Debug("session started", slog.Int("total", 7))

	out := buf.String()
	assert.True(t, strings.Contains(out, "level=DEBUG"), out)
	assert.True(t, strings.Contains(out, `msg="session started"`), out)
	assert.True(t, strings.Contains(out, "total=7"), out)

	var probe map[string]interface{}
	assert.Error(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &probe), "text output is not JSON")
}

func TestSetupWithWriter_Levels(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	tests := []struct {
		level   string
		emitted []string
	}{
		{level: "debug", emitted: []string{"d", "i", "w", "e"}},
		{level: "info", emitted: []string{"i", "w", "e"}},
		{level: "warn", emitted: []string{"w", "e"}},
		{level: "error", emitted: []string{"e"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.level, func(t *testing.T) {
			buf := &logger.TestLogBuffer{}
			l, err := logger.SetupWithWriter(config.LogConfig{Level: tt.level, Format: "json"}, buf)
			require.NoError(t, err)

			l.Debug("d")
			l.Info("i")
			l.Warn("w")
			l.Error("e")

			entries, err := buf.GetLogEntries()
			require.NoError(t, err)

			got := make([]string, 0, len(entries))
			for _, e := range entries {
				got = append(got, e["msg"].(string))
			}
			assert.Equal(t, tt.emitted, got)
		})
	}
}
