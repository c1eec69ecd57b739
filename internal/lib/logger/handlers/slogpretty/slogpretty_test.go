package slogpretty

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestHandle(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	log.With("op", "movies.Get").Info("movie not found", "id", 5)

	out := buf.String()
	assert.Contains(t, out, "INFO:")
	assert.Contains(t, out, "movie not found")
	assert.Contains(t, out, `"op": "movies.Get"`)
	assert.Contains(t, out, `"id": 5`)
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Debug("hidden")
	assert.Empty(t, buf.String())
}
