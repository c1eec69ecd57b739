package logger

import (
	"bytes"
	"log/slog"
	"moviecatalog/proj/internal/config"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestOutput(t *testing.T) {
	assert.Equal(t, os.Stdout, Output(config.Log{}))

	path := filepath.Join(t.TempDir(), "api.log")
	w := Output(config.Log{File: path, MaxSizeMB: 1})
	rotated, ok := w.(*lumberjack.Logger)
	require.True(t, ok)
	assert.Equal(t, path, rotated.Filename)
	assert.Equal(t, 1, rotated.MaxSize)
}

func TestSetupLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	log := SetupLogger(false, config.Log{File: path, MaxSizeMB: 1})
	log.Info("listening", "port", "8000")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"listening"`)
}

func TestLogAdapter(t *testing.T) {
	var buf bytes.Buffer
	std := LogAdapter(slog.New(slog.NewTextHandler(&buf, nil)))
	std.Print("http: TLS handshake error")
	assert.Contains(t, buf.String(), "TLS handshake error")
	assert.Contains(t, buf.String(), "level=ERROR")
}
