package logger

import (
	"io"
	"log"
	"log/slog"
	"moviecatalog/proj/internal/config"
	"moviecatalog/proj/internal/lib/logger/handlers/slogpretty"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogger returns a colored logger in debug mode and a json one otherwise.
// When cfg.File is set records are written to a rotated file instead of stdout.
func SetupLogger(debug bool, cfg config.Log) *slog.Logger {
	out := Output(cfg)
	var handler slog.Handler
	if debug {
		handler = slogpretty.NewPrettyHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.New(handler)
}

func Output(cfg config.Log) io.Writer {
	if cfg.File == "" {
		return os.Stdout
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
}

type out struct {
	stdLog *slog.Logger
}

func (l out) Write(p []byte) (n int, err error) {
	l.stdLog.Error(string(p))
	return len(p), nil
}

// LogAdapter exposes logger as a *log.Logger, used for http.Server.ErrorLog.
func LogAdapter(logger *slog.Logger) *log.Logger {
	return log.New(&out{logger}, "", 0)
}
