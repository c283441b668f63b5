package logger

import (
	"log/slog"
	"os"
)

// New builds the process-wide logger. It writes to stderr so the child
// process's stdout passes through untouched. Debug enables trace output for
// the external command plumbing.
func New(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})

	logger := slog.New(handler)

	slog.SetDefault(logger)
	return logger
}
