package common

import (
	"io"
	"log/slog"
	"strings"
)

// NewLogger builds the process logger. quiet wins over level.
func NewLogger(w io.Writer, level, format string, quiet bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if quiet {
		opts.Level = slog.LevelError
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
