// Package logging configures log/slog for the command line tool.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Setup returns a logger writing to w.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
//
// Progress and diagnostics go to the logger, so callers should pass stderr
// and keep stdout for the created file paths.
func Setup(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Validate reports whether level and format are recognised values.
func Validate(level, format string) error {
	switch strings.ToLower(level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q (want debug, info, warn or error)", level)
	}
	switch strings.ToLower(format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (want text or json)", format)
	}
	return nil
}

// parseLevel converts a string log level to slog.Level.
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
