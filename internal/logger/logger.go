// Package logger builds the slog loggers used by the segpool command.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// L is the global logger instance. It discards all output until Init is called.
var L = Discard()

// Options configures the logger initialization.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	Output  io.Writer  // Destination; required when Enabled
	Level   slog.Level // Minimum log level
	JSON    bool       // JSON records instead of logfmt-style text
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// New builds a logger from opts without touching L.
func New(opts Options) *slog.Logger {
	if !opts.Enabled || opts.Output == nil {
		return Discard()
	}
	hopts := &slog.HandlerOptions{Level: opts.Level}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(opts.Output, hopts))
	}
	return slog.New(slog.NewTextHandler(opts.Output, hopts))
}

// Init replaces L. Call from main before any log calls.
func Init(opts Options) {
	L = New(opts)
}

// ParseLevel maps debug|info|warn|error (any case) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
