package pool

import (
	"io"
	"log/slog"
	"os"

	"github.com/joshuapare/segpool/sysalloc"
)

// DefaultGrowth is the number of segments added by each automatic growth when
// no Config is given.
const DefaultGrowth = 64

// Runtime growth logging for pools without an explicit logger - controlled by
// the SEGPOOL_LOG_GROW env var.
var logGrow = os.Getenv("SEGPOOL_LOG_GROW") != ""

// Config holds the construction parameters of a Pool.
type Config struct {
	// DefaultGrowth is the number of segments each automatic growth adds.
	// Values below 1 are raised to 1.
	DefaultGrowth int

	// Allocator supplies pages. Nil selects sysalloc.Default().
	Allocator sysalloc.Allocator

	// Logger receives growth and teardown events. Nil discards them, unless
	// SEGPOOL_LOG_GROW is set in the environment.
	Logger *slog.Logger
}

// DefaultConfig is used when New is called with a nil Config.
var DefaultConfig = Config{DefaultGrowth: DefaultGrowth}

func (c *Config) allocator() sysalloc.Allocator {
	if c.Allocator != nil {
		return c.Allocator
	}
	return sysalloc.Default()
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	if logGrow {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (c *Config) growth() int {
	if c.DefaultGrowth < 1 {
		return 1
	}
	return c.DefaultGrowth
}
