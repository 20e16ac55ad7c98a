// Package logging provides the logger used across backup-rotator.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the subset of *slog.Logger the application depends on.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config selects level and output format.
type Config struct {
	Level  string // "debug", "info", "warn", "error"; empty means derive from Verbosity
	Format string // "text" or "json"

	// Verbosity is the -v count from the command line.
	Verbosity int

	// Writer defaults to os.Stderr.
	Writer io.Writer
}

// New builds a slog logger for cfg.
func New(cfg Config) (*slog.Logger, error) {
	level, err := resolveLevel(cfg.Level, cfg.Verbosity)
	if err != nil {
		return nil, err
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	return slog.New(handler), nil
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	// slog.DiscardHandler requires Go 1.24; io.Discard is the 1.21 equivalent.
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// resolveLevel prefers an explicit level; otherwise each -v lowers the
// threshold by one step starting from warn.
func resolveLevel(name string, verbosity int) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "":
	default:
		return 0, fmt.Errorf("invalid log level %q", name)
	}

	switch {
	case verbosity <= 0:
		return slog.LevelWarn, nil
	case verbosity == 1:
		return slog.LevelInfo, nil
	default:
		return slog.LevelDebug, nil
	}
}
