package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/raoulx24/backup-rotator/internal/mirror"
)

// ConfigurationError is returned for invalid settings. It is always raised
// before any file is copied or removed.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate checks the configuration without touching the filesystem.
// needSource is false for commands that only inspect the destination.
func (c *Config) Validate(needSource bool) error {
	if needSource && strings.TrimSpace(c.Source) == "" {
		return invalid("source", "source directory is required")
	}
	if strings.TrimSpace(c.Destination) == "" {
		return invalid("destination", "destination directory is required")
	}

	if err := c.validateRetention(); err != nil {
		return err
	}

	switch c.Mirror.Method {
	case mirror.MethodNative, mirror.MethodRsync:
	default:
		return invalid("mirror.method", "unknown method %q (want native or rsync)", c.Mirror.Method)
	}

	switch c.Watch.Mode {
	case "auto", "poll", "fsnotify", "off":
	default:
		return invalid("watch.mode", "unknown mode %q", c.Watch.Mode)
	}
	if c.Watch.Mode == "auto" || c.Watch.Mode == "poll" {
		if c.Watch.PollInterval <= 0 {
			return invalid("watch.pollInterval", "must be positive, got %s", c.Watch.PollInterval)
		}
	}
	if c.Watch.DebounceWindow < 0 {
		return invalid("watch.debounceWindow", "must not be negative")
	}
	if c.Watch.Schedule != "" {
		if _, err := cron.ParseStandard(c.Watch.Schedule); err != nil {
			return invalid("watch.schedule", "invalid cron expression %q: %v", c.Watch.Schedule, err)
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return invalid("logging.level", "unknown level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return invalid("logging.format", "unknown format %q", c.Logging.Format)
	}

	if _, err := c.Location(); err != nil {
		return invalid("timezone", "%v", err)
	}

	return nil
}

func (c *Config) validateRetention() error {
	r := c.Retention
	if r.KeepAll < 0 || r.KeepDaily < 0 || r.KeepWeekly < 0 {
		return invalid("retention", "retention periods must be non-negative")
	}
	if r.KeepAll > r.KeepDaily {
		return invalid("retention.keepAll", "keepAll (%d) must be <= keepDaily (%d)", r.KeepAll, r.KeepDaily)
	}
	if r.KeepDaily > r.KeepWeekly {
		return invalid("retention.keepDaily", "keepDaily (%d) must be <= keepWeekly (%d)", r.KeepDaily, r.KeepWeekly)
	}
	return nil
}

// CheckSource verifies that the source directory exists.
func (c *Config) CheckSource() error {
	st, err := os.Stat(c.Source)
	if err != nil {
		return invalid("source", "source directory does not exist: %s", c.Source)
	}
	if !st.IsDir() {
		return invalid("source", "not a directory: %s", c.Source)
	}
	return nil
}
