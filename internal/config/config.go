package config

import (
	"time"

	"github.com/raoulx24/backup-rotator/internal/retention"
)

type Config struct {
	Source      string          `yaml:"source"`
	Destination string          `yaml:"destination"`
	DryRun      bool            `yaml:"dryRun"`
	Timezone    string          `yaml:"timezone"` // zone for file name timestamps, empty = local
	Retention   RetentionConfig `yaml:"retention"`
	Mirror      MirrorConfig    `yaml:"mirror"`
	Watch       WatchConfig     `yaml:"watch"`
	Logging     LoggingConfig   `yaml:"logging"`
	Metrics     MetricsConfig   `yaml:"metrics"`
}

type RetentionConfig struct {
	KeepAll    int `yaml:"keepAll"`    // days
	KeepDaily  int `yaml:"keepDaily"`  // days
	KeepWeekly int `yaml:"keepWeekly"` // days
}

type MirrorConfig struct {
	Method    string `yaml:"method"`    // "native", "rsync"
	RsyncPath string `yaml:"rsyncPath"` // default: rsync from PATH
}

type WatchConfig struct {
	Mode           string        `yaml:"mode"`           // "auto", "poll", "fsnotify", "off"
	PollInterval   time.Duration `yaml:"pollInterval"`   // e.g. 30s
	DebounceWindow time.Duration `yaml:"debounceWindow"` // e.g. 2s
	Schedule       string        `yaml:"schedule"`       // cron expression, optional
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // "info", "debug", etc.; empty follows -v
	Format string `yaml:"format"` // "json", "text"
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // node_exporter textfile collector path
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Retention: RetentionConfig{
			KeepAll:    1,
			KeepDaily:  7,
			KeepWeekly: 30,
		},
		Mirror: MirrorConfig{
			Method: "native",
		},
		Watch: WatchConfig{
			Mode:           "auto",
			PollInterval:   30 * time.Second,
			DebounceWindow: 2 * time.Second,
		},
		Logging: LoggingConfig{
			Format: "text",
		},
	}
}

// Thresholds converts the retention section for the classifier.
func (c *Config) Thresholds() retention.Thresholds {
	return retention.Thresholds{
		KeepAll:    c.Retention.KeepAll,
		KeepDaily:  c.Retention.KeepDaily,
		KeepWeekly: c.Retention.KeepWeekly,
	}
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
