// Package watcher monitors the source directory and requests a run when
// new backups appear.
package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/raoulx24/backup-rotator/internal/logging"
	"github.com/raoulx24/backup-rotator/internal/mailbox"
	"github.com/raoulx24/backup-rotator/internal/worker"
)

// Config selects how the source directory is observed.
type Config struct {
	Dir            string
	Mode           string        // "auto", "poll", "fsnotify"
	PollInterval   time.Duration // poll mode
	DebounceWindow time.Duration // fsnotify mode
}

// Watcher observes the source directory and puts a job into the mailbox
// once backup files stop changing.
type Watcher struct {
	dir      string
	mode     string
	interval time.Duration
	debounce time.Duration

	log logging.Logger
	mb  *mailbox.Mailbox[worker.Job]
}

// New creates a watcher from the source configuration.
func New(cfg Config, log logging.Logger, mb *mailbox.Mailbox[worker.Job]) *Watcher {
	return &Watcher{
		dir:      cfg.Dir,
		mode:     cfg.Mode,
		interval: cfg.PollInterval,
		debounce: cfg.DebounceWindow,
		log:      log,
		mb:       mb,
	}
}

// Start chooses the watching strategy and blocks until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	switch w.mode {
	case "fsnotify":
		return w.StartFsNotify(ctx)

	case "poll":
		return w.StartPolling(ctx)

	case "auto":
		w.Resolve()
		return w.Start(ctx)

	default:
		return fmt.Errorf("unknown mode %q", w.mode)
	}
}

// Resolve replaces the "auto" mode with the strategy Probe selects and
// returns the effective mode. Call it before the first run so the probe
// file never races with a mirror pass.
func (w *Watcher) Resolve() string {
	if w.mode != "auto" {
		return w.mode
	}

	res := Probe(w.dir)
	if res.FsnotifySupported {
		w.mode = "fsnotify"
	} else {
		w.log.Warn("fsnotify disabled, falling back to polling", "reason", res.Reason)
		w.mode = "poll"
	}
	return w.mode
}

func (w *Watcher) trigger() {
	w.log.Info("source changed, requesting run", "dir", w.dir)
	w.mb.Put(worker.Job{Reason: "source changed", At: time.Now()})
}
