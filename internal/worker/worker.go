// Package worker sequences a run: mirror the source into the destination,
// then apply retention to the destination.
package worker

import (
	"context"
	"time"

	"github.com/raoulx24/backup-rotator/internal/logging"
	"github.com/raoulx24/backup-rotator/internal/mailbox"
	"github.com/raoulx24/backup-rotator/internal/metrics"
	"github.com/raoulx24/backup-rotator/internal/mirror"
	"github.com/raoulx24/backup-rotator/internal/retention"
)

// Options are the per-run settings of a Worker.
type Options struct {
	Source      string
	Destination string
	DryRun      bool

	// MetricsFile, if set, receives the metrics textfile after every run.
	MetricsFile string
}

// Worker mirrors backups and applies retention, one run at a time.
type Worker struct {
	opts      Options
	mirror    mirror.Mirror
	retention *retention.Engine
	metrics   *metrics.Collector
	log       logging.Logger
	mb        *mailbox.Mailbox[Job]

	// OnReport is called after every run started from the mailbox.
	OnReport func(*retention.Report, error)
}

// New creates a worker. mb may be nil when only RunOnce is used.
func New(opts Options, log logging.Logger, m mirror.Mirror, r *retention.Engine, mb *mailbox.Mailbox[Job]) *Worker {
	log.Debug("creating worker", "source", opts.Source, "destination", opts.Destination)
	return &Worker{
		opts:      opts,
		mirror:    m,
		retention: r,
		log:       log,
		mb:        mb,
	}
}

// WithMetrics records every run on c.
func (w *Worker) WithMetrics(c *metrics.Collector) *Worker {
	w.metrics = c
	return w
}

// RunOnce mirrors the source and applies retention to the destination.
// A mirror failure aborts the run before the destination is scanned, so
// nothing is deleted from a possibly incomplete copy. Individual deletion
// failures are reported in the returned report, not as an error.
func (w *Worker) RunOnce(ctx context.Context) (*retention.Report, error) {
	start := time.Now()

	w.log.Info("copying files", "source", w.opts.Source, "destination", w.opts.Destination)
	if _, err := w.mirror.Mirror(ctx, w.opts.Source, w.opts.Destination); err != nil {
		w.log.Error("copy failed, aborting", "error", err)
		w.observe(nil, err, start)
		return nil, err
	}

	w.log.Info("applying retention policy", "dry_run", w.opts.DryRun)
	rep, err := w.retention.Apply(ctx, w.opts.Destination, w.opts.DryRun)
	if err != nil {
		w.log.Error("retention failed", "error", err)
		w.observe(nil, nil, start)
		return nil, err
	}

	w.observe(rep, nil, start)
	return rep, nil
}

// Start runs the worker loop using mailbox semantics until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info("starting worker")
	for {
		job, ok := w.mb.Take(ctx)
		if !ok {
			w.log.Info("worker stopped")
			return
		}
		w.Handle(ctx, job)
	}
}

// Handle performs one run for job. Failures are logged; the loop continues.
func (w *Worker) Handle(ctx context.Context, job Job) {
	w.log.Info("run triggered", "reason", job.Reason, "at", job.At)

	rep, err := w.RunOnce(ctx)
	if err != nil {
		w.log.Error("worker: run failed", "reason", job.Reason, "error", err)
	}
	if w.OnReport != nil {
		w.OnReport(rep, err)
	}
}

func (w *Worker) observe(rep *retention.Report, mirrorErr error, start time.Time) {
	if w.metrics == nil {
		return
	}

	finished := time.Now()
	w.metrics.ObserveRun(rep, mirrorErr, finished, finished.Sub(start))

	if w.opts.MetricsFile == "" {
		return
	}
	if err := w.metrics.WriteTextfile(w.opts.MetricsFile); err != nil {
		w.log.Warn("writing metrics textfile failed", "path", w.opts.MetricsFile, "error", err)
	}
}
