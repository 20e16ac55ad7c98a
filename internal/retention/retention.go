// Package retention decides which backups survive the tiered retention
// policy and removes the rest.
package retention

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/raoulx24/backup-rotator/internal/backup"
	"github.com/raoulx24/backup-rotator/internal/fs"
	"github.com/raoulx24/backup-rotator/internal/logging"
)

// Engine scans a destination directory, classifies its backups and deletes
// the ones no tier keeps.
type Engine struct {
	thresholds Thresholds
	fs         fs.FS
	log        logging.Logger
	now        func() time.Time
	loc        *time.Location
}

func New(th Thresholds, log logging.Logger, filesystem fs.FS) *Engine {
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Engine{
		thresholds: th,
		fs:         filesystem,
		log:        log,
		now:        time.Now,
		loc:        time.Local,
	}
}

// WithClock replaces the time source used for "now".
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// WithLocation sets the zone file name timestamps are interpreted in.
func (e *Engine) WithLocation(loc *time.Location) *Engine {
	e.loc = loc
	return e
}

// Plan scans dir and classifies its backups without touching any file.
func (e *Engine) Plan(ctx context.Context, dir string) (*Report, error) {
	return e.apply(ctx, dir, true)
}

// Apply scans dir, classifies its backups and removes every entry that is
// not kept. Removal failures are collected in the report and do not stop
// the remaining removals. Only a failure to list dir is returned as error.
func (e *Engine) Apply(ctx context.Context, dir string, dryRun bool) (*Report, error) {
	return e.apply(ctx, dir, dryRun)
}

func (e *Engine) apply(ctx context.Context, dir string, dryRun bool) (*Report, error) {
	now := e.now()
	rep := &Report{
		RunID:      uuid.New().String(),
		Dir:        dir,
		DryRun:     dryRun,
		Now:        now,
		Thresholds: e.thresholds,
		Boundaries: e.thresholds.BoundariesAt(now),
		Keep:       []Decision{},
		Delete:     []backup.Entry{},
	}

	e.log.Debug("retention thresholds",
		"keep_all_after", rep.Boundaries.All,
		"keep_daily_after", rep.Boundaries.Daily,
		"keep_weekly_after", rep.Boundaries.Weekly,
	)

	catalog, warnings, err := backup.Scan(e.fs, dir, e.loc)
	if err != nil {
		return nil, err
	}
	rep.Warnings = warnings
	rep.Found = len(catalog)

	for _, w := range warnings {
		e.log.Info("skipping file without timestamp", "file", w.Name)
	}
	for _, ent := range catalog {
		e.log.Debug("found backup", "file", ent.Name, "timestamp", ent.Timestamp)
	}

	if len(catalog) == 0 {
		e.log.Info("no backup files found", "run_id", rep.RunID, "dir", dir)
		return rep, nil
	}

	res := Classify(catalog, e.thresholds, now)
	rep.Keep = res.Keep
	rep.Delete = res.Delete

	for _, d := range res.Keep {
		e.log.Info("keep", "file", d.Entry.Name, "tier", d.Tier)
	}
	e.log.Info("retention classified",
		"run_id", rep.RunID,
		"found", rep.Found,
		"keep", len(rep.Keep),
		"delete", len(rep.Delete),
	)

	if dryRun {
		return rep, nil
	}

	for _, ent := range res.Delete {
		if err := ctx.Err(); err != nil {
			rep.Failures = append(rep.Failures, &DeletionError{Path: ent.Path, Name: ent.Name, Err: err})
			continue
		}
		if err := e.fs.Remove(ent.Path); err != nil {
			e.log.Error("delete failed", "file", ent.Name, "error", err)
			rep.Failures = append(rep.Failures, &DeletionError{Path: ent.Path, Name: ent.Name, Err: err})
			continue
		}
		e.log.Debug("deleted", "file", ent.Name)
		rep.Removed = append(rep.Removed, ent.Path)
	}

	e.log.Info("retention applied",
		"run_id", rep.RunID,
		"deleted", len(rep.Removed),
		"failed", len(rep.Failures),
	)

	return rep, nil
}
