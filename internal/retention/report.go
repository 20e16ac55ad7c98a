package retention

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/raoulx24/backup-rotator/internal/backup"
)

// Report describes one retention pass over a directory.
type Report struct {
	RunID      string                     `json:"run_id"`
	Dir        string                     `json:"dir"`
	DryRun     bool                       `json:"dry_run"`
	Now        time.Time                  `json:"now"`
	Thresholds Thresholds                 `json:"thresholds"`
	Boundaries Boundaries                 `json:"-"`
	Found      int                        `json:"found"`
	Warnings   []backup.ExtractionWarning `json:"warnings,omitempty"`
	Keep       []Decision                 `json:"keep"`
	Delete     []backup.Entry             `json:"delete"`
	Removed    []string                   `json:"removed,omitempty"`
	Failures   []*DeletionError           `json:"failures,omitempty"`
}

const timeLayout = "2006-01-02 15:04:05"

// WriteText renders the report for a terminal. Higher verbosity adds
// thresholds, every keep decision and the list of files to delete.
func (r *Report) WriteText(w io.Writer, verbosity int) error {
	p := &printer{w: w}
	rule := strings.Repeat("-", 60)

	if verbosity > 1 {
		p.printf("Retention thresholds:\n")
		p.printf("  Keep all: < %d days (after %s)\n", r.Thresholds.KeepAll, r.Boundaries.All.Format("2006-01-02 15:04"))
		p.printf("  Keep daily: < %d days (after %s)\n", r.Thresholds.KeepDaily, r.Boundaries.Daily.Format("2006-01-02 15:04"))
		p.printf("  Keep weekly: < %d days (after %s)\n", r.Thresholds.KeepWeekly, r.Boundaries.Weekly.Format("2006-01-02 15:04"))
		p.printf("  Keep monthly: >= %d days (before %s)\n\n", r.Thresholds.KeepWeekly, r.Boundaries.Weekly.Format("2006-01-02 15:04"))
	}

	if verbosity > 0 {
		for _, warn := range r.Warnings {
			p.printf("Warning: %s\n", warn)
		}
	}

	if r.Found == 0 {
		p.printf("No backup files found\n")
		return p.err
	}

	if verbosity > 0 {
		p.printf("\nFound %d backup files\n", r.Found)
		for _, d := range r.Keep {
			if d.Tier == TierAll {
				p.printf("KEEP (< %d days): %s\n", r.Thresholds.KeepAll, d.Entry.Name)
			} else {
				p.printf("KEEP (%s): %s\n", d.Tier, d.Entry.Name)
			}
		}
	}

	if verbosity > 0 || len(r.Delete) > 0 {
		p.printf("\n%s\nSUMMARY: Keeping %d files, deleting %d files\n%s\n", rule, len(r.Keep), len(r.Delete), rule)
	}

	if len(r.Delete) == 0 {
		if verbosity > 0 {
			p.printf("\nNo files to delete\n")
		}
		return p.err
	}

	if verbosity > 0 {
		p.printf("\nFiles to DELETE:\n")
		for _, e := range sortedNewestFirst(r.Delete) {
			p.printf("  %s (%s)\n", e.Name, e.Timestamp.Format(timeLayout))
		}
	}

	if r.DryRun {
		p.printf("\n(DRY RUN - %d files would be deleted)\n", len(r.Delete))
		return p.err
	}

	for _, f := range r.Failures {
		p.printf("Error deleting %s: %v\n", f.Name, f.Err)
	}
	if verbosity > 1 {
		for _, path := range r.Removed {
			p.printf("Deleted: %s\n", filepath.Base(path))
		}
	}
	if verbosity > 0 {
		p.printf("Successfully deleted %d/%d files\n", len(r.Removed), len(r.Delete))
	}

	return p.err
}

func sortedNewestFirst(entries []backup.Entry) []backup.Entry {
	out := append([]backup.Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// printer remembers the first write error so rendering code stays linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
