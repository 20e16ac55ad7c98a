// Package mirror copies new backups from a source directory into the
// destination store without overwriting or deleting anything there.
package mirror

import (
	"context"
	"fmt"
)

// Mirror copies every file present in src but absent in dst into dst.
type Mirror interface {
	Mirror(ctx context.Context, src, dst string) (Stats, error)
}

// Stats counts what a mirror pass did.
type Stats struct {
	Copied  int
	Skipped int
}

// MirrorError reports a failed mirror pass. The destination may hold a
// partial copy; retention must not run against it.
type MirrorError struct {
	Source string
	Dest   string
	Err    error
	Output string // diagnostic output of an external tool, if any
}

func (e *MirrorError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("mirroring %s to %s: %v: %s", e.Source, e.Dest, e.Err, e.Output)
	}
	return fmt.Sprintf("mirroring %s to %s: %v", e.Source, e.Dest, e.Err)
}

func (e *MirrorError) Unwrap() error {
	return e.Err
}

// Method names accepted in configuration.
const (
	MethodNative = "native"
	MethodRsync  = "rsync"
)
