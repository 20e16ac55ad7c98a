package fs

import "errors"

// sentinel errors returned by OSFS copy and rename operations.

var (
	// ErrSourceChanged is returned when the source file was modified while
	// it was being copied. The partial destination is removed.
	ErrSourceChanged = errors.New("source changed during copy")

	// ErrExists is returned when a rename or copy would replace an
	// existing destination.
	ErrExists = errors.New("destination already exists")
)
