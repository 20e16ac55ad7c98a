// Package backup discovers backup files and resolves their timestamps.
package backup

import (
	"path/filepath"
	"time"

	"github.com/raoulx24/backup-rotator/internal/fs"
)

// Entry represents a single backup file in the destination store.
type Entry struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	Size      int64     `json:"size"`

	// Seq is the position at which the file was discovered during the scan.
	// Lower values win ties between identical timestamps.
	Seq int `json:"-"`
}

// Catalog is a set of entries ordered newest first.
type Catalog []Entry

// fromFileInfo constructs an Entry from a stat result and a resolved timestamp.
func fromFileInfo(info fs.FileInfo, ts time.Time, seq int) Entry {
	return Entry{
		Path:      info.Path,
		Name:      filepath.Base(info.Path),
		Timestamp: ts,
		Size:      info.Size,
		Seq:       seq,
	}
}
