package backup

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/raoulx24/backup-rotator/internal/fs"
)

// backupMarkers are matched anywhere in the lowercased name, so
// "database.sql.bz2.txt" still counts as a backup.
var backupMarkers = []string{".sql", ".bz2", ".gz"}

// IsBackupName reports whether a file name looks like a database backup.
func IsBackupName(name string) bool {
	lower := strings.ToLower(name)
	for _, m := range backupMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// Scan lists dir and returns its backup files ordered newest first.
//
// Only regular files (after following symlinks) with a backup-like name are
// considered. Files whose timestamp cannot be extracted are returned as
// warnings instead of catalog entries. Entries sharing a timestamp keep the
// order in which they were listed.
func Scan(fsys fs.FS, dir string, loc *time.Location) (Catalog, []ExtractionWarning, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, nil, &DirectoryAccessError{Dir: dir, Err: err}
	}

	var (
		catalog  Catalog
		warnings []ExtractionWarning
	)

	for _, ent := range entries {
		name := ent.Name()
		full := filepath.Join(dir, name)

		info, err := fsys.Stat(full)
		if err != nil || !info.IsRegular() {
			continue
		}

		if !IsBackupName(name) {
			continue
		}

		ts, ok := ExtractTimestamp(name, loc)
		if !ok {
			warnings = append(warnings, ExtractionWarning{Path: full, Name: name})
			continue
		}

		catalog = append(catalog, fromFileInfo(info, ts, len(catalog)))
	}

	sort.SliceStable(catalog, func(i, j int) bool {
		return catalog[i].Timestamp.After(catalog[j].Timestamp)
	})

	return catalog, warnings, nil
}
