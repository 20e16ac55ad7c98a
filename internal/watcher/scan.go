package watcher

import (
	"os"
	"path/filepath"
	"time"

	"github.com/raoulx24/backup-rotator/internal/backup"
)

// contains the directory scanning logic used by the poller to detect new or
// updated backup files.

type fileState struct {
	size  int64
	mtime time.Time
}

type listing map[string]fileState

func (l listing) equal(o listing) bool {
	if len(l) != len(o) {
		return false
	}
	for name, st := range l {
		other, ok := o[name]
		if !ok || other.size != st.size || !other.mtime.Equal(st.mtime) {
			return false
		}
	}
	return true
}

func (w *Watcher) scan() (listing, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, err
	}

	out := make(listing, len(entries))
	for _, e := range entries {
		if e.IsDir() || !backup.IsBackupName(e.Name()) {
			continue
		}

		info, err := os.Stat(filepath.Join(w.dir, e.Name()))
		if err != nil {
			continue
		}
		out[e.Name()] = fileState{size: info.Size(), mtime: info.ModTime()}
	}
	return out, nil
}
