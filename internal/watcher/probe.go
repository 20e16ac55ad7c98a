package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// probeTimeout bounds how long Probe waits for the rename event.
const probeTimeout = 200 * time.Millisecond

// ProbeResult reports whether fsnotify is usable and why.
type ProbeResult struct {
	FsnotifySupported bool   // true if events are delivered
	Reason            string // explanation when unsupported
}

// Probe tests whether fsnotify reliably reports events in dir by creating
// and renaming a hidden file there. Network mounts and some container
// volumes accept the watch but never deliver events.
func Probe(dir string) ProbeResult {
	st, err := os.Stat(dir)
	if err != nil {
		return ProbeResult{false, fmt.Sprintf("stat failed: %v", err)}
	}
	if !st.IsDir() {
		return ProbeResult{false, "not a directory"}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return ProbeResult{false, fmt.Sprintf("fsnotify unavailable: %v", err)}
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return ProbeResult{false, fmt.Sprintf("cannot watch directory: %v", err)}
	}

	f, err := os.CreateTemp(dir, ".fsprobe-*")
	if err != nil {
		return ProbeResult{false, fmt.Sprintf("cannot create temp file: %v", err)}
	}
	tmp := f.Name()
	f.Close()

	final := tmp + ".done"
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return ProbeResult{false, fmt.Sprintf("rename failed: %v", err)}
	}
	defer os.Remove(final)

	timeout := time.After(probeTimeout)
	for {
		select {
		case ev := <-w.Events:
			if filepath.Dir(ev.Name) == filepath.Clean(dir) &&
				ev.Op&(fsnotify.Rename|fsnotify.Create|fsnotify.Write) != 0 {
				return ProbeResult{true, ""}
			}
		case <-timeout:
			return ProbeResult{false, "no events received (rename not reported)"}
		}
	}
}
