package watcher

import (
	"context"
	"time"
)

// StartPolling scans the directory on a fixed interval. A run is requested
// once a changed listing has stayed the same for a full interval, so files
// still being written are not mirrored half way.
func (w *Watcher) StartPolling(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// the initial run is requested by the caller; start from the current state
	last, err := w.scan()
	if err != nil {
		w.log.Warn("watcher: initial scan failed", "dir", w.dir, "error", err)
	}
	triggered := last

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cur, err := w.scan()
			if err != nil {
				w.log.Warn("watcher: scan failed", "dir", w.dir, "error", err)
				continue
			}
			if cur.equal(last) && !cur.equal(triggered) {
				triggered = cur
				w.trigger()
			}
			last = cur
		}
	}
}
