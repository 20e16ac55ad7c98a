package mirror

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/raoulx24/backup-rotator/internal/fs"
	"github.com/raoulx24/backup-rotator/internal/logging"
)

// Rsync mirrors by running rsync -a --ignore-existing.
type Rsync struct {
	// Path to the rsync binary; "rsync" resolves through PATH.
	Path string

	// Verbosity adds -v at 1 and --progress at 2.
	Verbosity int

	fs  fs.FS
	log logging.Logger
}

func NewRsync(path string, verbosity int, log logging.Logger, filesystem fs.FS) *Rsync {
	if path == "" {
		path = "rsync"
	}
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Rsync{Path: path, Verbosity: verbosity, fs: filesystem, log: log}
}

// Args returns the rsync arguments for a pass from src to dst.
func (r *Rsync) Args(src, dst string) []string {
	args := []string{"-a", "--ignore-existing"}
	if r.Verbosity > 0 {
		args = append(args, "-v")
	}
	if r.Verbosity > 1 {
		args = append(args, "--progress")
	}
	// trailing slashes copy the contents, not the directory itself
	return append(args, withSlash(src), withSlash(dst))
}

func (r *Rsync) Mirror(ctx context.Context, src, dst string) (Stats, error) {
	if err := r.fs.MkdirAll(dst); err != nil {
		return Stats{}, &MirrorError{Source: src, Dest: dst, Err: err}
	}

	args := r.Args(src, dst)
	r.log.Info("running rsync", "cmd", r.Path+" "+strings.Join(args, " "))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Stats{}, &MirrorError{
			Source: src,
			Dest:   dst,
			Err:    err,
			Output: strings.TrimSpace(stderr.String()),
		}
	}

	if out := strings.TrimSpace(stdout.String()); out != "" {
		r.log.Debug("rsync output", "output", out)
	}
	r.log.Info("mirror completed")

	// rsync does not report counts without parsing --stats output
	return Stats{}, nil
}

func withSlash(p string) string {
	if strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}
