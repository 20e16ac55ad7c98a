package mirror

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/raoulx24/backup-rotator/internal/fs"
	"github.com/raoulx24/backup-rotator/internal/logging"
)

// Native mirrors with the fs package. Directories are walked recursively,
// files are written to a temporary name and renamed into place once
// complete, and symlinks are recreated rather than followed.
type Native struct {
	fs  fs.FS
	log logging.Logger
}

func NewNative(log logging.Logger, filesystem fs.FS) *Native {
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Native{fs: filesystem, log: log}
}

func (n *Native) Mirror(ctx context.Context, src, dst string) (Stats, error) {
	var st Stats
	if err := n.mirrorDir(ctx, src, dst, &st); err != nil {
		return st, &MirrorError{Source: src, Dest: dst, Err: err}
	}
	n.log.Info("mirror completed", "copied", st.Copied, "skipped", st.Skipped)
	return st, nil
}

func (n *Native) mirrorDir(ctx context.Context, src, dst string, st *Stats) error {
	if err := n.fs.MkdirAll(dst); err != nil {
		return err
	}

	entries, err := n.fs.ReadDir(src)
	if err != nil {
		return err
	}

	for _, ent := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		from := filepath.Join(src, ent.Name())
		to := filepath.Join(dst, ent.Name())

		info, err := n.fs.Lstat(from)
		if err != nil {
			return err
		}

		if info.Mode.IsDir() {
			if err := n.mirrorDir(ctx, from, to, st); err != nil {
				return err
			}
			continue
		}

		if exists, err := n.exists(to); err != nil {
			return err
		} else if exists {
			n.log.Debug("skipping existing file", "file", ent.Name())
			st.Skipped++
			continue
		}

		switch {
		case info.Mode&os.ModeSymlink != 0:
			err = n.copyLink(from, to)
		case info.Mode.IsRegular():
			err = n.copyFile(ctx, from, to)
		default:
			n.log.Debug("skipping special file", "file", from)
			continue
		}
		if err != nil {
			return err
		}

		n.log.Debug("copied", "file", ent.Name())
		st.Copied++
	}

	return nil
}

func (n *Native) exists(path string) (bool, error) {
	_, err := n.fs.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// tempPattern names in-flight copies. It carries no backup extension, so an
// interrupted copy is never cataloged as a backup.
const tempPattern = ".backup-rotator-*"

func (n *Native) copyFile(ctx context.Context, from, to string) error {
	tmp, err := n.fs.CopyToTemp(ctx, from, filepath.Dir(to), tempPattern)
	if err != nil {
		return err
	}
	if err := n.fs.Rename(ctx, tmp, to); err != nil {
		_ = n.fs.Remove(tmp)
		return err
	}
	return nil
}

func (n *Native) copyLink(from, to string) error {
	target, err := n.fs.Readlink(from)
	if err != nil {
		return err
	}
	return n.fs.Symlink(target, to)
}
