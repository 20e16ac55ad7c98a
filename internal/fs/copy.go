package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// implements file copying with source-change detection.
// The destination is created by create (never replacing an existing file),
// keeps the source permission bits and modification time, and is removed
// again if the source changes mid-copy.

// createFunc opens a new, previously nonexistent file for writing.
type createFunc func(perm os.FileMode) (*os.File, error)

func createExclusive(dst string) createFunc {
	return func(perm os.FileMode) (*os.File, error) {
		out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%s: %w", dst, ErrExists)
		}
		return out, err
	}
}

func createTemp(dir, pattern string) createFunc {
	return func(os.FileMode) (*os.File, error) {
		return os.CreateTemp(dir, pattern)
	}
}

func copyChecked(ctx context.Context, f FS, src string, create createFunc) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	orig, err := f.Stat(src)
	if err != nil {
		return "", err
	}

	dst, err := copyOnce(src, orig.Mode.Perm(), create)
	if err != nil {
		return "", err
	}

	now, err := f.Stat(src)
	if err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	if sourceChanged(orig, now) {
		_ = os.Remove(dst)
		return "", fmt.Errorf("copying %s: %w", src, ErrSourceChanged)
	}

	// umask or CreateTemp may have masked the create mode
	if err := os.Chmod(dst, orig.Mode.Perm()); err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	if err := os.Chtimes(dst, orig.MTime, orig.MTime); err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	return dst, nil
}

func sourceChanged(orig, now FileInfo) bool {
	if now.Inode != 0 && orig.Inode != 0 && now.Inode != orig.Inode {
		return true
	}
	if now.MTime.After(orig.MTime) {
		return true
	}
	if now.Size != orig.Size {
		return true
	}
	return false
}

func copyOnce(src string, perm os.FileMode, create createFunc) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := create(perm)
	if err != nil {
		return "", err
	}
	dst := out.Name()

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	return dst, nil
}
