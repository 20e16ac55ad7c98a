// Package fs defines the filesystem abstraction used by backup-rotator.
// It provides the FS interface and the FileInfo type shared by the mirror,
// the catalog scanner and the deletion step.
package fs

import (
	"context"
	"os"
	"time"
)

type FileInfo struct {
	Path  string
	Size  int64
	Mode  os.FileMode
	MTime time.Time
	Inode uint64
}

// IsRegular reports whether the info describes a regular file.
func (fi FileInfo) IsRegular() bool {
	return fi.Mode.IsRegular()
}

type FS interface {
	// Stat follows symlinks, Lstat does not.
	Stat(path string) (FileInfo, error)
	Lstat(path string) (FileInfo, error)
	ReadDir(path string) ([]os.DirEntry, error)
	CopyFile(ctx context.Context, src, dst string) error
	// CopyToTemp copies src into a new file in dir named after pattern
	// (as os.CreateTemp) and returns its path.
	CopyToTemp(ctx context.Context, src, dir, pattern string) (string, error)
	Rename(ctx context.Context, oldPath, newPath string) error
	Symlink(target, path string) error
	Readlink(path string) (string, error)
	MkdirAll(path string) error
	Remove(path string) error
}
