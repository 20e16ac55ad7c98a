package fs

import (
	"context"
	"os"
)

type OSFS struct{}

// the concrete implementation of FS backed by the local OS filesystem.
// Platform-specific details (such as inode extraction) are handled in build-tagged files.

func New() *OSFS {
	return &OSFS{}
}

func (o *OSFS) Stat(path string) (FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return infoOf(path, st), nil
}

func (o *OSFS) Lstat(path string) (FileInfo, error) {
	st, err := os.Lstat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return infoOf(path, st), nil
}

func infoOf(path string, st os.FileInfo) FileInfo {
	return FileInfo{
		Path:  path,
		Size:  st.Size(),
		Mode:  st.Mode(),
		MTime: st.ModTime(),
		Inode: inodeOf(st),
	}
}

func (o *OSFS) ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

func (o *OSFS) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

func (o *OSFS) Remove(path string) error {
	return os.Remove(path)
}

func (o *OSFS) Symlink(target, path string) error {
	return os.Symlink(target, path)
}

func (o *OSFS) Readlink(path string) (string, error) {
	return os.Readlink(path)
}

func (o *OSFS) CopyFile(ctx context.Context, src, dst string) error {
	_, err := copyChecked(ctx, o, src, createExclusive(dst))
	return err
}

func (o *OSFS) CopyToTemp(ctx context.Context, src, dir, pattern string) (string, error) {
	return copyChecked(ctx, o, src, createTemp(dir, pattern))
}

func (o *OSFS) Rename(ctx context.Context, oldPath, newPath string) error {
	return renameNoReplace(ctx, oldPath, newPath)
}
