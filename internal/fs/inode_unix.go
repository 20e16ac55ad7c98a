//go:build unix

package fs

import (
	"os"
	"syscall"
)

// inodeOf extracts the inode number from syscall.Stat_t on Unix systems.
// A changed inode means the source file was replaced while it was copied.
func inodeOf(info os.FileInfo) uint64 {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return uint64(st.Ino)
	}
	return 0
}
