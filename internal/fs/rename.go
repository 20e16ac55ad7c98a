package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// wraps os.Rename so that an existing destination is never replaced.
// Used to move a fully written temporary copy into its final name.

func renameNoReplace(ctx context.Context, oldPath, newPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Lstat(newPath); err == nil {
		return fmt.Errorf("rename %s: %w", newPath, ErrExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.Rename(oldPath, newPath)
}
