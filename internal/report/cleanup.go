package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// TempDirCleaner deletes the files under a configured temp directory.
// A missing or empty directory is fine.
type TempDirCleaner struct {
	Dir string
}

var _ Cleaner = (*TempDirCleaner)(nil)

func (c *TempDirCleaner) CleanTempDir(ctx context.Context) error {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			slog.DebugContext(ctx, "Temp directory absent, nothing to clean", "dir", c.Dir)
			return nil
		}
		return fmt.Errorf("read temp directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(c.Dir, entry.Name())
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove temp file %s: %w", entry.Name(), err)
		}
		removed++
	}

	if removed > 0 {
		slog.InfoContext(ctx, "Temp directory cleaned", "dir", c.Dir, "removed", removed)
	}
	return nil
}
