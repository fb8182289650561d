package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// DirUploader stores rendered documents on the local filesystem,
// grouped by bucket. Used when no Drive credentials are configured.
type DirUploader struct {
	Root string
}

var _ Uploader = (*DirUploader)(nil)

func (u *DirUploader) Upload(ctx context.Context, data []byte, bucket, objectName string) error {
	dir := filepath.Join(u.Root, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create upload directory: %w", err)
	}
	path := filepath.Join(dir, objectName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write document %s: %w", objectName, err)
	}
	slog.InfoContext(ctx, "Document stored locally", "path", path, "bytes", len(data))
	return nil
}
