// Package drive uploads rendered invoices to Google Drive, the durable
// object store for generated documents. A Drive folder plays the role
// of the bucket: object names are file names inside that folder.
package drive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	gdrive "google.golang.org/api/drive/v3"
	goption "google.golang.org/api/option"

	"staffmanager/internal/report"
)

type Uploader struct {
	svc *gdrive.Service
}

var _ report.Uploader = (*Uploader)(nil)

// NewFromEnv creates a Drive uploader using Service Account
// credentials. Uses GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Uploader, error) {
	credentialsJSON, err := resolveCredentials(ctx)
	if err != nil {
		return nil, err
	}

	svc, err := gdrive.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gdrive.DriveFileScope),
	)
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}

	return &Uploader{svc: svc}, nil
}

func resolveCredentials(ctx context.Context) ([]byte, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case serviceAccountJSON != "":
		slog.InfoContext(ctx, "Using inline JSON credentials for Drive")
		return []byte(serviceAccountJSON), nil
	case serviceAccountFile != "":
		data, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.InfoContext(ctx, "Read Drive credentials from file", "path", serviceAccountFile, "size", len(data))
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// Upload stores the rendered document under objectName inside the
// folder identified by bucket. Re-running an invoice generation
// produces a second revision-less file; retention is out of scope.
func (u *Uploader) Upload(ctx context.Context, data []byte, bucket, objectName string) error {
	meta := &gdrive.File{
		Name:     objectName,
		MimeType: "application/pdf",
	}
	if bucket != "" {
		meta.Parents = []string{bucket}
	}

	created, err := u.svc.Files.Create(meta).
		Context(ctx).
		Media(bytes.NewReader(data)).
		Fields("id", "name").
		Do()
	if err != nil {
		return fmt.Errorf("upload %s to drive: %w", objectName, err)
	}

	slog.InfoContext(ctx, "Report uploaded to Drive",
		"object", objectName,
		"file_id", created.Id,
		"bytes", len(data))
	return nil
}
