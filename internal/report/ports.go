package report

import (
	"context"

	"staffmanager/internal/core"
)

// Ports for the document pipeline: rendering, durable storage and local
// temp hygiene.
type (
	// Renderer turns invoice line items plus a parameter map into the
	// rendered document bytes. baseName is the document name without
	// extension.
	Renderer interface {
		Render(ctx context.Context, rows []core.InvoiceLineItem, params map[string]any, baseName string) ([]byte, error)
	}

	// Uploader persists rendered bytes to durable object storage.
	Uploader interface {
		Upload(ctx context.Context, data []byte, bucket, objectName string) error
	}

	// Cleaner removes local temporary rendering artifacts. A missing or
	// empty directory is not an error.
	Cleaner interface {
		CleanTempDir(ctx context.Context) error
	}
)
