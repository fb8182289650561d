// Package htmlrender renders invoice documents from an embedded
// html/template. It writes the rendered bytes to a temp directory as a
// side artifact, matching what downstream debugging expects, and
// returns them to the caller.
package htmlrender

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"

	"staffmanager/internal/core"
	"staffmanager/internal/report"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Renderer struct {
	tmpl    *template.Template
	tempDir string
}

var _ report.Renderer = (*Renderer)(nil)

// New loads the embedded invoice template. tempDir may be empty to
// skip writing local artifacts.
func New(tempDir string) (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse invoice templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, tempDir: tempDir}, nil
}

type lineView struct {
	Category  string
	Quantity  string
	UnitPrice string
	Amount    string
}

func (r *Renderer) Render(ctx context.Context, rows []core.InvoiceLineItem, params map[string]any, baseName string) ([]byte, error) {
	views := make([]lineView, len(rows))
	for i, row := range rows {
		views[i] = lineView{
			Category:  string(row.Category),
			Quantity:  row.Quantity.String(),
			UnitPrice: row.UnitPrice.String(),
			Amount:    row.Amount.String(),
		}
	}

	var buf bytes.Buffer
	data := map[string]any{
		"Lines":  views,
		"Params": params,
		"Name":   baseName,
	}
	if err := r.tmpl.ExecuteTemplate(&buf, "invoice.html", data); err != nil {
		return nil, fmt.Errorf("execute invoice template: %w", err)
	}

	if r.tempDir != "" {
		if err := r.writeTempArtifact(ctx, baseName, buf.Bytes()); err != nil {
			// Local artifact is best-effort; the rendered bytes are
			// still returned to the caller.
			slog.WarnContext(ctx, "Failed to write temp artifact", "error", err, "base_name", baseName)
		}
	}

	return buf.Bytes(), nil
}

func (r *Renderer) writeTempArtifact(_ context.Context, baseName string, data []byte) error {
	if err := os.MkdirAll(r.tempDir, 0755); err != nil {
		return fmt.Errorf("create temp directory: %w", err)
	}
	path := filepath.Join(r.tempDir, baseName+".html")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write temp artifact: %w", err)
	}
	return nil
}
