package worker

import (
	"context"
	"testing"
	"time"

	"staffmanager/internal/amqp"
	"staffmanager/internal/core"
	"staffmanager/internal/services"
	"staffmanager/internal/store/memory"
)

type nopRenderer struct{}

func (nopRenderer) Render(_ context.Context, _ []core.InvoiceLineItem, _ map[string]any, baseName string) ([]byte, error) {
	return []byte("doc:" + baseName), nil
}

type nopUploader struct{ uploads int }

func (u *nopUploader) Upload(_ context.Context, _ []byte, _, _ string) error {
	u.uploads++
	return nil
}

type nopCleaner struct{}

func (nopCleaner) CleanTempDir(_ context.Context) error { return nil }

func newWorker(t *testing.T) (*InvoiceWorker, *memory.Store, core.Collaborator, *nopUploader) {
	t.Helper()
	st := memory.New()
	jean := st.AddCollaborator(core.Collaborator{FirstName: "Jean", LastName: "Dupont", Email: "jean@example.com"})
	st.AddSociety(core.Society{Name: "Staff SARL", VATID: "FR123456789"})
	uploader := &nopUploader{}
	svc := services.NewInvoiceService(st, st, st.Societies(), st, nopRenderer{}, uploader, nopCleaner{}, "invoices", 1)
	return NewInvoiceWorker(svc, time.Minute), st, jean, uploader
}

func TestHandleInvoiceRun(t *testing.T) {
	w, st, jean, uploader := newWorker(t)

	mission := st.AddMission(core.Mission{
		Name:         "alpha",
		StartDate:    core.NewDate(2026, time.September, 1),
		EndDate:      core.NewDate(2026, time.September, 30),
		Customer:     &core.Customer{ID: 100, Name: "Acme"},
		Collaborator: &jean,
	})
	_, err := st.SaveAll(context.Background(), []core.Activity{{
		Date:         core.NewDate(2026, time.September, 10),
		Quantity:     8,
		Category:     core.CategoryWorkedDay,
		Collaborator: &jean,
		Mission:      &mission,
	}})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	msg := amqp.NewInvoiceRunMessage(jean.ID, 2026, 9)
	if err := w.HandleInvoiceRun(context.Background(), msg); err != nil {
		t.Fatalf("HandleInvoiceRun: %v", err)
	}
	if uploader.uploads != 1 {
		t.Fatalf("uploads = %d, want 1", uploader.uploads)
	}
	if len(st.Invoices()) != 1 {
		t.Fatalf("invoices = %d, want 1", len(st.Invoices()))
	}
}

// A collaborator with no mission this period is a data condition, not
// a delivery failure: the handler acks by returning nil.
func TestHandleInvoiceRunSwallowsBusinessErrors(t *testing.T) {
	w, _, jean, uploader := newWorker(t)

	msg := amqp.NewInvoiceRunMessage(jean.ID, 2026, 9)
	if err := w.HandleInvoiceRun(context.Background(), msg); err != nil {
		t.Fatalf("business error must not propagate: %v", err)
	}
	if uploader.uploads != 0 {
		t.Fatalf("nothing should upload, got %d", uploader.uploads)
	}
}

func TestHandleInvoiceRunPropagatesNotFound(t *testing.T) {
	w, _, _, _ := newWorker(t)

	msg := amqp.NewInvoiceRunMessage(9999, 2026, 9)
	if err := w.HandleInvoiceRun(context.Background(), msg); err == nil {
		t.Fatal("unknown collaborator must propagate")
	}
}

func TestHandleInvoiceRunDefaultsMonth(t *testing.T) {
	w, st, jean, _ := newWorker(t)
	w.now = func() time.Time { return time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC) }

	mission := st.AddMission(core.Mission{
		Name:         "alpha",
		StartDate:    core.NewDate(2026, time.September, 1),
		EndDate:      core.NewDate(2026, time.September, 30),
		Customer:     &core.Customer{ID: 100, Name: "Acme"},
		Collaborator: &jean,
	})
	_, err := st.SaveAll(context.Background(), []core.Activity{{
		Date:         core.NewDate(2026, time.September, 10),
		Quantity:     8,
		Category:     core.CategoryWorkedDay,
		Collaborator: &jean,
		Mission:      &mission,
	}})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	msg := amqp.NewInvoiceRunMessage(jean.ID, 0, 0)
	if err := w.HandleInvoiceRun(context.Background(), msg); err != nil {
		t.Fatalf("HandleInvoiceRun with default month: %v", err)
	}
	if len(st.Invoices()) != 1 {
		t.Fatalf("invoices = %d, want 1", len(st.Invoices()))
	}
}
