// Package worker runs invoice generation off AMQP trigger messages,
// the schedule-driven counterpart to the HTTP endpoint.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"staffmanager/internal/amqp"
	"staffmanager/internal/core"
	"staffmanager/internal/services"
)

// InvoiceWorker consumes invoice-run messages and executes the invoice
// pipeline for the requested collaborator and month.
type InvoiceWorker struct {
	invoices *services.InvoiceService
	timeout  time.Duration
	now      func() time.Time
}

func NewInvoiceWorker(invoices *services.InvoiceService, timeout time.Duration) *InvoiceWorker {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &InvoiceWorker{
		invoices: invoices,
		timeout:  timeout,
		now:      time.Now,
	}
}

// HandleInvoiceRun processes one run request. Business errors (no
// mission this period) are logged and swallowed so the message acks:
// retrying them cannot succeed until the data changes. Everything else
// propagates so the delivery nacks.
func (w *InvoiceWorker) HandleInvoiceRun(ctx context.Context, msg *amqp.InvoiceRunMessage) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	month := core.Month{Year: msg.Year, Month: time.Month(msg.Month)}
	if month.IsZero() {
		month = core.CurrentMonth(w.now())
	}

	slog.InfoContext(ctx, "Processing invoice run",
		"collaborator_id", msg.CollaboratorID,
		"year", month.Year,
		"month", int(month.Month))

	results, err := w.invoices.ValidateAndGenerateInvoice(ctx, msg.CollaboratorID, month)
	if err != nil {
		var businessErr *services.BusinessError
		if errors.As(err, &businessErr) {
			slog.WarnContext(ctx, "Invoice run skipped",
				"collaborator_id", msg.CollaboratorID,
				"rule", businessErr.Rule,
				"detail", businessErr.Detail)
			return nil
		}
		return err
	}

	for _, r := range results {
		slog.InfoContext(ctx, "Invoice run mission finished",
			"mission", r.MissionName,
			"report", r.Document)
	}
	return nil
}
