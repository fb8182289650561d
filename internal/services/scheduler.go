package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"staffmanager/internal/amqp"
	"staffmanager/internal/core"
	"staffmanager/internal/store"
)

// InvoiceRunPublisher sends invoice-run trigger messages to the broker.
type InvoiceRunPublisher interface {
	PublishInvoiceRun(ctx context.Context, msg *amqp.InvoiceRunMessage) error
}

// InvoiceScheduler fans out one invoice-run message per collaborator
// for the previous calendar month. The worker consuming the queue does
// the actual generation; a collaborator without billable work that
// month is rejected there as a business rule, not here.
type InvoiceScheduler struct {
	collaborators store.CollaboratorStore
	publisher     InvoiceRunPublisher
	now           func() time.Time
}

func NewInvoiceScheduler(collaborators store.CollaboratorStore, publisher InvoiceRunPublisher) *InvoiceScheduler {
	return &InvoiceScheduler{
		collaborators: collaborators,
		publisher:     publisher,
		now:           time.Now,
	}
}

// PublishMonthlyRuns publishes a run message for every collaborator,
// targeting the month before the current one. Publish failures do not
// stop the fan-out; they are joined and returned at the end.
func (s *InvoiceScheduler) PublishMonthlyRuns(ctx context.Context) error {
	month := previousMonth(core.CurrentMonth(s.now()))

	collaborators, err := s.collaborators.ListCollaborators(ctx)
	if err != nil {
		return fmt.Errorf("list collaborators: %w", err)
	}
	if len(collaborators) == 0 {
		slog.InfoContext(ctx, "No collaborators to schedule")
		return nil
	}

	var failures []error
	published := 0
	for _, c := range collaborators {
		msg := amqp.NewInvoiceRunMessage(c.ID, month.Year, int(month.Month))
		if err := s.publisher.PublishInvoiceRun(ctx, msg); err != nil {
			failures = append(failures, fmt.Errorf("publish run for collaborator %d: %w", c.ID, err))
			continue
		}
		published++
	}

	slog.InfoContext(ctx, "Monthly invoice runs published",
		"year", month.Year,
		"month", int(month.Month),
		"published", published,
		"failed", len(failures))
	return errors.Join(failures...)
}

func previousMonth(m core.Month) core.Month {
	if m.Month == time.January {
		return core.Month{Year: m.Year - 1, Month: time.December}
	}
	return core.Month{Year: m.Year, Month: m.Month - 1}
}
