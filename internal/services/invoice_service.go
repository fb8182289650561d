package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"staffmanager/internal/core"
	"staffmanager/internal/report"
	"staffmanager/internal/store"
)

// MissionResult is the outcome of one mission's invoice pipeline.
// Failures are accumulated per mission instead of aborting siblings.
type MissionResult struct {
	MissionID   int64
	MissionName string
	Document    string
	Invoice     *core.Invoice
	Err         error
}

// InvoiceService runs the per-mission invoice pipeline: compute line
// items and totals, render the document, upload it, persist the
// Invoice record.
type InvoiceService struct {
	activities    store.ActivityStore
	collaborators store.CollaboratorStore
	societies     store.SocietyStore
	invoices      store.InvoiceStore
	renderer      report.Renderer
	uploader      report.Uploader
	cleaner       report.Cleaner
	bucket        string
	concurrency   int
	now           func() time.Time
}

func NewInvoiceService(
	activities store.ActivityStore,
	collaborators store.CollaboratorStore,
	societies store.SocietyStore,
	invoices store.InvoiceStore,
	renderer report.Renderer,
	uploader report.Uploader,
	cleaner report.Cleaner,
	bucket string,
	concurrency int,
) *InvoiceService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &InvoiceService{
		activities:    activities,
		collaborators: collaborators,
		societies:     societies,
		invoices:      invoices,
		renderer:      renderer,
		uploader:      uploader,
		cleaner:       cleaner,
		bucket:        bucket,
		concurrency:   concurrency,
		now:           time.Now,
	}
}

// ValidateAndGenerateInvoice generates one invoice per mission the
// collaborator worked this month. Mission pipelines run independently;
// every per-mission result is returned and the aggregate error joins
// the individual failures rather than hiding all but the first.
func (s *InvoiceService) ValidateAndGenerateInvoice(ctx context.Context, collaboratorID int64, month core.Month) ([]MissionResult, error) {
	collaborator, err := s.collaborators.FindByID(ctx, collaboratorID)
	if err != nil {
		return nil, fmt.Errorf("find collaborator: %w", err)
	}
	if collaborator == nil {
		return nil, &NotFoundError{
			Entity: "collaborator",
			Detail: fmt.Sprintf("no collaborator with id %d", collaboratorID),
		}
	}

	// The society carries VAT and legal metadata shared by every
	// mission invoice, so it is resolved once, before the loop.
	society, err := s.resolveSociety(ctx)
	if err != nil {
		return nil, err
	}

	activities, err := s.activities.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch activities: %w", err)
	}

	groups := core.GroupByMission(activities, collaboratorID, month)
	slog.InfoContext(ctx, "Processing missions for invoice run",
		"collaborator_id", collaboratorID,
		"year", month.Year,
		"month", int(month.Month),
		"missions", len(groups))
	if len(groups) == 0 {
		return nil, &BusinessError{
			Rule: RuleNoMissionInPeriod,
			Detail: fmt.Sprintf("collaborator %s %s has no mission during %d-%02d",
				collaborator.FirstName, collaborator.LastName, month.Year, int(month.Month)),
		}
	}

	ordered := make([]core.MissionActivities, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}

	results := make([]MissionResult, len(ordered))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range ordered {
		g.Go(func() error {
			results[i] = s.processMission(gctx, ordered[i], collaborator, society, month)
			// Per-mission failures land in the result slot; returning
			// nil keeps sibling missions running.
			return nil
		})
	}
	_ = g.Wait()

	var failures []error
	for _, r := range results {
		if r.Err != nil {
			failures = append(failures, fmt.Errorf("mission %q: %w", r.MissionName, r.Err))
		}
	}
	return results, errors.Join(failures...)
}

func (s *InvoiceService) resolveSociety(ctx context.Context) (*core.Society, error) {
	societies, err := s.societies.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch societies: %w", err)
	}
	if len(societies) > 1 {
		return nil, &BusinessError{
			Rule:   RuleMultipleSocieties,
			Detail: fmt.Sprintf("expected one society record, found %d", len(societies)),
		}
	}
	if len(societies) == 0 {
		return nil, &NotFoundError{
			Entity: "society",
			Detail: "invoice generation needs the society's VAT and legal information",
		}
	}
	return &societies[0], nil
}

func (s *InvoiceService) processMission(ctx context.Context, group core.MissionActivities, collaborator *core.Collaborator, society *core.Society, month core.Month) MissionResult {
	mission := group.Mission
	result := MissionResult{MissionID: mission.ID, MissionName: mission.Name}

	slog.InfoContext(ctx, "Processing mission invoice",
		"mission", mission.Name,
		"activities", len(group.Activities))

	computation := core.ComputeInvoice(group)
	name := core.DocumentName(mission.Customer, collaborator, month)
	result.Document = name

	params := map[string]any{
		"totalHT":          computation.Totals.PreTax.Euros(),
		"tva":              computation.Totals.VAT.Euros(),
		"totalTTC":         computation.Totals.TaxInclusive.Euros(),
		"customer-name":    mission.Customer.Name,
		"customer-address": mission.Customer.Address,
		"society-name":     society.Name,
		"society-vat-id":   society.VATID,
	}

	baseName := name[:len(name)-len(".pdf")]
	data, err := s.renderer.Render(ctx, computation.LineItems, params, baseName)
	if err != nil {
		result.Err = &IntegrationError{Op: "render", Report: name, Err: err}
		return result
	}

	// Upload before persisting the Invoice row: a failed upload must
	// not leave an orphaned record pointing at a document that was
	// never stored.
	if err := s.uploader.Upload(ctx, data, s.bucket, name); err != nil {
		result.Err = &IntegrationError{Op: "upload", Report: name, Err: err}
		return result
	}

	invoice := core.Invoice{
		Name:         name,
		CreatedAt:    core.Date{Time: s.now()},
		Customer:     mission.Customer,
		Collaborator: mission.Collaborator,
		MonthYear:    month.FirstDay(),
	}
	saved, err := s.invoices.Save(ctx, invoice)
	if err != nil {
		result.Err = fmt.Errorf("persist invoice %s: %w", name, err)
		return result
	}
	result.Invoice = &saved

	if err := s.cleaner.CleanTempDir(ctx); err != nil {
		slog.WarnContext(ctx, "Temp cleanup failed", "error", err, "report", name)
	}

	slog.InfoContext(ctx, "Invoice generated",
		"report", name,
		"mission", mission.Name,
		"total_ht_cents", computation.Totals.PreTax.Cents,
		"total_ttc_cents", computation.Totals.TaxInclusive.Cents)
	return result
}
