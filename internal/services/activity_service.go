package services

import (
	"context"
	"fmt"
	"log/slog"

	"staffmanager/internal/core"
	"staffmanager/internal/store"
)

// ActivityInput is one submitted time entry before mission matching.
type ActivityInput struct {
	Date     core.Date
	Quantity int
	Category core.ActivityCategory
	Comment  string
}

// ActivityService creates activities and builds the monthly CRA.
type ActivityService struct {
	activities    store.ActivityStore
	collaborators store.CollaboratorStore
	missions      store.MissionStore
}

func NewActivityService(activities store.ActivityStore, collaborators store.CollaboratorStore, missions store.MissionStore) *ActivityService {
	return &ActivityService{
		activities:    activities,
		collaborators: collaborators,
		missions:      missions,
	}
}

// CreateActivities resolves the acting user's collaborator profile,
// links each entry to a mission via the matching policy and persists
// the batch. The mission link is fixed here and never revisited.
func (s *ActivityService) CreateActivities(ctx context.Context, email string, inputs []ActivityInput) ([]core.Activity, error) {
	collaborator, err := s.collaborators.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find collaborator by email: %w", err)
	}
	if collaborator == nil {
		return nil, &NotFoundError{Entity: "collaborator", Detail: "no collaborator profile for " + email}
	}

	missions, err := s.missions.FindByCollaborator(ctx, collaborator.ID)
	if err != nil {
		return nil, fmt.Errorf("find collaborator missions: %w", err)
	}

	records := make([]core.Activity, 0, len(inputs))
	for _, in := range inputs {
		a := core.Activity{
			Date:         in.Date,
			Quantity:     in.Quantity,
			Category:     in.Category,
			Comment:      in.Comment,
			Collaborator: collaborator,
			Mission:      core.MatchMission(in.Date, in.Category, missions),
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("validate activity on %s: %w", in.Date.Format("2006-01-02"), err)
		}
		records = append(records, a)
	}

	saved, err := s.activities.SaveAll(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("save activities: %w", err)
	}

	slog.InfoContext(ctx, "Activities created",
		"collaborator_id", collaborator.ID,
		"count", len(saved))
	return saved, nil
}

// GetMonthlyCRA aggregates all stored activities into per-collaborator
// summary rows for the given month.
func (s *ActivityService) GetMonthlyCRA(ctx context.Context, month core.Month) ([]core.CRARow, error) {
	activities, err := s.activities.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch activities: %w", err)
	}

	rows := core.BuildMonthlyCRA(activities, month)
	slog.InfoContext(ctx, "Monthly CRA built",
		"year", month.Year,
		"month", int(month.Month),
		"rows", len(rows))
	return rows, nil
}
