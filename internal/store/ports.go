package store

import (
	"context"

	"staffmanager/internal/core"
)

// Ports for outbound persistence adapters.
type (
	ActivityStore interface {
		// FindAll returns every stored activity with collaborator and
		// mission links resolved. Callers filter in memory.
		FindAll(ctx context.Context) ([]core.Activity, error)
		// SaveAll persists a batch and returns the records with IDs
		// assigned.
		SaveAll(ctx context.Context, activities []core.Activity) ([]core.Activity, error)
	}

	CollaboratorStore interface {
		FindByEmail(ctx context.Context, email string) (*core.Collaborator, error)
		FindByID(ctx context.Context, id int64) (*core.Collaborator, error)
		// ListCollaborators returns every collaborator profile, used by
		// the invoicing scheduler to fan out monthly runs.
		ListCollaborators(ctx context.Context) ([]core.Collaborator, error)
	}

	MissionStore interface {
		// FindByCollaborator returns the collaborator's missions in
		// storage order; no additional sort is guaranteed.
		FindByCollaborator(ctx context.Context, collaboratorID int64) ([]core.Mission, error)
	}

	SocietyStore interface {
		// FindAll returns every society record; expected cardinality
		// is one.
		FindAll(ctx context.Context) ([]core.Society, error)
	}

	InvoiceStore interface {
		Save(ctx context.Context, invoice core.Invoice) (core.Invoice, error)
	}
)
