// Package memory implements the store ports with in-process state. It
// backs service tests and the local development backend.
package memory

import (
	"context"
	"sync"

	"staffmanager/internal/core"
	"staffmanager/internal/store"
)

type Store struct {
	mu            sync.Mutex
	activities    []core.Activity
	collaborators []core.Collaborator
	missions      []core.Mission
	societies     []core.Society
	invoices      []core.Invoice
	nextID        int64
}

// Ensure interface conformance
var (
	_ store.ActivityStore     = (*Store)(nil)
	_ store.CollaboratorStore = (*Store)(nil)
	_ store.MissionStore      = (*Store)(nil)
	_ store.InvoiceStore      = (*Store)(nil)
	_ store.SocietyStore      = societiesView{}
)

func New() *Store {
	return &Store{nextID: 1}
}

func (s *Store) allocateID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// AddCollaborator seeds a collaborator and returns it with an ID.
func (s *Store) AddCollaborator(c core.Collaborator) core.Collaborator {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.allocateID()
	}
	s.collaborators = append(s.collaborators, c)
	return c
}

// AddMission seeds a mission and returns it with an ID.
func (s *Store) AddMission(m core.Mission) core.Mission {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == 0 {
		m.ID = s.allocateID()
	}
	s.missions = append(s.missions, m)
	return m
}

// AddSociety seeds a society record.
func (s *Store) AddSociety(soc core.Society) core.Society {
	s.mu.Lock()
	defer s.mu.Unlock()
	if soc.ID == 0 {
		soc.ID = s.allocateID()
	}
	s.societies = append(s.societies, soc)
	return soc
}

func (s *Store) FindAll(_ context.Context) ([]core.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Activity, len(s.activities))
	copy(out, s.activities)
	return out, nil
}

func (s *Store) SaveAll(_ context.Context, activities []core.Activity) ([]core.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := make([]core.Activity, 0, len(activities))
	for _, a := range activities {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		a.ID = s.allocateID()
		s.activities = append(s.activities, a)
		saved = append(saved, a)
	}
	return saved, nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (*core.Collaborator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.collaborators {
		if s.collaborators[i].Email == email {
			c := s.collaborators[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (s *Store) FindByID(_ context.Context, id int64) (*core.Collaborator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.collaborators {
		if s.collaborators[i].ID == id {
			c := s.collaborators[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (s *Store) ListCollaborators(_ context.Context) ([]core.Collaborator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Collaborator, len(s.collaborators))
	copy(out, s.collaborators)
	return out, nil
}

func (s *Store) FindByCollaborator(_ context.Context, collaboratorID int64) ([]core.Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Mission
	for _, m := range s.missions {
		if m.Collaborator != nil && m.Collaborator.ID == collaboratorID {
			out = append(out, m)
		}
	}
	return out, nil
}

// Societies exposes the store as a SocietyStore. The method set on
// Store already satisfies the other ports; FindAll collides between
// ActivityStore and SocietyStore, so societies go through this view.
func (s *Store) Societies() store.SocietyStore {
	return societiesView{s}
}

type societiesView struct{ s *Store }

func (v societiesView) FindAll(_ context.Context) ([]core.Society, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	out := make([]core.Society, len(v.s.societies))
	copy(out, v.s.societies)
	return out, nil
}

func (s *Store) Save(_ context.Context, invoice core.Invoice) (core.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	invoice.ID = s.allocateID()
	s.invoices = append(s.invoices, invoice)
	return invoice, nil
}

// Invoices returns a copy of the persisted invoices, for assertions.
func (s *Store) Invoices() []core.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Invoice, len(s.invoices))
	copy(out, s.invoices)
	return out
}
