package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"staffmanager/internal/core"
	"staffmanager/internal/store/memory"
)

func seedCollaboratorWithMission(t *testing.T) (*memory.Store, core.Collaborator, core.Mission) {
	t.Helper()
	st := memory.New()
	jean := st.AddCollaborator(core.Collaborator{FirstName: "Jean", LastName: "Dupont", Email: "jean@example.com"})
	mission := st.AddMission(core.Mission{
		Name:         "alpha",
		StartDate:    core.NewDate(2026, time.September, 1),
		EndDate:      core.NewDate(2026, time.September, 30),
		Customer:     &core.Customer{ID: 100, Name: "Acme Corp"},
		Collaborator: &jean,
	})
	return st, jean, mission
}

func TestCreateActivitiesLinksMission(t *testing.T) {
	st, _, mission := seedCollaboratorWithMission(t)
	svc := NewActivityService(st, st, st)

	inputs := []ActivityInput{
		{Date: core.NewDate(2026, time.September, 10), Quantity: 8, Category: core.CategoryWorkedDay},
		{Date: core.NewDate(2026, time.September, 11), Quantity: 8, Category: core.CategoryPaidLeave},
		{Date: core.NewDate(2026, time.October, 2), Quantity: 8, Category: core.CategoryWorkedDay},
	}
	saved, err := svc.CreateActivities(context.Background(), "jean@example.com", inputs)
	if err != nil {
		t.Fatalf("CreateActivities: %v", err)
	}
	if len(saved) != 3 {
		t.Fatalf("expected 3 saved activities, got %d", len(saved))
	}

	// worked day inside the window gets the mission link
	if saved[0].Mission == nil || saved[0].Mission.ID != mission.ID {
		t.Fatalf("in-window worked day should be linked: %+v", saved[0].Mission)
	}
	// absence never gets linked even inside the window
	if saved[1].Mission != nil {
		t.Fatalf("paid leave must stay unlinked")
	}
	// the day after the mission end is outside the window
	if saved[2].Mission != nil {
		t.Fatalf("activity after mission end must stay unlinked")
	}
}

func TestCreateActivitiesUnknownUser(t *testing.T) {
	st, _, _ := seedCollaboratorWithMission(t)
	svc := NewActivityService(st, st, st)

	_, err := svc.CreateActivities(context.Background(), "ghost@example.com", []ActivityInput{
		{Date: core.NewDate(2026, time.September, 10), Quantity: 8, Category: core.CategoryWorkedDay},
	})
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
}

func TestCreateActivitiesRejectsInvalidInput(t *testing.T) {
	st, _, _ := seedCollaboratorWithMission(t)
	svc := NewActivityService(st, st, st)

	cases := []struct {
		name  string
		input ActivityInput
	}{
		{"negative quantity", ActivityInput{Date: core.NewDate(2026, time.September, 10), Quantity: -1, Category: core.CategoryWorkedDay}},
		{"unknown category", ActivityInput{Date: core.NewDate(2026, time.September, 10), Quantity: 8, Category: "holiday"}},
		{"zero date", ActivityInput{Quantity: 8, Category: core.CategoryWorkedDay}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateActivities(context.Background(), "jean@example.com", []ActivityInput{tc.input}); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestGetMonthlyCRA(t *testing.T) {
	st, jean, _ := seedCollaboratorWithMission(t)
	svc := NewActivityService(st, st, st)

	activities := []core.Activity{
		{Date: core.NewDate(2026, time.September, 1), Quantity: 8, Category: core.CategoryWorkedDay, Collaborator: &jean},
		{Date: core.NewDate(2026, time.September, 2), Quantity: 4, Category: core.CategoryOvertime, Collaborator: &jean},
		{Date: core.NewDate(2026, time.August, 30), Quantity: 8, Category: core.CategoryWorkedDay, Collaborator: &jean},
	}
	if _, err := st.SaveAll(context.Background(), activities); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rows, err := svc.GetMonthlyCRA(context.Background(), core.Month{Year: 2026, Month: time.September})
	if err != nil {
		t.Fatalf("GetMonthlyCRA: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.CollaboratorID != jean.ID {
		t.Fatalf("row for wrong collaborator: %+v", row)
	}
	if row.BilledDays.Millis != 1000 {
		t.Fatalf("billed = %s, want 1.000 (August entry must not count)", row.BilledDays)
	}
	if row.ExtraHoursInDays.Millis != 500 {
		t.Fatalf("extra hours = %s, want 0.500", row.ExtraHoursInDays)
	}
}
