package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"staffmanager/internal/core"
	"staffmanager/internal/services"
	"staffmanager/internal/store/memory"
)

type fakeRenderer struct{}

func (fakeRenderer) Render(_ context.Context, _ []core.InvoiceLineItem, _ map[string]any, baseName string) ([]byte, error) {
	return []byte("doc:" + baseName), nil
}

type fakeUploader struct{ fail bool }

func (u *fakeUploader) Upload(_ context.Context, _ []byte, _, _ string) error {
	if u.fail {
		return context.DeadlineExceeded
	}
	return nil
}

type fakeCleaner struct{}

func (fakeCleaner) CleanTempDir(_ context.Context) error { return nil }

type fixture struct {
	srv      *Server
	store    *memory.Store
	jean     core.Collaborator
	uploader *fakeUploader
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	jean := st.AddCollaborator(core.Collaborator{FirstName: "Jean", LastName: "Dupont", Email: "jean@example.com"})
	st.AddSociety(core.Society{Name: "Staff SARL", VATID: "FR123456789"})
	st.AddMission(core.Mission{
		Name:         "alpha",
		StartDate:    core.NewDate(2026, time.September, 1),
		EndDate:      core.NewDate(2026, time.September, 30),
		Customer:     &core.Customer{ID: 100, Name: "Acme Corp"},
		Collaborator: &jean,
	})

	uploader := &fakeUploader{}
	activitySvc := services.NewActivityService(st, st, st)
	invoiceSvc := services.NewInvoiceService(st, st, st.Societies(), st, fakeRenderer{}, uploader, fakeCleaner{}, "invoices", 1)

	srv := NewServer(":0", activitySvc, invoiceSvc)
	srv.now = func() time.Time { return time.Date(2026, time.September, 15, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return &fixture{srv: srv, store: st, jean: jean, uploader: uploader}
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	f.srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	f := newFixture(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := f.do(t, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestCreateActivities(t *testing.T) {
	f := newFixture(t)

	body := `{"email":"jean@example.com","activities":[
		{"date":"2026-09-10","quantity":8,"category":"worked_day"},
		{"date":"2026-09-11","quantity":8,"category":"paid_leave"}
	]}`
	rr := f.do(t, http.MethodPost, "/api/activities", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}

	var resp createActivitiesResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Created != 2 {
		t.Fatalf("created = %d, want 2", resp.Created)
	}
	if resp.Activities[0].MissionID == nil {
		t.Fatal("worked day in mission window should link to the mission")
	}
	if resp.Activities[1].MissionID != nil {
		t.Fatal("paid leave must not link to a mission")
	}
}

func TestCreateActivitiesRejectsBadInput(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"missing email", `{"activities":[{"date":"2026-09-10","quantity":8,"category":"worked_day"}]}`, http.StatusBadRequest},
		{"empty activities", `{"email":"jean@example.com","activities":[]}`, http.StatusBadRequest},
		{"bad date", `{"email":"jean@example.com","activities":[{"date":"10/09/2026","quantity":8,"category":"worked_day"}]}`, http.StatusBadRequest},
		{"unknown category", `{"email":"jean@example.com","activities":[{"date":"2026-09-10","quantity":8,"category":"holiday"}]}`, http.StatusUnprocessableEntity},
		{"negative quantity", `{"email":"jean@example.com","activities":[{"date":"2026-09-10","quantity":-1,"category":"worked_day"}]}`, http.StatusUnprocessableEntity},
		{"unknown user", `{"email":"nobody@example.com","activities":[{"date":"2026-09-10","quantity":8,"category":"worked_day"}]}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := f.do(t, http.MethodPost, "/api/activities", tc.body)
			if rr.Code != tc.want {
				t.Fatalf("status=%d want=%d body=%s", rr.Code, tc.want, rr.Body.String())
			}
		})
	}
}

func TestMonthlyCRA(t *testing.T) {
	f := newFixture(t)

	body := `{"email":"jean@example.com","activities":[
		{"date":"2026-09-10","quantity":8,"category":"worked_day"},
		{"date":"2026-09-11","quantity":4,"category":"sick_leave"}
	]}`
	if rr := f.do(t, http.MethodPost, "/api/activities", body); rr.Code != http.StatusCreated {
		t.Fatalf("seed status=%d", rr.Code)
	}

	rr := f.do(t, http.MethodGet, "/api/cra?year=2026&month=9", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var resp craResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(resp.Rows))
	}
	row := resp.Rows[0]
	if row.DeclaredDays != "1.500" {
		t.Fatalf("declared = %s, want 1.500", row.DeclaredDays)
	}
	if row.BilledDays != "1.000" {
		t.Fatalf("billed = %s, want 1.000", row.BilledDays)
	}
	if row.AbsenceDays != "0.500" {
		t.Fatalf("absence = %s, want 0.500", row.AbsenceDays)
	}
}

func TestMonthlyCRADefaultsToCurrentMonth(t *testing.T) {
	f := newFixture(t)

	body := `{"email":"jean@example.com","activities":[{"date":"2026-09-10","quantity":8,"category":"worked_day"}]}`
	if rr := f.do(t, http.MethodPost, "/api/activities", body); rr.Code != http.StatusCreated {
		t.Fatalf("seed status=%d", rr.Code)
	}

	rr := f.do(t, http.MethodGet, "/api/cra", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	var resp craResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Year != 2026 || resp.Month != 9 {
		t.Fatalf("period = %d-%d, want 2026-9", resp.Year, resp.Month)
	}
	if len(resp.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(resp.Rows))
	}
}

func TestMonthlyCRARejectsBadPeriod(t *testing.T) {
	f := newFixture(t)
	for _, target := range []string{"/api/cra?month=13", "/api/cra?year=abc", "/api/cra?month=0"} {
		rr := f.do(t, http.MethodGet, target, "")
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s status=%d, want 400", target, rr.Code)
		}
	}
}

func TestGenerateInvoices(t *testing.T) {
	f := newFixture(t)

	body := `{"email":"jean@example.com","activities":[{"date":"2026-09-10","quantity":8,"category":"worked_day"}]}`
	if rr := f.do(t, http.MethodPost, "/api/activities", body); rr.Code != http.StatusCreated {
		t.Fatalf("seed status=%d", rr.Code)
	}

	rr := f.do(t, http.MethodPost, "/api/invoices/1?year=2026&month=9", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var resp invoiceRunResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(resp.Results))
	}
	if resp.Results[0].Status != "ok" {
		t.Fatalf("status = %s, error = %s", resp.Results[0].Status, resp.Results[0].Error)
	}
	if resp.Results[0].Document != "Acme_Corp-9-2026-Jean-Dupont.pdf" {
		t.Fatalf("document = %s", resp.Results[0].Document)
	}
	if len(f.store.Invoices()) != 1 {
		t.Fatalf("persisted invoices = %d, want 1", len(f.store.Invoices()))
	}
}

func TestGenerateInvoicesErrorMapping(t *testing.T) {
	f := newFixture(t)

	// Unknown collaborator.
	if rr := f.do(t, http.MethodPost, "/api/invoices/999?year=2026&month=9", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown collaborator status=%d, want 404", rr.Code)
	}

	// Bad path value.
	if rr := f.do(t, http.MethodPost, "/api/invoices/abc?year=2026&month=9", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad id status=%d, want 400", rr.Code)
	}

	// No activity this month: the business rule maps to 422.
	rr := f.do(t, http.MethodPost, "/api/invoices/1?year=2026&month=9", "")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("no mission status=%d, want 422, body=%s", rr.Code, rr.Body.String())
	}
}

func TestGenerateInvoicesUploadFailure(t *testing.T) {
	f := newFixture(t)
	f.uploader.fail = true

	body := `{"email":"jean@example.com","activities":[{"date":"2026-09-10","quantity":8,"category":"worked_day"}]}`
	if rr := f.do(t, http.MethodPost, "/api/activities", body); rr.Code != http.StatusCreated {
		t.Fatalf("seed status=%d", rr.Code)
	}

	rr := f.do(t, http.MethodPost, "/api/invoices/1?year=2026&month=9", "")
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status=%d, want 502, body=%s", rr.Code, rr.Body.String())
	}
	var resp invoiceRunResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Status != "failed" {
		t.Fatalf("results = %+v", resp.Results)
	}
	if len(f.store.Invoices()) != 0 {
		t.Fatalf("no invoice should persist after upload failure, got %d", len(f.store.Invoices()))
	}
}

func TestCRACacheInvalidatedOnCreate(t *testing.T) {
	f := newFixture(t)

	seed := `{"email":"jean@example.com","activities":[{"date":"2026-09-10","quantity":8,"category":"worked_day"}]}`
	if rr := f.do(t, http.MethodPost, "/api/activities", seed); rr.Code != http.StatusCreated {
		t.Fatalf("seed status=%d", rr.Code)
	}
	if rr := f.do(t, http.MethodGet, "/api/cra?year=2026&month=9", ""); rr.Code != http.StatusOK {
		t.Fatalf("warm status=%d", rr.Code)
	}

	more := `{"email":"jean@example.com","activities":[{"date":"2026-09-11","quantity":8,"category":"worked_day"}]}`
	if rr := f.do(t, http.MethodPost, "/api/activities", more); rr.Code != http.StatusCreated {
		t.Fatalf("second create status=%d", rr.Code)
	}

	rr := f.do(t, http.MethodGet, "/api/cra?year=2026&month=9", "")
	var resp craResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Rows[0].BilledDays != "2.000" {
		t.Fatalf("billed = %s, want 2.000 after cache purge", resp.Rows[0].BilledDays)
	}
}
