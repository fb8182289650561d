package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"staffmanager/internal/core"
	"staffmanager/internal/log"
	"staffmanager/internal/services"
)

const dateLayout = "2006-01-02"

type activityPayload struct {
	Date     string `json:"date"`
	Quantity int    `json:"quantity"`
	Category string `json:"category"`
	Comment  string `json:"comment,omitempty"`
}

type createActivitiesRequest struct {
	Email      string            `json:"email"`
	Activities []activityPayload `json:"activities"`
}

type activityView struct {
	Date      string `json:"date"`
	Quantity  int    `json:"quantity"`
	Category  string `json:"category"`
	MissionID *int64 `json:"missionId,omitempty"`
}

type createActivitiesResponse struct {
	Created    int            `json:"created"`
	Activities []activityView `json:"activities"`
}

func (s *Server) handleCreateActivities(w http.ResponseWriter, r *http.Request) {
	var req createActivitiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body", Detail: err.Error()})
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "email is required"})
		return
	}
	if len(req.Activities) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "no activities provided"})
		return
	}

	inputs := make([]services.ActivityInput, 0, len(req.Activities))
	for i, a := range req.Activities {
		day, err := time.Parse(dateLayout, a.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{
				Error:  "invalid date",
				Detail: "activity " + strconv.Itoa(i) + ": want YYYY-MM-DD, got " + a.Date,
			})
			return
		}
		inputs = append(inputs, services.ActivityInput{
			Date:     core.Date{Time: day},
			Quantity: a.Quantity,
			Category: core.ActivityCategory(a.Category),
			Comment:  a.Comment,
		})
	}

	created, err := s.activities.CreateActivities(r.Context(), req.Email, inputs)
	if err != nil {
		if errors.Is(err, core.ErrInvalidQuantity) || errors.Is(err, core.ErrInvalidCategory) ||
			errors.Is(err, core.ErrMissingDate) || errors.Is(err, core.ErrCommentTooLong) {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "invalid activity", Detail: err.Error()})
			return
		}
		s.writeServiceError(w, r, err)
		return
	}

	s.craCache.Purge()

	resp := createActivitiesResponse{Created: len(created)}
	for _, a := range created {
		view := activityView{
			Date:     a.Date.Format(dateLayout),
			Quantity: a.Quantity,
			Category: string(a.Category),
		}
		if a.Mission != nil {
			id := a.Mission.ID
			view.MissionID = &id
		}
		resp.Activities = append(resp.Activities, view)
	}
	writeJSON(w, http.StatusCreated, resp)
}

type craRowView struct {
	CollaboratorID int64  `json:"collaboratorId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	DeclaredDays   string `json:"declaredDays"`
	BilledDays     string `json:"billedDays"`
	RTTRedemption  string `json:"rttRedemptionDays"`
	AbsenceDays    string `json:"absenceDays"`
	ExtraHoursDays string `json:"extraHoursInDays"`
	OnCallDays     string `json:"onCallInDays"`
}

type craResponse struct {
	Year  int          `json:"year"`
	Month int          `json:"month"`
	Rows  []craRowView `json:"rows"`
}

func (s *Server) handleMonthlyCRA(w http.ResponseWriter, r *http.Request) {
	month, ok := s.monthFromQuery(w, r)
	if !ok {
		return
	}

	key := strconv.Itoa(month.Year) + "-" + strconv.Itoa(int(month.Month))
	rows, found := s.craCache.Get(key)
	if found {
		s.logger.DebugContext(r.Context(), "CRA cache hit", log.FieldYear, month.Year, log.FieldMonth, int(month.Month))
	} else {
		var err error
		rows, err = s.activities.GetMonthlyCRA(r.Context(), month)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		s.craCache.Set(key, rows)
	}

	resp := craResponse{Year: month.Year, Month: int(month.Month)}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, craRowView{
			CollaboratorID: row.CollaboratorID,
			FirstName:      row.CollaboratorFirstName,
			LastName:       row.CollaboratorLastName,
			DeclaredDays:   row.DeclaredDays.String(),
			BilledDays:     row.BilledDays.String(),
			RTTRedemption:  row.RTTRedemptionDays.String(),
			AbsenceDays:    row.AbsenceDays.String(),
			ExtraHoursDays: row.ExtraHoursInDays.String(),
			OnCallDays:     row.OnCallInDays.String(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type missionResultView struct {
	MissionID   int64  `json:"missionId"`
	MissionName string `json:"missionName"`
	Document    string `json:"document,omitempty"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
}

type invoiceRunResponse struct {
	Year    int                 `json:"year"`
	Month   int                 `json:"month"`
	Results []missionResultView `json:"results"`
}

func (s *Server) handleGenerateInvoices(w http.ResponseWriter, r *http.Request) {
	collaboratorID, err := strconv.ParseInt(r.PathValue("collaboratorId"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid collaborator id"})
		return
	}

	month, ok := s.monthFromQuery(w, r)
	if !ok {
		return
	}

	results, runErr := s.invoices.ValidateAndGenerateInvoice(r.Context(), collaboratorID, month)
	if runErr != nil && len(results) == 0 {
		s.writeServiceError(w, r, runErr)
		return
	}

	resp := invoiceRunResponse{Year: month.Year, Month: int(month.Month)}
	for _, res := range results {
		view := missionResultView{
			MissionID:   res.MissionID,
			MissionName: res.MissionName,
			Document:    res.Document,
			Status:      "ok",
		}
		if res.Err != nil {
			view.Status = "failed"
			view.Error = res.Err.Error()
			view.Document = ""
		}
		resp.Results = append(resp.Results, view)
	}

	// Partial failures still report every mission outcome; the status
	// code signals that at least one downstream call broke.
	status := http.StatusOK
	if runErr != nil {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, resp)
}

// monthFromQuery reads optional year/month parameters, defaulting to
// the current calendar month.
func (s *Server) monthFromQuery(w http.ResponseWriter, r *http.Request) (core.Month, bool) {
	month := core.CurrentMonth(s.now())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid year", Detail: v})
			return core.Month{}, false
		}
		month.Year = y
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid month", Detail: v})
			return core.Month{}, false
		}
		month.Month = time.Month(m)
	}
	return month, true
}
