package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"staffmanager/internal/log"
	"staffmanager/internal/services"
)

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Response encoding failed", "error", err)
	}
}

// writeServiceError maps domain error kinds onto HTTP statuses:
// missing entities are 404, business rule violations are 422 and
// failures of downstream systems (renderer, storage) are 502.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *services.NotFoundError
	if errors.As(err, &notFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: notFound.Entity + " not found", Detail: notFound.Detail})
		return
	}

	var business *services.BusinessError
	if errors.As(err, &business) {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: business.Rule, Detail: business.Detail})
		return
	}

	var integration *services.IntegrationError
	if errors.As(err, &integration) {
		s.logger.ErrorContext(r.Context(), "Upstream integration failed",
			log.FieldOperation, integration.Op,
			log.FieldReport, integration.Report,
			log.FieldError, integration.Err)
		writeJSON(w, http.StatusBadGateway, errorBody{Error: "integration failure", Detail: integration.Error()})
		return
	}

	s.logger.ErrorContext(r.Context(), "Request failed", log.FieldPath, r.URL.Path, log.FieldError, err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}
