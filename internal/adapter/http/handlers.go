package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/couchcryptid/division-data-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// divisionList is the body of the listing route.
type divisionList struct {
	AvailableDivisions []domain.Division `json:"availableDivisions"`
	Message            string            `json:"message"`
}

// errorBody is the body of every API error response.
type errorBody struct {
	Error   domain.Kind `json:"error"`
	Message string      `json:"message"`
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	divisions := s.svc.Divisions()
	sharedobs.WriteJSON(w, http.StatusOK, divisionList{
		AvailableDivisions: divisions,
		Message:            "Use /api/nasa-data/:division where division is one of: " + joinDivisions(divisions),
	})
}

func (s *Server) handleDivision(w http.ResponseWriter, r *http.Request) {
	division := r.PathValue("division")
	data, err := s.svc.Fetch(r.Context(), division)
	if err != nil {
		s.writeError(w, r, division, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, data)
}

func (s *Server) handleLegacy(w http.ResponseWriter, r *http.Request) {
	data, err := s.svc.FetchLegacy(r.Context())
	if err != nil {
		s.writeError(w, r, string(domain.LegacyDivision), err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, data)
}

// statusClientClosedRequest marks requests the caller aborted before a
// response was ready (nginx convention).
const statusClientClosedRequest = 499

// writeError maps a fetch failure to a status code: 400 for an unsupported
// division, 500 for everything else.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, division string, err error) {
	kind := domain.KindOf(err)
	status := http.StatusInternalServerError
	message := err.Error()

	switch {
	case kind.ClientError():
		status = http.StatusBadRequest
		message = fmt.Sprintf("division %q is not supported; available divisions: %s",
			division, joinDivisions(s.svc.Divisions()))
	case errors.Is(err, context.Canceled) && r.Context().Err() != nil:
		// Client went away; record the abort without a body.
		s.logger.Debug("request cancelled", "division", division, "request_id", RequestID(r.Context()))
		w.WriteHeader(statusClientClosedRequest)
		return
	}

	s.logger.Warn("division fetch failed",
		"division", division,
		"kind", kind,
		"status", status,
		"error", err,
		"request_id", RequestID(r.Context()),
	)
	sharedobs.WriteJSON(w, status, errorBody{Error: kind, Message: message})
}

func joinDivisions(divisions []domain.Division) string {
	names := make([]string, len(divisions))
	for i, d := range divisions {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}
