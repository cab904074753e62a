package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"budgetguru/internal/core"
	"budgetguru/internal/store"
)

// errorResponse is the error envelope for every non-2xx JSON reply.
type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isValidationError(err):
		ve, _ := core.AsValidationErrors(err)
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "validation failed",
			Details: ve,
		})
	case errors.Is(err, core.ErrDuplicateCategory):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		resp := errorResponse{Error: "internal server error"}
		if s.development {
			resp.Details = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, resp)
	}
}

func isValidationError(err error) bool {
	_, ok := core.AsValidationErrors(err)
	return ok
}

// writeBadRequest reports a malformed request that never reached validation,
// such as an undecodable body.
func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
