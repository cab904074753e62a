package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"budgetguru/internal/core"
)

// parseScope reads viewMode, profileId, and groupId query parameters into a
// scope for the partitioned ledger. viewMode defaults to individual.
func parseScope(r *http.Request) (core.Scope, error) {
	q := r.URL.Query()
	viewMode := q.Get("viewMode")
	if viewMode == "" {
		viewMode = "individual"
	}

	switch viewMode {
	case "individual":
		profileID := q.Get("profileId")
		if profileID == "" {
			return core.Scope{}, core.ValidationErrors{"profileId": "profileId is required"}
		}
		return core.ProfileScope(profileID), nil
	case "group":
		groupID := q.Get("groupId")
		if groupID == "" {
			return core.Scope{}, core.ValidationErrors{"groupId": "groupId is required"}
		}
		return core.GroupScope(groupID), nil
	default:
		return core.Scope{}, core.ValidationErrors{"viewMode": `viewMode must be "individual" or "group"`}
	}
}

// monthParam returns the month query parameter, defaulting to the current
// calendar month.
func monthParam(r *http.Request) string {
	if m := r.URL.Query().Get("month"); m != "" {
		return m
	}
	return core.MonthKey(time.Now())
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.svc.ListTransactions(r.Context(), core.GlobalScope())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in core.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	created, err := s.svc.CreateTransaction(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListProfileTransactions(w http.ResponseWriter, r *http.Request) {
	scope, err := parseScope(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	txs, err := s.svc.ListTransactions(r.Context(), scope)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateProfileTransaction(w http.ResponseWriter, r *http.Request) {
	var in core.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	created, err := s.svc.CreateProfileTransaction(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in core.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	updated, err := s.svc.UpdateTransaction(r.Context(), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.svc.DeleteTransaction(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
