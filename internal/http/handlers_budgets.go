package http

import (
	"encoding/json"
	"net/http"

	"budgetguru/internal/core"
)

func (s *Server) handleBudgetOverview(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.svc.BudgetOverview(r.Context(), core.GlobalScope(), monthParam(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

// handleReplaceBudgets swaps the flat ledger's whole budget set for the
// posted one.
func (s *Server) handleReplaceBudgets(w http.ResponseWriter, r *http.Request) {
	var items []core.BudgetInput
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	budgets, err := s.svc.ReplaceBudgets(r.Context(), items)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleProfileBudgetOverview(w http.ResponseWriter, r *http.Request) {
	scope, err := parseScope(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	statuses, err := s.svc.BudgetOverview(r.Context(), scope, monthParam(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

type profileBudgetsRequest struct {
	ProfileID string             `json:"profileId"`
	GroupID   string             `json:"groupId"`
	Budgets   []core.BudgetInput `json:"budgets"`
}

func (s *Server) handleReplaceProfileBudgets(w http.ResponseWriter, r *http.Request) {
	var req profileBudgetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	budgets, err := s.svc.ReplaceProfileBudgets(r.Context(), req.ProfileID, req.GroupID, req.Budgets)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, budgets)
}
