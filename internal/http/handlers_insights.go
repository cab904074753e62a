package http

import (
	"net/http"

	"budgetguru/internal/core"
)

// scopeOrGlobal parses the partitioned-ledger scope when any scope parameter
// is present and falls back to the flat ledger otherwise.
func scopeOrGlobal(r *http.Request) (core.Scope, error) {
	q := r.URL.Query()
	if q.Get("viewMode") == "" && q.Get("profileId") == "" && q.Get("groupId") == "" {
		return core.GlobalScope(), nil
	}
	return parseScope(r)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOrGlobal(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	insights, err := s.svc.Insights(r.Context(), scope, monthParam(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOrGlobal(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	stats, err := s.svc.Stats(r.Context(), scope, monthParam(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog)
}
