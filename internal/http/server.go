// Package http exposes the finance API over JSON.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"budgetguru/assets"
	"budgetguru/internal/config"
	"budgetguru/internal/services"
)

// Server wires the finance service into an HTTP server with routing,
// request logging, and per-IP rate limiting.
type Server struct {
	http.Server

	svc         *services.FinanceService
	catalog     assets.CategoryCatalog
	limiter     *rateLimiter
	development bool
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(cfg *config.Config, svc *services.FinanceService, catalog assets.CategoryCatalog) *Server {
	s := &Server{
		svc:         svc,
		catalog:     catalog,
		limiter:     newRateLimiter(cfg.RateLimitPerMinute),
		development: cfg.Development(),
	}

	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(s.rateLimit)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.Post("/", s.handleCreateTransaction)
			r.Put("/{id}", s.handleUpdateTransaction)
			r.Delete("/{id}", s.handleDeleteTransaction)
		})
		r.Route("/profile-transactions", func(r chi.Router) {
			r.Get("/", s.handleListProfileTransactions)
			r.Post("/", s.handleCreateProfileTransaction)
			r.Put("/{id}", s.handleUpdateTransaction)
			r.Delete("/{id}", s.handleDeleteTransaction)
		})

		r.Get("/budgets", s.handleBudgetOverview)
		r.Post("/budgets", s.handleReplaceBudgets)
		r.Get("/profile-budgets", s.handleProfileBudgetOverview)
		r.Post("/profile-budgets", s.handleReplaceProfileBudgets)

		r.Get("/profiles", s.handleListGroups)
		r.Post("/profiles", s.handleCreateGroup)

		r.Get("/insights", s.handleInsights)
		r.Get("/stats", s.handleStats)
		r.Get("/categories", s.handleCategories)
	})

	s.Server = http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.Server.Handler
}

// Shutdown stops background routines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.stop()
	return s.Server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
