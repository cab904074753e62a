// Package services orchestrates ledger operations across storage and the
// export queue. All domain rules live in core; this layer sequences them.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"budgetguru/internal/core"
	"budgetguru/internal/store"
)

// SyncPublisher enqueues a transaction for export to the external ledger.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id string, version int64) error
}

// FinanceService orchestrates transaction, budget and group operations.
type FinanceService struct {
	store     store.Store
	publisher SyncPublisher
}

func NewFinanceService(st store.Store, publisher SyncPublisher) *FinanceService {
	return &FinanceService{
		store:     st,
		publisher: publisher,
	}
}

// CreateTransaction validates and saves a transaction on the flat ledger and
// queues it for export. Any scope fields in the input are ignored.
func (s *FinanceService) CreateTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	tx, err := core.ValidateTransaction(in, time.Now())
	if err != nil {
		return core.Transaction{}, err
	}
	tx.ProfileID = ""
	tx.GroupID = ""
	return s.saveNew(ctx, tx)
}

// CreateProfileTransaction is the partitioned-ledger variant: the input must
// carry both a profile and a group reference.
func (s *FinanceService) CreateProfileTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	tx, err := core.ValidateScopedTransaction(in, time.Now())
	if err != nil {
		return core.Transaction{}, err
	}
	return s.saveNew(ctx, tx)
}

func (s *FinanceService) saveNew(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	created, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	s.publishSync(ctx, created.ID, created.Version)
	return created, nil
}

// UpdateTransaction validates the replacement fields and rewrites the row.
// The row's ledger partition is preserved; scope fields in the input cannot
// move a transaction between profiles.
func (s *FinanceService) UpdateTransaction(ctx context.Context, id string, in core.TransactionInput) (core.Transaction, error) {
	existing, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}

	tx, err := core.ValidateTransaction(in, time.Now())
	if err != nil {
		return core.Transaction{}, err
	}
	tx.ProfileID = existing.ProfileID
	tx.GroupID = existing.GroupID

	updated, err := s.store.UpdateTransaction(ctx, id, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	s.publishSync(ctx, updated.ID, updated.Version)
	return updated, nil
}

func (s *FinanceService) DeleteTransaction(ctx context.Context, id string) error {
	return s.store.DeleteTransaction(ctx, id)
}

// ListTransactions returns the newest transactions under the scope, capped at
// the store's listing limit.
func (s *FinanceService) ListTransactions(ctx context.Context, scope core.Scope) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx, scope, store.DefaultListLimit)
}

// publishSync queues a transaction for export. The local write already
// succeeded, so a publish failure is logged and swallowed; the worker's
// pending sweep picks the row up later.
func (s *FinanceService) publishSync(ctx context.Context, id string, version int64) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Export publisher not available, skipping sync message", "id", id)
		return
	}
	if err := s.publisher.PublishTransactionSync(ctx, id, version); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", id, "version", version, "error", err)
	}
}

// ReplaceBudgets validates and atomically replaces the flat ledger's budget set.
func (s *FinanceService) ReplaceBudgets(ctx context.Context, items []core.BudgetInput) ([]core.Budget, error) {
	budgets, err := core.ValidateBudgetSet(items)
	if err != nil {
		return nil, err
	}
	return s.store.ReplaceBudgets(ctx, core.GlobalScope(), budgets)
}

// ReplaceProfileBudgets replaces one profile's budget set.
func (s *FinanceService) ReplaceProfileBudgets(ctx context.Context, profileID, groupID string, items []core.BudgetInput) ([]core.Budget, error) {
	budgets, err := core.ValidateScopedBudgetSet(profileID, groupID, items)
	if err != nil {
		return nil, err
	}
	return s.store.ReplaceBudgets(ctx, core.ProfileScope(profileID), budgets)
}

// BudgetOverview returns each budget under the scope with its spending for
// the month. Budgets and transactions are fetched in parallel.
func (s *FinanceService) BudgetOverview(ctx context.Context, scope core.Scope, month string) ([]core.BudgetStatus, error) {
	budgets, txs, err := s.fetchBudgetsAndTransactions(ctx, scope)
	if err != nil {
		return nil, err
	}
	return core.ComputeBudgetStatus(budgets, txs, scope, month), nil
}

// Insights derives spending insights for the scope and month.
func (s *FinanceService) Insights(ctx context.Context, scope core.Scope, month string) ([]core.Insight, error) {
	budgets, txs, err := s.fetchBudgetsAndTransactions(ctx, scope)
	if err != nil {
		return nil, err
	}
	return core.GenerateInsights(txs, budgets, scope, month), nil
}

// Stats summarizes lifetime and monthly totals for the scope.
func (s *FinanceService) Stats(ctx context.Context, scope core.Scope, month string) (core.MonthlyStats, error) {
	txs, err := s.store.ListTransactions(ctx, scope, store.DefaultListLimit)
	if err != nil {
		return core.MonthlyStats{}, fmt.Errorf("list transactions: %w", err)
	}
	return core.ComputeMonthlyStats(txs, scope, month), nil
}

func (s *FinanceService) fetchBudgetsAndTransactions(ctx context.Context, scope core.Scope) ([]core.Budget, []core.Transaction, error) {
	var (
		budgets []core.Budget
		txs     []core.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgets, err = s.store.ListBudgets(gctx, scope)
		if err != nil {
			return fmt.Errorf("list budgets: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		txs, err = s.store.ListTransactions(gctx, scope, store.DefaultListLimit)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return budgets, txs, nil
}

// CreateGroup validates and saves a group with its member profiles.
func (s *FinanceService) CreateGroup(ctx context.Context, in core.GroupInput) (core.Group, error) {
	g, err := core.ValidateGroup(in)
	if err != nil {
		return core.Group{}, err
	}
	created, err := s.store.CreateGroup(ctx, g)
	if err != nil {
		return core.Group{}, fmt.Errorf("save group: %w", err)
	}
	return created, nil
}

func (s *FinanceService) ListGroups(ctx context.Context) ([]core.Group, error) {
	return s.store.ListGroups(ctx)
}

// Close releases storage and publisher resources that support closing.
func (s *FinanceService) Close() error {
	var errs []error

	if c, ok := s.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close finance service: %v", errs)
	}
	return nil
}
