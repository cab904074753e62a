// Package store defines the persistence ports the finance service and the
// export worker depend on. Implementations live in the sqlite and memory
// subpackages.
package store

import (
	"context"
	"errors"

	"budgetguru/internal/core"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// DefaultListLimit caps transaction listings when no limit is given.
const DefaultListLimit = 1000

// TransactionStore persists transactions for both the flat ledger and the
// profile-scoped ledger. The scope argument selects which rows a query sees:
// a global scope addresses unscoped rows, individual and group scopes address
// rows stamped with the matching profile or group.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	ListTransactions(ctx context.Context, scope core.Scope, limit int) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, tx core.Transaction) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
}

// BudgetStore persists budgets. ReplaceBudgets atomically swaps every budget
// under the given scope for the provided set; readers never observe a
// partially replaced set.
type BudgetStore interface {
	ListBudgets(ctx context.Context, scope core.Scope) ([]core.Budget, error)
	ReplaceBudgets(ctx context.Context, scope core.Scope, budgets []core.Budget) ([]core.Budget, error)
}

// GroupStore persists groups and their member profiles.
type GroupStore interface {
	CreateGroup(ctx context.Context, g core.Group) (core.Group, error)
	ListGroups(ctx context.Context) ([]core.Group, error)
}

// ExportStore exposes the sync bookkeeping the export worker needs.
type ExportStore interface {
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	ListPendingExport(ctx context.Context, limit int) ([]core.Transaction, error)
	MarkExported(ctx context.Context, id string, ref string) error
	MarkExportError(ctx context.Context, id string, cause string) error
}

// Store aggregates every port a full backend implements.
type Store interface {
	TransactionStore
	BudgetStore
	GroupStore
	ExportStore
}
