// Package memory holds an in-memory store implementation used by tests and
// by the memory data backend.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"budgetguru/internal/core"
	"budgetguru/internal/store"
)

type syncState struct {
	status string
	ref    string
	cause  string
}

// Store keeps all records in process memory behind a single mutex.
type Store struct {
	mu     sync.Mutex
	nextID int64

	transactions map[string]core.Transaction
	budgets      map[string]core.Budget
	groups       map[string]core.Group
	sync         map[string]syncState
}

// New returns an empty store.
func New() *Store {
	return &Store{
		nextID:       1,
		transactions: make(map[string]core.Transaction),
		budgets:      make(map[string]core.Budget),
		groups:       make(map[string]core.Group),
		sync:         make(map[string]syncState),
	}
}

var _ store.Store = (*Store)(nil)

func (s *Store) allocID() string {
	id := strconv.FormatInt(s.nextID, 10)
	s.nextID++
	return id
}

func (s *Store) CreateTransaction(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx.ID = s.allocID()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	tx.Version = 1
	s.transactions[tx.ID] = tx
	s.sync[tx.ID] = syncState{status: "pending"}
	return tx, nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	return tx, nil
}

func (s *Store) ListTransactions(_ context.Context, scope core.Scope, limit int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = store.DefaultListLimit
	}

	out := make([]core.Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		if !matchesScope(scope, tx.ProfileID, tx.GroupID) {
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return numericID(out[i].ID) > numericID(out[j].ID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) UpdateTransaction(_ context.Context, id string, tx core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.transactions[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	tx.ID = id
	tx.CreatedAt = existing.CreatedAt
	tx.Version = existing.Version + 1
	s.transactions[id] = tx
	s.sync[id] = syncState{status: "pending"}
	return tx, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[id]; !ok {
		return fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	delete(s.transactions, id)
	delete(s.sync, id)
	return nil
}

func (s *Store) ListBudgets(_ context.Context, scope core.Scope) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Budget, 0, len(s.budgets))
	for _, b := range s.budgets {
		if !matchesScope(scope, b.ProfileID, b.GroupID) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return numericID(out[i].ID) < numericID(out[j].ID) })
	return out, nil
}

func (s *Store) ReplaceBudgets(_ context.Context, scope core.Scope, budgets []core.Budget) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, b := range s.budgets {
		if replaceTarget(scope, b) {
			delete(s.budgets, id)
		}
	}
	now := time.Now().UTC()
	out := make([]core.Budget, 0, len(budgets))
	for _, b := range budgets {
		b.ID = s.allocID()
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		s.budgets[b.ID] = b
		out = append(out, b)
	}
	return out, nil
}

func (s *Store) CreateGroup(_ context.Context, g core.Group) (core.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g.ID = s.allocID()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	for i := range g.Profiles {
		g.Profiles[i].ID = s.allocID()
		g.Profiles[i].GroupID = g.ID
	}
	s.groups[g.ID] = g
	return g, nil
}

func (s *Store) ListGroups(_ context.Context) ([]core.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Group, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return numericID(out[i].ID) < numericID(out[j].ID) })
	return out, nil
}

func (s *Store) ListPendingExport(_ context.Context, limit int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Transaction, 0)
	for id, st := range s.sync {
		if st.status != "pending" {
			continue
		}
		if tx, ok := s.transactions[id]; ok {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return numericID(out[i].ID) < numericID(out[j].ID) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) MarkExported(_ context.Context, id string, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[id]; !ok {
		return fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	s.sync[id] = syncState{status: "synced", ref: ref}
	return nil
}

func (s *Store) MarkExportError(_ context.Context, id string, cause string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[id]; !ok {
		return fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	s.sync[id] = syncState{status: "error", cause: cause}
	return nil
}

// SyncStatus reports export bookkeeping for a transaction. Test helper.
func (s *Store) SyncStatus(id string) (status, ref, cause string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.sync[id]
	return st.status, st.ref, st.cause
}

func matchesScope(scope core.Scope, profileID, groupID string) bool {
	switch scope.Mode {
	case core.ScopeIndividual:
		return profileID == scope.ProfileID
	case core.ScopeGroup:
		return groupID == scope.GroupID
	default:
		return profileID == "" && groupID == ""
	}
}

// replaceTarget decides whether a budget is swept away by a replacement under
// the given scope. Individual replacements delete by profile regardless of
// group so a profile's set stays single-owner.
func replaceTarget(scope core.Scope, b core.Budget) bool {
	switch scope.Mode {
	case core.ScopeIndividual:
		return b.ProfileID == scope.ProfileID
	case core.ScopeGroup:
		return b.GroupID == scope.GroupID
	default:
		return b.ProfileID == "" && b.GroupID == ""
	}
}

func numericID(id string) int64 {
	n, _ := strconv.ParseInt(id, 10, 64)
	return n
}
