// Package memory holds an in-memory ledger appender used by tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"budgetguru/internal/core"
)

type Ledger struct {
	mu   sync.Mutex
	rows []core.Transaction
	fail error
}

func New() *Ledger {
	return &Ledger{}
}

// Append records the transaction and returns a synthetic row reference.
func (l *Ledger) Append(_ context.Context, tx core.Transaction) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail != nil {
		return "", l.fail
	}
	l.rows = append(l.rows, tx)
	return fmt.Sprintf("mem:%d", len(l.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (l *Ledger) Rows() []core.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Transaction(nil), l.rows...)
}

// Fail injects an error for subsequent appends; pass nil to heal.
func (l *Ledger) Fail(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fail = err
}
