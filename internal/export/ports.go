// Package export defines the outbound port for mirroring transactions to an
// external ledger. The google subpackage writes to a Google Sheet; the memory
// subpackage backs tests.
package export

import (
	"context"

	"budgetguru/internal/core"
)

// LedgerAppender appends one transaction as a row in the external ledger and
// returns a reference to the written row.
type LedgerAppender interface {
	Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
}
