// Package worker mirrors saved transactions to the external ledger. It is
// driven by AMQP sync messages, with a periodic sweep of pending rows as a
// backup for lost messages.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"budgetguru/internal/amqp"
	"budgetguru/internal/core"
	"budgetguru/internal/export"
	"budgetguru/internal/store"
)

// ExportWorker consumes sync messages and appends transactions to the ledger.
type ExportWorker struct {
	store     store.ExportStore
	ledger    export.LedgerAppender
	batchSize int
}

func NewExportWorker(st store.ExportStore, ledger export.LedgerAppender, batchSize int) *ExportWorker {
	if batchSize <= 0 {
		batchSize = 25
	}
	return &ExportWorker{
		store:     st,
		ledger:    ledger,
		batchSize: batchSize,
	}
}

// HandleSyncMessage exports the transaction named by one sync message. A
// message older than the stored row is dropped: a newer write has its own
// message in flight carrying the current state.
func (w *ExportWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	tx, err := w.store.GetTransaction(ctx, msg.ID)
	if errors.Is(err, store.ErrNotFound) {
		slog.WarnContext(ctx, "Transaction gone before export, dropping message", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}

	if msg.Version < tx.Version {
		slog.InfoContext(ctx, "Stale sync message, dropping",
			"id", msg.ID,
			"message_version", msg.Version,
			"row_version", tx.Version)
		return nil
	}

	return w.export(ctx, tx)
}

func (w *ExportWorker) export(ctx context.Context, tx core.Transaction) error {
	ref, err := w.ledger.Append(ctx, tx)
	if err != nil {
		if markErr := w.store.MarkExportError(ctx, tx.ID, err.Error()); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "id", tx.ID, "error", markErr)
		}
		return fmt.Errorf("append transaction %s to ledger: %w", tx.ID, err)
	}

	if err := w.store.MarkExported(ctx, tx.ID, ref); err != nil {
		return fmt.Errorf("mark transaction %s exported: %w", tx.ID, err)
	}

	slog.InfoContext(ctx, "Transaction exported",
		"id", tx.ID,
		"ref", ref,
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category)
	return nil
}

// ProcessPending exports rows still marked pending. This is the backup path
// for sync messages lost between the API and the broker; rows that fail here
// are marked errored and skipped until the next write touches them.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.store.ListPendingExport(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending export: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending exports", "count", len(pending))

	for _, tx := range pending {
		if err := w.export(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending transaction", "id", tx.ID, "error", err)
		}
	}
	return nil
}

// RunPendingSweep processes pending rows once at startup and then on every
// tick until ctx is done.
func (w *ExportWorker) RunPendingSweep(ctx context.Context, interval time.Duration) {
	if err := w.ProcessPending(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup pending sweep failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Pending sweep failed", "error", err)
			}
		}
	}
}
