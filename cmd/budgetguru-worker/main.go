package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"budgetguru/internal/amqp"
	"budgetguru/internal/config"
	"budgetguru/internal/export"
	exportgoogle "budgetguru/internal/export/google"
	exportmem "budgetguru/internal/export/memory"
	applog "budgetguru/internal/log"
	"budgetguru/internal/store/sqlite"
	"budgetguru/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg := applog.DefaultConfig()
	cfg.Component = applog.ComponentWorker
	logger := applog.New(cfg)
	applog.SetDefault(logger)

	logger.Info("Starting budgetguru-worker")

	conf := config.Load()
	if err := conf.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	if conf.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	repo, err := sqlite.New(conf.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite store", "error", err, "path", conf.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Without a spreadsheet the worker still drains the queue, appending to
	// an in-process ledger. Useful for local development.
	var ledger export.LedgerAppender
	if conf.GoogleSpreadsheetID != "" {
		client, err := exportgoogle.New(ctx, conf.GoogleSpreadsheetID, conf.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		ledger = client
		logger.Info("Google Sheets ledger initialized", "spreadsheet_id", conf.GoogleSpreadsheetID, "sheet", conf.GoogleSheetName)
	} else {
		ledger = exportmem.New()
		logger.Warn("No GOOGLE_SPREADSHEET_ID provided, exporting to in-memory ledger")
	}

	w := worker.NewExportWorker(repo, ledger, conf.ExportBatchSize)

	// Pending sweep: once at startup, then periodically as a backup for lost
	// messages.
	go w.RunPendingSweep(ctx, conf.ExportInterval)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	err = amqp.ConsumeWithReconnect(ctx, conf.AMQPURL, conf.AMQPExchange, conf.AMQPQueue,
		func(msg *amqp.TransactionSyncMessage) error {
			return w.HandleSyncMessage(ctx, msg)
		})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
