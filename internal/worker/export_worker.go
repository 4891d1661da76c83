// Package worker moves imported transactions from SQLite to the export sheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pulse/internal/amqp"
	"pulse/internal/core"
	"pulse/internal/sheets"
)

// ExportStore is the slice of storage the worker needs.
type ExportStore interface {
	PendingExport(ctx context.Context, importID string, limit int) ([]core.Transaction, error)
	MarkExported(ctx context.Context, ids []string, at time.Time) error
}

// ExportWorker appends unexported transactions to a spreadsheet.
type ExportWorker struct {
	store     ExportStore
	exporter  sheets.TransactionExporter
	batchSize int
	now       func() time.Time
}

func NewExportWorker(store ExportStore, exporter sheets.TransactionExporter, batchSize int) *ExportWorker {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &ExportWorker{
		store:     store,
		exporter:  exporter,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// HandleImportCompleted exports the transactions of one import.
func (w *ExportWorker) HandleImportCompleted(ctx context.Context, msg *amqp.ImportCompletedMessage) error {
	slog.InfoContext(ctx, "Processing import completed message",
		"import_id", msg.ImportID,
		"owner_id", msg.OwnerID,
		"inserted", msg.Inserted)

	n, err := w.exportImport(ctx, msg.ImportID)
	if err != nil {
		return fmt.Errorf("export import %s: %w", msg.ImportID, err)
	}

	slog.InfoContext(ctx, "Import exported",
		"import_id", msg.ImportID,
		"exported", n)
	return nil
}

// ProcessPending exports anything left behind by lost messages or worker downtime.
func (w *ExportWorker) ProcessPending(ctx context.Context) (int, error) {
	n, err := w.exportImport(ctx, "")
	if err != nil {
		return n, fmt.Errorf("process pending exports: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "Pending transactions exported", "count", n)
	}
	return n, nil
}

// Run sweeps pending transactions every interval until ctx is done.
func (w *ExportWorker) Run(ctx context.Context, interval time.Duration) error {
	if _, err := w.ProcessPending(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup export check failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := w.ProcessPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic export failed", "error", err)
			}
		}
	}
}

func (w *ExportWorker) exportImport(ctx context.Context, importID string) (int, error) {
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		batch, err := w.store.PendingExport(ctx, importID, w.batchSize)
		if err != nil {
			return total, fmt.Errorf("get pending export: %w", err)
		}
		if len(batch) == 0 {
			return total, nil
		}

		ref, err := w.exporter.ExportTransactions(ctx, batch)
		if err != nil {
			return total, fmt.Errorf("append to sheets: %w", err)
		}

		ids := make([]string, len(batch))
		for i, t := range batch {
			ids[i] = t.ID
		}
		if err := w.store.MarkExported(ctx, ids, w.now()); err != nil {
			// Rows are already in the sheet; a retry would append them again.
			return total, fmt.Errorf("mark exported (sheet range %s): %w", ref, err)
		}

		total += len(batch)
		slog.DebugContext(ctx, "Export batch written", "rows", len(batch), "sheets_ref", ref)
		if len(batch) < w.batchSize {
			return total, nil
		}
	}
}
