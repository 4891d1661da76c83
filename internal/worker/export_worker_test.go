package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"pulse/internal/amqp"
	"pulse/internal/core"
	"pulse/internal/sheets/memory"
)

type fakeStore struct {
	mu       sync.Mutex
	txs      []core.Transaction
	exported map[string]time.Time
	markErr  error
}

func newFakeStore(txs ...core.Transaction) *fakeStore {
	return &fakeStore{txs: txs, exported: map[string]time.Time{}}
}

func (s *fakeStore) PendingExport(_ context.Context, importID string, limit int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, t := range s.txs {
		if _, done := s.exported[t.ID]; done {
			continue
		}
		if importID != "" && t.ImportID != importID {
			continue
		}
		out = append(out, t)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) MarkExported(_ context.Context, ids []string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.markErr != nil {
		return s.markErr
	}
	for _, id := range ids {
		s.exported[id] = at
	}
	return nil
}

type failingExporter struct{}

func (failingExporter) ExportTransactions(context.Context, []core.Transaction) (string, error) {
	return "", errors.New("quota exceeded")
}

func txs(importID string, n int) []core.Transaction {
	out := make([]core.Transaction, n)
	for i := range out {
		out[i] = core.Transaction{
			ID:          fmt.Sprintf("%s-%d", importID, i),
			OwnerID:     "u1",
			ImportID:    importID,
			Description: fmt.Sprintf("UPI/PAYMENT %d", i),
			Amount:      decimal.NewFromInt(int64(100 + i)),
			Type:        core.Expense,
			Date:        time.Date(2025, 8, 1+i, 0, 0, 0, 0, time.UTC),
			Category:    "UPI Transfer",
		}
	}
	return out
}

func TestHandleImportCompletedExportsOnlyThatImport(t *testing.T) {
	store := newFakeStore(append(txs("imp-1", 5), txs("imp-2", 3)...)...)
	exp := memory.New()
	w := NewExportWorker(store, exp, 2)

	err := w.HandleImportCompleted(context.Background(), &amqp.ImportCompletedMessage{ImportID: "imp-1", OwnerID: "u1", Inserted: 5})
	if err != nil {
		t.Fatalf("HandleImportCompleted() error = %v", err)
	}
	if got := len(exp.Rows()); got != 5 {
		t.Errorf("exported %d rows, want 5", got)
	}
	if len(store.exported) != 5 {
		t.Errorf("marked %d rows, want 5", len(store.exported))
	}
	if _, ok := store.exported["imp-2-0"]; ok {
		t.Error("transaction from another import was exported")
	}

	// Second delivery of the same message is a no-op.
	if err := w.HandleImportCompleted(context.Background(), &amqp.ImportCompletedMessage{ImportID: "imp-1"}); err != nil {
		t.Fatal(err)
	}
	if got := len(exp.Rows()); got != 5 {
		t.Errorf("redelivery exported again: %d rows", got)
	}
}

func TestProcessPending(t *testing.T) {
	store := newFakeStore(append(txs("imp-1", 2), txs("imp-2", 3)...)...)
	exp := memory.New()
	w := NewExportWorker(store, exp, 10)

	n, err := w.ProcessPending(context.Background())
	if err != nil || n != 5 {
		t.Fatalf("ProcessPending() = %d, %v; want 5", n, err)
	}
	n, err = w.ProcessPending(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("ProcessPending() second run = %d, %v; want 0", n, err)
	}
}

func TestExportFailureLeavesRowsPending(t *testing.T) {
	store := newFakeStore(txs("imp-1", 3)...)
	w := NewExportWorker(store, failingExporter{}, 10)

	err := w.HandleImportCompleted(context.Background(), &amqp.ImportCompletedMessage{ImportID: "imp-1"})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(store.exported) != 0 {
		t.Errorf("rows marked exported after failure: %d", len(store.exported))
	}
}

func TestMarkExportedFailure(t *testing.T) {
	store := newFakeStore(txs("imp-1", 1)...)
	store.markErr = errors.New("disk full")
	w := NewExportWorker(store, memory.New(), 10)

	if _, err := w.ProcessPending(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestRunStopsWithContext(t *testing.T) {
	store := newFakeStore(txs("imp-1", 1)...)
	exp := memory.New()
	w := NewExportWorker(store, exp, 10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, time.Hour) }()

	deadline := time.After(2 * time.Second)
	for len(exp.Rows()) == 0 {
		select {
		case <-deadline:
			t.Fatal("startup sweep did not run")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}
