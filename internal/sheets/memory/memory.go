// Package memory keeps exported rows in process, for development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"pulse/internal/core"
	ports "pulse/internal/sheets"
)

var _ ports.TransactionExporter = (*Exporter)(nil)

type Exporter struct {
	mu   sync.Mutex
	rows [][]any
}

func New() *Exporter {
	return &Exporter{}
}

// ExportTransactions stores the rows and returns a synthetic row range.
func (e *Exporter) ExportTransactions(_ context.Context, txs []core.Transaction) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(txs) == 0 {
		return "", nil
	}
	first := len(e.rows) + 1
	for _, t := range txs {
		e.rows = append(e.rows, ports.Row(t))
	}
	return fmt.Sprintf("mem:%d-%d", first, len(e.rows)), nil
}

// Rows returns a copy of everything exported so far.
func (e *Exporter) Rows() [][]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][]any(nil), e.rows...)
}
