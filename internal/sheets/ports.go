// Package sheets defines the spreadsheet export port and the row format
// shared by its adapters.
package sheets

import (
	"context"

	"pulse/internal/core"
)

// TransactionExporter appends transactions to an external spreadsheet and
// returns a reference to the written range.
type TransactionExporter interface {
	ExportTransactions(ctx context.Context, txs []core.Transaction) (ref string, err error)
}

// Header is the first row of an export sheet.
var Header = []any{"Date", "Description", "Type", "Amount", "Category", "Import"}

// Row renders t in Header column order.
func Row(t core.Transaction) []any {
	return []any{
		t.Date.Format("2006-01-02"),
		t.Description,
		string(t.Type),
		core.FormatAmount(t.Amount),
		t.Category,
		t.ImportID,
	}
}
