// Package ingest turns loosely structured statement input (CSV uploads,
// text pulled out of PDF statements, the aggregator feed) into categorized
// transactions.
//
// Every parsing stage is a pure function over an in-memory buffer. Rows that
// do not parse are dropped and counted; only the final batch write touches
// the store.
package ingest

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pulse/internal/core"
)

// DraftRow is a candidate transaction produced by an extractor.
type DraftRow struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // magnitude; the sign lives in Direction
	Direction   core.Direction
}

// Layout is an advisory tag naming the bank that probably produced a statement.
type Layout string

const (
	LayoutICICI   Layout = "ICICI"
	LayoutHDFC    Layout = "HDFC"
	LayoutSBI     Layout = "SBI"
	LayoutGeneric Layout = "GENERIC"
)

var textReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\u00a0", " ")

// normalizeText converts every line terminator to \n and non-breaking spaces
// to plain spaces so the line patterns see one shape of input.
func normalizeText(s string) string {
	return textReplacer.Replace(s)
}

// storable reports whether amount fits the ledger's integer cents column.
func storable(amount decimal.Decimal) bool {
	_, err := core.ToCents(amount)
	return err == nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func locOrLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
