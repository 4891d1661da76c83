package ingest

import (
	"regexp"
	"strings"
	"time"

	"pulse/internal/core"
)

const columnAmountPattern = `([()\-]?\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?-?)`

// columnsRe matches "date description debit credit [balance]" lines.
var columnsRe = regexp.MustCompile(`(?i)^` + dateTokenPattern + `\s+(.+?)\s+` +
	columnAmountPattern + `\s+` + columnAmountPattern + `(?:\s+` + columnAmountPattern + `)?$`)

// ExtractColumns reads statements laid out with separate debit and credit
// columns, one transaction per line. Lines that do not match the whole shape
// are ignored. A positive debit makes an expense, otherwise a positive credit
// makes income; when both are positive the debit wins. The balance column is
// ignored.
func ExtractColumns(text string, loc *time.Location) ([]DraftRow, int) {
	var (
		rows     []DraftRow
		rejected int
	)
	for _, line := range strings.Split(normalizeText(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := columnsRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		date, ok := ParseDate(m[1], loc)
		desc := collapseSpace(m[2])
		if !ok || desc == "" {
			rejected++
			continue
		}

		debit, debitErr := NormalizeAmount(m[3])
		credit, creditErr := NormalizeAmount(m[4])
		row := DraftRow{Date: date, Description: desc}
		switch {
		case debitErr == nil && debit.IsPositive():
			row.Amount, row.Direction = debit, core.Expense
		case creditErr == nil && credit.IsPositive():
			row.Amount, row.Direction = credit, core.Income
		}
		if row.Direction == "" || !storable(row.Amount) {
			rejected++
			continue
		}
		rows = append(rows, row)
	}
	return rows, rejected
}
