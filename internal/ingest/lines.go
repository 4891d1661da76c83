package ingest

import (
	"regexp"
	"strings"
	"time"

	"pulse/internal/core"
)

// dateTokenPattern matches both fixed date grammars understood by ParseDate.
const dateTokenPattern = `(\d{2}[/-]\d{2}[/-]\d{4}|\d{2}-[A-Za-z]{3}-\d{4})`

// singleLineRe matches "date  description  amount  [DR|CR]" rows.
var singleLineRe = regexp.MustCompile(`(?im)^` + dateTokenPattern + `\s+(.+?)\s+([()\-\d,.\s]+?)(?:\s*(CR|DR))?$`)

// ExtractSingleLine scans the whole text for one-line rows of the shape
// "date description amount [DR|CR]". A DR or CR marker decides the direction;
// without one the sign of the amount does. It returns the rows it could read
// and how many matched rows were rejected.
func ExtractSingleLine(text string, loc *time.Location) ([]DraftRow, int) {
	var (
		rows     []DraftRow
		rejected int
	)
	for _, m := range singleLineRe.FindAllStringSubmatch(normalizeText(text), -1) {
		date, ok := ParseDate(m[1], loc)
		desc := collapseSpace(m[2])
		if !ok || desc == "" {
			rejected++
			continue
		}
		amount, err := NormalizeAmount(m[3])
		if err != nil || !storable(amount) {
			rejected++
			continue
		}

		direction := core.DirectionOf(amount)
		switch strings.ToUpper(m[4]) {
		case "DR":
			direction = core.Expense
		case "CR":
			direction = core.Income
		}

		rows = append(rows, DraftRow{
			Date:        date,
			Description: desc,
			Amount:      amount.Abs(),
			Direction:   direction,
		})
	}
	return rows, rejected
}
