package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"pulse/internal/core"
)

// Required CSV header columns. Matching is case-sensitive.
const (
	ColumnDate        = "Date"
	ColumnDescription = "Description"
	ColumnAmount      = "Amount"
)

var csvAmountStripRe = regexp.MustCompile(`[^0-9.\-]`)

// CSVResult is the outcome of reading one CSV upload.
type CSVResult struct {
	Rows []DraftRow
	// Received counts data rows that carried all three required fields.
	Received int
	// Dropped counts data rows missing a field (a blank description counts as
	// missing) or whose amount is not a number the ledger can store.
	Dropped int
	// InvalidDates counts kept rows whose Date could not be read. Those rows
	// keep the zero time instead of being rejected.
	InvalidDates int
}

// ExtractCSV reads a CSV document with a Date,Description,Amount header.
//
// The amount column keeps only digits, dots and minus signs and is read as
// the longest numeric prefix; negative amounts are expenses, everything else
// (zero included) is income. Descriptions are kept verbatim. Dates go through
// ParseLenientDate only.
func ExtractCSV(data []byte, loc *time.Location) (CSVResult, error) {
	var res CSVResult

	text := strings.ToValidUTF8(string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))), "\uFFFD")
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("read csv header: %w", err)
	}
	cols := indexColumns(header)

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				res.Dropped++
				continue
			}
			return res, fmt.Errorf("read csv: %w", err)
		}

		rawDate := cols.field(record, ColumnDate)
		rawDesc := cols.field(record, ColumnDescription)
		rawAmount := cols.field(record, ColumnAmount)
		if rawDate == "" || strings.TrimSpace(rawDesc) == "" || rawAmount == "" {
			res.Dropped++
			continue
		}
		res.Received++

		amount, err := parseFloatPrefix(csvAmountStripRe.ReplaceAllString(rawAmount, ""))
		if err != nil || !storable(amount) {
			res.Dropped++
			continue
		}

		date, ok := ParseLenientDate(rawDate, loc)
		if !ok {
			res.InvalidDates++
		}

		res.Rows = append(res.Rows, DraftRow{
			Date:        date,
			Description: rawDesc,
			Amount:      amount.Abs(),
			Direction:   core.DirectionOf(amount),
		})
	}
	return res, nil
}

type columnIndex map[string]int

func indexColumns(header []string) columnIndex {
	cols := make(columnIndex, len(header))
	for i, name := range header {
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	return cols
}

func (c columnIndex) field(record []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}
