package ingest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse/internal/core"
)

func TestExtractColumns(t *testing.T) {
	text := `HDFC BANK
Date Narration Withdrawal Deposit Balance
  05/08/2025 ZOMATO ONLINE ORDER 450.50 0.00 49,549.50
01/08/2025 SALARY   CREDIT 0.00 75,000.00 124,549.50
28/07/2025 GROWW SIP 5,000.00 0.00
closing balance 124,549.50`

	rows, rejected := ExtractColumns(text, time.UTC)
	require.Len(t, rows, 3)
	assert.Zero(t, rejected)

	assert.Equal(t, DraftRow{
		Date:        time.Date(2025, time.August, 5, 0, 0, 0, 0, time.UTC),
		Description: "ZOMATO ONLINE ORDER",
		Amount:      rows[0].Amount,
		Direction:   core.Expense,
	}, rows[0])
	assert.Equal(t, "450.5", rows[0].Amount.String())

	assert.Equal(t, "SALARY CREDIT", rows[1].Description)
	assert.Equal(t, core.Income, rows[1].Direction)
	assert.True(t, decimal.NewFromInt(75000).Equal(rows[1].Amount))

	assert.Equal(t, "GROWW SIP", rows[2].Description)
	assert.Equal(t, core.Expense, rows[2].Direction)
}

// When both columns carry a positive amount the debit is taken. This is an
// arbitrary tie-break kept for parity with existing imports.
func TestExtractColumnsDebitWinsTie(t *testing.T) {
	rows, _ := ExtractColumns("12/08/2025 ADJUSTMENT 100.00 200.00 1,000.00", time.UTC)
	require.Len(t, rows, 1)
	assert.Equal(t, core.Expense, rows[0].Direction)
	assert.True(t, decimal.NewFromInt(100).Equal(rows[0].Amount))
}

func TestExtractColumnsRejectsRowsWithoutPositiveAmount(t *testing.T) {
	rows, rejected := ExtractColumns("12/08/2025 REVERSAL 0.00 0.00 1,000.00\n30/02/2025 BAD DATE 10.00 0.00", time.UTC)
	assert.Empty(t, rows)
	assert.Equal(t, 2, rejected)
}

func TestExtractColumnsRejectsAmountsTooLargeToStore(t *testing.T) {
	text := "12/08/2025 BIG DEBIT 99,999,999,999,999,999,999,999.00 10.00 1,000.00\n" +
		"13/08/2025 OLA RIDE 180.00 0.00 820.00"
	rows, rejected := ExtractColumns(text, time.UTC)
	require.Len(t, rows, 1)
	assert.Equal(t, "OLA RIDE", rows[0].Description)
	assert.Equal(t, 1, rejected, "an oversized debit is not replaced by the credit")
}
