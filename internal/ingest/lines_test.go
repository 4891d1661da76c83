package ingest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse/internal/core"
)

func TestExtractSingleLine(t *testing.T) {
	text := "ICICI BANK\r\n" +
		"Date  Particulars  Amount\r\n" +
		"10/08/2025  UPI/CRN/456123/PAYMENT TO FLIPKART  2500.00 DR\r\n" +
		"01/08/2025 SALARY CREDIT AUG-25 75,000.00 CR\n" +
		"20/07/2025 NETFLIX.COM   MONTHLY FEE -499.00\n" +
		"18/07/2025 INTEREST CREDIT 125.50\n" +
		"22/07/2025 MYNTRA ORDER 3,200.00-\n"

	rows, rejected := ExtractSingleLine(text, time.UTC)
	require.Len(t, rows, 5)
	assert.Zero(t, rejected)

	assert.Equal(t, "2025-08-10", DayKey(rows[0].Date))
	assert.Equal(t, "UPI/CRN/456123/PAYMENT TO FLIPKART", rows[0].Description)
	assert.True(t, decimal.NewFromInt(2500).Equal(rows[0].Amount))
	assert.Equal(t, core.Expense, rows[0].Direction)

	assert.Equal(t, "SALARY CREDIT AUG-25", rows[1].Description)
	assert.True(t, decimal.NewFromInt(75000).Equal(rows[1].Amount))
	assert.Equal(t, core.Income, rows[1].Direction)

	assert.Equal(t, "NETFLIX.COM MONTHLY FEE", rows[2].Description, "inner whitespace is collapsed")
	assert.Equal(t, core.Expense, rows[2].Direction)
	assert.True(t, decimal.NewFromInt(499).Equal(rows[2].Amount))

	assert.Equal(t, core.Income, rows[3].Direction)
	assert.Equal(t, "125.5", rows[3].Amount.String())

	assert.Equal(t, core.Expense, rows[4].Direction)
}

func TestExtractSingleLineMarkerOverridesSign(t *testing.T) {
	rows, _ := ExtractSingleLine("05/08/2025 REFUND (100.00) CR", time.UTC)
	require.Len(t, rows, 1)
	assert.Equal(t, core.Income, rows[0].Direction)
	assert.True(t, decimal.NewFromInt(100).Equal(rows[0].Amount))
}

func TestExtractSingleLineRejectsImpossibleDates(t *testing.T) {
	rows, rejected := ExtractSingleLine("31/02/2025 ZOMATO ORDER 450.50\n13/13/2025 SWIGGY 120.00", time.UTC)
	assert.Empty(t, rows)
	assert.Equal(t, 2, rejected)
}

func TestExtractSingleLineNonBreakingSpace(t *testing.T) {
	rows, _ := ExtractSingleLine("10/08/2025\u00a0OLA RIDE\u00a0180.00 DR", time.UTC)
	require.Len(t, rows, 1)
	assert.Equal(t, "OLA RIDE", rows[0].Description)
}

func TestExtractSingleLineNoMatch(t *testing.T) {
	rows, rejected := ExtractSingleLine("Opening balance\nClosing balance 10,000.00", time.UTC)
	assert.Empty(t, rows)
	assert.Zero(t, rejected)
}

func TestExtractSingleLineRejectsAmountsTooLargeToStore(t *testing.T) {
	rows, rejected := ExtractSingleLine("10/08/2025 BIG TRANSFER 99999999999999999999999.00 DR\n11/08/2025 OLA RIDE 180.00 DR", time.UTC)
	require.Len(t, rows, 1)
	assert.Equal(t, "OLA RIDE", rows[0].Description)
	assert.Equal(t, 1, rejected)
}
