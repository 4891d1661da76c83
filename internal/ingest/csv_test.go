package ingest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse/internal/core"
)

func TestExtractCSV(t *testing.T) {
	data := []byte("Date,Description,Amount\n2025-08-10,ZOMATO ORDER,-450.50\n2025-08-01,SALARY CREDIT,75000.00")

	res, err := ExtractCSV(data, time.UTC)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, 2, res.Received)
	assert.Zero(t, res.Dropped)
	assert.Zero(t, res.InvalidDates)

	assert.Equal(t, "2025-08-10", DayKey(res.Rows[0].Date))
	assert.Equal(t, "ZOMATO ORDER", res.Rows[0].Description)
	assert.Equal(t, "450.5", res.Rows[0].Amount.String())
	assert.Equal(t, core.Expense, res.Rows[0].Direction)

	assert.True(t, decimal.NewFromInt(75000).Equal(res.Rows[1].Amount))
	assert.Equal(t, core.Income, res.Rows[1].Direction)
}

func TestExtractCSVCleansAmounts(t *testing.T) {
	data := []byte("\xef\xbb\xbfDate,Description,Amount\r\n" +
		"2025-08-02,\"SWIGGY, KORAMANGALA\",\"₹1,200.50\"\r\n" +
		"2025-08-03,  REFUND  ,0\r\n" +
		"2025-08-04,ODD,12-3\r\n")

	res, err := ExtractCSV(data, time.UTC)
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)

	assert.Equal(t, "SWIGGY, KORAMANGALA", res.Rows[0].Description)
	assert.Equal(t, "1200.5", res.Rows[0].Amount.String())
	assert.Equal(t, core.Income, res.Rows[0].Direction)

	assert.Equal(t, "  REFUND  ", res.Rows[1].Description, "descriptions are kept verbatim")
	assert.True(t, res.Rows[1].Amount.IsZero())
	assert.Equal(t, core.Income, res.Rows[1].Direction, "zero counts as income")

	assert.True(t, decimal.NewFromInt(12).Equal(res.Rows[2].Amount), "amount is read as the longest numeric prefix")
}

func TestExtractCSVDropsIncompleteRows(t *testing.T) {
	data := []byte("Date,Description,Amount\n" +
		"2025-08-01,,100\n" +
		"2025-08-01,NO AMOUNT,\n" +
		"2025-08-01,LETTERS,abc\n" +
		"2025-08-01,SHORT\n" +
		"2025-08-05,OLA,-180\n")

	res, err := ExtractCSV(data, time.UTC)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "OLA", res.Rows[0].Description)
	assert.Equal(t, 2, res.Received, "rows with every field present")
	assert.Equal(t, 4, res.Dropped)
}

// CSV dates go through the lenient parser only and an unreadable date keeps
// the row with a zero date, unlike statement text where the row is rejected.
func TestExtractCSVKeepsRowsWithUnreadableDates(t *testing.T) {
	data := []byte("Date,Description,Amount\nnot-a-date,ZOMATO,-99\n10/08/2025,SWIGGY,-120\n")

	res, err := ExtractCSV(data, time.UTC)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, 1, res.InvalidDates)
	assert.True(t, res.Rows[0].Date.IsZero())

	// The lenient parser reads slashes month first, so the day and month
	// come out swapped relative to ParseDate.
	assert.Equal(t, "2025-10-08", DayKey(res.Rows[1].Date))
	stmt, ok := ParseDate("10/08/2025", time.UTC)
	require.True(t, ok)
	assert.NotEqual(t, DayKey(stmt), DayKey(res.Rows[1].Date))
}

func TestExtractCSVHeaderIsCaseSensitive(t *testing.T) {
	res, err := ExtractCSV([]byte("date,description,amount\n2025-08-01,SALARY,100\n"), time.UTC)
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	assert.Zero(t, res.Received)
	assert.Equal(t, 1, res.Dropped)
}

func TestExtractCSVEmpty(t *testing.T) {
	for name, data := range map[string][]byte{
		"no bytes":    nil,
		"header only": []byte("Date,Description,Amount\n"),
	} {
		t.Run(name, func(t *testing.T) {
			res, err := ExtractCSV(data, time.UTC)
			require.NoError(t, err)
			assert.Empty(t, res.Rows)
			assert.Zero(t, res.Received)
			assert.Zero(t, res.Dropped)
		})
	}
}

func TestExtractCSVDropsRowsTheLedgerCannotStore(t *testing.T) {
	data := []byte("Date,Description,Amount\n" +
		"2025-08-10,ZOMATO ORDER,-450.50\n" +
		"2025-08-11,   ,-10\n" +
		"2025-08-12,\t,5\n" +
		"2025-08-13,BIG,99999999999999999999999\n" +
		"2025-08-14,  SWIGGY ,-120\n")

	res, err := ExtractCSV(data, time.UTC)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "ZOMATO ORDER", res.Rows[0].Description)
	assert.Equal(t, "  SWIGGY ", res.Rows[1].Description, "kept rows stay verbatim")
	assert.Equal(t, 3, res.Received, "blank descriptions count as missing")
	assert.Equal(t, 3, res.Dropped)
}
