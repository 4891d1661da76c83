package ingest

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"rupee symbol with lakh grouping", "₹1,23,456.78", "123456.78"},
		{"parenthesized negative", "(1,234.00)", "-1234"},
		{"trailing minus", "123.45-", "-123.45"},
		{"leading minus", "-499.00", "-499"},
		{"surrounding spaces", "  2500.00 ", "2500"},
		{"integer", "75000", "75000"},
		{"trailing dot", "5.", "5"},
		{"leading dot", ".75", "0.75"},
		{"parenthesized with currency", "(₹ 850.00)", "-850"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAmount(tt.token)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestNormalizeAmountNotANumber(t *testing.T) {
	for _, token := range []string{"abc", "", "   ", "-", "1-2", "1.2.3", "12 34.5.6"} {
		t.Run(token, func(t *testing.T) {
			_, err := NormalizeAmount(token)
			assert.ErrorIs(t, err, ErrNotANumber)
		})
	}
}

func TestParseFloatPrefix(t *testing.T) {
	got, err := parseFloatPrefix("12-3")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(12).Equal(got))

	got, err = parseFloatPrefix("-450.50")
	require.NoError(t, err)
	assert.Equal(t, "-450.5", got.String())

	_, err = parseFloatPrefix("-")
	assert.ErrorIs(t, err, ErrNotANumber)

	_, err = parseFloatPrefix("")
	assert.ErrorIs(t, err, ErrNotANumber)
}
