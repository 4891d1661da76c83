package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)

	tests := []struct {
		token string
		want  string
	}{
		{"10/08/2025", "2025-08-10"},
		{"10-08-2025", "2025-08-10"},
		{"10/08-2025", "2025-08-10"},
		{"01-AUG-2025", "2025-08-01"},
		{"01-aug-2025", "2025-08-01"},
		{"29/02/2024", "2024-02-29"},
		{"2025-08-10", "2025-08-10"},
		{" 05/07/2025 ", "2025-07-05"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := ParseDate(tt.token, loc)
			require.True(t, ok)
			assert.Equal(t, tt.want, DayKey(got))
			assert.Equal(t, loc, got.Location())
		})
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, token := range []string{"13/13/2025", "31/02/2025", "00/08/2025", "29/02/2025", "32-JAN-2025", "", "not a date"} {
		t.Run(token, func(t *testing.T) {
			_, ok := ParseDate(token, time.UTC)
			assert.False(t, ok)
		})
	}
}

func TestParseDateFixedGrammarIsMidnight(t *testing.T) {
	got, ok := ParseDate("10/08/2025", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.August, 10, 0, 0, 0, 0, time.UTC), got)
}

func TestParseLenientDate(t *testing.T) {
	got, ok := ParseLenientDate("2025-08-01T09:00:00Z", time.UTC)
	require.True(t, ok)
	assert.Equal(t, "2025-08-01", DayKey(got))

	got, ok = ParseLenientDate("August 5, 2025", time.UTC)
	require.True(t, ok)
	assert.Equal(t, "2025-08-05", DayKey(got))

	_, ok = ParseLenientDate("", time.UTC)
	assert.False(t, ok)
}
