package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"2500", 250000},
		{"450.50", 45050},
		{"450.505", 45051},
		{"0", 0},
		{"-12.34", -1234},
		{"125.5", 12550},
	}
	for _, tc := range cases {
		got, err := ToCents(decimal.RequireFromString(tc.in))
		if err != nil {
			t.Fatalf("ToCents(%s) unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ToCents(%s) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestToCentsOverflow(t *testing.T) {
	huge := decimal.RequireFromString("1e30")
	if _, err := ToCents(huge); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestFromCentsAndFormat(t *testing.T) {
	if got := FormatAmount(FromCents(45050)); got != "450.50" {
		t.Fatalf("FormatAmount = %q", got)
	}
	if got := FormatAmount(FromCents(-7)); got != "-0.07" {
		t.Fatalf("FormatAmount = %q", got)
	}
}

func TestSummaryNetSavings(t *testing.T) {
	s := SummaryFromCents(7512550, 1333425)
	if got := FormatAmount(s.NetSavings()); got != "61791.25" {
		t.Fatalf("NetSavings = %s", got)
	}
}
