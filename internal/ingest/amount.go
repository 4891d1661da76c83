package ingest

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotANumber is returned when an amount token has no numeric reading.
// Callers reject the row; it is never treated as zero.
var ErrNotANumber = errors.New("amount is not a number")

var (
	parenthesizedRe = regexp.MustCompile(`^\((.*)\)$`)
	trailingMinusRe = regexp.MustCompile(`^(.+)-$`)
	nonNumericRe    = regexp.MustCompile(`[^0-9.\-]`)
	numericRe       = regexp.MustCompile(`^-?(?:\d+\.?\d*|\.\d+)$`)
	numericPrefixRe = regexp.MustCompile(`^-?(?:\d+\.?\d*|\.\d+)`)
)

// NormalizeAmount parses statement amount tokens such as "₹1,23,456.78",
// "(1,234.00)" or "123.45-" into a signed decimal.
//
// Commas are stripped and the token trimmed first; a fully parenthesized
// token and a trailing minus both mean negative. Anything left that is not a
// digit, dot or minus is discarded and the remainder must read as one number.
func NormalizeAmount(token string) (decimal.Decimal, error) {
	s := strings.TrimSpace(strings.ReplaceAll(token, ",", ""))
	if m := parenthesizedRe.FindStringSubmatch(s); m != nil {
		s = "-" + m[1]
	}
	if m := trailingMinusRe.FindStringSubmatch(s); m != nil {
		s = "-" + m[1]
	}
	s = nonNumericRe.ReplaceAllString(s, "")
	if !numericRe.MatchString(s) {
		return decimal.Decimal{}, ErrNotANumber
	}
	return decimalFromNumeric(s)
}

// parseFloatPrefix reads the longest numeric prefix of s, the way CSV amount
// columns are read: "12-3" is 12, "-" is not a number.
func parseFloatPrefix(s string) (decimal.Decimal, error) {
	num := numericPrefixRe.FindString(s)
	if num == "" {
		return decimal.Decimal{}, ErrNotANumber
	}
	return decimalFromNumeric(num)
}

// decimalFromNumeric accepts the shapes matched by numericRe, including
// "5." and "-.5".
func decimalFromNumeric(s string) (decimal.Decimal, error) {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimSuffix(s, ".")
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, ErrNotANumber
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}
