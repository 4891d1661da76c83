package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	numericDateRe = regexp.MustCompile(`^(\d{2})[/-](\d{2})[/-](\d{4})$`)
	monthDateRe   = regexp.MustCompile(`^(\d{2})-([A-Za-z]{3})-(\d{4})$`)
)

var monthAbbrev = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// ParseDate reads a statement date token. Grammars are tried in order:
// DD/MM/YYYY (either separator may be / or -), DD-MMM-YYYY, then generic
// parsing of the raw token. A token that fits one of the first two shapes
// but names an impossible day fails instead of rolling over.
//
// Dates from the fixed grammars are midnight in loc.
func ParseDate(token string, loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(token)

	if m := numericDateRe.FindStringSubmatch(s); m != nil {
		return calendarDate(atoi(m[3]), time.Month(atoi(m[2])), atoi(m[1]), loc)
	}
	if m := monthDateRe.FindStringSubmatch(s); m != nil {
		if month, ok := monthAbbrev[strings.ToUpper(m[2])]; ok {
			return calendarDate(atoi(m[3]), month, atoi(m[1]), loc)
		}
	}
	return ParseLenientDate(s, loc)
}

// ParseLenientDate is the generic fallback: ISO dates, timestamps, US-style
// month-first dates and spelled-out months.
func ParseLenientDate(token string, loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(token)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, locOrLocal(loc))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DayKey formats the calendar day of t in its own location.
func DayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

func calendarDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, locOrLocal(loc))
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
