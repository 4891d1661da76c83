package ingest

import (
	"strings"
	"unicode/utf8"
)

// layoutWindow bounds how much of a document DetectLayout looks at.
const layoutWindow = 4000

// DetectLayout guesses which bank produced a statement from identifying
// strings near the top of the text. The tag is diagnostic only.
func DetectLayout(text string) Layout {
	head := strings.ToUpper(firstRunes(text, layoutWindow))
	switch {
	case strings.Contains(head, "ICICI BANK"):
		return LayoutICICI
	case strings.Contains(head, "HDFC BANK"):
		return LayoutHDFC
	case strings.Contains(head, "STATE BANK OF INDIA"), strings.Contains(head, " SBI "):
		return LayoutSBI
	}
	return LayoutGeneric
}

func firstRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
