package ingest

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated     = errors.New("ingestion requires an authenticated owner")
	ErrNoExtractableText   = errors.New("no extractable text, likely a scanned or image-only PDF")
	ErrNoValidRows         = errors.New("no valid transactions found")
	ErrEmptyCSV            = fmt.Errorf("csv has invalid format or is empty: %w", ErrNoValidRows)
	ErrLayoutNotRecognized = errors.New("statement layout not recognized")
	ErrUnsupportedSource   = errors.New("unsupported import source")
)

// LayoutError reports a statement in which neither row grammar matched.
type LayoutError struct {
	Layout Layout
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("No transactions recognized for %s layout. The format might not be supported yet.", e.Layout)
}

func (e *LayoutError) Unwrap() error {
	return ErrLayoutNotRecognized
}
