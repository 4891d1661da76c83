package ingest

import (
	"fmt"

	"pulse/internal/core"
)

// Report summarizes one ingestion call.
type Report struct {
	ImportID string
	Source   core.ImportSource
	// Layout is only set for PDF imports.
	Layout Layout
	// Received is the number of raw rows offered by the source.
	Received int
	// Candidates is the batch submitted to the store.
	Candidates int
	Rejected   int
	// Duplicates were removed by Dedup before the write.
	Duplicates   int
	InvalidDates int
	// Inserted excludes rows the store already held.
	Inserted int
}

// Message is the user-facing outcome line.
func (r Report) Message() string {
	switch r.Source {
	case core.SourceMock:
		return fmt.Sprintf("Successfully fetched and saved %d new transactions.", r.Inserted)
	case core.SourcePDF:
		return fmt.Sprintf("%d of %d transactions imported from PDF.", r.Inserted, r.Candidates)
	default:
		return fmt.Sprintf("%d of %d transactions imported successfully.", r.Inserted, r.Candidates)
	}
}

func (r Report) record(owner string) core.ImportRecord {
	return core.ImportRecord{
		ID:         r.ImportID,
		OwnerID:    owner,
		Source:     r.Source,
		Layout:     string(r.Layout),
		Candidates: r.Candidates,
	}
}
