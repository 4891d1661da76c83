package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pulse/internal/core"
	"pulse/internal/log"
)

// Store persists one import batch atomically, skipping rows that collide with
// an existing transaction, and returns how many rows it inserted.
type Store interface {
	SaveImport(ctx context.Context, rec core.ImportRecord, txs []core.Transaction) (int, error)
}

// TextExtractor pulls plain text out of a document. An image-only document
// yields an empty string, not an error.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// Pipeline runs the ingestion paths and submits their output in one batch.
type Pipeline struct {
	store       Store
	text        TextExtractor
	categorizer *Categorizer
	loc         *time.Location
	logger      *log.Logger
	now         func() time.Time
	newID       func() string
}

type Option func(*Pipeline)

// WithLocation sets the zone used for dates that carry none.
func WithLocation(loc *time.Location) Option {
	return func(p *Pipeline) { p.loc = loc }
}

func WithLogger(logger *log.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(p *Pipeline) { p.newID = newID }
}

// NewPipeline wires a pipeline. text may be nil when PDF ingestion is not needed,
// and a nil categorizer falls back to DefaultRules.
func NewPipeline(store Store, text TextExtractor, categorizer *Categorizer, opts ...Option) *Pipeline {
	if categorizer == nil {
		categorizer = NewCategorizer(DefaultRules())
	}
	p := &Pipeline{
		store:       store,
		text:        text,
		categorizer: categorizer,
		loc:         time.Local,
		logger:      log.Default().WithComponent(log.ComponentIngest),
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ingest dispatches data to the path named by source.
func (p *Pipeline) Ingest(ctx context.Context, owner string, source core.ImportSource, data []byte) (Report, error) {
	switch source {
	case core.SourceMock:
		return p.IngestMockFeed(ctx, owner)
	case core.SourceCSV:
		return p.IngestCSV(ctx, owner, data)
	case core.SourcePDF:
		return p.IngestPDF(ctx, owner, data)
	}
	return Report{}, fmt.Errorf("%w: %q", ErrUnsupportedSource, source)
}

// IngestMockFeed stores the aggregator seed list for owner.
func (p *Pipeline) IngestMockFeed(ctx context.Context, owner string) (Report, error) {
	if err := checkOwner(owner); err != nil {
		return Report{}, err
	}
	feed := MockFeed()
	rows := make([]DraftRow, 0, len(feed))
	for _, e := range feed {
		rows = append(rows, e.Draft())
	}
	report := Report{Source: core.SourceMock, Received: len(feed)}
	return p.save(ctx, owner, report, rows)
}

// IngestCSV stores the rows of a Date,Description,Amount CSV document.
func (p *Pipeline) IngestCSV(ctx context.Context, owner string, data []byte) (Report, error) {
	if err := checkOwner(owner); err != nil {
		return Report{}, err
	}
	res, err := ExtractCSV(data, p.loc)
	if err != nil {
		return Report{}, fmt.Errorf("extract csv: %w", err)
	}
	if len(res.Rows) == 0 {
		if res.Received == 0 && res.Dropped == 0 {
			return Report{}, ErrEmptyCSV
		}
		return Report{}, ErrNoValidRows
	}
	if res.InvalidDates > 0 {
		p.logger.WarnContext(ctx, "CSV rows kept with unreadable dates",
			log.FieldOwnerID, owner, "invalid_dates", res.InvalidDates)
	}
	report := Report{
		Source:       core.SourceCSV,
		Received:     res.Received,
		Rejected:     res.Dropped,
		InvalidDates: res.InvalidDates,
	}
	return p.save(ctx, owner, report, res.Rows)
}

// IngestPDF extracts text from a PDF statement and stores the rows both line
// grammars recognize. The detected layout is reported but never narrows which
// grammar runs.
func (p *Pipeline) IngestPDF(ctx context.Context, owner string, data []byte) (Report, error) {
	if err := checkOwner(owner); err != nil {
		return Report{}, err
	}
	if p.text == nil {
		return Report{}, fmt.Errorf("%w: no text extractor configured", ErrUnsupportedSource)
	}
	text, err := p.text.ExtractText(ctx, data)
	if err != nil {
		return Report{}, fmt.Errorf("extract pdf text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return Report{}, ErrNoExtractableText
	}

	parsed := ParseStatementText(text, p.loc)
	p.logger.DebugContext(ctx, "Parsed statement text",
		log.FieldLayout, parsed.Layout,
		log.FieldCandidates, len(parsed.Rows),
		log.FieldRejected, parsed.Rejected,
		"duplicates", parsed.Duplicates)
	if len(parsed.Rows) == 0 {
		return Report{}, &LayoutError{Layout: parsed.Layout}
	}
	report := Report{
		Source:     core.SourcePDF,
		Layout:     parsed.Layout,
		Received:   len(parsed.Rows) + parsed.Duplicates,
		Rejected:   parsed.Rejected,
		Duplicates: parsed.Duplicates,
	}
	return p.save(ctx, owner, report, parsed.Rows)
}

// ParsedStatement is the pure result of reading statement text.
type ParsedStatement struct {
	Layout     Layout
	Rows       []DraftRow
	Rejected   int
	Duplicates int
}

// ParseStatementText runs layout detection, both row extractors and Dedup
// over text without touching any store.
func ParseStatementText(text string, loc *time.Location) ParsedStatement {
	single, rejectedSingle := ExtractSingleLine(text, loc)
	columns, rejectedColumns := ExtractColumns(text, loc)
	all := append(single, columns...)
	rows := Dedup(all)
	return ParsedStatement{
		Layout:     DetectLayout(text),
		Rows:       rows,
		Rejected:   rejectedSingle + rejectedColumns,
		Duplicates: len(all) - len(rows),
	}
}

// Transactions categorizes rows and attributes them to owner and importID.
func (p *Pipeline) Transactions(owner, importID string, rows []DraftRow) []core.Transaction {
	now := p.now()
	txs := make([]core.Transaction, 0, len(rows))
	for _, r := range rows {
		txs = append(txs, core.Transaction{
			ID:          p.newID(),
			OwnerID:     owner,
			ImportID:    importID,
			Description: r.Description,
			Amount:      r.Amount,
			Type:        r.Direction,
			Date:        r.Date,
			Category:    p.categorizer.Categorize(r.Description),
			CreatedAt:   now,
		})
	}
	return txs
}

func (p *Pipeline) save(ctx context.Context, owner string, report Report, rows []DraftRow) (Report, error) {
	report.ImportID = p.newID()
	report.Candidates = len(rows)
	txs := p.Transactions(owner, report.ImportID, rows)

	rec := report.record(owner)
	rec.CreatedAt = p.now()
	inserted, err := p.store.SaveImport(ctx, rec, txs)
	if err != nil {
		return Report{}, fmt.Errorf("save import: %w", err)
	}
	report.Inserted = inserted

	log.NewStructuredLogger(p.logger).LogImportCompleted(ctx, owner, report.ImportID,
		string(report.Source), string(report.Layout), report.Candidates, report.Inserted)
	return report, nil
}

func checkOwner(owner string) error {
	if strings.TrimSpace(owner) == "" {
		return ErrUnauthenticated
	}
	return nil
}
