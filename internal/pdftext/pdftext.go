// Package pdftext pulls plain text out of PDF statements, one output line per
// visual row of text.
package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"pulse/internal/log"
)

var (
	ErrNotPDF     = errors.New("not a PDF document")
	ErrUnreadable = errors.New("unreadable PDF document")
)

var pdfMagic = []byte("%PDF-")

// Extractor reads the embedded text layer of a PDF. It performs no OCR: an
// image-only document yields empty text.
type Extractor struct {
	maxPages int
	logger   *log.Logger
}

type Option func(*Extractor)

// WithMaxPages stops extraction after n pages. Zero means no limit.
func WithMaxPages(n int) Option {
	return func(e *Extractor) { e.maxPages = n }
}

func WithLogger(logger *log.Logger) Option {
	return func(e *Extractor) { e.logger = logger }
}

func New(opts ...Option) *Extractor {
	e := &Extractor{logger: log.Default().WithComponent(log.ComponentIngest)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractText returns the document text with pages in order and rows top to
// bottom. Text runs that share a row are joined by a single space.
func (e *Extractor) ExtractText(ctx context.Context, data []byte) (text string, err error) {
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\n\r "), pdfMagic) {
		return "", ErrNotPDF
	}

	// The parser panics on some malformed object graphs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrUnreadable, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	pages := reader.NumPage()
	if e.maxPages > 0 && pages > e.maxPages {
		e.logger.WarnContext(ctx, "PDF page limit reached", "pages", pages, "max_pages", e.maxPages)
		pages = e.maxPages
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			e.logger.DebugContext(ctx, "Skipping unreadable PDF page", "page", i, log.FieldError, err)
			continue
		}
		for _, row := range rows {
			line := joinRow(row)
			if line == "" {
				continue
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

func joinRow(row *pdf.Row) string {
	parts := make([]string, 0, len(row.Content))
	for _, t := range row.Content {
		if s := strings.TrimSpace(t.S); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
