// Package services coordinates the pipeline, storage, cache and broker
// behind the transport handlers.
package services

import (
	"context"
	"log/slog"

	"pulse/internal/amqp"
	"pulse/internal/cache"
	"pulse/internal/core"
	"pulse/internal/ingest"
)

// Ingester runs one ingestion call.
type Ingester interface {
	Ingest(ctx context.Context, owner string, source core.ImportSource, data []byte) (ingest.Report, error)
}

// ImportPublisher announces completed imports.
type ImportPublisher interface {
	PublishImportCompleted(ctx context.Context, msg *amqp.ImportCompletedMessage) error
}

// ImportService stores imports and tells the rest of the system about them.
type ImportService struct {
	ingester  Ingester
	publisher ImportPublisher
	summaries cache.Cache[core.Summary]
}

// NewImportService wires the service. publisher and summaries may be nil.
func NewImportService(ingester Ingester, publisher ImportPublisher, summaries cache.Cache[core.Summary]) *ImportService {
	return &ImportService{
		ingester:  ingester,
		publisher: publisher,
		summaries: summaries,
	}
}

// Import ingests data for owner, then invalidates the owner's cached summaries
// and publishes an import-completed event. Only the ingestion can fail the call.
func (s *ImportService) Import(ctx context.Context, owner string, source core.ImportSource, data []byte) (ingest.Report, error) {
	report, err := s.ingester.Ingest(ctx, owner, source, data)
	if err != nil {
		return ingest.Report{}, err
	}
	if report.Inserted == 0 {
		return report, nil
	}

	if s.summaries != nil {
		s.summaries.DeletePrefix(summaryPrefix(owner))
	}

	if err := s.publish(ctx, owner, report); err != nil {
		slog.ErrorContext(ctx, "Failed to publish import completed message",
			"import_id", report.ImportID, "error", err)
	}
	return report, nil
}

func (s *ImportService) publish(ctx context.Context, owner string, report ingest.Report) error {
	if s.publisher == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping import completed message")
		return nil
	}
	msg := amqp.NewImportCompletedMessage(core.ImportRecord{
		ID:       report.ImportID,
		OwnerID:  owner,
		Source:   report.Source,
		Layout:   string(report.Layout),
		Inserted: report.Inserted,
	})
	return s.publisher.PublishImportCompleted(ctx, msg)
}
