package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"pulse/internal/amqp"
	"pulse/internal/cache"
	"pulse/internal/core"
	"pulse/internal/ingest"
)

type fakeIngester struct {
	report ingest.Report
	err    error
	calls  int
}

func (f *fakeIngester) Ingest(_ context.Context, owner string, source core.ImportSource, _ []byte) (ingest.Report, error) {
	f.calls++
	if f.err != nil {
		return ingest.Report{}, f.err
	}
	r := f.report
	r.Source = source
	return r, nil
}

type fakePublisher struct {
	msgs []*amqp.ImportCompletedMessage
	err  error
}

func (f *fakePublisher) PublishImportCompleted(_ context.Context, msg *amqp.ImportCompletedMessage) error {
	f.msgs = append(f.msgs, msg)
	return f.err
}

func seededCache() *cache.LRUCache[core.Summary] {
	c := cache.NewLRUCache[core.Summary](10, time.Minute)
	c.Set(summaryKey(core.TransactionFilter{OwnerID: "u1"}), core.SummaryFromCents(100, 50))
	c.Set(summaryKey(core.TransactionFilter{OwnerID: "u2"}), core.SummaryFromCents(100, 50))
	return c
}

func TestImportPublishesAndInvalidates(t *testing.T) {
	ing := &fakeIngester{report: ingest.Report{ImportID: "imp-1", Candidates: 3, Inserted: 2}}
	pub := &fakePublisher{}
	summaries := seededCache()
	svc := NewImportService(ing, pub, summaries)

	report, err := svc.Import(context.Background(), "u1", core.SourceCSV, []byte("x"))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if report.Inserted != 2 {
		t.Errorf("Inserted = %d", report.Inserted)
	}

	if len(pub.msgs) != 1 {
		t.Fatalf("published %d messages, want 1", len(pub.msgs))
	}
	msg := pub.msgs[0]
	if msg.ImportID != "imp-1" || msg.OwnerID != "u1" || msg.Source != core.SourceCSV || msg.Inserted != 2 {
		t.Errorf("message = %+v", msg)
	}

	if _, ok := summaries.Get(summaryKey(core.TransactionFilter{OwnerID: "u1"})); ok {
		t.Error("u1 summary still cached")
	}
	if _, ok := summaries.Get(summaryKey(core.TransactionFilter{OwnerID: "u2"})); !ok {
		t.Error("u2 summary should survive")
	}
}

func TestImportNothingInserted(t *testing.T) {
	ing := &fakeIngester{report: ingest.Report{ImportID: "imp-1", Candidates: 3}}
	pub := &fakePublisher{}
	summaries := seededCache()
	svc := NewImportService(ing, pub, summaries)

	if _, err := svc.Import(context.Background(), "u1", core.SourceMock, nil); err != nil {
		t.Fatal(err)
	}
	if len(pub.msgs) != 0 {
		t.Errorf("published %d messages for an empty import", len(pub.msgs))
	}
	if summaries.Size() != 2 {
		t.Errorf("cache size = %d, want 2", summaries.Size())
	}
}

func TestImportPublishFailureIsNotFatal(t *testing.T) {
	ing := &fakeIngester{report: ingest.Report{ImportID: "imp-1", Inserted: 1}}
	pub := &fakePublisher{err: amqp.ErrCircuitOpen}
	svc := NewImportService(ing, pub, nil)

	report, err := svc.Import(context.Background(), "u1", core.SourcePDF, []byte("%PDF-"))
	if err != nil {
		t.Fatalf("Import() error = %v, want nil", err)
	}
	if report.ImportID != "imp-1" {
		t.Errorf("ImportID = %q", report.ImportID)
	}
}

func TestImportIngestFailure(t *testing.T) {
	ing := &fakeIngester{err: ingest.ErrNoValidRows}
	pub := &fakePublisher{}
	svc := NewImportService(ing, pub, nil)

	_, err := svc.Import(context.Background(), "u1", core.SourceCSV, []byte("Date,Description,Amount\n"))
	if !errors.Is(err, ingest.ErrNoValidRows) {
		t.Errorf("Import() error = %v, want ErrNoValidRows", err)
	}
	if len(pub.msgs) != 0 {
		t.Error("published after failed ingest")
	}
}

func TestImportWithoutPublisher(t *testing.T) {
	ing := &fakeIngester{report: ingest.Report{ImportID: "imp-1", Inserted: 4}}
	svc := NewImportService(ing, nil, nil)

	if _, err := svc.Import(context.Background(), "u1", core.SourceMock, nil); err != nil {
		t.Fatal(err)
	}
}
