package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"pulse/internal/cache"
	"pulse/internal/core"
)

type LedgerStore interface {
	ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error)
	Summary(ctx context.Context, f core.TransactionFilter) (core.Summary, error)
}

// LedgerService answers read queries over an owner's transactions.
type LedgerService struct {
	store     LedgerStore
	summaries cache.Cache[core.Summary]
	group     singleflight.Group
}

// NewLedgerService wires the service; a nil cache disables summary caching.
func NewLedgerService(store LedgerStore, summaries cache.Cache[core.Summary]) *LedgerService {
	return &LedgerService{store: store, summaries: summaries}
}

func (s *LedgerService) List(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error) {
	if f.OwnerID == "" {
		return nil, core.ErrEmptyOwner
	}
	txs, err := s.store.ListTransactions(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Summary totals income and expense over f. Results are cached per owner and
// date range; concurrent misses for the same key share one query.
func (s *LedgerService) Summary(ctx context.Context, f core.TransactionFilter) (core.Summary, error) {
	if f.OwnerID == "" {
		return core.Summary{}, core.ErrEmptyOwner
	}
	if s.summaries == nil {
		return s.querySummary(ctx, f)
	}

	key := summaryKey(f)
	if sum, ok := s.summaries.Get(key); ok {
		return sum, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		sum, err := s.querySummary(ctx, f)
		if err != nil {
			return core.Summary{}, err
		}
		s.summaries.Set(key, sum)
		return sum, nil
	})
	if err != nil {
		return core.Summary{}, err
	}
	return v.(core.Summary), nil
}

func (s *LedgerService) querySummary(ctx context.Context, f core.TransactionFilter) (core.Summary, error) {
	sum, err := s.store.Summary(ctx, f)
	if err != nil {
		return core.Summary{}, fmt.Errorf("summary: %w", err)
	}
	return sum, nil
}

func summaryPrefix(owner string) string {
	return "summary:" + owner + "|"
}

func summaryKey(f core.TransactionFilter) string {
	return summaryPrefix(f.OwnerID) + string(f.Type) + "|" + boundKey(f.Start) + "|" + boundKey(f.End)
}

func boundKey(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339Nano)
}
