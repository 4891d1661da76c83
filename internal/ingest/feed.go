package ingest

import (
	"time"

	"github.com/shopspring/decimal"

	"pulse/internal/core"
)

// FeedEntry is one transaction as delivered by the account-aggregator feed.
type FeedEntry struct {
	Description string
	Amount      decimal.Decimal // signed
	Timestamp   time.Time
}

// MockFeed returns the fixed aggregator seed list. It has no duplicates.
func MockFeed() []FeedEntry {
	return []FeedEntry{
		feedEntry("UPI/CRN/456123/PAYMENT TO FLIPKART", "-2500.00", "2025-08-10T10:00:00Z"),
		feedEntry("ZOMATO ONLINE ORDER", "-450.50", "2025-08-09T19:30:00Z"),
		feedEntry("OLA RIDE TO OFFICE", "-180.00", "2025-08-08T18:00:00Z"),
		feedEntry("AMAZON PRIME VIDEO SUBSCRIPTION", "-179.00", "2025-08-05T11:00:00Z"),
		feedEntry("SALARY CREDIT AUG-25", "75000.00", "2025-08-01T09:00:00Z"),
		feedEntry("INVESTMENT IN GROWW MUTUAL FUND", "-5000.00", "2025-07-28T14:00:00Z"),
		feedEntry("ELECTRICITY BILL PAYMENT - BESCOM", "-850.00", "2025-07-25T12:00:00Z"),
		feedEntry("ZEPTO GROCERIES ORDER", "-1250.75", "2025-07-24T20:00:00Z"),
		feedEntry("UPI/CRN/321654/PAYMENT TO MYNTRA", "-3200.00", "2025-07-22T15:30:00Z"),
		feedEntry("NETFLIX.COM MONTHLY FEE", "-499.00", "2025-07-20T08:00:00Z"),
		feedEntry("INTEREST CREDIT SAVINGS A/C", "125.50", "2025-07-18T16:00:00Z"),
	}
}

func feedEntry(desc, amount, ts string) FeedEntry {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return FeedEntry{Description: desc, Amount: decimal.RequireFromString(amount), Timestamp: t}
}

// Draft maps a feed entry straight to a row; the feed carries full
// timestamps so no date normalization is involved.
func (e FeedEntry) Draft() DraftRow {
	return DraftRow{
		Date:        e.Timestamp,
		Description: e.Description,
		Amount:      e.Amount.Abs(),
		Direction:   core.DirectionOf(e.Amount),
	}
}
