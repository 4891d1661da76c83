package ingest

// DedupKey identifies "the same row" within one ingestion call:
// day, description, amount and direction.
func DedupKey(r DraftRow) string {
	return DayKey(r.Date) + "|" + r.Description + "|" + r.Amount.String() + "|" + string(r.Direction)
}

// Dedup keeps the first row seen for every DedupKey, preserving order.
func Dedup(rows []DraftRow) []DraftRow {
	seen := make(map[string]struct{}, len(rows))
	out := make([]DraftRow, 0, len(rows))
	for _, r := range rows {
		key := DedupKey(r)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
