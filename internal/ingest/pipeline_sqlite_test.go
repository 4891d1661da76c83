package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse/internal/core"
	"pulse/internal/storage"
)

func newSQLitePipeline(t *testing.T) (*Pipeline, *storage.SQLiteRepository) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "pulse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return newTestPipeline(repo, nil), repo
}

func TestIngestCSVIntoSQLiteSkipsMalformedRows(t *testing.T) {
	tests := []struct {
		name string
		bad  string
	}{
		{name: "blank description", bad: "2025-08-11,   ,-10"},
		{name: "amount too large", bad: "2025-08-11,BIG,99999999999999999999999"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, repo := newSQLitePipeline(t)
			data := []byte("Date,Description,Amount\n2025-08-10,ZOMATO ORDER,-450.50\n" + tt.bad + "\n")

			report, err := p.IngestCSV(context.Background(), "user-1", data)
			require.NoError(t, err)
			assert.Equal(t, 1, report.Candidates)
			assert.Equal(t, 1, report.Inserted)
			assert.Equal(t, 1, report.Rejected)

			txs, err := repo.ListTransactions(context.Background(), core.TransactionFilter{OwnerID: "user-1"})
			require.NoError(t, err)
			require.Len(t, txs, 1)
			assert.Equal(t, "ZOMATO ORDER", txs[0].Description)
		})
	}
}

func TestIngestCSVIntoSQLiteOnlyMalformedRows(t *testing.T) {
	p, _ := newSQLitePipeline(t)

	_, err := p.IngestCSV(context.Background(), "user-1", []byte("Date,Description,Amount\n2025-08-11,  ,-10\n"))
	assert.ErrorIs(t, err, ErrNoValidRows)
}
