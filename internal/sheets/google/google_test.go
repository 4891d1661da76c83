package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"pulse/internal/core"
)

type fakeSheets struct {
	mu       sync.Mutex
	header   [][]any
	appended [][]any
	calls    []string
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)

	body, _ := io.ReadAll(r.Body)
	var vr gsheet.ValueRange
	_ = json.Unmarshal(body, &vr)

	switch {
	case r.Method == http.MethodGet:
		json.NewEncoder(w).Encode(gsheet.ValueRange{Values: f.header})
	case r.Method == http.MethodPut:
		f.header = vr.Values
		json.NewEncoder(w).Encode(gsheet.UpdateValuesResponse{UpdatedRows: 1})
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
		f.appended = append(f.appended, vr.Values...)
		json.NewEncoder(w).Encode(gsheet.AppendValuesResponse{
			Updates: &gsheet.UpdateValuesResponse{UpdatedRange: "Transactions!A2:F3"},
		})
	default:
		http.NotFound(w, r)
	}
}

func newTestExporter(t *testing.T, fake *fakeSheets) *Exporter {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return New(svc, "sheet-id", "")
}

func sampleTransactions() []core.Transaction {
	return []core.Transaction{
		{
			ID: "t1", OwnerID: "u1", ImportID: "imp-1", Description: "ZOMATO ORDER",
			Amount: decimal.RequireFromString("450.5"), Type: core.Expense,
			Date: time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC), Category: "Food & Dining",
		},
		{
			ID: "t2", OwnerID: "u1", ImportID: "imp-1", Description: "SALARY CREDIT",
			Amount: decimal.NewFromInt(75000), Type: core.Income,
			Date: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), Category: "Income",
		},
	}
}

func TestExportTransactions(t *testing.T) {
	fake := &fakeSheets{}
	exp := newTestExporter(t, fake)

	ref, err := exp.ExportTransactions(context.Background(), sampleTransactions())
	if err != nil {
		t.Fatalf("ExportTransactions() error = %v", err)
	}
	if ref != "Transactions!A2:F3" {
		t.Errorf("ref = %q", ref)
	}

	if len(fake.header) != 1 || fake.header[0][0] != "Date" || fake.header[0][5] != "Import" {
		t.Errorf("header = %v", fake.header)
	}
	if len(fake.appended) != 2 {
		t.Fatalf("appended %d rows, want 2", len(fake.appended))
	}
	want := []any{"2025-08-10", "ZOMATO ORDER", "EXPENSE", "450.50", "Food & Dining", "imp-1"}
	for i, v := range want {
		if fake.appended[0][i] != v {
			t.Errorf("row[0][%d] = %v, want %v", i, fake.appended[0][i], v)
		}
	}

	// The header is checked only once per exporter.
	if _, err := exp.ExportTransactions(context.Background(), sampleTransactions()[:1]); err != nil {
		t.Fatal(err)
	}
	gets := 0
	for _, c := range fake.calls {
		if strings.HasPrefix(c, "GET ") {
			gets++
		}
	}
	if gets != 1 {
		t.Errorf("header read %d times, want 1", gets)
	}
}

func TestExportTransactionsKeepsExistingHeader(t *testing.T) {
	fake := &fakeSheets{header: [][]any{{"Custom", "Header"}}}
	exp := newTestExporter(t, fake)

	if _, err := exp.ExportTransactions(context.Background(), sampleTransactions()); err != nil {
		t.Fatal(err)
	}
	if fake.header[0][0] != "Custom" {
		t.Errorf("existing header overwritten: %v", fake.header)
	}
}

func TestExportTransactionsEmpty(t *testing.T) {
	fake := &fakeSheets{}
	exp := newTestExporter(t, fake)

	ref, err := exp.ExportTransactions(context.Background(), nil)
	if err != nil || ref != "" {
		t.Errorf("ExportTransactions(nil) = %q, %v", ref, err)
	}
	if len(fake.calls) != 0 {
		t.Errorf("unexpected API calls: %v", fake.calls)
	}
}

func TestExportTransactionsWithoutService(t *testing.T) {
	exp := &Exporter{spreadsheetID: "x", sheetName: "y"}
	if _, err := exp.ExportTransactions(context.Background(), sampleTransactions()); err == nil {
		t.Error("expected error without service")
	}
}

func TestNewFromConfigValidation(t *testing.T) {
	if _, err := NewFromConfig(context.Background(), Config{}); err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("NewFromConfig() error = %v", err)
	}
	_, err := NewFromConfig(context.Background(), Config{SpreadsheetID: "id"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Errorf("NewFromConfig() error = %v", err)
	}
	_, err = NewFromConfig(context.Background(), Config{SpreadsheetID: "id", CredentialsFile: "/does/not/exist.json"})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Errorf("NewFromConfig() error = %v", err)
	}
}
