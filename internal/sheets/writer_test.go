package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/expense-ledger/internal/common"
	"github.com/Veraticus/expense-ledger/internal/model"
)

func sampleReport() Report {
	return Report{
		GeneratedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Totals: []model.CurrencyTotal{
			{Currency: "", Total: decimal.NewFromInt(720)},
			{Currency: "UAH", Total: decimal.RequireFromString("12580.5")},
		},
		ByCategory: []model.CategoryTotal{
			{Category: "Groceries", Currency: "UAH", Total: decimal.RequireFromString("1270.5")},
		},
		Rows: []model.ExportRow{
			{Date: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), Title: "Silpo", Amount: decimal.RequireFromString("850.5"), Category: "Groceries"},
			{Date: time.Date(2026, 2, 18, 0, 0, 0, 0, time.UTC), Title: "Vegetables", Amount: decimal.NewFromInt(420), Category: "Groceries"},
		},
	}
}

func TestPrepareValues(t *testing.T) {
	values := prepareValues(sampleReport())

	assert.Equal(t, []any{"Expense Report", "2026-03-01 09:30"}, values[0])
	assert.Equal(t, []any{"Totals"}, values[2])
	assert.Equal(t, []any{"N/A", "720.00"}, values[4])
	assert.Equal(t, []any{"UAH", "12580.50"}, values[5])
	assert.Equal(t, []any{"By Category"}, values[7])
	assert.Equal(t, []any{"Groceries", "1270.50", "UAH"}, values[9])
	assert.Equal(t, []any{"Date", "Title", "Amount", "Category"}, values[12])
	assert.Equal(t, []any{"2026-02-01", "Silpo", "850.50", "Groceries"}, values[13])
	assert.Len(t, values, 15)
}

func TestPrepareValues_Empty(t *testing.T) {
	values := prepareValues(Report{})

	assert.Equal(t, []any{"Date", "Title", "Amount", "Category"}, values[len(values)-1])
}

// fakeSheetsAPI records the calls a Writer makes.
type fakeSheetsAPI struct {
	calls        []string
	written      [][]any
	failUpdates  int
	failStatus   int
	createdTitle string
	mu           sync.Mutex
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && path == "/v4/spreadsheets":
		f.calls = append(f.calls, "create")
		var body sheets.Spreadsheet
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.createdTitle = body.Properties.Title
		_, _ = w.Write([]byte(`{"spreadsheetId":"new-sheet","spreadsheetUrl":"https://example.test/new-sheet"}`))
	case r.Method == http.MethodGet:
		f.calls = append(f.calls, "get")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-123"}`))
	case strings.HasSuffix(path, ":clear"):
		f.calls = append(f.calls, "clear")
		_, _ = w.Write([]byte(`{}`))
	case strings.HasSuffix(path, ":batchUpdate"):
		f.calls = append(f.calls, "format")
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodPut:
		f.calls = append(f.calls, "update")
		if f.failUpdates > 0 {
			f.failUpdates--
			w.WriteHeader(f.failStatus)
			_, _ = fmt.Fprintf(w, `{"error":{"code":%d,"message":"backend hiccup"}}`, f.failStatus)
			return
		}
		var body sheets.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.written = append(f.written, body.Values...)
		_, _ = w.Write([]byte(`{}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestWriter(t *testing.T, api *fakeSheetsAPI, config Config) *Writer {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	svc, err := sheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return newWriter(config, svc, nil)
}

func testConfig() Config {
	config := DefaultConfig()
	config.ServiceAccountPath = "/unused.json"
	config.SpreadsheetID = "sheet-123"
	config.RetryDelay = time.Millisecond
	return config
}

func TestWriter_Write(t *testing.T) {
	api := &fakeSheetsAPI{}
	w := newTestWriter(t, api, testConfig())

	id, err := w.Write(context.Background(), sampleReport())
	require.NoError(t, err)

	assert.Equal(t, "sheet-123", id)
	assert.Equal(t, []string{"get", "clear", "update", "format"}, api.calls)
	require.Len(t, api.written, 15)
	assert.Equal(t, []any{"2026-02-01", "Silpo", "850.50", "Groceries"}, api.written[13])
}

func TestWriter_WriteBatches(t *testing.T) {
	api := &fakeSheetsAPI{}
	config := testConfig()
	config.BatchSize = 4
	config.EnableFormatting = false
	w := newTestWriter(t, api, config)

	_, err := w.Write(context.Background(), sampleReport())
	require.NoError(t, err)

	assert.Equal(t, []string{"get", "clear", "update", "update", "update", "update"}, api.calls)
	assert.Len(t, api.written, 15)
}

func TestWriter_RetriesFailedWrite(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "server error", status: http.StatusInternalServerError},
		{name: "rate limited", status: http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeSheetsAPI{failUpdates: 1, failStatus: tt.status}
			config := testConfig()
			config.EnableFormatting = false
			w := newTestWriter(t, api, config)

			_, err := w.Write(context.Background(), sampleReport())
			require.NoError(t, err)

			assert.Equal(t, []string{"get", "clear", "update", "clear", "update"}, api.calls)
			assert.Len(t, api.written, 15, "the retried attempt starts from a cleared sheet")
		})
	}
}

func TestWriter_GivesUp(t *testing.T) {
	api := &fakeSheetsAPI{failUpdates: 10, failStatus: http.StatusServiceUnavailable}
	config := testConfig()
	config.RetryAttempts = 2
	w := newTestWriter(t, api, config)

	_, err := w.Write(context.Background(), sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write data")
	assert.ErrorIs(t, err, common.ErrMaxRetries)
	assert.Equal(t, []string{"get", "clear", "update", "clear", "update"}, api.calls)
}

func TestWriter_ClientErrorIsNotRetried(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusForbidden} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			api := &fakeSheetsAPI{failUpdates: 10, failStatus: status}
			w := newTestWriter(t, api, testConfig())

			_, err := w.Write(context.Background(), sampleReport())
			require.Error(t, err)
			assert.NotErrorIs(t, err, common.ErrMaxRetries)

			var permanent *common.RetryableError
			require.ErrorAs(t, err, &permanent)
			assert.False(t, permanent.Retryable)
			assert.Equal(t, []string{"get", "clear", "update"}, api.calls)
		})
	}
}

func TestClassifyAPIError(t *testing.T) {
	assert.NoError(t, classifyAPIError(nil))

	plain := fmt.Errorf("dial: connection refused")
	assert.Equal(t, plain, classifyAPIError(plain))

	limited := classifyAPIError(fmt.Errorf("write: %w", &googleapi.Error{Code: http.StatusTooManyRequests}))
	assert.ErrorIs(t, limited, common.ErrRateLimit)

	down := &googleapi.Error{Code: http.StatusBadGateway}
	assert.Equal(t, error(down), classifyAPIError(down))
}

func TestWriter_CreatesSpreadsheet(t *testing.T) {
	api := &fakeSheetsAPI{}
	config := testConfig()
	config.SpreadsheetID = ""
	config.EnableFormatting = false
	w := newTestWriter(t, api, config)

	id, err := w.Write(context.Background(), sampleReport())
	require.NoError(t, err)

	assert.Equal(t, "new-sheet", id)
	assert.Equal(t, "Expense Report", api.createdTitle)
	assert.Equal(t, "create", api.calls[0])

	_, err = w.Write(context.Background(), Report{})
	require.NoError(t, err)
	assert.Contains(t, api.calls, "get", "the created spreadsheet is reused")
}
