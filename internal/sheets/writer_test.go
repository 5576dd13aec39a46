package sheets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// fakeSheetsAPI records the requests the writer sends to the Sheets REST API.
type fakeSheetsAPI struct {
	existing     []string
	requests     []string
	batchUpdates []*sheets.BatchUpdateSpreadsheetRequest
	updates      map[string][][]any
	failUpdates  int
	mu           sync.Mutex
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && path == "/v4/spreadsheets":
		f.requests = append(f.requests, "create")
		_, _ = io.WriteString(w, `{"spreadsheetId":"created-1","spreadsheetUrl":"https://example.test/created-1"}`)

	case r.Method == http.MethodGet && strings.HasPrefix(path, "/v4/spreadsheets/"):
		f.requests = append(f.requests, "get")
		resp := sheets.Spreadsheet{SpreadsheetId: "sheet-1"}
		for i, title := range f.existing {
			resp.Sheets = append(resp.Sheets, &sheets.Sheet{
				Properties: &sheets.SheetProperties{Title: title, SheetId: int64(i)},
			})
		}
		_ = json.NewEncoder(w).Encode(resp)

	case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate"):
		f.requests = append(f.requests, "batchUpdate")
		var req sheets.BatchUpdateSpreadsheetRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.batchUpdates = append(f.batchUpdates, &req)

		resp := sheets.BatchUpdateSpreadsheetResponse{}
		for i, sub := range req.Requests {
			reply := &sheets.Response{}
			if sub.AddSheet != nil {
				reply.AddSheet = &sheets.AddSheetResponse{
					Properties: &sheets.SheetProperties{Title: sub.AddSheet.Properties.Title, SheetId: int64(100 + i)},
				}
			}
			resp.Replies = append(resp.Replies, reply)
		}
		_ = json.NewEncoder(w).Encode(resp)

	case r.Method == http.MethodPost && strings.HasSuffix(path, ":clear"):
		f.requests = append(f.requests, "clear")
		_, _ = io.WriteString(w, `{}`)

	case r.Method == http.MethodPut && strings.Contains(path, "/values/"):
		if f.failUpdates > 0 {
			f.failUpdates--
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, `{"error":{"code":503,"message":"unavailable"}}`)
			return
		}
		f.requests = append(f.requests, "update")
		var vr sheets.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&vr)
		rng := path[strings.Index(path, "/values/")+len("/values/"):]
		f.updates[rng] = append(f.updates[rng], vr.Values...)
		_, _ = io.WriteString(w, `{}`)

	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"code":404,"message":"not found"}}`)
	}
}

func (f *fakeSheetsAPI) count(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, r := range f.requests {
		if r == kind {
			n++
		}
	}
	return n
}

func newTestWriter(t *testing.T, api *fakeSheetsAPI, modify func(*Config)) *Writer {
	t.Helper()

	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	srv, err := sheets.NewService(context.Background(),
		option.WithEndpoint(server.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)

	config := DefaultConfig()
	config.SpreadsheetID = "sheet-1"
	config.RetryAttempts = 1
	config.RetryDelay = time.Millisecond
	config.EnableFormatting = false
	if modify != nil {
		modify(&config)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewWriterWithService(srv, config, logger)
}

func testTabData() *TabData {
	return BuildTabData(sampleDeliveries(), samplePayments(), decimal.RequireFromString("0.1"), decimal.RequireFromString("0.3"),
		time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC))
}

func TestWriter_Write(t *testing.T) {
	api := &fakeSheetsAPI{existing: []string{TabDeliveries}, updates: map[string][][]any{}}
	writer := newTestWriter(t, api, nil)

	err := writer.Write(context.Background(), testTabData())
	require.NoError(t, err)

	assert.Equal(t, 1, api.count("get"))
	assert.Equal(t, 0, api.count("create"))
	assert.Equal(t, len(Tabs), api.count("clear"))
	assert.Equal(t, len(Tabs), api.count("update"))

	// Only the missing tabs are added.
	require.Len(t, api.batchUpdates, 1)
	var added []string
	for _, req := range api.batchUpdates[0].Requests {
		require.NotNil(t, req.AddSheet)
		added = append(added, req.AddSheet.Properties.Title)
	}
	assert.Equal(t, []string{TabMonthlyRevenue, TabCommissions, TabClients}, added)

	deliveries := api.updates["'Livraisons'!A1"]
	require.Len(t, deliveries, 5)
	assert.Equal(t, "Date", deliveries[0][0])
	assert.Equal(t, "KB-d-1", deliveries[1][1])
}

func TestWriter_WriteCreatesSpreadsheet(t *testing.T) {
	api := &fakeSheetsAPI{existing: Tabs, updates: map[string][][]any{}}
	writer := newTestWriter(t, api, func(c *Config) {
		c.SpreadsheetID = ""
	})

	err := writer.Write(context.Background(), testTabData())
	require.NoError(t, err)

	assert.Equal(t, 1, api.count("create"))
	assert.Equal(t, 0, api.count("batchUpdate"))
}

func TestWriter_WriteInBatches(t *testing.T) {
	api := &fakeSheetsAPI{existing: Tabs, updates: map[string][][]any{}}
	writer := newTestWriter(t, api, func(c *Config) {
		c.BatchSize = 2
	})

	err := writer.Write(context.Background(), testTabData())
	require.NoError(t, err)

	assert.Len(t, api.updates["'Livraisons'!A1"], 2)
	assert.Len(t, api.updates["'Livraisons'!A3"], 2)
	assert.Len(t, api.updates["'Livraisons'!A5"], 1)
}

func TestWriter_WriteRetries(t *testing.T) {
	api := &fakeSheetsAPI{existing: Tabs, updates: map[string][][]any{}, failUpdates: 1}
	writer := newTestWriter(t, api, func(c *Config) {
		c.RetryAttempts = 2
	})

	err := writer.Write(context.Background(), testTabData())
	require.NoError(t, err)
	assert.Equal(t, len(Tabs)+1, api.count("clear"))
}

func TestWriter_WriteFailure(t *testing.T) {
	api := &fakeSheetsAPI{existing: Tabs, updates: map[string][][]any{}, failUpdates: 10}
	writer := newTestWriter(t, api, nil)

	err := writer.Write(context.Background(), testTabData())
	require.Error(t, err)
	assert.Contains(t, err.Error(), TabMonthlyRevenue)
}

func TestWriter_Formatting(t *testing.T) {
	api := &fakeSheetsAPI{existing: Tabs, updates: map[string][][]any{}}
	writer := newTestWriter(t, api, func(c *Config) {
		c.EnableFormatting = true
	})

	err := writer.Write(context.Background(), testTabData())
	require.NoError(t, err)

	require.Len(t, api.batchUpdates, 1)
	var patterns []string
	for _, req := range api.batchUpdates[0].Requests {
		if req.RepeatCell != nil && req.RepeatCell.Cell.UserEnteredFormat.NumberFormat != nil {
			patterns = append(patterns, req.RepeatCell.Cell.UserEnteredFormat.NumberFormat.Pattern)
		}
	}
	require.Len(t, patterns, len(Tabs))
	assert.Equal(t, `#,##0 "XOF"`, patterns[0])
}

func TestMockWriter(t *testing.T) {
	mock := NewMockWriter()
	data := testTabData()

	require.NoError(t, mock.Write(context.Background(), data))
	assert.Same(t, data, mock.LastData)

	mock.SetWriteError(assert.AnError)
	assert.ErrorIs(t, mock.Write(context.Background(), data), assert.AnError)
	assert.Len(t, mock.GetWriteCalls(), 2)
}
