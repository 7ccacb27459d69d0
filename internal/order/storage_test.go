package order

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

	"bazarino-order-bot/internal/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type sheetsServer struct {
	mu          sync.Mutex
	worksheets  []string
	appended    [][]interface{}
	appendPaths []string
	batchCalls  int
	appendFails []int
}

func (s *sheetsServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/"):
		var sheetList []map[string]interface{}
		for _, title := range s.worksheets {
			sheetList = append(sheetList, map[string]interface{}{
				"properties": map[string]string{"title": title},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"sheets": sheetList})

	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":batchUpdate"):
		s.batchCalls++
		var req sheets.BatchUpdateSpreadsheetRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		for _, item := range req.Requests {
			if item.AddSheet != nil {
				s.worksheets = append(s.worksheets, item.AddSheet.Properties.Title)
			}
		}
		_, _ = io.WriteString(w, `{}`)

	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
		if len(s.appendFails) > 0 {
			code := s.appendFails[0]
			s.appendFails = s.appendFails[1:]
			w.WriteHeader(code)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{"code": code, "message": "failure"},
			})
			return
		}
		var vr sheets.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&vr)
		s.appended = append(s.appended, vr.Values...)
		s.appendPaths = append(s.appendPaths, r.URL.Path)
		_, _ = io.WriteString(w, `{}`)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

var testWorksheets = Worksheets{Orders: "orders", Uploads: "uploads"}

func newTestSheets(t *testing.T, handler http.Handler) *sheets.Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := sheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return svc
}

func TestSheetsRepo_AppendOrder(t *testing.T) {
	server := &sheetsServer{worksheets: []string{"orders", "uploads"}}
	svc := newTestSheets(t, server)

	repo, err := NewSheetsRepo(context.Background(), svc, "sheet-id", testWorksheets, WithRetries(2, time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, repo.AppendOrder(context.Background(), testRecord()))

	assert.Zero(t, server.batchCalls)
	require.Len(t, server.appended, 1)
	assert.Equal(t, []interface{}{
		"2026-10-17 09:00:00", "Ali", "Via Roma 1", "3331234567", "Rice 5kg", "2", "none", "-",
	}, server.appended[0])
}

func TestSheetsRepo_CreatesMissingWorksheet(t *testing.T) {
	server := &sheetsServer{worksheets: []string{"Sheet1"}}
	svc := newTestSheets(t, server)

	_, err := NewSheetsRepo(context.Background(), svc, "sheet-id", testWorksheets, WithRetries(0, time.Millisecond))
	require.NoError(t, err)

	assert.Equal(t, 2, server.batchCalls)
	assert.Contains(t, server.worksheets, "orders")
	assert.Contains(t, server.worksheets, "uploads")
	require.Len(t, server.appended, 2)
	assert.Equal(t, []interface{}{"timestamp", "name", "address", "phone", "product", "qty", "notes", "handle"}, server.appended[0])
	assert.Equal(t, []interface{}{"timestamp", "user_id", "handle", "file_id", "note"}, server.appended[1])
}

func TestSheetsRepo_CreatesOnlyMissingWorksheets(t *testing.T) {
	server := &sheetsServer{worksheets: []string{"orders"}}
	svc := newTestSheets(t, server)

	_, err := NewSheetsRepo(context.Background(), svc, "sheet-id", testWorksheets, WithRetries(0, time.Millisecond))
	require.NoError(t, err)

	assert.Equal(t, 1, server.batchCalls)
	require.Len(t, server.appended, 1)
	assert.Equal(t, "user_id", server.appended[0][1])
	assert.Contains(t, server.appendPaths[0], "uploads")
}

func TestSheetsRepo_AppendUpload(t *testing.T) {
	server := &sheetsServer{worksheets: []string{"orders", "uploads"}}
	svc := newTestSheets(t, server)

	repo, err := NewSheetsRepo(context.Background(), svc, "sheet-id", testWorksheets, WithRetries(2, time.Millisecond))
	require.NoError(t, err)

	record := model.UploadRecord{
		CreatedAt: time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC),
		UserID:    7,
		Handle:    "mario",
		FileID:    "AgACAgQ",
		Note:      "front door",
	}
	require.NoError(t, repo.AppendUpload(context.Background(), record))

	require.Len(t, server.appended, 1)
	assert.Equal(t, []interface{}{"2026-10-17 09:00:00", "7", "mario", "AgACAgQ", "front door"}, server.appended[0])
	assert.Contains(t, server.appendPaths[0], "uploads")
}

func TestSheetsRepo_RetriesTransientErrors(t *testing.T) {
	server := &sheetsServer{
		worksheets:  []string{"orders", "uploads"},
		appendFails: []int{http.StatusServiceUnavailable, http.StatusTooManyRequests},
	}
	svc := newTestSheets(t, server)

	repo, err := NewSheetsRepo(context.Background(), svc, "sheet-id", testWorksheets, WithRetries(2, time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, repo.AppendOrder(context.Background(), testRecord()))
	assert.Len(t, server.appended, 1)
}

func TestSheetsRepo_PermanentErrorIsNotRetried(t *testing.T) {
	server := &sheetsServer{
		worksheets:  []string{"orders", "uploads"},
		appendFails: []int{http.StatusBadRequest, http.StatusBadRequest},
	}
	svc := newTestSheets(t, server)

	repo, err := NewSheetsRepo(context.Background(), svc, "sheet-id", testWorksheets, WithRetries(2, time.Millisecond))
	require.NoError(t, err)

	err = repo.AppendOrder(context.Background(), testRecord())
	require.Error(t, err)
	assert.Empty(t, server.appended)
	assert.Len(t, server.appendFails, 1)
}

func TestSheetsRepo_GivesUpAfterRetries(t *testing.T) {
	server := &sheetsServer{
		worksheets:  []string{"orders", "uploads"},
		appendFails: []int{500, 500, 500},
	}
	svc := newTestSheets(t, server)

	repo, err := NewSheetsRepo(context.Background(), svc, "sheet-id", testWorksheets, WithRetries(2, time.Millisecond))
	require.NoError(t, err)

	require.Error(t, repo.AppendOrder(context.Background(), testRecord()))
	assert.Empty(t, server.appended)
	assert.Empty(t, server.appendFails)
}
