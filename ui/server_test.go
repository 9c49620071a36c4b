package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"roster/adapters/excel"
	"roster/domain/schedule"
	"roster/internal/calendar"
	"roster/internal/importer"
	"roster/internal/roster"
	"roster/internal/testkit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 7, 7, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	server *Server
	store  *roster.Store
	svc    *importer.Service
	repo   *testkit.MemorySnapshotRepository
}

func newTestEnv(t *testing.T, maxUpload int64) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := testkit.NewMemorySnapshotRepository()
	store, err := roster.Open(context.Background(), repo, roster.Options{
		Seed:     testkit.SampleRecords(),
		Location: time.UTC,
		Now:      func() time.Time { return fixedNow },
	})
	require.NoError(t, err)

	svc := importer.NewService(
		excel.NewDataReader(excel.DefaultExcelConfig()),
		importer.NewAggregator(nil),
		importer.NewPendingRegistry(time.Minute),
		store,
		nil,
	)
	server := NewServer(Deps{
		Store:          store,
		Importer:       svc,
		MaxUploadBytes: maxUpload,
		Now:            func() time.Time { return fixedNow },
	})
	return &testEnv{server: server, store: store, svc: svc, repo: repo}
}

func (e *testEnv) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	decode(t, w, &body)
	return body.Code
}

func uploadRequest(t *testing.T, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(UploadField, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/imports", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func acmeWorkbook(t *testing.T) []byte {
	t.Helper()
	data, err := testkit.BuildXLSX(
		testkit.Sheet{Name: "July", Rows: [][]interface{}{testkit.HeaderRow(), testkit.AcmeRow()}},
		testkit.Sheet{Name: "Blank", Rows: [][]interface{}{testkit.HeaderRow()}},
	)
	require.NoError(t, err)
	return data
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, 0)

	w := env.do(http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","customers":2}`, w.Body.String())
}

func TestCustomers_CRUD(t *testing.T) {
	env := newTestEnv(t, 0)

	w := env.do(http.MethodGet, "/api/customers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Customers []schedule.CustomerRecord `json:"customers"`
		Count     int                       `json:"count"`
	}
	decode(t, w, &list)
	assert.Equal(t, 2, list.Count)

	w = env.do(http.MethodPost, "/api/customers", schedule.CustomerInput{
		Name:    "  Acme Co ",
		Address: "1 Main St",
		Phone:   "555-123-4567",
		Dates:   []string{"2025-07-11", "2025-07-04"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created schedule.CustomerRecord
	decode(t, w, &created)
	assert.Equal(t, "Acme Co", created.Name)
	assert.Equal(t, []string{"2025-07-04", "2025-07-11"}, created.Dates)

	w = env.do(http.MethodGet, "/api/customers/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPut, "/api/customers/"+created.ID.String(), schedule.CustomerInput{
		Name:    "Acme Corp",
		Address: "2 Main St",
		Dates:   []string{"2025-07-04"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated schedule.CustomerRecord
	decode(t, w, &updated)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Acme Corp", updated.Name)

	w = env.do(http.MethodDelete, "/api/customers/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 2, env.store.Len())

	w = env.do(http.MethodGet, "/api/customers/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}

func TestCustomers_ValidationErrors(t *testing.T) {
	env := newTestEnv(t, 0)

	w := env.do(http.MethodPost, "/api/customers", schedule.CustomerInput{
		Address: "1 Main St",
		Dates:   []string{"2025-07-04", "July 4th"},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	}
	decode(t, w, &body)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, "is required", body.Fields["name"])
	assert.Contains(t, body.Fields, "dates[1]")
	assert.Equal(t, 2, env.store.Len())

	w = env.do(http.MethodPost, "/api/customers", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", errorCode(t, w))
}

func TestCustomers_Dates(t *testing.T) {
	env := newTestEnv(t, 0)

	w := env.do(http.MethodPost, "/api/customers/c-1/dates", map[string]string{"date": "2025-07-21"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rec, err := env.store.Get("c-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-07-07", "2025-07-14", "2025-07-21"}, rec.Dates)

	w = env.do(http.MethodPost, "/api/customers/c-1/dates", map[string]string{"date": "7/21/2025"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodDelete, "/api/customers/c-2/dates/2025-06-30", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"removed":"2025-06-30","pruned":false}`, w.Body.String())

	w = env.do(http.MethodDelete, "/api/customers/c-2/dates/2025-07-07", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"removed":"2025-07-07","pruned":true}`, w.Body.String())
	_, err = env.store.Get("c-2")
	assert.Error(t, err)

	w = env.do(http.MethodDelete, "/api/customers/c-1/dates/2025-12-25", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCustomers_Recurring(t *testing.T) {
	env := newTestEnv(t, 0)

	w := env.do(http.MethodPost, "/api/customers/c-2/dates/recurring", recurringRequest{
		Rule:    "FREQ=WEEKLY;BYDAY=MO",
		Start:   "2025-07-14",
		Through: "2025-07-28",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Customer schedule.CustomerRecord `json:"customer"`
		Added    []string                `json:"added"`
	}
	decode(t, w, &body)
	assert.Equal(t, []string{"2025-07-14", "2025-07-21", "2025-07-28"}, body.Added)
	assert.Equal(t, []string{"2025-06-30", "2025-07-07", "2025-07-14", "2025-07-21", "2025-07-28"}, body.Customer.Dates)

	w = env.do(http.MethodPost, "/api/customers/c-2/dates/recurring", recurringRequest{
		Rule:    "FREQ=SOMETIMES",
		Start:   "2025-07-14",
		Through: "2025-07-28",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalendar_Views(t *testing.T) {
	env := newTestEnv(t, 0)

	w := env.do(http.MethodGet, "/api/calendar", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var index map[string][]schedule.Occurrence
	decode(t, w, &index)
	assert.Len(t, index["2025-07-07"], 2)
	assert.Len(t, index["2025-06-30"], 1)

	w = env.do(http.MethodGet, "/api/calendar/today", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var today struct {
		Date   string                `json:"date"`
		Events []schedule.Occurrence `json:"events"`
	}
	decode(t, w, &today)
	assert.Equal(t, "2025-07-07", today.Date)
	assert.Len(t, today.Events, 2)

	for _, path := range []string{"/api/calendar/month?month=2025-07", "/api/calendar/month?year=2025&month=7", "/api/calendar/month"} {
		w = env.do(http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, path)
		var view calendar.MonthView
		decode(t, w, &view)
		assert.Equal(t, time.July, view.Month, path)
		assert.Len(t, view.Days, 31, path)
		assert.Equal(t, 3, view.EventCount, path)
		assert.True(t, view.Days[6].IsToday, path)
	}

	w = env.do(http.MethodGet, "/api/calendar/month?year=2025&month=13", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(http.MethodGet, "/api/calendar/month?month=July", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/api/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary calendar.Summary
	decode(t, w, &summary)
	assert.Equal(t, 2, summary.TotalCustomers)
	assert.Equal(t, 4, summary.TotalWorkDays)
	assert.Equal(t, "2025-07-07", summary.BusiestDate)
}

func TestCalendar_QuickAdd(t *testing.T) {
	env := newTestEnv(t, 0)

	w := env.do(http.MethodPost, "/api/calendar/2025-07-09/quick-add", quickAddRequest{Name: "Walk-in", Address: "5 Elm St"})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Len(t, env.store.Index().OnKey("2025-07-09"), 1)

	w = env.do(http.MethodPost, "/api/calendar/2025-02-30/quick-add", quickAddRequest{Name: "x", Address: "y"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalendar_ICSAndExport(t *testing.T) {
	env := newTestEnv(t, 0)

	w := env.do(http.MethodGet, "/api/calendar.ics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/calendar")
	assert.Equal(t, 4, strings.Count(w.Body.String(), "BEGIN:VEVENT"))

	w = env.do(http.MethodGet, "/api/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="work-schedule-2025-07-07.json"`, w.Header().Get("Content-Disposition"))
	var exported []schedule.CustomerRecord
	decode(t, w, &exported)
	assert.Equal(t, env.store.All(), exported)
}

func TestImports_UploadConfirm(t *testing.T) {
	env := newTestEnv(t, 1<<20)

	w := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, uploadRequest(t, "july.xlsx", acmeWorkbook(t)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var pending importer.PendingImport
	decode(t, w, &pending)
	assert.Equal(t, []string{"July", "Blank"}, pending.Sheets)
	assert.Equal(t, 2, env.store.Len())

	w = env.do(http.MethodGet, "/api/imports/"+pending.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, "/api/imports/"+pending.Token+"/confirm", confirmRequest{Sheet: "Blank"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "EMPTY_IMPORT_RESULT", errorCode(t, w))

	w = env.do(http.MethodPost, "/api/imports/"+pending.Token+"/confirm", confirmRequest{Sheet: "August"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "SHEET_NOT_FOUND", errorCode(t, w))
	assert.Equal(t, 2, env.store.Len())

	w = env.do(http.MethodPost, "/api/imports/"+pending.Token+"/confirm", confirmRequest{Sheet: "July"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result importer.Result
	decode(t, w, &result)
	assert.Equal(t, 1, result.Accepted)

	records := env.store.All()
	require.Len(t, records, 1)
	assert.Equal(t, "555-123-4567", records[0].Phone)
	assert.Len(t, env.store.Index().OnKey("2025-07-04"), 1)

	w = env.do(http.MethodPost, "/api/imports/"+pending.Token+"/confirm", confirmRequest{Sheet: "July"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PENDING_IMPORT_NOT_FOUND", errorCode(t, w))
}

func TestImports_Cancel(t *testing.T) {
	env := newTestEnv(t, 1<<20)

	w := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, uploadRequest(t, "july.xlsx", acmeWorkbook(t)))
	require.Equal(t, http.StatusCreated, w.Code)
	var pending importer.PendingImport
	decode(t, w, &pending)
	saves := env.repo.Saves()

	w = env.do(http.MethodDelete, "/api/imports/"+pending.Token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, saves, env.repo.Saves())
	assert.Equal(t, 2, env.store.Len())

	w = env.do(http.MethodDelete, "/api/imports/"+pending.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImports_Rejections(t *testing.T) {
	env := newTestEnv(t, 1024)

	tests := []struct {
		name     string
		req      *http.Request
		status   int
		wantCode string
	}{
		{"wrong extension", uploadRequest(t, "notes.txt", []byte("hello")), http.StatusBadRequest, "INVALID_INPUT"},
		{"unreadable workbook", uploadRequest(t, "broken.xlsx", []byte("not a zip")), http.StatusUnprocessableEntity, "UNREADABLE_FILE"},
		{"too large", uploadRequest(t, "big.csv", bytes.Repeat([]byte("a,b\n"), 1024)), http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"missing field", httptest.NewRequest(http.MethodPost, "/api/imports", strings.NewReader("")), http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			env.server.Handler().ServeHTTP(w, tt.req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}
	assert.Equal(t, 0, env.svc.Pending().Len())
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t, 0)
	server := NewServer(Deps{Store: env.store, Importer: env.svc, AllowedOrigins: []string{"https://roster.example"}})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://roster.example")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	assert.Equal(t, "https://roster.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestETag(t *testing.T) {
	env := newTestEnv(t, 0)

	w := env.do(http.MethodGet, "/api/customers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	etag := w.Header().Get("ETag")
	assert.Equal(t, `"`+env.store.Version().String()+`"`, etag)

	req := httptest.NewRequest(http.MethodGet, "/api/calendar", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())

	_, err := env.store.AddDates(context.Background(), "c-1", "2025-07-21")
	require.NoError(t, err)

	w = httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, etag, w.Header().Get("ETag"))
}

func TestCalendar_AgendaSheet(t *testing.T) {
	env := newTestEnv(t, 0)

	w := env.do(http.MethodGet, "/api/calendar/2025-07-07/agenda", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Camp Aguda")
	assert.Contains(t, w.Body.String(), "Landaus")

	w = env.do(http.MethodGet, "/api/calendar/2025-07-08/agenda?format=md", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "_Nothing scheduled._")

	w = env.do(http.MethodGet, "/api/calendar/2025-07-07/agenda?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/api/calendar/today", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
