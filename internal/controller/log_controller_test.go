package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logviewer-backend/internal/logstore"
	"logviewer-backend/internal/model"
	"logviewer-backend/internal/query"
	"logviewer-backend/internal/service"
)

const testStorePath = "/srv/logs/logs.json"

func newTestRouter(t *testing.T, fsys afero.Fs) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := logstore.NewFileLogStore(fsys, testStorePath)
	controller := NewLogController(
		service.NewLogQueryService(store, query.NewEngine()),
		service.NewLogIngestService(store, nil, nil),
	)

	r := gin.New()
	r.Use(Recovery(false))
	RegisterLogRoutes(r, controller)
	RegisterHealthRoutes(r)
	r.NoRoute(NotFound)
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postEntry(t *testing.T, r http.Handler, level, ts string) model.LogEntry {
	t.Helper()
	body := `{"level":"` + level + `","message":"disk full","resourceId":"server-1","traceId":"t1","spanId":"s1","commit":"abc123"`
	if ts != "" {
		body += `,"timestamp":"` + ts + `"`
	}
	body += `}`
	w := do(r, http.MethodPost, "/api/logs", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got model.LogEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	return got
}

func decodeEntries(t *testing.T, w *httptest.ResponseRecorder) []model.LogEntry {
	t.Helper()
	var entries []model.LogEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	return entries
}

func TestCreateLogDefaultsTimestampAndMetadata(t *testing.T) {
	r := newTestRouter(t, afero.NewMemMapFs())

	w := do(r, http.MethodPost, "/api/logs",
		`{"level":"ERROR","message":"disk full","resourceId":"server-1","traceId":"t1","spanId":"s1","commit":"abc123","metadata":"oops"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body["level"])
	assert.Equal(t, map[string]any{}, body["metadata"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestCreateLogValidationFailure(t *testing.T) {
	r := newTestRouter(t, afero.NewMemMapFs())

	w := do(r, http.MethodPost, "/api/logs", `{"level":"fatal","message":"x","resourceId":"r","traceId":"t","spanId":"s"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error   string             `json:"error"`
		Message string             `json:"message"`
		Data    []model.FieldError `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ValidationFailed", resp.Error)
	assert.ElementsMatch(t, []model.FieldError{
		{Field: "level", Message: "Invalid log level"},
		{Field: "commit", Message: "Commit hash is required"},
	}, resp.Data)

	w = do(r, http.MethodGet, "/api/logs", "")
	assert.Empty(t, decodeEntries(t, w), "rejected entries are not stored")
}

func TestCreateLogMalformedBody(t *testing.T) {
	r := newTestRouter(t, afero.NewMemMapFs())
	w := do(r, http.MethodPost, "/api/logs", `{"level":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ValidationFailed")
}

func TestGetLogsFiltersAndSorts(t *testing.T) {
	r := newTestRouter(t, afero.NewMemMapFs())
	postEntry(t, r, "error", "2024-01-01T00:00:00.000Z")
	postEntry(t, r, "warn", "2024-01-02T00:00:00.000Z")
	postEntry(t, r, "info", "2024-01-03T00:00:00.000Z")

	w := do(r, http.MethodGet, "/api/logs", "")
	require.Equal(t, http.StatusOK, w.Code)
	all := decodeEntries(t, w)
	require.Len(t, all, 3)
	assert.Equal(t, []model.Level{model.LevelInfo, model.LevelWarn, model.LevelError},
		[]model.Level{all[0].Level, all[1].Level, all[2].Level})

	w = do(r, http.MethodGet, "/api/logs?level=error", "")
	require.Equal(t, http.StatusOK, w.Code)
	onlyErrors := decodeEntries(t, w)
	require.Len(t, onlyErrors, 1)
	assert.Equal(t, model.LevelError, onlyErrors[0].Level)

	w = do(r, http.MethodGet, "/api/logs?resourceId=SERVER&timestamp_start=2024-01-02T00:00:00Z", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeEntries(t, w), 2)

	w = do(r, http.MethodGet, "/api/logs?timestamp_start=2030-01-01T00:00:00Z", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGetLogsInvalidFilter(t *testing.T) {
	r := newTestRouter(t, afero.NewMemMapFs())

	for _, q := range []string{"level=fatal", "timestamp_start=soon", "timestamp_end=2024-13-45"} {
		w := do(r, http.MethodGet, "/api/logs?"+q, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
		assert.Contains(t, w.Body.String(), "InvalidFilterValue", q)
	}
}

func TestGetLogsInvertedRangeIsEmpty(t *testing.T) {
	r := newTestRouter(t, afero.NewMemMapFs())
	postEntry(t, r, "info", "2024-01-15T00:00:00.000Z")

	w := do(r, http.MethodGet, "/api/logs?timestamp_start=2024-02-01T00:00:00Z&timestamp_end=2024-01-01T00:00:00Z", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestStorageFailures(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, testStorePath, []byte("not json"), 0o644))
	r := newTestRouter(t, fsys)

	w := do(r, http.MethodGet, "/api/logs", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "StorageUnavailable")

	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, testStorePath, []byte("[]"), 0o644))
	r = newTestRouter(t, afero.NewReadOnlyFs(base))
	w = do(r, http.MethodPost, "/api/logs", `{"level":"info","message":"m","resourceId":"r","traceId":"t","spanId":"s","commit":"c"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "StorageWriteFailed")
}

func TestHealthAndNotFound(t *testing.T) {
	r := newTestRouter(t, afero.NewMemMapFs())

	w := do(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = do(r, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, w.Body.String())
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, development := range []bool{false, true} {
		r := gin.New()
		r.Use(Recovery(development))
		r.GET("/boom", func(*gin.Context) { panic("kaboom") })

		w := do(r, http.MethodGet, "/boom", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		if development {
			assert.JSONEq(t, `{"error":"Something went wrong!","message":"kaboom"}`, w.Body.String())
		} else {
			assert.JSONEq(t, `{"error":"Something went wrong!"}`, w.Body.String())
		}
	}
}
