package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/gearcatalog-backend/pkg/ctxutil"
)

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log output: %s", buf.String())
	return entry
}

func TestLogger_Success(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gear/search", nil)
	ctx := ctxutil.WithRequestID(req.Context(), "test-request-id-123")
	ctx = ctxutil.WithClientIP(ctx, "198.51.100.7")
	rec := httptest.NewRecorder()

	Logger(logger)(handler).ServeHTTP(rec, req.WithContext(ctx))

	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "http.request", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/api/v1/gear/search", entry["path"])
	assert.EqualValues(t, 200, entry["status"])
	assert.EqualValues(t, len(`{"results":[]}`), entry["bytes"])
	assert.Equal(t, "test-request-id-123", entry["request_id"])
	assert.Equal(t, "198.51.100.7", entry["client_ip"])
	assert.Contains(t, entry, "duration")
	assert.NotContains(t, entry, "route")
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusBadRequest, "INFO"},
		{http.StatusTooManyRequests, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/gear/resolve", nil)
			Logger(logger)(handler).ServeHTTP(httptest.NewRecorder(), req)

			entry := decodeLogLine(t, &buf)
			assert.Equal(t, tt.level, entry["level"])
			assert.EqualValues(t, tt.status, entry["status"])
		})
	}
}

func TestLogger_RoutePattern(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(Logger(logger))
	r.Get("/api/v1/gear/{slug}", func(w http.ResponseWriter, r *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/gear/nikon-z6-iii", nil))

	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "/api/v1/gear/{slug}", entry["route"])
	assert.Equal(t, "/api/v1/gear/nikon-z6-iii", entry["path"])
}

func TestLogger_SkipsQuietPaths(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	Logger(logger, "/live", "/metrics")(handler).ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, called)
	assert.Empty(t, buf.String())
}
