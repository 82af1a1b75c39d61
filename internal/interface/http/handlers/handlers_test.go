package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physics-hub/practice-hub/pkg/logger"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestCompositeHealthChecker(t *testing.T) {
	c := NewCompositeHealthChecker("v1")

	status := c.Check(context.Background())
	assert.True(t, status.Healthy)
	assert.Equal(t, "No health checks registered", status.Message)

	c.AddCheck("database", NewPingCheck(pinger{}))
	c.AddCheck("cache", NewPingCheck(pinger{err: errors.New("refused")}))
	c.AddCheck("queue", NewPingCheck(pinger{err: errors.New("refused")}))

	status = c.Check(context.Background())
	assert.False(t, status.Healthy)
	assert.Equal(t, "Some checks failed: cache, queue", status.Message)
	assert.True(t, status.Checks["database"].Healthy)
	assert.Equal(t, "refused", status.Checks["cache"].Message)

	c.RemoveCheck("cache")
	c.RemoveCheck("queue")
	assert.True(t, c.Check(context.Background()).Healthy)
}

func TestCompositeHealthChecker_Timeout(t *testing.T) {
	c := NewCompositeHealthChecker("v1")
	c.SetTimeout(20 * time.Millisecond)
	c.AddCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	status := c.Check(context.Background())
	assert.False(t, status.Healthy)
	assert.Equal(t, context.DeadlineExceeded.Error(), status.Checks["slow"].Message)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Output: &buf, Level: logger.LevelInfo})

	var fromCtx *logger.Logger
	h := middleware.RequestID(RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = logger.FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/brew", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, fromCtx)
	var entry logger.Entry
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "http request", entry.Message)
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "req-1", entry.Fields["request_id"])
	assert.Equal(t, float64(http.StatusTeapot), entry.Fields["status"])
	assert.Equal(t, "/brew", entry.Fields["path"])
}

func TestRequestLogger_ServerErrorAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Output: &buf, Level: logger.LevelInfo})

	h := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	var entry logger.Entry
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "ERROR", entry.Level)
}

func TestHeaderMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	rec := httptest.NewRecorder()
	SecurityHeaders(NoCache(ok)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))
}

func TestRequestSizeLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	h := RequestSizeLimit(4)(ok)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("12345"))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("1234"))))
	assert.Equal(t, http.StatusOK, rec.Code)
}
