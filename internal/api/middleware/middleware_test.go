package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS_SetsHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/questions", nil)
	w := httptest.NewRecorder()

	CORS(okHandler()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/demo/run", nil)
	w := httptest.NewRecorder()

	CORS(okHandler()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestRequestID_Generated(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	RequestID(inner).ServeHTTP(w, req)

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
}

func TestRequestID_Propagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "demo-req-1")
	w := httptest.NewRecorder()

	RequestID(okHandler()).ServeHTTP(w, req)

	assert.Equal(t, "demo-req-1", w.Header().Get(RequestIDHeader))
}

func TestMetrics_Counts(t *testing.T) {
	var requests, errors, inFlight atomic.Int64
	mc := NewMetricsCollector(&requests, &errors, &inFlight)

	var duringRequest int64
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		duringRequest = inFlight.Load()
		w.WriteHeader(http.StatusBadGateway)
	})

	req := httptest.NewRequest(http.MethodPost, "/demo/run", nil)
	mc.Middleware(inner).ServeHTTP(httptest.NewRecorder(), req)
	mc.Middleware(okHandler()).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, int64(2), requests.Load())
	assert.Equal(t, int64(1), errors.Load())
	assert.Equal(t, int64(1), duringRequest)
	assert.Equal(t, int64(0), inFlight.Load())
}

func TestRateLimit_Exceeded(t *testing.T) {
	handler := RateLimit(1, 2)(okHandler())

	var codes []int
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/questions", nil)
		req.Header.Set("X-Real-IP", "10.0.0.1")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
	assert.Equal(t, http.StatusTooManyRequests, codes[3])
}

func TestRateLimit_PerIP(t *testing.T) {
	handler := RateLimit(1, 1)(okHandler())

	first := httptest.NewRequest(http.MethodGet, "/questions", nil)
	first.Header.Set("X-Real-IP", "10.0.0.1")
	w1 := httptest.NewRecorder()
	handler.ServeHTTP(w1, first)

	second := httptest.NewRequest(http.MethodGet, "/questions", nil)
	second.Header.Set("X-Real-IP", "10.0.0.2")
	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, second)

	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, http.StatusOK, w2.Code)
}

func TestLogging_AccessEntry(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	handler := RequestID(Logging(logger)(okHandler()))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "http request", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/health", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestLogging_ServerErrorIsWarn(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	Logging(logger)(failing).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/demo/run", nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, int64(http.StatusBadGateway), entries[0].ContextMap()["status"])
}
