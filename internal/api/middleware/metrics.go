package middleware

import (
	"net/http"
	"sync/atomic"
)

// MetricsCollector collects request metrics.
type MetricsCollector struct {
	requestCount *atomic.Int64
	errorCount   *atomic.Int64
	inFlight     *atomic.Int64
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector(requestCount, errorCount, inFlight *atomic.Int64) *MetricsCollector {
	return &MetricsCollector{
		requestCount: requestCount,
		errorCount:   errorCount,
		inFlight:     inFlight,
	}
}

// Middleware returns middleware that counts requests, errors, and in-flight
// requests. In-flight matters here because a generation call can hold a
// request open for the better part of a minute.
func (mc *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mc.requestCount.Add(1)
		mc.inFlight.Add(1)
		defer mc.inFlight.Add(-1)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		// Count errors (4xx and 5xx)
		if rec.status >= 400 {
			mc.errorCount.Add(1)
		}
	})
}
