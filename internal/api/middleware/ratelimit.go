package middleware

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// visitor is one client's token bucket plus the last time it was used.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorRegistry hands out one limiter per client key and evicts buckets
// that have gone idle.
type visitorRegistry struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
}

func newVisitorRegistry(rps float64, burst int) *visitorRegistry {
	return &visitorRegistry{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (vr *visitorRegistry) allow(key string, now time.Time) bool {
	vr.mu.Lock()
	defer vr.mu.Unlock()

	v, ok := vr.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(vr.rate, vr.burst)}
		vr.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.Allow()
}

func (vr *visitorRegistry) evict(olderThan time.Time) {
	vr.mu.Lock()
	defer vr.mu.Unlock()

	for key, v := range vr.visitors {
		if v.lastSeen.Before(olderThan) {
			delete(vr.visitors, key)
		}
	}
}

// RateLimit returns middleware that throttles requests per client IP with a
// token bucket. One comparison fans out into two upstream generation calls,
// so the limit is applied before any work starts. Clients over the limit get
// a JSON 429 with Retry-After.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	registry := newVisitorRegistry(rps, burst)

	// Evict buckets idle for 15 minutes, checked every 5
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			registry.evict(time.Now().Add(-15 * time.Minute))
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// chi's RealIP middleware runs earlier and fills X-Real-IP
			key := r.Header.Get("X-Real-IP")
			if key == "" {
				key = r.RemoteAddr
			}

			if !registry.allow(key, time.Now()) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
