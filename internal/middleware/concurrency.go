package middleware

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// ConcurrencyLimiter bounds concurrent request processing with a
// weighted semaphore. Word-count requests can hold a multi-megabyte
// download open for up to a minute each; without a bound a burst of
// cold titles would stack downloads.
type ConcurrencyLimiter struct {
	sem           *semaphore.Weighted
	maxConcurrent int64
	waitTimeout   time.Duration
	totalReqs     int64
	rejectedReqs  int64
}

// NewConcurrencyLimiter creates a limiter admitting maxConcurrent
// requests; waiters give up after waitTimeout.
func NewConcurrencyLimiter(maxConcurrent int, waitTimeout time.Duration) *ConcurrencyLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}
	if waitTimeout <= 0 {
		waitTimeout = 30 * time.Second
	}
	return &ConcurrencyLimiter{
		sem:           semaphore.NewWeighted(int64(maxConcurrent)),
		maxConcurrent: int64(maxConcurrent),
		waitTimeout:   waitTimeout,
	}
}

// Limit wraps a handler so it runs under the semaphore.
func (cl *ConcurrencyLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&cl.totalReqs, 1)

		waitCtx, cancel := context.WithTimeout(r.Context(), cl.waitTimeout)
		defer cancel()

		if err := cl.sem.Acquire(waitCtx, 1); err != nil {
			atomic.AddInt64(&cl.rejectedReqs, 1)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server busy, try again later"}`))
			return
		}
		defer cl.sem.Release(1)

		next(w, r)
	}
}

// Stats returns total and rejected request counts.
func (cl *ConcurrencyLimiter) Stats() (total, rejected int64) {
	return atomic.LoadInt64(&cl.totalReqs), atomic.LoadInt64(&cl.rejectedReqs)
}
