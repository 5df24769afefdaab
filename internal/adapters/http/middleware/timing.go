package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// DefaultSlowRequest is the slow-request threshold used when none is configured.
const DefaultSlowRequest = 200 * time.Millisecond

// SlowRequestThreshold parses PORTAL_SLOW_REQUEST_MS. Empty or invalid values yield DefaultSlowRequest.
func SlowRequestThreshold(ms string) time.Duration {
	n, err := strconv.Atoi(strings.TrimSpace(ms))
	if err != nil || n <= 0 {
		return DefaultSlowRequest
	}
	return time.Duration(n) * time.Millisecond
}

var requestIDCounter uint64

// statusWriter records the status code and body size of a response.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	n, err := sw.ResponseWriter.Write(b)
	sw.bytes += n
	return n, err
}

// responseFormat labels a response by its Content-Type for logs.
func responseFormat(h http.Header) string {
	ct := h.Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, "application/json"):
		return "json"
	case strings.HasPrefix(ct, "text/csv"):
		return "csv"
	case strings.HasPrefix(ct, "text/html"):
		return "html"
	}
	return ""
}

// Timing returns middleware that logs each request's duration, status and size.
// Requests slower than threshold log at WARN as slow_request, the rest at DEBUG.
// /static/ is not logged.
func Timing(threshold time.Duration) func(http.Handler) http.Handler {
	if threshold <= 0 {
		threshold = DefaultSlowRequest
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			reqID := atomic.AddUint64(&requestIDCounter, 1)
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			elapsed := time.Since(start)
			level, msg := slog.LevelDebug, "request"
			if elapsed >= threshold {
				level, msg = slog.LevelWarn, "slow_request"
			}
			slog.Log(r.Context(), level, msg,
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"format", responseFormat(sw.Header()),
				"bytes", sw.bytes,
				"duration_ms", float64(elapsed.Microseconds())/1000.0,
			)
		})
	}
}
