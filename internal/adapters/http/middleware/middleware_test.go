package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

// TestSecurityHeaders verifies the OWASP headers are set.
func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(okHandler).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	for _, h := range []string{"Content-Security-Policy", "X-Frame-Options", "X-Content-Type-Options", "Referrer-Policy"} {
		if rr.Header().Get(h) == "" {
			t.Errorf("missing header %s", h)
		}
	}
	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

// TestRateLimiter_Allow verifies the bucket empties and is tracked per IP.
func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)
	defer rl.Close()

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("4th request allowed, want denied")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("other IP denied, want allowed")
	}
}

// TestRateLimit_Middleware verifies 429 once the bucket is empty, ignoring the client port.
func TestRateLimit_Middleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	defer rl.Close()
	h := RateLimit(rl)(okHandler)

	first := httptest.NewRequest("GET", "/", nil)
	first.RemoteAddr = "192.0.2.7:5000"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, first)
	if rr.Code != http.StatusOK {
		t.Fatalf("first status = %d, want 200", rr.Code)
	}

	second := httptest.NewRequest("GET", "/", nil)
	second.RemoteAddr = "192.0.2.7:5001"
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, second)
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("second status = %d, want 429", rr.Code)
	}
}

// TestChain_Order verifies the last middleware is outermost.
func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(okHandler, mark("inner"), mark("outer"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if strings.Join(order, ",") != "outer,inner" {
		t.Errorf("order = %v, want [outer inner]", order)
	}
}

// TestCSRF verifies form posts need a token while JSON requests pass through.
func TestCSRF(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	h := CSRF(key, CSRFOptions{TrustedOrigins: []string{"localhost:8080"}})(okHandler)

	tests := []struct {
		name        string
		contentType string
		body        string
		wantCode    int
	}{
		{"form without token", "application/x-www-form-urlencoded", url.Values{"title": {"x"}}.Encode(), http.StatusForbidden},
		{"json exempt", "application/json", `{"title":"x"}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/announcements", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantCode)
			}
		})
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/announcements", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("GET status = %d, want 200", rr.Code)
	}
}
