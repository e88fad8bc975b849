package kit

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(3, 60)

	h := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	status := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		if got := status("10.0.0.1"); got != http.StatusOK {
			t.Fatalf("request %d: got %d, want 200", i+1, got)
		}
	}

	if got := status("10.0.0.1"); got != http.StatusTooManyRequests {
		t.Fatalf("over limit: got %d, want 429", got)
	}

	// other clients are tracked independently
	if got := status("10.0.0.2"); got != http.StatusOK {
		t.Fatalf("other ip: got %d, want 200", got)
	}
}

func TestIPRateLimiter_ForwardedFor(t *testing.T) {
	limiter := NewIPRateLimiter(1, 60)

	h := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first: got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second from same forwarded ip: got %d, want 429", rec.Code)
	}
}
