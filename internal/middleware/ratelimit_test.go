package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = ip
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := 0; i < 2; i++ {
		if code := do("10.0.0.1:1234"); code != http.StatusOK {
			t.Fatalf("request %d: expected status 200, got %d", i+1, code)
		}
	}
	if code := do("10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Errorf("expected status 429 over the limit, got %d", code)
	}

	// Another IP has its own window.
	if code := do("10.0.0.2:1234"); code != http.StatusOK {
		t.Errorf("expected status 200 for a different IP, got %d", code)
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond)

	if !rl.allow("10.0.0.1:1234") {
		t.Fatal("expected first request to be allowed")
	}
	if rl.allow("10.0.0.1:1234") {
		t.Fatal("expected second request in the window to be blocked")
	}

	time.Sleep(30 * time.Millisecond)

	if !rl.allow("10.0.0.1:1234") {
		t.Error("expected a fresh window after the period elapsed")
	}
}
