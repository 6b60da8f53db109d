package middleware

import (
	"net/http"
	"sync"
	"time"
)

type window struct {
	count int
	start time.Time
}

// RateLimiter is a fixed-window per-IP limiter guarding the credential
// endpoints (login, register, password reset). It slows brute-force
// attempts and reset-mail flooding; the chat relay is not behind it.
type RateLimiter struct {
	mu     sync.Mutex
	byIP   map[string]*window
	limit  int
	period time.Duration
}

func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		byIP:   make(map[string]*window),
		limit:  limit,
		period: period,
	}
	go rl.prune()
	return rl
}

// prune drops windows that have fully expired so the map does not grow with
// every IP that ever touched an auth endpoint.
func (rl *RateLimiter) prune() {
	ticker := time.NewTicker(rl.period)
	for range ticker.C {
		rl.mu.Lock()
		for ip, w := range rl.byIP {
			if time.Since(w.start) >= rl.period {
				delete(rl.byIP, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// allow counts one request from ip against its current window, opening a
// fresh window when the previous one has expired.
func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.byIP[ip]
	if !ok || time.Since(w.start) >= rl.period {
		rl.byIP[ip] = &window{count: 1, start: time.Now()}
		return true
	}

	w.count++
	return w.count <= rl.limit
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// RealIP middleware has already rewritten RemoteAddr when the
		// request came through a proxy.
		if !rl.allow(r.RemoteAddr) {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
