package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter holds a token bucket per client address.
type IPRateLimiter struct {
	limiters map[string]*clientLimiter
	mu       sync.Mutex
	rps      rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

// NewIPRateLimiter allows rps requests per second per client with bursts of
// up to burst requests.
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		limiters: make(map[string]*clientLimiter),
		rps:      rate.Limit(rps),
		burst:    burst,
		idle:     10 * time.Minute,
		now:      time.Now,
	}
}

// Start evicts idle clients every interval until ctx is done.
func (i *IPRateLimiter) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				i.evictIdle()
			}
		}
	}()
}

func (i *IPRateLimiter) Allow(ip string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	client, exists := i.limiters[ip]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(i.rps, i.burst)}
		i.limiters[ip] = client
	}
	client.lastSeen = i.now()

	return client.limiter.Allow()
}

func (i *IPRateLimiter) evictIdle() int {
	i.mu.Lock()
	defer i.mu.Unlock()

	threshold := i.now().Add(-i.idle)
	evicted := 0
	for ip, client := range i.limiters {
		if client.lastSeen.Before(threshold) {
			delete(i.limiters, ip)
			evicted++
		}
	}
	return evicted
}

// RateLimit answers 429 once a client runs out of tokens. onDrop may be nil.
func RateLimit(limiter *IPRateLimiter, onDrop func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				if onDrop != nil {
					onDrop()
				}
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if forwardedFor := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		return strings.TrimSpace(first)
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
