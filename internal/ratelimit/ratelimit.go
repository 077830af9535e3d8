// Package ratelimit keeps one token bucket per key (telegram user id, client ip)
// and prunes idle buckets inline.
package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// cleanupThreshold is the minimum map size before a cleanup pass runs.
	cleanupThreshold = 500
	// maxIdleAge is the duration after which an idle entry is eligible for cleanup.
	maxIdleAge = 10 * time.Minute
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Limiter[K comparable] struct {
	entries map[K]*entry
	mu      sync.Mutex
	r       rate.Limit
	b       int
}

func New[K comparable](r rate.Limit, b int) *Limiter[K] {
	return &Limiter[K]{
		entries: make(map[K]*entry),
		r:       r,
		b:       b,
	}
}

// PerMinute allows n events per minute with a burst of n; n <= 0 disables limiting.
func PerMinute[K comparable](n int) *Limiter[K] {
	if n <= 0 {
		return New[K](rate.Inf, 0)
	}
	return New[K](rate.Every(time.Minute/time.Duration(n)), n)
}

// Get returns the limiter of key, pruning stale entries when the map exceeds cleanupThreshold.
func (l *Limiter[K]) Get(key K) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if len(l.entries) > cleanupThreshold {
		cutoff := now.Add(-maxIdleAge)
		for k, e := range l.entries {
			if e.lastSeen.Before(cutoff) {
				delete(l.entries, k)
			}
		}
	}

	e, exists := l.entries[key]
	if !exists {
		e = &entry{limiter: rate.NewLimiter(l.r, l.b)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

func (l *Limiter[K]) Allow(key K) bool {
	return l.Get(key).Allow()
}

func (l *Limiter[K]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Middleware rate limits requests by client ip.
func Middleware(limiter *Limiter[string]) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			if !limiter.Allow(ip) {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
