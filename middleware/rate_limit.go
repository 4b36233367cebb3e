package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimitStore counts requests per key within a fixed window. Injected so
// the middleware can be backed by an in-process map on a single instance or
// a shared external store in a multi-instance deployment.
type RateLimitStore interface {
	// Allow records a hit for key and reports whether it is still within
	// the limit for the current window.
	Allow(key string, limit int, window time.Duration) (bool, error)
}

type memoryWindow struct {
	count   int
	resetAt time.Time
}

// MemoryRateLimitStore is a fixed-window counter kept in process memory.
type MemoryRateLimitStore struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
	now     func() time.Time
}

func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	return &MemoryRateLimitStore{
		windows: make(map[string]*memoryWindow),
		now:     time.Now,
	}
}

func (s *MemoryRateLimitStore) Allow(key string, limit int, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || now.After(w.resetAt) {
		s.windows[key] = &memoryWindow{count: 1, resetAt: now.Add(window)}
		return true, nil
	}

	w.count++
	return w.count <= limit, nil
}

// RateLimit limits requests per client IP using the given store. trustProxy
// must only be set when a proxy in front of the service overwrites the
// X-Forwarded-For chain.
func RateLimit(store RateLimitStore, limit int, window time.Duration, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r, trustProxy)
			allowed, err := store.Allow(key, limit, window)
			if err != nil {
				// Fail open: a broken limiter should not take the API down.
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP keys the limiter. The X-Forwarded-For header is attacker-writable,
// so it only counts behind a declared trusted proxy, and then only its first
// hop. Otherwise the key is the peer address.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			return strings.TrimSpace(first)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
