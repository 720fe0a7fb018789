package httpmiddleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/jx"
)

// RateLimitConfig configures the sliding window rate limiter.
type RateLimitConfig struct {
	// Max is the maximum number of requests allowed per window.
	Max int
	// Window is the duration of each sliding window.
	Window time.Duration
	// KeyFunc extracts the rate limit key from a request.
	// If nil, ClientIP is used.
	KeyFunc func(*http.Request) string
	// Skip exempts matching requests, such as health probes, from limiting.
	Skip func(*http.Request) bool
}

// window counts requests of one key in the current and the previous fixed
// window. The estimate for the sliding window weights the previous count by
// its remaining overlap.
type window struct {
	start time.Time
	curr  float64
	prev  float64
}

func (w *window) advance(now time.Time, size time.Duration) {
	elapsed := now.Sub(w.start)
	if elapsed < size {
		return
	}
	if elapsed < 2*size {
		w.prev = w.curr
	} else {
		w.prev = 0
	}
	w.curr = 0
	w.start = now.Truncate(size)
}

func (w *window) estimate(now time.Time, size time.Duration) float64 {
	overlap := 1 - now.Sub(w.start).Seconds()/size.Seconds()
	return w.prev*max(overlap, 0) + w.curr
}

type limiter struct {
	max  int
	size time.Duration

	mu   sync.Mutex
	keys map[string]*window
}

// take records a request for key if it fits the limit. It reports how many
// requests remain and when the current window ends.
func (l *limiter) take(key string, now time.Time) (remaining int, reset time.Time, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, found := l.keys[key]
	if !found {
		w = &window{start: now}
		l.keys[key] = w
	}
	w.advance(now, l.size)

	reset = w.start.Add(l.size)
	used := w.estimate(now, l.size)
	if used >= float64(l.max) {
		return 0, reset, false
	}
	w.curr++
	return max(int(float64(l.max)-used-1), 0), reset, true
}

// evict drops keys that have been idle for two windows.
func (l *limiter) evict(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, w := range l.keys {
		if now.Sub(w.start) >= 2*l.size {
			delete(l.keys, key)
		}
	}
}

// RateLimit returns a middleware that enforces a per-key sliding window rate
// limit. Rejected requests get 429 with a JSON body and a Retry-After header.
// Every limited response carries X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset.
//
// Idle keys are never evicted; see RateLimitWithCleanup.
func RateLimit(cfg RateLimitConfig) Middleware {
	return newLimiterMiddleware(cfg, newLimiter(cfg))
}

// RateLimitWithCleanup is like RateLimit but evicts idle keys every two
// windows until ctx is done.
func RateLimitWithCleanup(ctx context.Context, cfg RateLimitConfig) Middleware {
	l := newLimiter(cfg)
	go func() {
		ticker := time.NewTicker(2 * l.size)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				l.evict(now)
			}
		}
	}()
	return newLimiterMiddleware(cfg, l)
}

func newLimiter(cfg RateLimitConfig) *limiter {
	return &limiter{
		max:  cfg.Max,
		size: cfg.Window,
		keys: make(map[string]*window),
	}
}

func newLimiterMiddleware(cfg RateLimitConfig, l *limiter) Middleware {
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = ClientIP
	}
	limit := strconv.Itoa(cfg.Max)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			remaining, reset, ok := l.take(keyFunc(r), time.Now())

			h := w.Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

			if !ok {
				wait := max(time.Until(reset), 0)
				h.Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				writeTooManyRequests(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeTooManyRequests(w http.ResponseWriter) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Int(http.StatusTooManyRequests) })
		e.Field("message", func(e *jx.Encoder) { e.Str("rate limit exceeded") })
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write(e.Bytes())
}

// HeaderOrIP keys requests by the given header, falling back to ClientIP
// when the header is absent.
func HeaderOrIP(header string) func(*http.Request) string {
	return func(r *http.Request) string {
		if v := r.Header.Get(header); v != "" {
			return header + ":" + v
		}
		return ClientIP(r)
	}
}

// ClientIP returns the first X-Forwarded-For address, then X-Real-IP, then
// the host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
