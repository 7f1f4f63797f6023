package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/projectcostai/projectcostai/internal/pkg/errors"
	"github.com/projectcostai/projectcostai/internal/pkg/logger"
	"github.com/projectcostai/projectcostai/internal/pkg/metrics"
	"github.com/projectcostai/projectcostai/internal/pkg/utils"
	"github.com/projectcostai/projectcostai/internal/ratelimit"
)

const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"

	msgTooManyRequests = "Too many requests. Please try again later."
)

// ClientKey identifies the caller by remote address without the port
func ClientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// WindowLimit enforces the fixed-window quota of store per client
// address. A store failure lets the request through.
func WindowLimit(store ratelimit.Store, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d, err := store.Allow(r.Context(), ClientKey(r))
			if err != nil {
				log.WithError(err).Warn("Rate limit store unavailable")
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set(HeaderRateLimitLimit, strconv.Itoa(d.Limit))
			h.Set(HeaderRateLimitRemaining, strconv.Itoa(d.Remaining()))
			h.Set(HeaderRateLimitReset, strconv.FormatInt(d.ResetAt.Unix(), 10))

			if !d.Allowed {
				retry := time.Until(d.ResetAt)
				if retry < time.Second {
					retry = time.Second
				}
				h.Set("Retry-After", strconv.Itoa(int(retry.Round(time.Second).Seconds())))
				metrics.RecordRateLimitRejection()
				utils.WriteError(w, errors.RateLimited(msgTooManyRequests))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// FloodGuard is a per-address token bucket protecting the whole API
type FloodGuard struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

func NewFloodGuard(requestsPerSecond float64, burst int) *FloodGuard {
	return &FloodGuard{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

func (g *FloodGuard) limiter(key string) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()

	l, ok := g.limiters[key]
	if !ok {
		l = rate.NewLimiter(g.rate, g.burst)
		g.limiters[key] = l
	}
	return l
}

// Cleanup drops buckets that have refilled completely and returns how many
// were removed.
func (g *FloodGuard) Cleanup() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	removed := 0
	for key, l := range g.limiters {
		if l.Tokens() >= float64(g.burst) {
			delete(g.limiters, key)
			removed++
		}
	}
	return removed
}

// Handler rejects clients that exceed the token bucket
func (g *FloodGuard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.limiter(ClientKey(r)).Allow() {
			metrics.RecordRateLimitRejection()
			utils.WriteError(w, errors.RateLimited(msgTooManyRequests))
			return
		}
		next.ServeHTTP(w, r)
	})
}
