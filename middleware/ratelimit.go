// Package middleware holds echo middleware shared by every route.
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultCleanupInterval = 5 * time.Minute
	defaultIdleTimeout     = 10 * time.Minute
)

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess atomic.Int64 // unix nanoseconds
}

// RateLimiter applies a token bucket per client IP.
type RateLimiter struct {
	limiters sync.Map
	rps      float64
	burst    int
	idle     time.Duration
	log      *zap.Logger
	skip     map[string]bool
}

type Option func(*RateLimiter)

func WithLogger(l *zap.Logger) Option {
	return func(rl *RateLimiter) {
		rl.log = l
	}
}

// WithSkipPaths exempts exact request paths, such as health checks.
func WithSkipPaths(paths ...string) Option {
	return func(rl *RateLimiter) {
		for _, p := range paths {
			rl.skip[p] = true
		}
	}
}

// NewRateLimiter starts a cleanup loop that evicts idle clients until ctx is done.
func NewRateLimiter(ctx context.Context, rps float64, burst int, opts ...Option) *RateLimiter {
	rl := &RateLimiter{
		rps:   rps,
		burst: burst,
		idle:  defaultIdleTimeout,
		log:   zap.NewNop(),
		skip:  map[string]bool{},
	}

	for _, opt := range opts {
		opt(rl)
	}

	go rl.cleanup(ctx, defaultCleanupInterval)

	return rl
}

func (rl *RateLimiter) cleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.evictIdle(now)
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.limiters.Range(func(key, value any) bool {
		entry := value.(*limiterEntry)
		if now.Sub(time.Unix(0, entry.lastAccess.Load())) > rl.idle {
			rl.limiters.Delete(key)
		}
		return true
	})
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	now := time.Now().UnixNano()

	if v, ok := rl.limiters.Load(key); ok {
		entry := v.(*limiterEntry)
		entry.lastAccess.Store(now)
		return entry.limiter
	}

	entry := &limiterEntry{limiter: rate.NewLimiter(rate.Limit(rl.rps), rl.burst)}
	entry.lastAccess.Store(now)

	actual, _ := rl.limiters.LoadOrStore(key, entry)
	return actual.(*limiterEntry).limiter
}

func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	limit := strconv.Itoa(rl.burst)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rl.skip[c.Request().URL.Path] {
				return next(c)
			}

			client := c.RealIP()
			if client == "" {
				client = "unknown"
			}

			c.Response().Header().Set("X-RateLimit-Limit", limit)

			if !rl.limiterFor(client).Allow() {
				rl.log.Warn("rate limit exceeded",
					zap.String("client_ip", client),
					zap.String("method", c.Request().Method),
					zap.String("path", c.Request().URL.Path),
				)

				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusTooManyRequests, map[string]string{"message": "Too many requests"})
			}

			return next(c)
		}
	}
}
