// Package ratelimit enforces a fixed request window per client IP, counted in Redis.
package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/lexpage/landing-service/pkg/util"
)

// Result describes the state of a client's current window.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

// Limiter counts hits per key inside aligned windows.
type Limiter struct {
	client redis.Cmdable
	window time.Duration
	max    int
	prefix string
	now    func() time.Time
}

// NewLimiter builds a limiter allowing max hits per window.
func NewLimiter(client redis.Cmdable, window time.Duration, max int) *Limiter {
	return &Limiter{client: client, window: window, max: max, prefix: "ratelimit:", now: time.Now}
}

// Allow records one hit for key and reports whether it fits the window.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	now := l.now()
	windowStart := now.Truncate(l.window)
	resetIn := windowStart.Add(l.window).Sub(now)
	redisKey := l.prefix + key + ":" + strconv.FormatInt(windowStart.Unix(), 10)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return Result{Allowed: true, Limit: l.max, Remaining: l.max, ResetIn: resetIn}, err
	}

	count := int(incr.Val())
	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{Allowed: count <= l.max, Limit: l.max, Remaining: remaining, ResetIn: resetIn}, nil
}

// Middleware applies the limiter to every request keyed by client IP. Redis
// failures let the request through.
func (l *Limiter) Middleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := l.Allow(c.UserContext(), c.IP())
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}

		resetSeconds := int((res.ResetIn + time.Second - 1) / time.Second)
		c.Set("RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Set("RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Set("RateLimit-Reset", strconv.Itoa(resetSeconds))

		if !res.Allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(resetSeconds))
			return apperrors.NewRateLimited(resetSeconds)
		}
		return c.Next()
	}
}
