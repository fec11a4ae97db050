package http

import (
	"context"
	"time"

	"go.uber.org/zap"

	"lo-site/repository"
)

// RateLimiter is a fixed-window limiter: at most max hits per client per
// window, counted from the client's first hit. Two bursts straddling a
// window boundary can admit up to twice max in a short span.
type RateLimiter struct {
	store  repository.RateLimitStore
	max    int
	window time.Duration
	prefix string
	now    func() time.Time
	logger *zap.Logger
}

type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

func NewRateLimiter(store repository.RateLimitStore, max int, window time.Duration, prefix string, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		store:  store,
		max:    max,
		window: window,
		prefix: prefix,
		now:    time.Now,
		logger: logger,
	}
}

// Allow records a hit for key. When the store is unreachable the hit is
// allowed and the failure logged.
func (r *RateLimiter) Allow(ctx context.Context, key string) Decision {
	now := r.now()
	w, err := r.store.Increment(ctx, r.prefix+key, r.window, now)
	if err != nil {
		r.logger.Error("rate limit store failed, allowing request",
			zap.String("client", key), zap.Error(err))
		return Decision{Allowed: true, Limit: r.max, Remaining: r.max, ResetAt: now.Add(r.window)}
	}

	remaining := r.max - w.Count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   w.Count <= r.max,
		Limit:     r.max,
		Remaining: remaining,
		ResetAt:   w.ResetAt,
	}
}

// Reset forgets the client's current window.
func (r *RateLimiter) Reset(ctx context.Context, key string) error {
	return r.store.Reset(ctx, r.prefix+key)
}
