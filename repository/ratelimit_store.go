package repository

import (
	"context"
	"time"
)

// Window is one fixed rate-limit window for a client.
type Window struct {
	Count   int
	ResetAt time.Time
}

// Expired reports whether the window has elapsed at now.
func (w Window) Expired(now time.Time) bool {
	return now.After(w.ResetAt)
}

// RateLimitStore holds fixed-window counters keyed by client.
//
// Increment must be atomic: when the key has no window or its window has
// elapsed it starts a new one with Count 1 ending at now+window, otherwise
// it adds one to Count. It returns the window after the hit.
type RateLimitStore interface {
	Get(ctx context.Context, key string) (Window, bool, error)
	Increment(ctx context.Context, key string, window time.Duration, now time.Time) (Window, error)
	Reset(ctx context.Context, key string) error
}
