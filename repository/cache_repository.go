package repository

import (
	"context"
	"time"
)

// CacheRepository stores string values with an expiry. A zero ttl keeps
// the value until it is overwritten.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}
