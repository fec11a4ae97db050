package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// hitScript implements RateLimitStore.Increment in one round trip so that
// every instance sharing the Redis server sees the same count.
var hitScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local raw = redis.call('HGET', KEYS[1], 'reset_at')
local reset = false
if raw then
  reset = tonumber(raw)
end
if not reset or now > reset then
  redis.call('HSET', KEYS[1], 'count', 1, 'reset_at', now + window)
  redis.call('PEXPIRE', KEYS[1], window)
  return {1, now + window}
end
local count = redis.call('HINCRBY', KEYS[1], 'count', 1)
return {count, reset}
`)

type RedisRateLimitStore struct {
	client *redis.Client
	prefix string
}

func NewRedisRateLimitStore(client *redis.Client, prefix string) *RedisRateLimitStore {
	return &RedisRateLimitStore{client: client, prefix: prefix}
}

func (s *RedisRateLimitStore) Get(ctx context.Context, key string) (Window, bool, error) {
	fields, err := s.client.HGetAll(ctx, s.prefix+key).Result()
	if err != nil {
		return Window{}, false, fmt.Errorf("get rate limit window: %w", err)
	}
	if len(fields) == 0 {
		return Window{}, false, nil
	}

	count, err := strconv.Atoi(fields["count"])
	if err != nil {
		return Window{}, false, fmt.Errorf("parse rate limit count: %w", err)
	}
	resetAt, err := strconv.ParseInt(fields["reset_at"], 10, 64)
	if err != nil {
		return Window{}, false, fmt.Errorf("parse rate limit reset: %w", err)
	}
	return Window{Count: count, ResetAt: time.UnixMilli(resetAt)}, true, nil
}

func (s *RedisRateLimitStore) Increment(ctx context.Context, key string, window time.Duration, now time.Time) (Window, error) {
	res, err := hitScript.Run(ctx, s.client, []string{s.prefix + key},
		now.UnixMilli(), window.Milliseconds()).Int64Slice()
	if err != nil {
		return Window{}, fmt.Errorf("increment rate limit window: %w", err)
	}
	if len(res) != 2 {
		return Window{}, errors.New("unexpected rate limit script result")
	}
	return Window{Count: int(res[0]), ResetAt: time.UnixMilli(res[1])}, nil
}

func (s *RedisRateLimitStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("reset rate limit window: %w", err)
	}
	return nil
}
