package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript applies the window rule atomically. The key's TTL is the
// window, so expiry opens the next window.
//
// KEYS[1] counter key, ARGV[1] max, ARGV[2] window in ms.
// Returns {allowed, count, ttl_ms}.
var fixedWindowScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if not current then
  redis.call('SET', KEYS[1], 1, 'PX', ARGV[2])
  return {1, 1, tonumber(ARGV[2])}
end
current = tonumber(current)
if current < tonumber(ARGV[1]) then
  local n = redis.call('INCR', KEYS[1])
  return {1, n, redis.call('PTTL', KEYS[1])}
end
return {0, current, redis.call('PTTL', KEYS[1])}
`)

// RedisStore shares windows between API instances.
type RedisStore struct {
	client redis.Scripter
	cfg    Config
	prefix string
}

func NewRedisStore(client redis.Scripter, cfg Config) *RedisStore {
	return &RedisStore{client: client, cfg: cfg, prefix: "projectcostai:ratelimit:"}
}

func (s *RedisStore) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := fixedWindowScript.Run(ctx, s.client,
		[]string{s.prefix + key},
		s.cfg.Max, s.cfg.Window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 3 {
		return Decision{}, fmt.Errorf("rate limit script returned %d values", len(res))
	}

	ttl := time.Duration(res[2]) * time.Millisecond
	if ttl < 0 {
		ttl = s.cfg.Window
	}

	return Decision{
		Allowed: res[0] == 1,
		Count:   int(res[1]),
		Limit:   s.cfg.Max,
		ResetAt: time.Now().Add(ttl),
	}, nil
}
