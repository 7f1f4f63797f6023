package ratelimit

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// checkFixedWindow drives three allowed requests, a rejected fourth and a
// fresh window after advance moves past the expiry.
func checkFixedWindow(t *testing.T, s *RedisStore, advance func(time.Duration)) {
	t.Helper()

	ctx := context.Background()
	key := uuid.NewString()

	for i := 1; i <= 3; i++ {
		d, err := s.Allow(ctx, key)
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if !d.Allowed || d.Count != i || d.Limit != 3 {
			t.Fatalf("request %d: %+v", i, d)
		}
	}

	d, err := s.Allow(ctx, key)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if d.Allowed || d.Count != 3 {
		t.Fatalf("4th request: %+v, want rejected at count 3", d)
	}
	if until := time.Until(d.ResetAt); until <= 0 || until > 500*time.Millisecond {
		t.Errorf("ResetAt in %v, want within the window", until)
	}

	if d, _ := s.Allow(ctx, uuid.NewString()); !d.Allowed || d.Count != 1 {
		t.Errorf("other key: %+v, want its own window", d)
	}

	advance(600 * time.Millisecond)
	d, err = s.Allow(ctx, key)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !d.Allowed || d.Count != 1 {
		t.Errorf("after window: %+v, want allowed with count 1", d)
	}
}

func TestRedisStore_FixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	s := NewRedisStore(client, Config{Max: 3, Window: 500 * time.Millisecond})
	checkFixedWindow(t, s, mr.FastForward)

	for _, k := range mr.Keys() {
		if !strings.HasPrefix(k, s.prefix) {
			t.Errorf("key %q lacks prefix %q", k, s.prefix)
		}
	}
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	s := NewRedisStore(client, Config{Max: 3, Window: time.Second})
	if _, err := s.Allow(context.Background(), "k"); err == nil {
		t.Error("Allow() against a stopped server returned no error")
	}
}

// Runs only when REDIS_TEST_ADDR points at a disposable redis.
func TestRedisStore_FixedWindowLive(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	s := NewRedisStore(client, Config{Max: 3, Window: 500 * time.Millisecond})
	checkFixedWindow(t, s, time.Sleep)
}
