// Package ratelimit implements a per-client fixed window request counter.
//
// A client's first request opens a window with count 1. Requests inside the
// window are allowed while count < Max and increment the count; the rest
// are rejected without touching it. The first request after the window
// ends opens a new one with count 1.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed bool
	Count   int
	Limit   int
	ResetAt time.Time
}

// Remaining returns how many more requests the window accepts
func (d Decision) Remaining() int {
	if r := d.Limit - d.Count; r > 0 {
		return r
	}
	return 0
}

// Store counts requests per key. Implementations must be safe for
// concurrent use.
type Store interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Config holds the window parameters shared by every store.
type Config struct {
	Max    int
	Window time.Duration
}

// DefaultConfig allows three requests per minute.
var DefaultConfig = Config{Max: 3, Window: time.Minute}
