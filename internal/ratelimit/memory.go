package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count int
	start time.Time
}

// MemoryStore keeps windows in a process-local map.
type MemoryStore struct {
	mu      sync.Mutex
	cfg     Config
	windows map[string]*window
	now     func() time.Time
}

func NewMemoryStore(cfg Config) *MemoryStore {
	return &MemoryStore{
		cfg:     cfg,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Allow(_ context.Context, key string) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || now.After(w.start.Add(s.cfg.Window)) {
		w = &window{count: 1, start: now}
		s.windows[key] = w
		return s.decision(true, w), nil
	}

	if w.count < s.cfg.Max {
		w.count++
		return s.decision(true, w), nil
	}

	return s.decision(false, w), nil
}

func (s *MemoryStore) decision(allowed bool, w *window) Decision {
	return Decision{
		Allowed: allowed,
		Count:   w.count,
		Limit:   s.cfg.Max,
		ResetAt: w.start.Add(s.cfg.Window),
	}
}

// Evict drops windows that have ended and returns how many were removed.
func (s *MemoryStore) Evict() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, w := range s.windows {
		if now.After(w.start.Add(s.cfg.Window)) {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}

// Reset clears every window
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	s.windows = make(map[string]*window)
	s.mu.Unlock()
}

// Len returns the number of tracked clients
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}
