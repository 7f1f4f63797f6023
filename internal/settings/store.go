// Package settings holds application-wide display settings. Values live
// for the lifetime of the process only.
package settings

import (
	"sync"
)

// Defaults are the settings a fresh process starts with
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"theme":    "glass-orange",
		"currency": "INR",
		"locale":   "en-IN",
	}
}

// Store is a concurrency-safe key/value map of settings
type Store struct {
	mu     sync.RWMutex
	values map[string]interface{}
}

func NewStore() *Store {
	return &Store{values: Defaults()}
}

// All returns a copy of the current settings
func (s *Store) All() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyMap(s.values)
}

// Get returns a single setting
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Merge overlays updates onto the current settings and returns the result.
// A nil value removes the key.
func (s *Store) Merge(updates map[string]interface{}) map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range updates {
		if v == nil {
			delete(s.values, k)
			continue
		}
		s.values[k] = v
	}
	return copyMap(s.values)
}

// Reset restores the defaults
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = Defaults()
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
