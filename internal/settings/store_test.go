package settings

import (
	"sync"
	"testing"
)

func TestStore_Merge(t *testing.T) {
	s := NewStore()

	got := s.Merge(map[string]interface{}{"currency": "USD", "density": "compact"})
	if got["currency"] != "USD" || got["density"] != "compact" || got["theme"] != "glass-orange" {
		t.Errorf("Merge() = %v", got)
	}

	got = s.Merge(map[string]interface{}{"density": nil})
	if _, ok := got["density"]; ok {
		t.Errorf("Merge() with nil kept key: %v", got)
	}

	s.Reset()
	if v, _ := s.Get("currency"); v != "INR" {
		t.Errorf("after Reset() currency = %v, want INR", v)
	}
}

func TestStore_AllReturnsCopy(t *testing.T) {
	s := NewStore()
	all := s.All()
	all["theme"] = "dark"

	if v, _ := s.Get("theme"); v != "glass-orange" {
		t.Errorf("mutating All() changed store: theme = %v", v)
	}
}

func TestStore_ConcurrentMerge(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Merge(map[string]interface{}{"counter": i})
			_ = s.All()
		}(i)
	}
	wg.Wait()

	if _, ok := s.Get("counter"); !ok {
		t.Error("counter missing after concurrent merges")
	}
}
