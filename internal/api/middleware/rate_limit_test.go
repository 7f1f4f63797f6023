package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/projectcostai/projectcostai/internal/pkg/logger"
	"github.com/projectcostai/projectcostai/internal/ratelimit"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func send(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWindowLimit(t *testing.T) {
	c := &clock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := ratelimit.NewMemoryStore(ratelimit.Config{Max: 3, Window: time.Minute}).WithClock(c.now)
	log := logger.New(logger.Config{Level: "disabled"})
	h := WindowLimit(store, log)(okHandler())

	for i := 1; i <= 3; i++ {
		rec := send(h, "10.0.0.1:5000")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}

	rec := send(h, "10.0.0.1:6000")
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("4th request status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 response missing Retry-After")
	}

	if rec := send(h, "10.0.0.2:5000"); rec.Code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", rec.Code)
	}

	c.t = c.t.Add(61 * time.Second)
	rec = send(h, "10.0.0.1:5000")
	if rec.Code != http.StatusOK {
		t.Errorf("after window status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get(HeaderRateLimitRemaining); got != "2" {
		t.Errorf("remaining after reset = %s, want 2", got)
	}
}

func TestFloodGuard(t *testing.T) {
	g := NewFloodGuard(1, 2)
	h := g.Handler(okHandler())

	codes := []int{
		send(h, "10.0.0.1:1").Code,
		send(h, "10.0.0.1:1").Code,
		send(h, "10.0.0.1:1").Code,
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{remote: "192.168.1.4:51234", want: "192.168.1.4"},
		{remote: "[::1]:8080", want: "::1"},
		{remote: "10.1.1.1", want: "10.1.1.1"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remote
		if got := ClientKey(req); got != tt.want {
			t.Errorf("ClientKey(%q) = %q, want %q", tt.remote, got, tt.want)
		}
	}
}
