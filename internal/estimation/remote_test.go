package estimation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/projectcostai/projectcostai/internal/domain/prediction"
)

func TestRemote_PredictProject(t *testing.T) {
	var got remoteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predicted_cost": 12345.67, "estimated_timeline_days": 12.5}`))
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, srv.Client(), NewHeuristic(0))
	out, err := r.PredictProject(context.Background(), prediction.NumericInput{HoursSpent: 150, TaskCount: 25, Budget: 5000, Priority: "Medium"})
	if err != nil {
		t.Fatalf("PredictProject() error = %v", err)
	}
	if out.PredictedCost != 12345.67 || out.EstimatedTimelineDays != 12.5 {
		t.Errorf("PredictProject() = %+v", out)
	}
	if got.HoursSpent != 150 || got.TaskCount != 25 || got.Budget != 5000 || got.Priority != "Medium" {
		t.Errorf("payload = %+v", got)
	}
}

func TestRemote_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "upstream 500",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"model not loaded"}`))
			},
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>oops</html>`))
			},
		},
		{
			name: "missing fields",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"predicted_cost": 10}`))
			},
		},
		{
			name: "slow upstream",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
				_, _ = w.Write([]byte(`{"predicted_cost": 1, "estimated_timeline_days": 1}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			r := NewRemote(srv.URL, &http.Client{Timeout: 50 * time.Millisecond}, NewHeuristic(0))
			_, err := r.PredictProject(context.Background(), prediction.NumericInput{HoursSpent: 1, TaskCount: 1, Priority: "Low"})

			var estErr *Error
			if !errors.As(err, &estErr) {
				t.Fatalf("PredictProject() error = %v, want *Error", err)
			}
		})
	}
}

func TestRemote_Unconfigured(t *testing.T) {
	r := NewRemote("", nil, NewHeuristic(0))
	_, err := r.PredictCost(context.Background(), prediction.ProjectParams{EstimatedHours: 10})

	var estErr *Error
	if !errors.As(err, &estErr) || estErr.Op != "cost" {
		t.Fatalf("PredictCost() error = %v, want *Error with op cost", err)
	}
}

func TestRemote_FacetsAndFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"predicted_cost": 10000, "estimated_timeline_days": 30}`))
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, srv.Client(), NewHeuristic(0))
	ctx := context.Background()
	in := prediction.ProjectParams{EstimatedHours: 100, TeamSize: 3, NumberOfFeatures: 5}

	cost, err := r.PredictCost(ctx, in)
	if err != nil {
		t.Fatalf("PredictCost() error = %v", err)
	}
	if cost.EstimatedCost != 10000 || cost.Breakdown.Development != 6000 {
		t.Errorf("PredictCost() = %+v", cost)
	}

	tl, err := r.PredictTimeline(ctx, in)
	if err != nil {
		t.Fatalf("PredictTimeline() error = %v", err)
	}
	if tl.EstimatedDurationDays != 30 || len(tl.Phases) != 4 {
		t.Errorf("PredictTimeline() = %+v", tl)
	}

	risk, err := r.PredictRisk(ctx, in)
	if err != nil || risk.RiskScore != 20 {
		t.Errorf("PredictRisk() = %+v, %v", risk, err)
	}
}
