package estimation

import (
	"context"
	"errors"
	"testing"

	"github.com/projectcostai/projectcostai/internal/domain/prediction"
)

func TestHeuristic_PredictProject(t *testing.T) {
	h := NewHeuristic(0)
	ctx := context.Background()

	tests := []struct {
		name     string
		input    prediction.NumericInput
		wantCost float64
		wantDays float64
	}{
		{
			name:     "medium priority reference input",
			input:    prediction.NumericInput{HoursSpent: 150, TaskCount: 25, Priority: "Medium", Budget: 5000},
			wantCost: 11500,
			wantDays: 234.4,
		},
		{
			name:     "high priority",
			input:    prediction.NumericInput{HoursSpent: 100, TaskCount: 10, Priority: "High", Budget: 5000},
			wantCost: 6000 + 500 + 250 + 2000,
			wantDays: 41.7,
		},
		{
			name:     "timeline floors at one day",
			input:    prediction.NumericInput{HoursSpent: 1, TaskCount: 1, Priority: "Low", Budget: 0},
			wantCost: 110,
			wantDays: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.PredictProject(ctx, tt.input)
			if err != nil {
				t.Fatalf("PredictProject() error = %v", err)
			}
			if got.PredictedCost != tt.wantCost {
				t.Errorf("PredictedCost = %v, want %v", got.PredictedCost, tt.wantCost)
			}
			if got.EstimatedTimelineDays != tt.wantDays {
				t.Errorf("EstimatedTimelineDays = %v, want %v", got.EstimatedTimelineDays, tt.wantDays)
			}

			again, _ := h.PredictProject(ctx, tt.input)
			if *again != *got {
				t.Errorf("PredictProject() not reproducible: %+v vs %+v", again, got)
			}
		})
	}
}

func TestHeuristic_PredictProject_UnknownPriority(t *testing.T) {
	h := NewHeuristic(0)
	_, err := h.PredictProject(context.Background(), prediction.NumericInput{HoursSpent: 10, TaskCount: 1, Priority: "Urgent"})

	var estErr *Error
	if !errors.As(err, &estErr) {
		t.Fatalf("PredictProject() error = %v, want *Error", err)
	}
	if estErr.Op != "predict" {
		t.Errorf("Op = %q, want predict", estErr.Op)
	}
}

func TestHeuristic_PredictRisk(t *testing.T) {
	h := NewHeuristic(0)

	tests := []struct {
		name        string
		input       prediction.ProjectParams
		wantScore   int
		wantLevel   string
		wantFactors int
	}{
		{
			name:      "baseline",
			input:     prediction.ProjectParams{TeamSize: 5, ComplexityLevel: "Low"},
			wantScore: 20,
			wantLevel: "Low",
		},
		{
			name:        "complex large team",
			input:       prediction.ProjectParams{TeamSize: 12, ComplexityLevel: "High"},
			wantScore:   55,
			wantLevel:   "Medium",
			wantFactors: 2,
		},
		{
			name: "everything risky",
			input: prediction.ProjectParams{
				TeamSize:         1,
				ComplexityLevel:  "Very High",
				NumberOfFeatures: 25,
				TechStack:        []string{"a", "b", "c", "d", "e", "f"},
			},
			wantScore:   80,
			wantLevel:   "High",
			wantFactors: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.PredictRisk(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("PredictRisk() error = %v", err)
			}
			if got.RiskScore != tt.wantScore {
				t.Errorf("RiskScore = %d, want %d", got.RiskScore, tt.wantScore)
			}
			if got.Level != tt.wantLevel {
				t.Errorf("Level = %q, want %q", got.Level, tt.wantLevel)
			}
			if len(got.Factors) != tt.wantFactors {
				t.Errorf("len(Factors) = %d, want %d", len(got.Factors), tt.wantFactors)
			}
		})
	}
}

func TestHeuristic_PredictCost(t *testing.T) {
	h := NewHeuristic(0)

	tests := []struct {
		name  string
		input prediction.ProjectParams
		want  float64
	}{
		{"default hours", prediction.ProjectParams{}, 6000},
		{"high complexity", prediction.ProjectParams{EstimatedHours: 200, ComplexityLevel: "High"}, 15600},
		{"very high complexity", prediction.ProjectParams{EstimatedHours: 200, ComplexityLevel: "Very High"}, 18000},
		{"expert overrides complexity", prediction.ProjectParams{EstimatedHours: 200, ComplexityLevel: "Very High", ExperienceLevel: "Expert"}, 16800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.PredictCost(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("PredictCost() error = %v", err)
			}
			if got.EstimatedCost != tt.want {
				t.Errorf("EstimatedCost = %v, want %v", got.EstimatedCost, tt.want)
			}
			if got.Currency != "USD" || got.Confidence != 85 {
				t.Errorf("Currency/Confidence = %s/%v", got.Currency, got.Confidence)
			}
		})
	}

	got, _ := h.PredictCost(context.Background(), prediction.ProjectParams{EstimatedHours: 200, ComplexityLevel: "High"})
	b := got.Breakdown
	if b.Development != 9360 || b.Infrastructure != 2340 || b.Design != 2340 || b.Marketing != 1560 {
		t.Errorf("Breakdown = %+v", b)
	}
}

func TestHeuristic_PredictTimeline(t *testing.T) {
	h := NewHeuristic(0)

	got, err := h.PredictTimeline(context.Background(), prediction.ProjectParams{EstimatedHours: 300, TeamSize: 2})
	if err != nil {
		t.Fatalf("PredictTimeline() error = %v", err)
	}
	if got.EstimatedDurationDays != 35 {
		t.Errorf("EstimatedDurationDays = %v, want 35", got.EstimatedDurationDays)
	}

	wantNames := []string{"Planning & Design", "Development", "Testing & QA", "Deployment"}
	if len(got.Phases) != len(wantNames) {
		t.Fatalf("len(Phases) = %d, want %d", len(got.Phases), len(wantNames))
	}
	for i, p := range got.Phases {
		if p.Name != wantNames[i] {
			t.Errorf("Phases[%d].Name = %q, want %q", i, p.Name, wantNames[i])
		}
		if p.Weeks < 1 {
			t.Errorf("Phases[%d].Weeks = %d, want >= 1", i, p.Weeks)
		}
	}
	if got.Phases[1].Duration != "3 weeks" {
		t.Errorf("Development duration = %q, want 3 weeks", got.Phases[1].Duration)
	}

	small, _ := h.PredictTimeline(context.Background(), prediction.ProjectParams{})
	if small.EstimatedDurationDays != 28 {
		t.Errorf("default EstimatedDurationDays = %v, want 28", small.EstimatedDurationDays)
	}
	for _, p := range small.Phases {
		if p.Weeks < 1 {
			t.Errorf("phase %q has %d weeks", p.Name, p.Weeks)
		}
	}
}

func TestHeuristic_GenerateRecommendations(t *testing.T) {
	h := NewHeuristic(0)

	got, err := h.GenerateRecommendations(context.Background(), prediction.ProjectParams{
		ProjectType:     "Software",
		TeamSize:        6,
		ComplexityLevel: "High",
		TechStack:       []string{"Go", "React"},
	})
	if err != nil {
		t.Fatalf("GenerateRecommendations() error = %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("len = %d, want 6: %v", len(got), got)
	}
	if want := "Ensure the team has sufficient training on Go, React."; got[5] != want {
		t.Errorf("last = %q, want %q", got[5], want)
	}

	minimal, _ := h.GenerateRecommendations(context.Background(), prediction.ProjectParams{ProjectType: "Marketing", TeamSize: 2})
	if len(minimal) != 1 {
		t.Errorf("minimal len = %d, want 1", len(minimal))
	}
}

func TestHeuristic_CancelledContext(t *testing.T) {
	h := NewHeuristic(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := h.PredictRisk(ctx, prediction.ProjectParams{}); !errors.Is(err, context.Canceled) {
		t.Errorf("PredictRisk() error = %v, want context.Canceled", err)
	}
}
