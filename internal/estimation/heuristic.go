package estimation

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/projectcostai/projectcostai/internal/domain/prediction"
)

const (
	hourlyRate         = 60.0
	defaultHours       = 100.0
	hoursPerPersonWeek = 30.0
	costConfidence     = 85.0
	taskOverhead       = 50.0
	budgetFactor       = 0.05
)

var priorityCostTerm = map[string]float64{
	prediction.PriorityHigh:   2000,
	prediction.PriorityMedium: 1000,
	prediction.PriorityLow:    0,
}

var priorityWeight = map[string]float64{
	prediction.PriorityHigh:   3,
	prediction.PriorityMedium: 2,
	prediction.PriorityLow:    1,
}

// phaseShares are the timeline phases and their share of total weeks.
var phaseShares = []struct {
	name  string
	share float64
}{
	{"Planning & Design", 0.15},
	{"Development", 0.60},
	{"Testing & QA", 0.20},
	{"Deployment", 0.05},
}

// Heuristic is a deterministic rule based estimator. Delay simulates model
// latency and is zero in tests.
type Heuristic struct {
	Delay time.Duration
}

func NewHeuristic(delay time.Duration) *Heuristic {
	return &Heuristic{Delay: delay}
}

func (h *Heuristic) wait(ctx context.Context) error {
	if h.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(h.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (h *Heuristic) PredictRisk(ctx context.Context, in prediction.ProjectParams) (*prediction.RiskAssessment, error) {
	if err := h.wait(ctx); err != nil {
		return nil, wrapErr("risk", err)
	}

	score := 20
	factors := []string{}

	if in.IsHighComplexity() {
		score += 25
		factors = append(factors, "High project complexity increases delivery risk")
	}

	if in.TeamSize > 10 {
		score += 10
		factors = append(factors, "Large team size may increase communication overhead")
	} else if in.TeamSize < 2 {
		score += 15
		factors = append(factors, "Small team size creates localized dependency risks")
	}

	if in.NumberOfFeatures > 20 {
		score += 10
		factors = append(factors, "High feature count increases scope creep risk")
	}

	if len(in.TechStack) > 5 {
		score += 10
		factors = append(factors, "Complex technology stack increases integration risk")
	}

	if score < 5 {
		score = 5
	}
	if score > 98 {
		score = 98
	}

	return &prediction.RiskAssessment{
		RiskScore: score,
		Level:     riskLevel(score),
		Factors:   factors,
	}, nil
}

func riskLevel(score int) string {
	switch {
	case score > 75:
		return prediction.RiskHigh
	case score > 40:
		return prediction.RiskMedium
	default:
		return prediction.RiskLow
	}
}

func (h *Heuristic) PredictCost(ctx context.Context, in prediction.ProjectParams) (*prediction.CostEstimate, error) {
	if err := h.wait(ctx); err != nil {
		return nil, wrapErr("cost", err)
	}

	hours := in.EstimatedHours
	if hours <= 0 {
		hours = defaultHours
	}

	multiplier := 1.0
	switch in.ComplexityLevel {
	case prediction.ComplexityHigh:
		multiplier = 1.3
	case prediction.ComplexityVeryHigh:
		multiplier = 1.5
	}
	// Expert rates replace the complexity multiplier.
	if in.ExperienceLevel == "Expert" {
		multiplier = 1.4
	}

	total := math.Round(hours * hourlyRate * multiplier)
	return &prediction.CostEstimate{
		EstimatedCost: total,
		Currency:      "USD",
		Confidence:    costConfidence,
		Breakdown:     splitCost(total),
	}, nil
}

func splitCost(total float64) *prediction.CostBreakdown {
	return &prediction.CostBreakdown{
		Development:    math.Round(total * 0.6),
		Infrastructure: math.Round(total * 0.15),
		Design:         math.Round(total * 0.15),
		Marketing:      math.Round(total * 0.1),
	}
}

func (h *Heuristic) PredictTimeline(ctx context.Context, in prediction.ProjectParams) (*prediction.Timeline, error) {
	if err := h.wait(ctx); err != nil {
		return nil, wrapErr("timeline", err)
	}

	team := in.TeamSize
	if team <= 0 {
		team = 1
	}
	hours := in.EstimatedHours
	if hours <= 0 {
		hours = defaultHours
	}

	weeks := int(math.Ceil(hours / (float64(team) * hoursPerPersonWeek)))
	return &prediction.Timeline{
		EstimatedDurationDays: float64(weeks * 7),
		Phases:                phasesFor(weeks),
	}, nil
}

// phasesFor splits total weeks into phases of at least one week each.
func phasesFor(totalWeeks int) []prediction.Phase {
	phases := make([]prediction.Phase, 0, len(phaseShares))
	for _, ps := range phaseShares {
		w := int(math.Ceil(float64(totalWeeks) * ps.share))
		if w < 1 {
			w = 1
		}
		phases = append(phases, prediction.Phase{
			Name:     ps.name,
			Weeks:    w,
			Duration: fmt.Sprintf("%d weeks", w),
		})
	}
	return phases
}

func (h *Heuristic) GenerateRecommendations(ctx context.Context, in prediction.ProjectParams) ([]string, error) {
	if err := h.wait(ctx); err != nil {
		return nil, wrapErr("recommendations", err)
	}

	recs := []string{"Implement automated CI/CD pipelines early to reduce deployment friction."}

	if in.ProjectType == string(prediction.ProjectTypeSoftware) {
		recs = append(recs, "Adopt an Agile methodology to handle changing requirements effectively.")
	}
	if in.TeamSize > 5 {
		recs = append(recs, "Structure the team into squads to maintain agility.")
	}
	if in.IsHighComplexity() {
		recs = append(recs,
			"Invest heavily in system architecture planning before coding starts.",
			"Conduct regular code reviews to maintain code quality.")
	}
	if len(in.TechStack) > 0 {
		recs = append(recs, fmt.Sprintf("Ensure the team has sufficient training on %s.", strings.Join(in.TechStack, ", ")))
	}

	return recs, nil
}

// PredictProject applies the same cost and timeline rules as the remote
// prediction service so both modes agree on the numbers.
func (h *Heuristic) PredictProject(ctx context.Context, in prediction.NumericInput) (*prediction.NumericEstimate, error) {
	if err := h.wait(ctx); err != nil {
		return nil, wrapErr("predict", err)
	}
	if _, ok := priorityWeight[in.Priority]; !ok {
		return nil, wrapErr("predict", fmt.Errorf("unknown priority %q", in.Priority))
	}

	cost := in.HoursSpent*hourlyRate + in.TaskCount*taskOverhead + in.Budget*budgetFactor + priorityCostTerm[in.Priority]
	cost = math.Max(0, roundTo(cost, 2))

	return &prediction.NumericEstimate{
		PredictedCost:         cost,
		EstimatedTimelineDays: timelineDays(in),
	}, nil
}

// timelineDays is (hours * tasks) / (priority weight * 8), at least one day,
// rounded to one decimal.
func timelineDays(in prediction.NumericInput) float64 {
	w := priorityWeight[in.Priority]
	if w == 0 {
		w = 1
	}
	days := roundTo((in.HoursSpent*in.TaskCount)/(w*8), 1)
	return math.Max(1, days)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
