package estimation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/projectcostai/projectcostai/internal/domain/prediction"
)

type remoteRequest struct {
	Priority   string  `json:"priority"`
	Budget     float64 `json:"budget"`
	HoursSpent float64 `json:"hours_spent"`
	TaskCount  float64 `json:"task_count"`
}

type remoteResponse struct {
	PredictedCost         *float64 `json:"predicted_cost"`
	EstimatedTimelineDays *float64 `json:"estimated_timeline_days"`
	Error                 string   `json:"error,omitempty"`
}

// Remote calls an external prediction service for cost and timeline numbers.
// Risk and recommendations have no remote counterpart and are delegated to
// the fallback estimator.
type Remote struct {
	url      string
	client   *http.Client
	fallback Estimator
}

func NewRemote(url string, client *http.Client, fallback Estimator) *Remote {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Remote{url: url, client: client, fallback: fallback}
}

func (r *Remote) PredictProject(ctx context.Context, in prediction.NumericInput) (*prediction.NumericEstimate, error) {
	out, err := r.call(ctx, remoteRequest{
		Priority:   in.Priority,
		Budget:     in.Budget,
		HoursSpent: in.HoursSpent,
		TaskCount:  in.TaskCount,
	})
	if err != nil {
		return nil, wrapErr("predict", err)
	}
	return out, nil
}

func (r *Remote) PredictCost(ctx context.Context, in prediction.ProjectParams) (*prediction.CostEstimate, error) {
	out, err := r.call(ctx, projectRequest(in))
	if err != nil {
		return nil, wrapErr("cost", err)
	}
	return &prediction.CostEstimate{
		EstimatedCost: out.PredictedCost,
		Currency:      "USD",
		Confidence:    costConfidence,
		Breakdown:     splitCost(out.PredictedCost),
	}, nil
}

func (r *Remote) PredictTimeline(ctx context.Context, in prediction.ProjectParams) (*prediction.Timeline, error) {
	out, err := r.call(ctx, projectRequest(in))
	if err != nil {
		return nil, wrapErr("timeline", err)
	}
	weeks := int((out.EstimatedTimelineDays + 6) / 7)
	return &prediction.Timeline{
		EstimatedDurationDays: out.EstimatedTimelineDays,
		Phases:                phasesFor(weeks),
	}, nil
}

func (r *Remote) PredictRisk(ctx context.Context, in prediction.ProjectParams) (*prediction.RiskAssessment, error) {
	return r.fallback.PredictRisk(ctx, in)
}

func (r *Remote) GenerateRecommendations(ctx context.Context, in prediction.ProjectParams) ([]string, error) {
	return r.fallback.GenerateRecommendations(ctx, in)
}

// projectRequest maps project parameters onto the numeric payload. Features
// stand in for tasks.
func projectRequest(in prediction.ProjectParams) remoteRequest {
	priority := in.Priority
	if _, ok := priorityWeight[priority]; !ok {
		priority = prediction.PriorityMedium
		if in.IsHighComplexity() {
			priority = prediction.PriorityHigh
		}
	}
	hours := in.EstimatedHours
	if hours <= 0 {
		hours = defaultHours
	}
	tasks := float64(in.NumberOfFeatures)
	if tasks <= 0 {
		tasks = 1
	}
	return remoteRequest{
		Priority:   priority,
		Budget:     in.Budget,
		HoursSpent: hours,
		TaskCount:  tasks,
	}
}

func (r *Remote) call(ctx context.Context, payload remoteRequest) (*prediction.NumericEstimate, error) {
	if r.url == "" {
		return nil, fmt.Errorf("prediction service URL is not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call prediction service: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var out remoteResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != "" {
			return nil, fmt.Errorf("prediction service returned %d: %s", resp.StatusCode, out.Error)
		}
		return nil, fmt.Errorf("prediction service returned %d", resp.StatusCode)
	}
	if out.PredictedCost == nil || out.EstimatedTimelineDays == nil {
		return nil, fmt.Errorf("prediction service response is missing fields")
	}

	return &prediction.NumericEstimate{
		PredictedCost:         *out.PredictedCost,
		EstimatedTimelineDays: *out.EstimatedTimelineDays,
	}, nil
}
