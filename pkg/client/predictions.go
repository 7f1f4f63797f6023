package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// PredictionService runs the estimation endpoints
type PredictionService struct {
	client *Client
}

// Predict submits project inputs to the combined cost and timeline
// predictor. A pending_ml status with nil estimates means the estimator was
// unavailable; the record is stored anyway.
func (s *PredictionService) Predict(ctx context.Context, in ProjectInput) (*PredictResult, error) {
	body, err := predictBody(in)
	if err != nil {
		return nil, err
	}

	var resp PredictResult
	if err := s.client.doRequest(ctx, http.MethodPost, "/predict", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func predictBody(in ProjectInput) (map[string]interface{}, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	body := make(map[string]interface{}, len(in.Extra)+8)
	for k, v := range in.Extra {
		body[k] = v
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	return body, nil
}

// AnalysisResult is the reply of an analysis endpoint
type AnalysisResult[T any] struct {
	PredictionID string `json:"predictionId"`
	Data         T      `json:"data"`
}

func analyze[T any](ctx context.Context, c *Client, path string, params ProjectParams) (*AnalysisResult[T], error) {
	var resp AnalysisResult[T]
	if err := c.doRequest(ctx, http.MethodPost, path, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Risk scores the project risk
func (s *PredictionService) Risk(ctx context.Context, p ProjectParams) (*AnalysisResult[RiskAssessment], error) {
	return analyze[RiskAssessment](ctx, s.client, "/predict/risk-analysis", p)
}

// Cost breaks the estimated cost down by category
func (s *PredictionService) Cost(ctx context.Context, p ProjectParams) (*AnalysisResult[CostEstimate], error) {
	return analyze[CostEstimate](ctx, s.client, "/predict/cost-breakdown", p)
}

// Timeline splits the estimated duration into phases
func (s *PredictionService) Timeline(ctx context.Context, p ProjectParams) (*AnalysisResult[Timeline], error) {
	return analyze[Timeline](ctx, s.client, "/predict/timeline-breakdown", p)
}

// Recommendations returns advice for the project
func (s *PredictionService) Recommendations(ctx context.Context, p ProjectParams) (*AnalysisResult[[]string], error) {
	return analyze[[]string](ctx, s.client, "/predict/recommendations", p)
}

// Full runs all four analyses and stores them as one prediction
func (s *PredictionService) Full(ctx context.Context, p ProjectParams) (*AnalysisResult[Outputs], error) {
	return analyze[Outputs](ctx, s.client, "/predict/full-analysis", p)
}
