// Package estimation turns project parameters into cost, timeline and risk
// estimates. Callers depend on the Estimator interface; New picks the
// heuristic or remote implementation from configuration.
package estimation

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/projectcostai/projectcostai/internal/config"
	"github.com/projectcostai/projectcostai/internal/domain/prediction"
	"github.com/projectcostai/projectcostai/internal/pkg/logger"
)

// Estimator is implemented by every estimation backend.
type Estimator interface {
	PredictRisk(ctx context.Context, in prediction.ProjectParams) (*prediction.RiskAssessment, error)
	PredictCost(ctx context.Context, in prediction.ProjectParams) (*prediction.CostEstimate, error)
	PredictTimeline(ctx context.Context, in prediction.ProjectParams) (*prediction.Timeline, error)
	GenerateRecommendations(ctx context.Context, in prediction.ProjectParams) ([]string, error)

	// PredictProject is the combined numeric predictor behind POST /predict.
	PredictProject(ctx context.Context, in prediction.NumericInput) (*prediction.NumericEstimate, error)
}

// Error wraps any failure of an estimation backend, whether transport,
// decoding, upstream status or configuration.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("estimator %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// New builds the estimator selected by cfg.Mode. When an OpenAI key is
// configured the result is wrapped in an Advisor.
func New(cfg config.EstimatorConfig, log *logger.Logger) (Estimator, error) {
	heuristic := NewHeuristic(cfg.SimulatedDelay)

	var est Estimator
	switch cfg.Mode {
	case "", "heuristic":
		est = heuristic
	case "remote":
		est = NewRemote(cfg.ServiceURL, &http.Client{Timeout: cfg.Timeout}, heuristic)
	default:
		return nil, fmt.Errorf("unknown estimator mode %q", cfg.Mode)
	}

	if cfg.OpenAIAPIKey != "" {
		est = NewAdvisor(est, openai.NewClient(cfg.OpenAIAPIKey), cfg.OpenAIModel, log)
	}

	log.WithFields(map[string]interface{}{
		"mode":    cfg.Mode,
		"advisor": cfg.OpenAIAPIKey != "",
	}).Info("Estimator configured")

	return est, nil
}
