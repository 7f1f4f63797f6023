package prediction

import (
	"context"

	"github.com/projectcostai/projectcostai/internal/auth"
	"github.com/projectcostai/projectcostai/internal/domain/user"
)

// Analysis names a hard-fail estimation entry point
type Analysis string

const (
	AnalysisRisk            Analysis = "risk"
	AnalysisCost            Analysis = "cost"
	AnalysisTimeline        Analysis = "timeline"
	AnalysisRecommendations Analysis = "recommendations"
	AnalysisFull            Analysis = "full"
)

// Label is the human name used in default record titles
func (a Analysis) Label() string {
	switch a {
	case AnalysisRisk:
		return "Risk"
	case AnalysisCost:
		return "Cost"
	case AnalysisTimeline:
		return "Timeline"
	case AnalysisRecommendations:
		return "Recommendations"
	case AnalysisFull:
		return "Full Analysis"
	}
	return string(a)
}

// Submission is a request to the combined numeric predictor. Inputs holds
// the raw client payload stored alongside the record.
type Submission struct {
	Input       NumericInput
	Title       string
	ProjectType string
	Inputs      map[string]interface{}
}

// SubmissionResult carries the stored record. Estimate is nil when the
// estimator failed and the record was left pending.
type SubmissionResult struct {
	Prediction *Prediction
	Estimate   *NumericEstimate
}

// AnalysisRequest feeds one of the multi-facet entry points
type AnalysisRequest struct {
	Params ProjectParams
	Inputs map[string]interface{}
}

// AnalysisResult is the estimator output and the record it was saved to
type AnalysisResult struct {
	Prediction *Prediction
	Data       interface{}
}

// WithOwner is a prediction with its owner summary attached, as shown to
// admins. A nil User means the owner no longer exists.
type WithOwner struct {
	*Prediction
	User *user.Summary `json:"user"`
}

// Service defines the prediction lifecycle operations
type Service interface {
	// Submit persists a pending record, runs the numeric predictor and
	// completes the record. Estimator failure is not an error.
	Submit(ctx context.Context, caller auth.Identity, s Submission) (*SubmissionResult, error)

	// Analyze runs a multi-facet estimate and persists one completed record.
	// Estimator failure is an error and nothing is stored.
	Analyze(ctx context.Context, caller auth.Identity, kind Analysis, req AnalysisRequest) (*AnalysisResult, error)

	History(ctx context.Context, caller auth.Identity, limit, offset int) ([]*Prediction, int64, error)

	// UserHistory lists another user's predictions for that user or an admin
	UserHistory(ctx context.Context, caller auth.Identity, userID string, limit, offset int) ([]*Prediction, int64, error)

	// Compare returns the caller's predictions among ids
	Compare(ctx context.Context, caller auth.Identity, ids []string) ([]*Prediction, error)

	// Get returns a prediction owned by the caller, or any for admins
	Get(ctx context.Context, caller auth.Identity, id string) (*Prediction, error)

	Delete(ctx context.Context, caller auth.Identity, id string) error

	// ListAll returns every prediction with its owner attached
	ListAll(ctx context.Context, limit, offset int) ([]*WithOwner, int64, error)
}
