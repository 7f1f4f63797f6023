package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/projectcostai/projectcostai/internal/auth"
	"github.com/projectcostai/projectcostai/internal/domain/prediction"
	"github.com/projectcostai/projectcostai/internal/domain/user"
	"github.com/projectcostai/projectcostai/internal/estimation"
	"github.com/projectcostai/projectcostai/internal/pkg/errors"
	"github.com/projectcostai/projectcostai/internal/pkg/logger"
	"github.com/projectcostai/projectcostai/internal/pkg/metrics"
)

const (
	defaultCurrency   = "USD"
	defaultConfidence = 85
	maxCompareIDs     = 20
)

// PredictionService implements prediction.Service
type PredictionService struct {
	repo      prediction.Repository
	users     user.Repository
	estimator estimation.Estimator
	logger    *logger.Logger
	now       func() time.Time
}

// NewPredictionService creates a new prediction service
func NewPredictionService(repo prediction.Repository, users user.Repository, est estimation.Estimator, log *logger.Logger) prediction.Service {
	return &PredictionService{
		repo:      repo,
		users:     users,
		estimator: est,
		logger:    log,
		now:       time.Now,
	}
}

func (s *PredictionService) Submit(ctx context.Context, caller auth.Identity, sub prediction.Submission) (*prediction.SubmissionResult, error) {
	p := &prediction.Prediction{
		UserID:      caller.UserID,
		Title:       s.title(sub.Title, "Cost & Timeline"),
		ProjectType: prediction.ParseProjectType(sub.ProjectType),
		Inputs:      sub.Inputs,
		Status:      prediction.StatusPendingML,
		CreatedAt:   s.now().UTC(),
	}
	if p.Inputs == nil {
		p.Inputs = map[string]interface{}{}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.ErrorWithErr(err, "Failed to store pending prediction")
		return nil, err
	}

	start := time.Now()
	est, err := s.estimator.PredictProject(ctx, sub.Input)
	metrics.RecordEstimatorCall("project", err, time.Since(start))
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"prediction_id": p.ID,
			"user_id":       caller.UserID,
		}).WithError(err).Warn("Estimator failed, prediction left pending")
		metrics.RecordPrediction("project", string(prediction.StatusPendingML))
		return &prediction.SubmissionResult{Prediction: p}, nil
	}

	p.Outputs = prediction.Outputs{
		Cost: &prediction.CostEstimate{
			EstimatedCost: est.PredictedCost,
			Currency:      defaultCurrency,
			Confidence:    defaultConfidence,
		},
		Timeline: &prediction.Timeline{
			EstimatedDurationDays: est.EstimatedTimelineDays,
		},
	}
	p.Status = prediction.StatusCompleted

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.ErrorWithErr(err, "Failed to store prediction result")
		return nil, err
	}
	metrics.RecordPrediction("project", string(prediction.StatusCompleted))

	s.logger.WithFields(map[string]interface{}{
		"prediction_id": p.ID,
		"user_id":       caller.UserID,
	}).Info("Prediction completed")

	return &prediction.SubmissionResult{Prediction: p, Estimate: est}, nil
}

func (s *PredictionService) Analyze(ctx context.Context, caller auth.Identity, kind prediction.Analysis, req prediction.AnalysisRequest) (*prediction.AnalysisResult, error) {
	var outputs prediction.Outputs
	var data interface{}
	var err error

	start := time.Now()
	switch kind {
	case prediction.AnalysisRisk:
		outputs.Risk, err = s.estimator.PredictRisk(ctx, req.Params)
		data = outputs.Risk
	case prediction.AnalysisCost:
		outputs.Cost, err = s.estimator.PredictCost(ctx, req.Params)
		data = outputs.Cost
	case prediction.AnalysisTimeline:
		outputs.Timeline, err = s.estimator.PredictTimeline(ctx, req.Params)
		data = outputs.Timeline
	case prediction.AnalysisRecommendations:
		outputs.Recommendations, err = s.estimator.GenerateRecommendations(ctx, req.Params)
		data = outputs.Recommendations
	case prediction.AnalysisFull:
		outputs, err = s.fullAnalysis(ctx, req.Params)
		data = outputs
	default:
		return nil, errors.BadRequest(fmt.Sprintf("Unknown analysis %q", kind))
	}
	metrics.RecordEstimatorCall(string(kind), err, time.Since(start))

	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"analysis": string(kind),
			"user_id":  caller.UserID,
		}).WithError(err).Error("Analysis failed")
		metrics.RecordPrediction(string(kind), string(prediction.StatusFailed))
		return nil, errors.EstimatorError(string(kind), err)
	}

	inputs := req.Inputs
	if inputs == nil {
		inputs = req.Params.AsMap()
	}
	title := req.Params.Title
	if title == "" {
		title = req.Params.ProjectName
	}

	p := &prediction.Prediction{
		UserID:      caller.UserID,
		Title:       s.title(title, kind.Label()),
		ProjectType: prediction.ParseProjectType(req.Params.ProjectType),
		Inputs:      inputs,
		Outputs:     outputs,
		Status:      prediction.StatusCompleted,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.ErrorWithErr(err, "Failed to store analysis")
		return nil, err
	}
	metrics.RecordPrediction(string(kind), string(prediction.StatusCompleted))

	return &prediction.AnalysisResult{Prediction: p, Data: data}, nil
}

// fullAnalysis runs the four estimators concurrently. The first failure
// cancels the rest.
func (s *PredictionService) fullAnalysis(ctx context.Context, params prediction.ProjectParams) (prediction.Outputs, error) {
	var out prediction.Outputs
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		risk, err := s.estimator.PredictRisk(gctx, params)
		out.Risk = risk
		return err
	})
	g.Go(func() error {
		cost, err := s.estimator.PredictCost(gctx, params)
		out.Cost = cost
		return err
	})
	g.Go(func() error {
		timeline, err := s.estimator.PredictTimeline(gctx, params)
		out.Timeline = timeline
		return err
	})
	g.Go(func() error {
		recs, err := s.estimator.GenerateRecommendations(gctx, params)
		out.Recommendations = recs
		return err
	})

	if err := g.Wait(); err != nil {
		return prediction.Outputs{}, err
	}
	return out, nil
}

func (s *PredictionService) History(ctx context.Context, caller auth.Identity, limit, offset int) ([]*prediction.Prediction, int64, error) {
	return s.repo.List(ctx, prediction.Filter{UserID: caller.UserID, Limit: limit, Offset: offset})
}

func (s *PredictionService) UserHistory(ctx context.Context, caller auth.Identity, userID string, limit, offset int) ([]*prediction.Prediction, int64, error) {
	if caller.UserID != userID && !caller.IsAdmin() {
		return nil, 0, errors.Forbidden("Not authorized to view this history")
	}
	return s.repo.List(ctx, prediction.Filter{UserID: userID, Limit: limit, Offset: offset})
}

func (s *PredictionService) Compare(ctx context.Context, caller auth.Identity, ids []string) ([]*prediction.Prediction, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, errors.BadRequest("Please provide prediction IDs to compare")
	}
	if len(ids) > maxCompareIDs {
		return nil, errors.BadRequest(fmt.Sprintf("At most %d predictions can be compared", maxCompareIDs))
	}
	return s.repo.ListByIDsForUser(ctx, ids, caller.UserID)
}

func (s *PredictionService) Get(ctx context.Context, caller auth.Identity, id string) (*prediction.Prediction, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.OwnedBy(caller.UserID) && !caller.IsAdmin() {
		return nil, errors.Unauthorized("Not authorized")
	}
	return p, nil
}

func (s *PredictionService) Delete(ctx context.Context, caller auth.Identity, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.OwnedBy(caller.UserID) && !caller.IsAdmin() {
		return errors.Unauthorized("Not authorized to delete this prediction")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.ErrorWithErr(err, "Failed to delete prediction")
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"prediction_id": id,
		"owner_id":      p.UserID,
		"deleted_by":    caller.UserID,
	}).Info("Prediction deleted")
	return nil
}

func (s *PredictionService) ListAll(ctx context.Context, limit, offset int) ([]*prediction.WithOwner, int64, error) {
	list, total, err := s.repo.List(ctx, prediction.Filter{Limit: limit, Offset: offset})
	if err != nil {
		return nil, 0, err
	}

	owners := make(map[string]*user.Summary)
	result := make([]*prediction.WithOwner, 0, len(list))
	for _, p := range list {
		summary, seen := owners[p.UserID]
		if !seen {
			u, err := s.users.GetByID(ctx, p.UserID)
			switch {
			case err == nil:
				sum := u.Summary()
				summary = &sum
			case !errors.Is(err, errors.ErrCodeNotFound):
				return nil, 0, err
			}
			owners[p.UserID] = summary
		}
		result = append(result, &prediction.WithOwner{Prediction: p, User: summary})
	}
	return result, total, nil
}

func (s *PredictionService) title(given, label string) string {
	if t := strings.TrimSpace(given); t != "" {
		return t
	}
	return fmt.Sprintf("%s Analysis - %s", label, s.now().UTC().Format(time.RFC3339))
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
