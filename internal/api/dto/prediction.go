package dto

import (
	"github.com/projectcostai/projectcostai/internal/domain/prediction"
)

// PredictRequest is the body of the combined numeric predictor. Every
// other key in the body is stored with the record as metadata.
type PredictRequest struct {
	HoursSpent  *float64 `json:"hoursSpent" validate:"required,gte=0"`
	TaskCount   *float64 `json:"taskCount" validate:"required,gte=0"`
	Budget      *float64 `json:"budget" validate:"required,gte=0"`
	Priority    string   `json:"priority" validate:"required,oneof=High Medium Low"`
	Title       string   `json:"title,omitempty" validate:"omitempty,max=200"`
	ProjectName string   `json:"projectName,omitempty" validate:"omitempty,max=200"`
	ProjectType string   `json:"projectType,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	TeamMembers *int     `json:"teamMembers,omitempty" validate:"omitempty,gte=1"`
}

// ToSubmission builds the service request; raw is the decoded body
func (r PredictRequest) ToSubmission(raw map[string]interface{}) prediction.Submission {
	title := r.Title
	if title == "" {
		title = r.ProjectName
	}
	return prediction.Submission{
		Input: prediction.NumericInput{
			HoursSpent: *r.HoursSpent,
			TaskCount:  *r.TaskCount,
			Budget:     *r.Budget,
			Priority:   r.Priority,
		},
		Title:       title,
		ProjectType: r.ProjectType,
		Inputs:      raw,
	}
}

// PredictResponse carries null estimates while the record is pending. The
// snake_case fields repeat the values under the estimator's wire names.
type PredictResponse struct {
	Success               bool     `json:"success"`
	PredictionID          string   `json:"predictionId"`
	Status                string   `json:"status"`
	PredictedCost         *float64 `json:"predictedCost"`
	EstimatedTimelineDays *float64 `json:"estimatedTimelineDays"`
	PredictedCostSnake    *float64 `json:"predicted_cost"`
	TimelineDaysSnake     *float64 `json:"estimated_timeline_days"`
}

func NewPredictResponse(res *prediction.SubmissionResult) PredictResponse {
	resp := PredictResponse{
		Success:      true,
		PredictionID: res.Prediction.ID,
		Status:       string(res.Prediction.Status),
	}
	if res.Estimate != nil {
		cost := res.Estimate.PredictedCost
		days := res.Estimate.EstimatedTimelineDays
		resp.PredictedCost, resp.PredictedCostSnake = &cost, &cost
		resp.EstimatedTimelineDays, resp.TimelineDaysSnake = &days, &days
	}
	return resp
}

// AnalysisRequest is the body of the multi-facet analysis endpoints
type AnalysisRequest struct {
	Title            string   `json:"title,omitempty" validate:"omitempty,max=200"`
	ProjectName      string   `json:"projectName,omitempty" validate:"omitempty,max=200"`
	ProjectType      string   `json:"projectType,omitempty"`
	TeamSize         int      `json:"teamSize" validate:"gte=0,lte=10000"`
	EstimatedHours   float64  `json:"estimatedHours" validate:"gte=0"`
	ComplexityLevel  string   `json:"complexityLevel,omitempty" validate:"omitempty,oneof=Low Medium High 'Very High'"`
	ExperienceLevel  string   `json:"experienceLevel,omitempty"`
	NumberOfFeatures int      `json:"numberOfFeatures" validate:"gte=0"`
	TechStack        []string `json:"techStack,omitempty" validate:"omitempty,max=50,dive,max=100"`
	Budget           float64  `json:"budget,omitempty" validate:"gte=0"`
	Priority         string   `json:"priority,omitempty" validate:"omitempty,oneof=High Medium Low"`
}

func (r AnalysisRequest) ToDomain(raw map[string]interface{}) prediction.AnalysisRequest {
	return prediction.AnalysisRequest{
		Params: prediction.ProjectParams{
			Title:            r.Title,
			ProjectName:      r.ProjectName,
			ProjectType:      r.ProjectType,
			TeamSize:         r.TeamSize,
			EstimatedHours:   r.EstimatedHours,
			ComplexityLevel:  r.ComplexityLevel,
			ExperienceLevel:  r.ExperienceLevel,
			NumberOfFeatures: r.NumberOfFeatures,
			TechStack:        r.TechStack,
			Budget:           r.Budget,
			Priority:         r.Priority,
		},
		Inputs: raw,
	}
}

// AnalysisResponse wraps the estimate of an analysis endpoint
type AnalysisResponse struct {
	Success      bool        `json:"success"`
	Data         interface{} `json:"data"`
	PredictionID string      `json:"predictionId,omitempty"`
}

// ListResponse is a page of records
type ListResponse struct {
	Success  bool        `json:"success"`
	Count    int         `json:"count"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
	Data     interface{} `json:"data"`
}

// CompareResponse lists the comparable predictions
type CompareResponse struct {
	Success bool                     `json:"success"`
	Count   int                      `json:"count"`
	Data    []*prediction.Prediction `json:"data"`
}
