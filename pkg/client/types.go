package client

import "time"

// User is an account as returned by the API
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	LoginCount int       `json:"loginCount"`
	Provider   string    `json:"provider,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Owner is the name and email attached to admin prediction listings
type Owner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Prediction is a stored estimation request and its results
type Prediction struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	ProjectType string                 `json:"projectType"`
	Inputs      map[string]interface{} `json:"inputs"`
	Outputs     Outputs                `json:"outputs"`
	Status      string                 `json:"status"` // pending_ml, completed, failed
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

// AdminPrediction carries the owner summary instead of the owner id
type AdminPrediction struct {
	Prediction
	User *Owner `json:"user"`
}

type Outputs struct {
	Cost            *CostEstimate   `json:"cost,omitempty"`
	Timeline        *Timeline       `json:"timeline,omitempty"`
	Risk            *RiskAssessment `json:"risk,omitempty"`
	Recommendations []string        `json:"recommendations,omitempty"`
}

type CostEstimate struct {
	EstimatedCost float64            `json:"estimatedCost"`
	Currency      string             `json:"currency"`
	Confidence    float64            `json:"confidence"`
	Breakdown     map[string]float64 `json:"breakdown,omitempty"`
}

type Timeline struct {
	EstimatedDurationDays float64 `json:"estimatedDurationDays"`
	Phases                []Phase `json:"phases,omitempty"`
}

type Phase struct {
	Name     string `json:"name"`
	Weeks    int    `json:"weeks"`
	Duration string `json:"duration"`
}

type RiskAssessment struct {
	RiskScore int      `json:"riskScore"`
	Level     string   `json:"level"` // Low, Medium or High
	Factors   []string `json:"factors"`
}

// ProjectInput is the body of POST /predict. Extra carries additional
// metadata stored with the record.
type ProjectInput struct {
	HoursSpent  float64                `json:"hoursSpent"`
	TaskCount   float64                `json:"taskCount"`
	Budget      float64                `json:"budget"`
	Priority    string                 `json:"priority"` // High, Medium or Low
	Title       string                 `json:"title,omitempty"`
	ProjectType string                 `json:"projectType,omitempty"`
	TeamMembers int                    `json:"teamMembers,omitempty"`
	Extra       map[string]interface{} `json:"-"`
}

// PredictResult is the reply of POST /predict. The estimate fields are nil
// while the record is pending_ml.
type PredictResult struct {
	PredictionID          string   `json:"predictionId"`
	Status                string   `json:"status"`
	PredictedCost         *float64 `json:"predictedCost"`
	EstimatedTimelineDays *float64 `json:"estimatedTimelineDays"`
}

// ProjectParams is the body of the analysis endpoints
type ProjectParams struct {
	Title            string   `json:"title,omitempty"`
	ProjectType      string   `json:"projectType,omitempty"`
	TeamSize         int      `json:"teamSize"`
	EstimatedHours   float64  `json:"estimatedHours"`
	ComplexityLevel  string   `json:"complexityLevel,omitempty"`
	ExperienceLevel  string   `json:"experienceLevel,omitempty"`
	NumberOfFeatures int      `json:"numberOfFeatures"`
	TechStack        []string `json:"techStack,omitempty"`
	Budget           float64  `json:"budget,omitempty"`
	Priority         string   `json:"priority,omitempty"`
}

// ListOptions pages through list endpoints
type ListOptions struct {
	Page     int
	PageSize int
}

// Page is one page of a list endpoint
type Page[T any] struct {
	Count    int   `json:"count"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Data     []T   `json:"data"`
}

// HealthResponse represents the API health status
type HealthResponse struct {
	Success bool              `json:"success"`
	Data    map[string]string `json:"data"`
}
