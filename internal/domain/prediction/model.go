package prediction

import "time"

// Status is the lifecycle state of a stored prediction
type Status string

const (
	// StatusPendingML means the record was stored but no estimate has been
	// merged into it yet.
	StatusPendingML Status = "pending_ml"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

type ProjectType string

const (
	ProjectTypeSoftware     ProjectType = "Software"
	ProjectTypeConstruction ProjectType = "Construction"
	ProjectTypeMarketing    ProjectType = "Marketing"
	ProjectTypeOther        ProjectType = "Other"
)

// ParseProjectType maps free text onto the known project types, defaulting
// to Software.
func ParseProjectType(s string) ProjectType {
	switch ProjectType(s) {
	case ProjectTypeSoftware, ProjectTypeConstruction, ProjectTypeMarketing, ProjectTypeOther:
		return ProjectType(s)
	case "":
		return ProjectTypeSoftware
	default:
		return ProjectTypeOther
	}
}

// Prediction is a stored estimation request and its results.
type Prediction struct {
	ID          string                 `json:"id"`
	UserID      string                 `json:"user"`
	Title       string                 `json:"title"`
	ProjectType ProjectType            `json:"projectType"`
	Inputs      map[string]interface{} `json:"inputs"`
	Outputs     Outputs                `json:"outputs"`
	Status      Status                 `json:"status"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

// Outputs holds the estimates. Every part is optional; a pending record has
// all of them empty.
type Outputs struct {
	Cost            *CostEstimate   `json:"cost,omitempty"`
	Timeline        *Timeline       `json:"timeline,omitempty"`
	Risk            *RiskAssessment `json:"risk,omitempty"`
	Recommendations []string        `json:"recommendations,omitempty"`
}

// IsEmpty reports whether no estimate has been recorded
func (o Outputs) IsEmpty() bool {
	return o.Cost == nil && o.Timeline == nil && o.Risk == nil && len(o.Recommendations) == 0
}

type CostEstimate struct {
	EstimatedCost float64        `json:"estimatedCost"`
	Currency      string         `json:"currency"`
	Confidence    float64        `json:"confidence"`
	Breakdown     *CostBreakdown `json:"breakdown,omitempty"`
}

type CostBreakdown struct {
	Development    float64 `json:"development"`
	Infrastructure float64 `json:"infrastructure"`
	Design         float64 `json:"design"`
	Marketing      float64 `json:"marketing"`
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
	Level     string   `json:"level"`
	Factors   []string `json:"factors"`
}

// Risk levels
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// OwnedBy reports whether userID owns the prediction
func (p *Prediction) OwnedBy(userID string) bool {
	return p.UserID == userID
}

// Filter narrows repository listings
type Filter struct {
	UserID string
	Status Status
	Limit  int
	Offset int
}
