package prediction

// Priority values accepted by the numeric predictor
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// NumericInput feeds the combined cost and timeline predictor.
type NumericInput struct {
	HoursSpent float64 `json:"hoursSpent"`
	TaskCount  float64 `json:"taskCount"`
	Budget     float64 `json:"budget"`
	Priority   string  `json:"priority"`
}

// NumericEstimate is the combined predictor result.
type NumericEstimate struct {
	PredictedCost         float64 `json:"predicted_cost"`
	EstimatedTimelineDays float64 `json:"estimated_timeline_days"`
}

// ProjectParams feeds the risk, cost, timeline and recommendation estimators.
type ProjectParams struct {
	Title            string   `json:"title,omitempty"`
	ProjectName      string   `json:"projectName,omitempty"`
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

// Complexity levels
const (
	ComplexityLow      = "Low"
	ComplexityMedium   = "Medium"
	ComplexityHigh     = "High"
	ComplexityVeryHigh = "Very High"
)

// IsHighComplexity reports whether the complexity is High or Very High
func (p ProjectParams) IsHighComplexity() bool {
	return p.ComplexityLevel == ComplexityHigh || p.ComplexityLevel == ComplexityVeryHigh
}

// AsMap renders the params for storage in Prediction.Inputs.
func (p ProjectParams) AsMap() map[string]interface{} {
	m := map[string]interface{}{
		"teamSize":         p.TeamSize,
		"estimatedHours":   p.EstimatedHours,
		"numberOfFeatures": p.NumberOfFeatures,
	}
	setIf := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	setIf("title", p.Title)
	setIf("projectName", p.ProjectName)
	setIf("projectType", p.ProjectType)
	setIf("complexityLevel", p.ComplexityLevel)
	setIf("experienceLevel", p.ExperienceLevel)
	setIf("priority", p.Priority)
	if len(p.TechStack) > 0 {
		stack := make([]interface{}, len(p.TechStack))
		for i, s := range p.TechStack {
			stack[i] = s
		}
		m["techStack"] = stack
	}
	if p.Budget != 0 {
		m["budget"] = p.Budget
	}
	return m
}
