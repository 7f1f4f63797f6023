package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/projectcostai/projectcostai/internal/domain/prediction"
)

func fullPrediction() *prediction.Prediction {
	return &prediction.Prediction{
		ID:          "p-1",
		UserID:      "u-1",
		Title:       "Billing, v2 \"rewrite\"",
		ProjectType: prediction.ProjectTypeSoftware,
		Status:      prediction.StatusCompleted,
		CreatedAt:   time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		Outputs: prediction.Outputs{
			Risk: &prediction.RiskAssessment{RiskScore: 55, Level: "Medium", Factors: []string{"Large team size may increase communication overhead"}},
			Cost: &prediction.CostEstimate{
				EstimatedCost: 15600, Currency: "USD", Confidence: 85,
				Breakdown: &prediction.CostBreakdown{Development: 9360, Infrastructure: 2340, Design: 2340, Marketing: 1560},
			},
			Timeline: &prediction.Timeline{
				EstimatedDurationDays: 35,
				Phases:                []prediction.Phase{{Name: "Development", Weeks: 3, Duration: "3 weeks"}},
			},
			Recommendations: []string{"Use feature flags, and ship small"},
		},
	}
}

func costOnly() *prediction.Prediction {
	p := fullPrediction()
	p.Outputs = prediction.Outputs{Cost: &prediction.CostEstimate{EstimatedCost: 1200.5, Currency: "USD", Confidence: 85}}
	return p
}

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("csv parse: %v", err)
	}
	return rows
}

func categories(rows [][]string) map[string]int {
	out := map[string]int{}
	for _, r := range rows[1:] {
		out[r[0]]++
	}
	return out
}

func TestRenderCSV_Full(t *testing.T) {
	data, err := RenderCSV(fullPrediction())
	if err != nil {
		t.Fatalf("RenderCSV() error = %v", err)
	}

	if !strings.HasPrefix(string(data), "Category,Metric,Value\n") {
		t.Errorf("header missing: %q", string(data[:40]))
	}
	if !strings.Contains(string(data), `"Billing, v2 ""rewrite"""`) {
		t.Errorf("title not quoted: %s", data)
	}

	rows := parseCSV(t, data)
	if rows[1][2] != `Billing, v2 "rewrite"` {
		t.Errorf("title round trip = %q", rows[1][2])
	}
	cats := categories(rows)
	for _, c := range []string{"Info", "Risk", "Cost", "Timeline", "Recommendations"} {
		if cats[c] == 0 {
			t.Errorf("missing %s rows", c)
		}
	}

	found := false
	for _, r := range rows {
		if r[0] == "Cost" && r[1] == "Confidence" {
			found = r[2] == "85%"
		}
	}
	if !found {
		t.Error("Cost,Confidence,85% row missing")
	}
}

func TestRenderCSV_CostOnly(t *testing.T) {
	data, err := RenderCSV(costOnly())
	if err != nil {
		t.Fatalf("RenderCSV() error = %v", err)
	}
	cats := categories(parseCSV(t, data))
	for _, c := range []string{"Risk", "Timeline", "Recommendations"} {
		if cats[c] != 0 {
			t.Errorf("unexpected %s rows", c)
		}
	}
	if cats["Cost"] != 3 {
		t.Errorf("Cost rows = %d, want 3", cats["Cost"])
	}
}

func TestRenderPDF(t *testing.T) {
	tests := []struct {
		name    string
		pred    *prediction.Prediction
		want    []string
		notWant []string
	}{
		{
			name: "full",
			pred: fullPrediction(),
			want: []string{"ProjectCostAI Report", "Risk Analysis", "Cost Breakdown", "Timeline", "Recommendations", "$15,600"},
		},
		{
			name:    "cost only",
			pred:    costOnly(),
			want:    []string{"Cost Breakdown", "$1,200.50"},
			notWant: []string{"Risk Analysis", "Duration:", "Recommendations"},
		},
		{
			name: "pending",
			pred: func() *prediction.Prediction {
				p := fullPrediction()
				p.Outputs = prediction.Outputs{}
				p.Status = prediction.StatusPendingML
				return p
			}(),
			want:    []string{"not available yet"},
			notWant: []string{"Cost Breakdown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := renderPDF(tt.pred, false)
			if err != nil {
				t.Fatalf("renderPDF() error = %v", err)
			}
			if !bytes.HasPrefix(data, []byte("%PDF-")) {
				t.Fatal("output is not a PDF")
			}
			for _, s := range tt.want {
				if !bytes.Contains(data, []byte(s)) {
					t.Errorf("PDF missing %q", s)
				}
			}
			for _, s := range tt.notWant {
				if bytes.Contains(data, []byte(s)) {
					t.Errorf("PDF unexpectedly contains %q", s)
				}
			}
		})
	}

	compressed, err := RenderPDF(costOnly())
	if err != nil || !bytes.HasPrefix(compressed, []byte("%PDF-")) {
		t.Errorf("RenderPDF() = %d bytes, err %v", len(compressed), err)
	}
}

func TestFormat(t *testing.T) {
	p := &prediction.Prediction{ID: "abc"}
	if got := FormatCSV.Filename(p); got != "prediction-abc.csv" {
		t.Errorf("Filename() = %q", got)
	}
	if got := FormatPDF.ContentType(); got != "application/pdf" {
		t.Errorf("ContentType() = %q", got)
	}
	if _, err := Render(Format("xls"), p); err == nil {
		t.Error("Render() expected error for unknown format")
	}
}
