package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/projectcostai/projectcostai/internal/domain/prediction"
)

// RenderCSV writes Category,Metric,Value rows. encoding/csv quotes values
// containing commas, quotes or newlines.
func RenderCSV(p *prediction.Prediction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"Category", "Metric", "Value"},
		{"Info", "Project Title", p.Title},
		{"Info", "Project Type", string(p.ProjectType)},
		{"Info", "Date", p.CreatedAt.UTC().Format(time.RFC3339)},
		{"Info", "Status", string(p.Status)},
	}

	out := p.Outputs
	if out.Risk != nil {
		rows = append(rows,
			[]string{"Risk", "Level", out.Risk.Level},
			[]string{"Risk", "Score", fmt.Sprintf("%d", out.Risk.RiskScore)},
		)
		for _, f := range out.Risk.Factors {
			rows = append(rows, []string{"Risk", "Factor", f})
		}
	}

	if out.Cost != nil {
		rows = append(rows,
			[]string{"Cost", "Estimated Cost", formatNumber(out.Cost.EstimatedCost)},
			[]string{"Cost", "Currency", out.Cost.Currency},
			[]string{"Cost", "Confidence", formatNumber(out.Cost.Confidence) + "%"},
		)
		if b := out.Cost.Breakdown; b != nil {
			rows = append(rows,
				[]string{"Cost", "Development", formatNumber(b.Development)},
				[]string{"Cost", "Infrastructure", formatNumber(b.Infrastructure)},
				[]string{"Cost", "Design", formatNumber(b.Design)},
				[]string{"Cost", "Marketing", formatNumber(b.Marketing)},
			)
		}
	}

	if out.Timeline != nil {
		rows = append(rows, []string{"Timeline", "Duration (Days)", formatNumber(out.Timeline.EstimatedDurationDays)})
		for _, ph := range out.Timeline.Phases {
			rows = append(rows, []string{"Timeline", ph.Name, ph.Duration})
		}
	}

	for i, r := range out.Recommendations {
		rows = append(rows, []string{"Recommendations", fmt.Sprintf("#%d", i+1), r})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}
