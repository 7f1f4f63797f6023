package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/projectcostai/projectcostai/internal/domain/prediction"
)

const (
	pageMargin = 15.0
	lineHeight = 7.0
)

// RenderPDF lays out the report on A4 pages. Sections appear in the order
// risk, cost, timeline, recommendations.
func RenderPDF(p *prediction.Prediction) ([]byte, error) {
	return renderPDF(p, true)
}

func renderPDF(p *prediction.Prediction, compress bool) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(Title, true)
	pdf.SetCreator("ProjectCostAI", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-pageMargin)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Generated by ProjectCostAI - page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 14, Title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	line := func(s string) {
		pdf.MultiCell(0, lineHeight, tr(s), "", "L", false)
	}
	line("Project: " + p.Title)
	line("Type: " + string(p.ProjectType))
	line("Date: " + p.CreatedAt.Format("Jan 2, 2006"))

	pageW, _ := pdf.GetPageSize()
	pdf.Ln(2)
	pdf.Line(pageMargin, pdf.GetY(), pageW-pageMargin, pdf.GetY())
	pdf.Ln(4)

	heading := func(s string) {
		pdf.SetFont("Helvetica", "BU", 15)
		pdf.CellFormat(0, 9, s, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
	}

	out := p.Outputs
	if out.IsEmpty() {
		pdf.SetFont("Helvetica", "I", 12)
		line("The estimate for this project is not available yet.")
	}

	if out.Risk != nil {
		heading("Risk Analysis")
		line("Risk Level: " + out.Risk.Level)
		line(fmt.Sprintf("Risk Score: %d", out.Risk.RiskScore))
		for _, f := range out.Risk.Factors {
			line("- " + f)
		}
		pdf.Ln(4)
	}

	if out.Cost != nil {
		heading("Cost Breakdown")
		line("Estimated Cost: " + formatMoney(out.Cost.Currency, out.Cost.EstimatedCost))
		line(fmt.Sprintf("Confidence: %s%%", formatNumber(out.Cost.Confidence)))
		if b := out.Cost.Breakdown; b != nil {
			line("Development: " + formatMoney(out.Cost.Currency, b.Development))
			line("Infrastructure: " + formatMoney(out.Cost.Currency, b.Infrastructure))
			line("Design: " + formatMoney(out.Cost.Currency, b.Design))
			line("Marketing: " + formatMoney(out.Cost.Currency, b.Marketing))
		}
		pdf.Ln(4)
	}

	if out.Timeline != nil {
		heading("Timeline")
		line(fmt.Sprintf("Duration: %s Days", formatNumber(out.Timeline.EstimatedDurationDays)))
		for _, ph := range out.Timeline.Phases {
			line(fmt.Sprintf("%s: %s", ph.Name, ph.Duration))
		}
		pdf.Ln(4)
	}

	if len(out.Recommendations) > 0 {
		heading("Recommendations")
		for _, r := range out.Recommendations {
			line("• " + r)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
