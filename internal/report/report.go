// Package report renders stored predictions as downloadable documents.
// Renderers are pure functions of the prediction; every output section is
// optional and omitted when absent.
package report

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/projectcostai/projectcostai/internal/domain/prediction"
)

// Title is the heading printed on every report.
const Title = "ProjectCostAI Report"

// Format identifies a report encoding.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatCSV Format = "csv"
)

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// Filename returns the attachment name for a prediction in this format.
func (f Format) Filename(p *prediction.Prediction) string {
	return fmt.Sprintf("prediction-%s.%s", p.ID, f)
}

// Render dispatches to the renderer for f.
func Render(f Format, p *prediction.Prediction) ([]byte, error) {
	switch f {
	case FormatPDF:
		return RenderPDF(p)
	case FormatCSV:
		return RenderCSV(p)
	default:
		return nil, fmt.Errorf("unsupported report format %q", f)
	}
}

var printer = message.NewPrinter(language.English)

// formatMoney renders an amount with thousands separators, dropping the
// fraction for whole numbers.
func formatMoney(currency string, v float64) string {
	symbol := currency + " "
	if currency == "" || currency == "USD" {
		symbol = "$"
	}
	if v == float64(int64(v)) {
		return printer.Sprintf("%s%d", symbol, int64(v))
	}
	return printer.Sprintf("%s%.2f", symbol, v)
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
