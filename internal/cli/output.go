package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

var (
	stdout       io.Writer = os.Stdout
	moneyPrinter           = message.NewPrinter(language.MustParse("en-IN"))
)

// Table collects rows and prints them column aligned
type Table struct {
	headers []string
	rows    [][]string
}

func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends a row, padding or cutting it to the header width
func (t *Table) AddRow(cols ...string) {
	row := make([]string, len(t.headers))
	copy(row, cols)
	t.rows = append(t.rows, row)
}

func (t *Table) Render() {
	t.Fprint(stdout)
}

// Fprint prints the header, an underline and every row to w
func (t *Table) Fprint(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	line := func(cols []string) { fmt.Fprintln(tw, strings.Join(cols, "\t")) }

	line(t.headers)
	under := make([]string, len(t.headers))
	for i, h := range t.headers {
		under[i] = strings.Repeat("-", len(h))
	}
	line(under)
	for _, row := range t.rows {
		line(row)
	}
	if len(t.rows) == 0 {
		fmt.Fprintln(tw, "(none)")
	}
	tw.Flush()
}

// printOutput encodes data as JSON or YAML. Table output is rendered by the
// commands themselves, so it falls back to JSON here.
func printOutput(data interface{}) error {
	if getOutputFormat() == "yaml" {
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

func formatRisk(level string) string {
	switch strings.ToLower(level) {
	case "high":
		return "[H] High"
	case "medium":
		return "[M] Medium"
	case "low":
		return "[L] Low"
	default:
		return level
	}
}

func formatStatus(status string) string {
	switch status {
	case "completed":
		return "[+] " + status
	case "failed":
		return "[-] " + status
	case "pending_ml":
		return "[*] " + status
	default:
		return status
	}
}

// formatMoney groups digits for the en-IN locale
func formatMoney(v float64) string {
	return moneyPrinter.Sprintf("%.0f", v)
}

func formatDays(v float64) string {
	return fmt.Sprintf("%.1f days", v)
}
