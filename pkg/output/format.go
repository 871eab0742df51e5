// Package output provides utilities for formatting and displaying simulation results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/property-yield/internal/regime"
	"github.com/iwvelando/property-yield/internal/simulation"
	"github.com/iwvelando/property-yield/pkg/constants"
	"github.com/iwvelando/property-yield/pkg/format"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Write renders results in the named output format.
func Write(w io.Writer, outputFormat string, results []simulation.Result) error {
	switch outputFormat {
	case constants.OutputFormatPretty, "":
		return WritePretty(w, results)
	case constants.OutputFormatCSV:
		return WriteCSV(w, results)
	case constants.OutputFormatJSON:
		return WriteJSON(w, results)
	case constants.OutputFormatHTML:
		return WriteHTML(w, results)
	default:
		return fmt.Errorf("unsupported output format %s", outputFormat)
	}
}

// ContentType returns the MIME type of an output format.
func ContentType(outputFormat string) string {
	switch outputFormat {
	case constants.OutputFormatCSV:
		return "text/csv; charset=utf-8"
	case constants.OutputFormatJSON:
		return "application/json"
	case constants.OutputFormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// WritePretty writes a plain text report, one block per scenario.
func WritePretty(w io.Writer, results []simulation.Result) error {
	for i, result := range results {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintf(w, "--- Results for scenario %s ---\n", result.Name)

		section := ""
		for _, r := range acquisitionRows(result) {
			if r.section != section {
				section = r.section
				_, _ = fmt.Fprintf(w, "%s\n", strings.ToUpper(section))
			}
			_, _ = fmt.Fprintf(w, "  %-26s | %s\n", r.metric, r.display())
		}

		_, _ = fmt.Fprintf(w, "ENTITY (ownership %s, marginal rate %s)\n",
			format.Percent(result.Entity.OwnershipPercent), format.Percent(result.Entity.MarginalTaxRate))
		for _, res := range result.Selected() {
			_, _ = fmt.Fprintf(w, "  %s\n", regimeTitle(res.Regime))
			for _, r := range regimeRows(res) {
				_, _ = fmt.Fprintf(w, "    %-24s | %s\n", r.metric, r.display())
			}
		}
		_, _ = fmt.Fprintf(w, "RECOMMENDATION\n  %s\n", recommendation(result.Regimes.Comparison))

		for _, warning := range result.Warnings {
			_, _ = fmt.Fprintf(w, "WARNING %s\n", warning)
		}
	}
	return nil
}

// WriteCSV writes one record per figure: scenario, section, metric, value.
// Break-even values are months with 0 for immediate and -1 for never.
func WriteCSV(w io.Writer, results []simulation.Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"scenario", "section", "metric", "value"}); err != nil {
		return err
	}

	for _, result := range results {
		rows := acquisitionRows(result)
		for _, res := range result.Selected() {
			rows = append(rows, regimeRows(res)...)
		}
		for _, r := range rows {
			if err := writer.Write([]string{result.Name, r.section, r.metric, csvValue(r)}); err != nil {
				return err
			}
		}
		comparison := result.Regimes.Comparison
		records := [][]string{
			{result.Name, "comparison", "Best regime", string(comparison.BestRegime)},
			{result.Name, "comparison", "Annual difference", strconv.FormatFloat(comparison.AnnualDifference, 'f', 2, 64)},
			{result.Name, "comparison", "Monthly difference", strconv.FormatFloat(comparison.MonthlyDifference, 'f', 2, 64)},
		}
		if err := writer.WriteAll(records); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func csvValue(r row) string {
	if r.kind == months {
		return strconv.Itoa(int(r.value))
	}
	return strconv.FormatFloat(r.value, 'f', 2, 64)
}

// WriteJSON writes the results as an indented JSON array.
func WriteJSON(w io.Writer, results []simulation.Result) error {
	if results == nil {
		results = []simulation.Result{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

// Markdown renders a printable report.
func Markdown(results []simulation.Result) string {
	var b strings.Builder
	for _, result := range results {
		fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(result.Name))

		b.WriteString("| Metric | Value |\n|---|---:|\n")
		for _, r := range acquisitionRows(result) {
			fmt.Fprintf(&b, "| %s | %s |\n", r.metric, r.display())
		}
		b.WriteString("\n")

		selected := result.Selected()
		b.WriteString("## Entity comparison\n\n| Metric |")
		for _, res := range selected {
			fmt.Fprintf(&b, " %s |", regimeTitle(res.Regime))
		}
		b.WriteString("\n|---|")
		b.WriteString(strings.Repeat("---:|", len(selected)))
		b.WriteString("\n")
		for _, line := range regimeTable(selected) {
			b.WriteString(line)
		}

		fmt.Fprintf(&b, "\n**Recommendation:** %s\n\n", recommendation(result.Regimes.Comparison))
		for _, warning := range result.Warnings {
			fmt.Fprintf(&b, "> %s\n", escapeMarkdown(warning))
		}
		if len(result.Warnings) > 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// regimeTable aligns the regime rows by metric; a metric missing from a
// regime shows an empty cell.
func regimeTable(selected []regime.Result) []string {
	var (
		order  []string
		values = make(map[string][]string)
	)
	for i, res := range selected {
		for _, r := range regimeRows(res) {
			if _, ok := values[r.metric]; !ok {
				order = append(order, r.metric)
				values[r.metric] = make([]string, len(selected))
			}
			values[r.metric][i] = r.display()
		}
	}

	lines := make([]string, 0, len(order))
	for _, metric := range order {
		lines = append(lines, "| "+metric+" | "+strings.Join(values[metric], " | ")+" |\n")
	}
	return lines
}

func escapeMarkdown(s string) string {
	return strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`, "#", `\#`, "<", "&lt;", ">", "&gt;").Replace(s)
}

// WriteHTML writes the Markdown report rendered as a standalone HTML page.
func WriteHTML(w io.Writer, results []simulation.Result) error {
	var body bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := md.Convert([]byte(Markdown(results)), &body); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	_, err := fmt.Fprintf(w, htmlPage, body.String())
	return err
}

const htmlPage = `<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<title>Property yield report</title>
<style>
body { font-family: sans-serif; max-width: 60rem; margin: 2rem auto; }
table { border-collapse: collapse; margin-bottom: 1rem; }
th, td { border: 1px solid #ccc; padding: 0.25rem 0.75rem; }
td:not(:first-child) { text-align: right; }
</style>
</head>
<body>
%s</body>
</html>
`
