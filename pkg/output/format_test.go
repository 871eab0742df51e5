package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/property-yield/internal/acquisition"
	"github.com/iwvelando/property-yield/internal/regime"
	"github.com/iwvelando/property-yield/internal/simulation"
)

func testResults() []simulation.Result {
	property := acquisition.Inputs{
		Title:             "Studio | Lyon",
		MonthlyRent:       1000,
		NetSellerPrice:    200000,
		AgencyFees:        10000,
		NotaryFeesPercent: 8,
		LoanDurationYears: 15,
		InterestRate:      3,
		TargetYield:       10,
	}
	return []simulation.Result{simulation.Evaluate(nil, "", property, regime.DefaultInputs())}
}

func TestWritePretty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "pretty", testResults()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	output := buf.String()

	expected := []string{
		"--- Results for scenario Studio | Lyon ---",
		"ACQUISITION",
		"Notary fees                | 16\u00a0800\u00a0€",
		"Total project cost         | 226\u00a0800\u00a0€",
		"Gross yield                | 5,29\u00a0%",
		"CREDIT",
		"Monthly payment            | 1\u00a0566,24\u00a0€",
		"TARGET",
		"Max net seller price       | 101\u00a0111\u00a0€",
		"Max total cost             | 120\u00a0000\u00a0€",
		"ENTITY (ownership 100,00\u00a0%, marginal rate 30,00\u00a0%)",
		"Personal income tax regime (IR)",
		"Corporate tax regime (IS)",
		"Depreciation             | 6\u00a0800\u00a0€",
		"Break-even               | 35 years",
		"Break-even               | 310 years and 9 months",
		"The personal regime leaves 3\u00a0488\u00a0€ more per year (291\u00a0€ per month).",
	}
	for _, fragment := range expected {
		if !strings.Contains(output, fragment) {
			t.Errorf("pretty report missing %q in:\n%s", fragment, output)
		}
	}
}

func TestWritePrettySelectedRegimeAndWarnings(t *testing.T) {
	results := testResults()
	results[0].Entity.Regime = regime.SelectCorporate
	results[0].Warnings = []string{"Scenario 'x': marginal tax rate 12% is not one of [0 11 30 41 45]"}

	var buf bytes.Buffer
	if err := WritePretty(&buf, results); err != nil {
		t.Fatalf("WritePretty() error = %v", err)
	}
	output := buf.String()

	if strings.Contains(output, "Personal income tax regime") {
		t.Errorf("personal regime should be hidden when only corporate is selected")
	}
	if !strings.Contains(output, "Corporate tax regime (IS)") {
		t.Errorf("corporate regime missing")
	}
	if !strings.Contains(output, "WARNING Scenario 'x'") {
		t.Errorf("warning missing from output")
	}
}

func TestWritePrettyEmptyResults(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePretty(&buf, nil); err != nil {
		t.Fatalf("WritePretty() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testResults()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if got := strings.Join(records[0], ","); got != "scenario,section,metric,value" {
		t.Errorf("header = %q", got)
	}

	index := make(map[string]string)
	for _, record := range records[1:] {
		if len(record) != 4 {
			t.Fatalf("record %v has %d fields", record, len(record))
		}
		if record[0] != "Studio | Lyon" {
			t.Errorf("scenario = %q", record[0])
		}
		index[record[1]+"/"+record[2]] = record[3]
	}

	expected := map[string]string{
		"acquisition/Notary fees":       "16800.00",
		"acquisition/Gross yield":       "5.29",
		"credit/Monthly payment":        "1566.24",
		"target/Max net seller price":   "101111.11",
		"personal/Break-even":           "420",
		"corporate/Break-even":          "3729",
		"corporate/Depreciation":        "6800.00",
		"comparison/Best regime":        "personal",
		"comparison/Annual difference":  "3488.22",
		"comparison/Monthly difference": "290.68",
	}
	for key, value := range expected {
		if index[key] != value {
			t.Errorf("%s = %q, expected %q", key, index[key], value)
		}
	}
	if _, ok := index["personal/Depreciation"]; ok {
		t.Errorf("personal regime should not report depreciation")
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, testResults()); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected 1 result, got %d", len(decoded))
	}
	regimes, ok := decoded[0]["regimes"].(map[string]any)
	if !ok {
		t.Fatalf("regimes missing: %v", decoded[0])
	}
	comparison := regimes["comparison"].(map[string]any)
	if comparison["bestRegime"] != "personal" {
		t.Errorf("bestRegime = %v", comparison["bestRegime"])
	}

	buf.Reset()
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty results should encode as [], got %q", buf.String())
	}
}

func TestMarkdownAndHTML(t *testing.T) {
	markdown := Markdown(testResults())
	if !strings.Contains(markdown, `# Studio \| Lyon`) {
		t.Errorf("title should be escaped, got:\n%s", markdown)
	}
	if !strings.Contains(markdown, "| Metric | Personal income tax regime (IR) | Corporate tax regime (IS) |") {
		t.Errorf("comparison header missing:\n%s", markdown)
	}
	if !strings.Contains(markdown, "| Depreciation |  | 6\u00a0800\u00a0€ |") {
		t.Errorf("metrics missing from one regime should leave an empty cell:\n%s", markdown)
	}

	var buf bytes.Buffer
	if err := WriteHTML(&buf, testResults()); err != nil {
		t.Fatalf("WriteHTML() error = %v", err)
	}
	html := buf.String()
	for _, fragment := range []string{"<!DOCTYPE html>", "<table>", "<h1>Studio | Lyon</h1>", "<strong>Recommendation:</strong>"} {
		if !strings.Contains(html, fragment) {
			t.Errorf("HTML missing %q:\n%s", fragment, html)
		}
	}
}

func TestWrite(t *testing.T) {
	tests := []struct {
		format      string
		prefix      string
		contentType string
		wantErr     bool
	}{
		{"pretty", "--- Results", "text/plain; charset=utf-8", false},
		{"", "--- Results", "text/plain; charset=utf-8", false},
		{"csv", "scenario,section", "text/csv; charset=utf-8", false},
		{"json", "[", "application/json", false},
		{"html", "<!DOCTYPE html>", "text/html; charset=utf-8", false},
		{"xml", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			err := Write(&buf, tt.format, testResults())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Write() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !strings.HasPrefix(buf.String(), tt.prefix) {
				t.Errorf("Write(%q) output starts with %q", tt.format, buf.String()[:min(20, buf.Len())])
			}
			if got := ContentType(tt.format); got != tt.contentType {
				t.Errorf("ContentType(%q) = %q, expected %q", tt.format, got, tt.contentType)
			}
		})
	}
}
