package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/seenimoa/fairvalue/internal/analysis/valuation"
	"github.com/seenimoa/fairvalue/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Test Helpers
// ════════════════════════════════════════════════════════════════════

func sampleReport() *valuation.IntrinsicReport {
	return &valuation.IntrinsicReport{
		Symbol: "AAPL",
		Rows: []valuation.ScenarioValuation{
			{
				Scenario: "Conservative", EPSGrowth: 0.05, FCFGrowth: 0.05,
				TargetPE: 18, TerminalGrowth: 0.02, WACC: 0.0982666,
				IntrinsicPE: 71.32233927, IntrinsicDCF: 144.621188998361, CurrentPrice: 190.5,
			},
			{
				Scenario: "Moderate", EPSGrowth: 0.08, FCFGrowth: 0.08,
				TargetPE: 21, TerminalGrowth: 0.025, WACC: 0.0982666,
				IntrinsicPE: 101.4, IntrinsicDCF: 180.2, CurrentPrice: 190.5,
			},
			{
				Scenario: "Optimistic", EPSGrowth: 0.12, FCFGrowth: 0.12,
				TargetPE: 25, TerminalGrowth: 0.03, WACC: 0.0982666,
				IntrinsicPE: 150.7, IntrinsicDCF: 240.9, CurrentPrice: 190.5,
			},
		},
	}
}

func samplePoints(n int) []models.PricePoint {
	pts := make([]models.PricePoint, n)
	for i := range pts {
		pts[i] = models.PricePoint{
			Date:     "2024-01-" + string(rune('1'+i%9)) + "0",
			AdjClose: 180 + float64(i%7),
		}
	}
	return pts
}

// ════════════════════════════════════════════════════════════════════
// Tables
// ════════════════════════════════════════════════════════════════════

func TestIntrinsicTable(t *testing.T) {
	tbl := IntrinsicTable(sampleReport(), "$")

	if len(tbl.Headers) != len(IntrinsicHeaders) {
		t.Fatalf("headers = %v", tbl.Headers)
	}
	if len(tbl.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(tbl.Rows))
	}

	want := []string{"Conservative", "5%", "5%", "18", "2.0%", "9.8%", "$144.62", "$71.32", "$190.50"}
	for i, cell := range tbl.Rows[0] {
		if cell != want[i] {
			t.Errorf("row 0 column %q = %q, want %q", tbl.Headers[i], cell, want[i])
		}
	}
	if tbl.Rows[1][3] != "21" || tbl.Rows[1][4] != "2.5%" {
		t.Errorf("moderate row = %v", tbl.Rows[1])
	}
	if tbl.Rows[2][0] != "Optimistic" || tbl.Rows[2][1] != "12%" {
		t.Errorf("optimistic row = %v", tbl.Rows[2])
	}
}

func TestIntrinsicTableError(t *testing.T) {
	r := &valuation.IntrinsicReport{Symbol: "ZZZZ", Error: "yfinance: trailing_eps unavailable for ZZZZ"}
	tbl := IntrinsicTable(r, "$")

	if len(tbl.Headers) != 1 || tbl.Headers[0] != "Error" {
		t.Fatalf("headers = %v, want [Error]", tbl.Headers)
	}
	if len(tbl.Rows) != 1 || tbl.Rows[0][0] != r.Error {
		t.Errorf("rows = %v", tbl.Rows)
	}
}

func TestWACCTable(t *testing.T) {
	r := &valuation.WACCReport{
		Symbol: "AAPL",
		Inputs: valuation.WACCInputs{
			Price: 190.5, SharesOutstanding: 15.5e9, TotalDebt: 111088000000,
			Beta: 1.24, RiskFreeRate: 0.0385, MarketReturn: 0.1,
			InterestExpense: 3933000000, TaxRate: 0.15,
		},
		WACCBreakdown: valuation.WACCBreakdown{WACC: 0.0982666, CostOfEquity: 0.11474},
	}
	tbl := WACCTable(r, "$")

	got := map[string]string{}
	for _, row := range tbl.Rows {
		got[row[0]] = row[1]
	}
	checks := map[string]string{
		"Price":          "$190.50",
		"Total Debt":     "$111.09B",
		"Risk-Free Rate": "3.85%",
		"Tax Rate":       "15.0%",
		"WACC":           "9.8%",
		"Cost of Equity": "11.47%",
	}
	for k, want := range checks {
		if got[k] != want {
			t.Errorf("%s = %q, want %q", k, got[k], want)
		}
	}
}

func TestRecommendationTable(t *testing.T) {
	tbl := RecommendationTable([]models.RecommendationTrend{
		{Period: "-1m", StrongBuy: 10, Buy: 20, Hold: 5, Sell: 1, StrongSell: 0},
	})
	want := []string{"-1m", "10", "20", "5", "1", "0"}
	for i, cell := range tbl.Rows[0] {
		if cell != want[i] {
			t.Errorf("column %d = %q, want %q", i, cell, want[i])
		}
	}
}

// ════════════════════════════════════════════════════════════════════
// Renderers
// ════════════════════════════════════════════════════════════════════

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"table", FormatText, false},
		{"JSON", FormatJSON, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"html", FormatHTML, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	doc := Document{Title: "AAPL Valuation", Tables: []Table{IntrinsicTable(sampleReport(), "$")}}
	if err := Render(&buf, FormatText, doc); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"AAPL Valuation", "■ Intrinsic Value: AAPL", "Scenario", "Conservative", "$144.62", "─"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q", want)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	report := sampleReport()

	var buf bytes.Buffer
	if err := Render(&buf, FormatJSON, Document{Data: report}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	var decoded valuation.IntrinsicReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Symbol != "AAPL" || len(decoded.Rows) != 3 {
		t.Errorf("decoded = %+v", decoded)
	}

	// Without Data the tables are encoded.
	buf.Reset()
	if err := Render(&buf, FormatJSON, Document{Tables: []Table{IntrinsicTable(report, "$")}}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	var tables []Table
	if err := json.Unmarshal(buf.Bytes(), &tables); err != nil {
		t.Fatalf("decode tables: %v", err)
	}
	if len(tables) != 1 || tables[0].Rows[0][6] != "$144.62" {
		t.Errorf("tables = %+v", tables)
	}
}

func TestMarkdown(t *testing.T) {
	doc := Document{
		Title: "News",
		Tables: []Table{{
			Title:   "Headlines",
			Headers: []string{"Title"},
			Rows:    [][]string{{"Buy | Sell <now>"}},
		}},
	}
	out := Markdown(doc)

	for _, want := range []string{"# News", "## Headlines", "| Title |", "| --- |", `Buy \| Sell &lt;now&gt;`} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestHTML(t *testing.T) {
	r := sampleReport()
	doc := Document{
		Title:  "AAPL Valuation",
		Tables: []Table{IntrinsicTable(r, "$")},
		Charts: []string{ScenarioChart(r.Rows, DefaultChartConfig())},
	}
	out, err := HTML(doc)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	for _, want := range []string{"<!DOCTYPE html>", "<title>AAPL Valuation</title>", "<table>", "<th>Scenario</th>", "$144.62", "<svg"} {
		if !strings.Contains(out, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestRenderErrorReport(t *testing.T) {
	r := &valuation.IntrinsicReport{Symbol: "ZZZZ", Error: "price unavailable"}
	var buf bytes.Buffer
	if err := Render(&buf, FormatMarkdown, Document{Tables: []Table{IntrinsicTable(r, "$")}}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "| Error |") || !strings.Contains(buf.String(), "| price unavailable |") {
		t.Errorf("markdown = %s", buf.String())
	}
}

// ════════════════════════════════════════════════════════════════════
// Charts
// ════════════════════════════════════════════════════════════════════

func TestPriceChart(t *testing.T) {
	svg := PriceChart(samplePoints(30), DefaultChartConfig())
	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not a complete svg document")
	}
	if !strings.Contains(svg, "<path") || !strings.Contains(svg, "Adjusted Close") {
		t.Error("missing price line or title")
	}

	empty := PriceChart(samplePoints(1), ChartConfig{})
	if !strings.Contains(empty, "Not enough price data") {
		t.Error("single point should render the empty placeholder")
	}
}

func TestScenarioChart(t *testing.T) {
	svg := ScenarioChart(sampleReport().Rows, ChartConfig{})
	for _, want := range []string{"Conservative (DCF)", "Optimistic (P/E)", "Price 190.50", "<rect"} {
		if !strings.Contains(svg, want) {
			t.Errorf("scenario chart missing %q", want)
		}
	}
	if n := strings.Count(svg, `rx="2"`); n != 6 {
		t.Errorf("bars = %d, want 6", n)
	}

	if !strings.Contains(ScenarioChart(nil, ChartConfig{}), "No scenarios") {
		t.Error("empty rows should render the placeholder")
	}
}

func TestEscapeXML(t *testing.T) {
	cfg := DefaultChartConfig()
	cfg.Title = `P&L <"x">`
	svg := PriceChart(samplePoints(3), cfg)
	if !strings.Contains(svg, "P&amp;L &lt;&quot;x&quot;&gt;") {
		t.Error("title not escaped")
	}
}

func TestValueDocument(t *testing.T) {
	v := &valuation.ValueReport{
		Symbol:    "AAPL",
		WACC:      &valuation.WACCReport{Symbol: "AAPL"},
		Intrinsic: sampleReport(),
	}
	doc := ValueDocument(v, "$", samplePoints(10))
	if len(doc.Tables) != 2 {
		t.Errorf("tables = %d, want WACC and intrinsic", len(doc.Tables))
	}
	if len(doc.Charts) != 2 {
		t.Errorf("charts = %d, want scenario and price", len(doc.Charts))
	}

	v.WACC = nil
	v.Intrinsic = &valuation.IntrinsicReport{Symbol: "AAPL", Error: "price unavailable"}
	doc = ValueDocument(v, "$", nil)
	if len(doc.Tables) != 1 || doc.Tables[0].Headers[0] != "Error" {
		t.Errorf("tables = %+v", doc.Tables)
	}
	if len(doc.Charts) != 0 {
		t.Errorf("failed report should not chart, got %d", len(doc.Charts))
	}
}
