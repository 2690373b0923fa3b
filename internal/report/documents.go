package report

import (
	"github.com/seenimoa/fairvalue/internal/analysis/valuation"
	"github.com/seenimoa/fairvalue/pkg/models"
)

// WACCDocument wraps a WACC report for rendering.
func WACCDocument(r *valuation.WACCReport, currency string) Document {
	return Document{
		Title:  "Weighted Average Cost of Capital: " + r.Symbol,
		Tables: []Table{WACCTable(r, currency)},
		Data:   r,
	}
}

// IntrinsicDocument wraps a scenario table, with a bar chart when it has rows.
func IntrinsicDocument(r *valuation.IntrinsicReport, currency string) Document {
	doc := Document{
		Title:  "Intrinsic Value: " + r.Symbol,
		Tables: []Table{IntrinsicTable(r, currency)},
		Data:   r,
	}
	if !r.Failed() {
		doc.Charts = []string{ScenarioChart(r.Rows, DefaultChartConfig())}
	}
	return doc
}

// ValueDocument combines the WACC breakdown (when computed) and the scenario
// table. history, when non-empty, adds a price chart.
func ValueDocument(v *valuation.ValueReport, currency string, history []models.PricePoint) Document {
	doc := Document{Title: "Valuation: " + v.Symbol, Data: v}
	if v.WACC != nil {
		doc.Tables = append(doc.Tables, WACCTable(v.WACC, currency))
	}
	doc.Tables = append(doc.Tables, IntrinsicTable(v.Intrinsic, currency))
	if !v.Intrinsic.Failed() {
		doc.Charts = append(doc.Charts, ScenarioChart(v.Intrinsic.Rows, DefaultChartConfig()))
	}
	if len(history) > 1 {
		doc.Charts = append(doc.Charts, PriceChart(history, DefaultChartConfig()))
	}
	return doc
}

// ProfileDocument renders the quote snapshot followed by recent headlines.
func ProfileDocument(p *models.Profile, news []models.Headline, currency string) Document {
	doc := Document{
		Title:  p.Name,
		Tables: []Table{ProfileTable(p, currency)},
		Data: struct {
			Profile   *models.Profile   `json:"profile"`
			Headlines []models.Headline `json:"headlines,omitempty"`
		}{p, news},
	}
	if len(news) > 0 {
		doc.Tables = append(doc.Tables, HeadlinesTable(news))
	}
	return doc
}

// HistoryDocument renders adjusted closes with a line chart.
func HistoryDocument(symbol string, points []models.PricePoint, currency string) Document {
	return Document{
		Title:  "Price History: " + symbol,
		Tables: []Table{HistoryTable(points, currency)},
		Charts: []string{PriceChart(points, DefaultChartConfig())},
		Data:   points,
	}
}
