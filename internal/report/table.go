package report

import (
	"fmt"
	"strconv"

	"github.com/seenimoa/fairvalue/internal/analysis/valuation"
	"github.com/seenimoa/fairvalue/pkg/models"
	"github.com/seenimoa/fairvalue/pkg/utils"
)

// Table is a titled grid of display strings.
type Table struct {
	Title   string     `json:"title"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// IntrinsicHeaders are the columns of the scenario table.
var IntrinsicHeaders = []string{
	"Scenario", "EPS Growth", "FCF Growth", "Target P/E", "Terminal Growth", "WACC",
	"Intrinsic Value (DCF)", "Intrinsic Value (P/E)", "Current Price",
}

// IntrinsicTable renders a scenario report. A report carrying a data error
// becomes a single "Error" column with one row.
func IntrinsicTable(r *valuation.IntrinsicReport, currency string) Table {
	t := Table{Title: "Intrinsic Value: " + r.Symbol}
	if r.Failed() {
		t.Headers = []string{"Error"}
		t.Rows = [][]string{{r.Error}}
		return t
	}
	t.Headers = IntrinsicHeaders
	for _, row := range r.Rows {
		t.Rows = append(t.Rows, []string{
			row.Scenario,
			utils.FormatPercent(row.EPSGrowth, 0),
			utils.FormatPercent(row.FCFGrowth, 0),
			strconv.FormatFloat(row.TargetPE, 'f', -1, 64),
			utils.FormatPercent(row.TerminalGrowth, 1),
			utils.FormatPercent(row.WACC, 1),
			utils.FormatMoney(currency, row.IntrinsicDCF),
			utils.FormatMoney(currency, row.IntrinsicPE),
			utils.FormatMoney(currency, row.CurrentPrice),
		})
	}
	return t
}

// WACCTable lists the WACC inputs and every intermediate.
func WACCTable(r *valuation.WACCReport, currency string) Table {
	in := r.Inputs
	return Table{
		Title:   "WACC: " + r.Symbol,
		Headers: []string{"Component", "Value"},
		Rows: [][]string{
			{"Price", utils.FormatMoney(currency, in.Price)},
			{"Shares Outstanding", utils.FormatCompact("", in.SharesOutstanding)},
			{"Market Equity", utils.FormatCompact(currency, r.MarketEquity)},
			{"Total Debt", utils.FormatCompact(currency, in.TotalDebt)},
			{"Beta", utils.FormatNumber(in.Beta, 2)},
			{"Risk-Free Rate", utils.FormatPercent(in.RiskFreeRate, 2)},
			{"Market Return", utils.FormatPercent(in.MarketReturn, 2)},
			{"Cost of Equity", utils.FormatPercent(r.CostOfEquity, 2)},
			{"Interest Expense", utils.FormatCompact(currency, in.InterestExpense)},
			{"Cost of Debt", utils.FormatPercent(r.CostOfDebt, 2)},
			{"Tax Rate", utils.FormatPercent(in.TaxRate, 1)},
			{"After-Tax Cost of Debt", utils.FormatPercent(r.AfterTaxCostOfDebt, 2)},
			{"Equity Weight", utils.FormatPercent(r.EquityWeight, 1)},
			{"Debt Weight", utils.FormatPercent(r.DebtWeight, 1)},
			{"WACC", utils.FormatPercent(r.WACC, 1)},
		},
	}
}

// ProfileTable renders the quote snapshot.
func ProfileTable(p *models.Profile, currency string) Table {
	return Table{
		Title:   fmt.Sprintf("%s (%s)", p.Name, p.Symbol),
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Price", utils.FormatMoney(currency, p.Price)},
			{"Change", utils.FormatPct(p.ChangePct)},
			{"Market Cap", utils.FormatCompact(currency, p.MarketCap)},
			{"Dividend Yield", utils.FormatNumber(p.DividendYieldPct, 2) + "%"},
			{"Beta", utils.FormatNumber(p.Beta, 2)},
			{"Trailing P/E", utils.FormatNumber(p.TrailingPE, 2)},
			{"Trailing EPS", utils.FormatMoney(currency, p.TrailingEPS)},
			{"Shares Outstanding", utils.FormatCompact("", p.SharesOutstanding)},
			{"Currency", p.Currency},
		},
	}
}

// IncomeTable renders annual income statement rows.
func IncomeTable(rows []models.IncomeStatement, currency string) Table {
	t := Table{Title: "Income Statement", Headers: []string{"As Of", "Period", "Net Income", "Total Revenue", "Basic EPS"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.AsOfDate, r.PeriodType,
			utils.FormatCompact(currency, r.NetIncome),
			utils.FormatCompact(currency, r.TotalRevenue),
			utils.FormatMoney(currency, r.BasicEPS),
		})
	}
	return t
}

// CashFlowTable renders annual cash flow rows.
func CashFlowTable(rows []models.CashFlow, currency string) Table {
	t := Table{Title: "Cash Flow", Headers: []string{"As Of", "Capital Expenditure", "Free Cash Flow"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.AsOfDate,
			utils.FormatCompact(currency, r.CapitalExpenditure),
			utils.FormatCompact(currency, r.FreeCashFlow),
		})
	}
	return t
}

// BalanceTable renders annual balance sheet rows.
func BalanceTable(rows []models.BalanceSheet, currency string) Table {
	t := Table{Title: "Balance Sheet", Headers: []string{"As Of", "Total Assets", "Total Debt"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.AsOfDate,
			utils.FormatCompact(currency, r.TotalAssets),
			utils.FormatCompact(currency, r.TotalDebt),
		})
	}
	return t
}

// ValuationMeasuresTable renders the valuation measures series.
func ValuationMeasuresTable(rows []models.ValuationMeasure, currency string) Table {
	t := Table{Title: "Valuation Measures", Headers: []string{"As Of", "Period", "P/S", "Forward P/E", "P/E", "Enterprise Value"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.AsOfDate, r.PeriodType,
			utils.FormatNumber(r.PsRatio, 2),
			utils.FormatNumber(r.ForwardPeRatio, 2),
			utils.FormatNumber(r.PeRatio, 2),
			utils.FormatCompact(currency, r.EnterpriseValue),
		})
	}
	return t
}

// RecommendationTable renders analyst recommendation counts.
func RecommendationTable(rows []models.RecommendationTrend) Table {
	t := Table{Title: "Analyst Recommendations", Headers: []string{"Period", "Strong Buy", "Buy", "Hold", "Sell", "Strong Sell"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Period,
			strconv.Itoa(r.StrongBuy), strconv.Itoa(r.Buy), strconv.Itoa(r.Hold),
			strconv.Itoa(r.Sell), strconv.Itoa(r.StrongSell),
		})
	}
	return t
}

// HistoryTable renders adjusted closes.
func HistoryTable(points []models.PricePoint, currency string) Table {
	t := Table{Title: "Adjusted Close", Headers: []string{"Date", "Adj Close"}}
	for _, p := range points {
		t.Rows = append(t.Rows, []string{p.Date, utils.FormatMoney(currency, p.AdjClose)})
	}
	return t
}

// HeadlinesTable renders news items.
func HeadlinesTable(items []models.Headline) Table {
	t := Table{Title: "Headlines", Headers: []string{"Published", "Title", "Link"}}
	for _, h := range items {
		published := ""
		if !h.Published.IsZero() {
			published = h.Published.Format("2006-01-02 15:04")
		}
		t.Rows = append(t.Rows, []string{published, h.Title, h.Link})
	}
	return t
}
