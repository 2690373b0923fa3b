package models

// Period types reported by the fundamentals series.
const (
	PeriodAnnual    = "12M"
	PeriodQuarterly = "3M"
	PeriodTrailing  = "TTM"
)

// IncomeStatement represents a single annual income statement row.
type IncomeStatement struct {
	AsOfDate     string  `json:"as_of_date"    yaml:"as_of_date"` // e.g., "2024-09-30"
	PeriodType   string  `json:"period_type"   yaml:"period_type"`
	NetIncome    float64 `json:"net_income"    yaml:"net_income"`
	TotalRevenue float64 `json:"total_revenue" yaml:"total_revenue"`
	BasicEPS     float64 `json:"basic_eps"     yaml:"basic_eps"`
}

// CashFlow represents a single annual cash flow statement row.
type CashFlow struct {
	AsOfDate           string  `json:"as_of_date"          yaml:"as_of_date"`
	PeriodType         string  `json:"period_type"         yaml:"period_type"`
	CapitalExpenditure float64 `json:"capital_expenditure" yaml:"capital_expenditure"` // negative for outflows
	FreeCashFlow       float64 `json:"free_cash_flow"      yaml:"free_cash_flow"`
}

// BalanceSheet represents a single annual balance sheet row.
type BalanceSheet struct {
	AsOfDate    string  `json:"as_of_date"   yaml:"as_of_date"`
	PeriodType  string  `json:"period_type"  yaml:"period_type"`
	TotalAssets float64 `json:"total_assets" yaml:"total_assets"`
	TotalDebt   float64 `json:"total_debt"   yaml:"total_debt"`
}

// TrailingIncome holds the trailing-twelve-month income statement fields
// needed for the cost of debt.
type TrailingIncome struct {
	AsOfDate        string  `json:"as_of_date"         yaml:"as_of_date"`
	InterestExpense float64 `json:"interest_expense"   yaml:"interest_expense"`
	EBIT            float64 `json:"ebit"               yaml:"ebit"`
	TaxRateForCalcs float64 `json:"tax_rate_for_calcs" yaml:"tax_rate_for_calcs"` // fraction, e.g. 0.21
}

// ValuationMeasure is one row of the valuation measures series.
type ValuationMeasure struct {
	AsOfDate        string  `json:"as_of_date"       yaml:"as_of_date"`
	PeriodType      string  `json:"period_type"      yaml:"period_type"`
	PsRatio         float64 `json:"ps_ratio"         yaml:"ps_ratio"`
	ForwardPeRatio  float64 `json:"forward_pe_ratio" yaml:"forward_pe_ratio"`
	PeRatio         float64 `json:"pe_ratio"         yaml:"pe_ratio"`
	EnterpriseValue float64 `json:"enterprise_value" yaml:"enterprise_value"`
}

// RecommendationTrend is the analyst recommendation count for one period
// ("-3m", "-2m", "-1m", "0m").
type RecommendationTrend struct {
	Period     string `json:"period"      yaml:"period"`
	StrongBuy  int    `json:"strong_buy"  yaml:"strong_buy"`
	Buy        int    `json:"buy"         yaml:"buy"`
	Hold       int    `json:"hold"        yaml:"hold"`
	Sell       int    `json:"sell"        yaml:"sell"`
	StrongSell int    `json:"strong_sell" yaml:"strong_sell"`
}

// RecommendationPeriods is the display order of recommendation periods,
// oldest first.
var RecommendationPeriods = []string{"-3m", "-2m", "-1m", "0m"}
