package valuation

// WACCInputs are the company and market figures the WACC needs.
type WACCInputs struct {
	Price             float64 `json:"price"`
	SharesOutstanding float64 `json:"shares_outstanding"`
	TotalDebt         float64 `json:"total_debt"`
	Beta              float64 `json:"beta"`
	RiskFreeRate      float64 `json:"risk_free_rate"`
	MarketReturn      float64 `json:"market_return"`
	InterestExpense   float64 `json:"interest_expense"`
	TaxRate           float64 `json:"tax_rate"`
}

// WACCBreakdown exposes every intermediate of the WACC computation.
type WACCBreakdown struct {
	MarketEquity       float64 `json:"market_equity"`
	CostOfEquity       float64 `json:"cost_of_equity"`
	CostOfDebt         float64 `json:"cost_of_debt"`
	AfterTaxCostOfDebt float64 `json:"after_tax_cost_of_debt"`
	TotalValue         float64 `json:"total_value"`
	EquityWeight       float64 `json:"equity_weight"`
	DebtWeight         float64 `json:"debt_weight"`
	WACC               float64 `json:"wacc"`
}

// CostOfEquity is the CAPM required return: rf + beta * (mr - rf).
func CostOfEquity(riskFreeRate, beta, marketReturn float64) float64 {
	return riskFreeRate + beta*(marketReturn-riskFreeRate)
}

// ComputeWACC weights the cost of equity and the after-tax cost of debt by
// market equity and book debt. A company without debt has a cost of debt of
// zero. The result is not clamped.
func ComputeWACC(in WACCInputs) (WACCBreakdown, error) {
	var b WACCBreakdown
	if !finite(in.Price, in.SharesOutstanding, in.TotalDebt, in.Beta, in.RiskFreeRate,
		in.MarketReturn, in.InterestExpense, in.TaxRate) {
		return b, invalid("non-finite WACC input")
	}

	b.MarketEquity = in.Price * in.SharesOutstanding
	b.CostOfEquity = CostOfEquity(in.RiskFreeRate, in.Beta, in.MarketReturn)
	if in.TotalDebt != 0 {
		b.CostOfDebt = in.InterestExpense / in.TotalDebt
	}

	b.TotalValue = b.MarketEquity + in.TotalDebt
	if b.TotalValue == 0 {
		return WACCBreakdown{}, invalid("market equity plus total debt is zero")
	}

	b.EquityWeight = b.MarketEquity / b.TotalValue
	b.DebtWeight = in.TotalDebt / b.TotalValue
	b.AfterTaxCostOfDebt = b.CostOfDebt * (1 - in.TaxRate)
	b.WACC = b.EquityWeight*b.CostOfEquity + b.DebtWeight*b.AfterTaxCostOfDebt
	if !finite(b.MarketEquity, b.TotalValue, b.CostOfDebt, b.WACC) {
		return WACCBreakdown{}, invalid("WACC overflows")
	}
	return b, nil
}
