package valuation

import "math"

// IntrinsicInputs are the per-company figures shared by every scenario.
type IntrinsicInputs struct {
	EPS               float64           `json:"eps"`
	Price             float64           `json:"price"`
	SharesOutstanding float64           `json:"shares_outstanding"`
	LatestFCF         float64           `json:"latest_fcf"`
	Growth            GrowthAssumptions `json:"growth"`
	WACC              float64           `json:"wacc"`
}

// ScenarioValuation is one row of the intrinsic value table.
type ScenarioValuation struct {
	Scenario       string       `json:"scenario"`
	EPSGrowth      float64      `json:"eps_growth"`
	FCFGrowth      float64      `json:"fcf_growth"`
	TargetPE       float64      `json:"target_pe"`
	TerminalGrowth float64      `json:"terminal_growth"`
	WACC           float64      `json:"wacc"`
	IntrinsicPE    float64      `json:"intrinsic_value_pe"`
	IntrinsicDCF   float64      `json:"intrinsic_value_dcf"`
	CurrentPrice   float64      `json:"current_price"`
	DCF            DCFBreakdown `json:"dcf"`
}

// DCFBreakdown holds the projected and discounted cash flows of one DCF run.
type DCFBreakdown struct {
	ProjectedFCF       []float64 `json:"projected_fcf"`
	DiscountedFCF      []float64 `json:"discounted_fcf"`
	TerminalValue      float64   `json:"terminal_value"`
	DiscountedTerminal float64   `json:"discounted_terminal"`
	EnterpriseValue    float64   `json:"enterprise_value"`
	PerShare           float64   `json:"per_share"`
}

// PEValue projects EPS forward ProjectionYears years, prices it at targetPE
// and discounts the price back at wacc.
func PEValue(eps, growth, targetPE, wacc float64) (float64, error) {
	if !finite(eps, growth, targetPE, wacc) {
		return 0, invalid("non-finite P/E input (eps %v, growth %v, target P/E %v, wacc %v)", eps, growth, targetPE, wacc)
	}
	discount := math.Pow(1+wacc, ProjectionYears)
	if discount == 0 {
		return 0, invalid("wacc of %v discounts to zero", wacc)
	}
	futureEPS := eps * math.Pow(1+growth, ProjectionYears)
	v := futureEPS * targetPE / discount
	if !finite(v) {
		return 0, invalid("P/E value overflows (growth %v, wacc %v)", growth, wacc)
	}
	return v, nil
}

// DCFValue discounts ProjectionYears of growing free cash flow plus a Gordon
// growth terminal value, and divides by shares outstanding.
func DCFValue(latestFCF, growth, terminalGrowth, wacc, shares float64) (DCFBreakdown, error) {
	if !finite(latestFCF, growth, terminalGrowth, wacc, shares) {
		return DCFBreakdown{}, invalid("non-finite DCF input (fcf %v, growth %v, terminal %v, wacc %v, shares %v)",
			latestFCF, growth, terminalGrowth, wacc, shares)
	}
	if wacc == terminalGrowth {
		return DCFBreakdown{}, invalid("wacc equals terminal growth (%v)", wacc)
	}
	if shares == 0 {
		return DCFBreakdown{}, invalid("shares outstanding is zero")
	}
	if 1+wacc == 0 {
		return DCFBreakdown{}, invalid("wacc of %v discounts to zero", wacc)
	}

	b := DCFBreakdown{
		ProjectedFCF:  make([]float64, ProjectionYears),
		DiscountedFCF: make([]float64, ProjectionYears),
	}
	var sum float64
	for i := 1; i <= ProjectionYears; i++ {
		fcf := latestFCF * math.Pow(1+growth, float64(i))
		pv := fcf / math.Pow(1+wacc, float64(i))
		b.ProjectedFCF[i-1] = fcf
		b.DiscountedFCF[i-1] = pv
		sum += pv
	}

	last := b.ProjectedFCF[ProjectionYears-1]
	b.TerminalValue = last * (1 + terminalGrowth) / (wacc - terminalGrowth)
	b.DiscountedTerminal = b.TerminalValue / math.Pow(1+wacc, ProjectionYears)
	b.EnterpriseValue = sum + b.DiscountedTerminal
	b.PerShare = b.EnterpriseValue / shares
	if !finite(b.TerminalValue, b.DiscountedTerminal, b.EnterpriseValue, b.PerShare) {
		return DCFBreakdown{}, invalid("DCF value overflows (growth %v, wacc %v)", growth, wacc)
	}
	return b, nil
}

// ComputeIntrinsicValue values the company under every scenario, in
// Scenarios order. Any undefined formula fails the whole table.
func ComputeIntrinsicValue(in IntrinsicInputs) ([]ScenarioValuation, error) {
	rows := make([]ScenarioValuation, 0, len(Scenarios))
	for _, s := range Scenarios {
		g, err := in.Growth.Rate(s.Name)
		if err != nil {
			return nil, err
		}

		pe, err := PEValue(in.EPS, g, s.TargetPE, in.WACC)
		if err != nil {
			return nil, err
		}
		dcf, err := DCFValue(in.LatestFCF, g, s.TerminalGrowth, in.WACC, in.SharesOutstanding)
		if err != nil {
			return nil, err
		}

		rows = append(rows, ScenarioValuation{
			Scenario:       s.Name,
			EPSGrowth:      g,
			FCFGrowth:      g,
			TargetPE:       s.TargetPE,
			TerminalGrowth: s.TerminalGrowth,
			WACC:           in.WACC,
			IntrinsicPE:    pe,
			IntrinsicDCF:   dcf.PerShare,
			CurrentPrice:   in.Price,
			DCF:            dcf,
		})
	}
	return rows, nil
}
