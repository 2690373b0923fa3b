package valuation

import (
	"errors"
	"math"
	"testing"
)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestCostOfEquity(t *testing.T) {
	tests := []struct {
		rf, beta, mr, want float64
	}{
		{0.03, 1, 0.08, 0.08},
		{0.03, 0, 0.08, 0.03},
		{0.042, 1.2, 0.10, 0.1116},
		{0.04, 2, 0.03, 0.02},
	}
	for _, tt := range tests {
		if got := CostOfEquity(tt.rf, tt.beta, tt.mr); !near(got, tt.want, 1e-12) {
			t.Errorf("CostOfEquity(%v, %v, %v) = %v, want %v", tt.rf, tt.beta, tt.mr, got, tt.want)
		}
	}
}

func TestComputeWACC(t *testing.T) {
	b, err := ComputeWACC(WACCInputs{
		Price:             50,
		SharesOutstanding: 100e6,
		TotalDebt:         1e9,
		Beta:              1.2,
		RiskFreeRate:      0.042,
		MarketReturn:      0.10,
		InterestExpense:   40e6,
		TaxRate:           0.21,
	})
	if err != nil {
		t.Fatalf("ComputeWACC: %v", err)
	}
	if b.MarketEquity != 5e9 {
		t.Errorf("MarketEquity = %v", b.MarketEquity)
	}
	if !near(b.CostOfDebt, 0.04, 1e-12) {
		t.Errorf("CostOfDebt = %v, want 0.04", b.CostOfDebt)
	}
	if !near(b.EquityWeight+b.DebtWeight, 1, 1e-12) {
		t.Errorf("weights sum to %v", b.EquityWeight+b.DebtWeight)
	}
	if !near(b.AfterTaxCostOfDebt, 0.0316, 1e-12) {
		t.Errorf("AfterTaxCostOfDebt = %v", b.AfterTaxCostOfDebt)
	}
	if !near(b.WACC, 0.0982666666666667, 1e-12) {
		t.Errorf("WACC = %v, want 0.098267", b.WACC)
	}
}

func TestComputeWACCNoDebt(t *testing.T) {
	b, err := ComputeWACC(WACCInputs{
		Price:             20,
		SharesOutstanding: 1e6,
		Beta:              1,
		RiskFreeRate:      0.03,
		MarketReturn:      0.08,
		InterestExpense:   5e5,
		TaxRate:           0.2,
	})
	if err != nil {
		t.Fatalf("ComputeWACC: %v", err)
	}
	if b.CostOfDebt != 0 || b.DebtWeight != 0 {
		t.Errorf("expected zero cost of debt and weight, got %v and %v", b.CostOfDebt, b.DebtWeight)
	}
	if b.WACC != b.CostOfEquity || !near(b.WACC, 0.08, 1e-12) {
		t.Errorf("WACC = %v, want cost of equity %v", b.WACC, b.CostOfEquity)
	}
}

func TestComputeWACCZeroTotalValue(t *testing.T) {
	_, err := ComputeWACC(WACCInputs{Price: 0, SharesOutstanding: 1e6, Beta: 1})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPEValue(t *testing.T) {
	got, err := PEValue(5, 0.05, 18, 0.10)
	if err != nil {
		t.Fatal(err)
	}
	if !near(got, 71.32, 0.005) {
		t.Errorf("PEValue = %v, want ~71.32", got)
	}

	if _, err := PEValue(5, 0.05, 18, -1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for wacc -1, got %v", err)
	}
}

func TestPEValueNonFinite(t *testing.T) {
	tests := []struct {
		name         string
		growth, wacc float64
	}{
		{"NaN wacc", 0.05, math.NaN()},
		{"infinite wacc", 0.05, math.Inf(1)},
		{"NaN growth", math.NaN(), 0.10},
		{"negative infinite growth", math.Inf(-1), 0.10},
		{"overflowing growth", 1e300, 0.10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := PEValue(5, tt.growth, 18, tt.wacc)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v (value %v)", err, v)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("non-finite result returned with error: %v", v)
			}
		})
	}
}

func TestDCFValue(t *testing.T) {
	b, err := DCFValue(100, 0.05, 0.02, 0.10, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.ProjectedFCF) != ProjectionYears || !near(b.ProjectedFCF[0], 105, 1e-9) {
		t.Errorf("unexpected projection: %v", b.ProjectedFCF)
	}
	if !near(b.DiscountedFCF[0], 105/1.1, 1e-9) {
		t.Errorf("DiscountedFCF[0] = %v", b.DiscountedFCF[0])
	}
	if !near(b.TerminalValue, 1627.2589921875, 1e-6) {
		t.Errorf("TerminalValue = %v", b.TerminalValue)
	}
	if !near(b.DiscountedTerminal, 1010.39980638897, 1e-6) {
		t.Errorf("DiscountedTerminal = %v", b.DiscountedTerminal)
	}
	if !near(b.PerShare, 144.621188998361, 1e-6) {
		t.Errorf("PerShare = %v", b.PerShare)
	}
}

func TestDCFValueInvalid(t *testing.T) {
	tests := []struct {
		name                         string
		growth, wacc, terminal, shrs float64
	}{
		{"wacc equals terminal growth", 0.05, 0.025, 0.025, 10},
		{"zero shares", 0.05, 0.10, 0.02, 0},
		{"wacc of -1", 0.05, -1, 0.02, 10},
		{"NaN wacc", 0.05, math.NaN(), 0.02, 10},
		{"infinite wacc", 0.05, math.Inf(1), 0.02, 10},
		{"infinite growth", math.Inf(1), 0.10, 0.02, 10},
		{"negative infinite growth", math.Inf(-1), 0.10, 0.02, 10},
		{"overflowing growth", 1e300, 0.10, 0.02, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := DCFValue(100, tt.growth, tt.terminal, tt.wacc, tt.shrs)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if math.IsNaN(b.PerShare) || math.IsInf(b.PerShare, 0) {
				t.Errorf("non-finite result returned with error: %v", b.PerShare)
			}
		})
	}
}

func baseInputs() IntrinsicInputs {
	return IntrinsicInputs{
		EPS:               5,
		Price:             60,
		SharesOutstanding: 10,
		LatestFCF:         100,
		Growth:            GrowthAssumptions{Conservative: 0.05, Moderate: 0.08, Optimistic: 0.12},
		WACC:              0.10,
	}
}

func TestComputeIntrinsicValueOrderAndConstants(t *testing.T) {
	rows, err := ComputeIntrinsicValue(baseInputs())
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		name   string
		pe, tg float64
		growth float64
	}{
		{"Conservative", 18, 0.02, 0.05},
		{"Moderate", 21, 0.025, 0.08},
		{"Optimistic", 25, 0.03, 0.12},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	for i, w := range want {
		r := rows[i]
		if r.Scenario != w.name || r.TargetPE != w.pe || r.TerminalGrowth != w.tg {
			t.Errorf("row %d = %s PE %v tg %v, want %s PE %v tg %v", i, r.Scenario, r.TargetPE, r.TerminalGrowth, w.name, w.pe, w.tg)
		}
		if r.EPSGrowth != w.growth || r.FCFGrowth != w.growth {
			t.Errorf("row %d growth = %v/%v, want %v", i, r.EPSGrowth, r.FCFGrowth, w.growth)
		}
		if r.WACC != 0.10 || r.CurrentPrice != 60 {
			t.Errorf("row %d shared fields wrong: %+v", i, r)
		}
	}
	if !near(rows[0].IntrinsicPE, 71.32, 0.005) {
		t.Errorf("conservative intrinsic PE = %v, want ~71.32", rows[0].IntrinsicPE)
	}
	if !near(rows[0].IntrinsicDCF, 144.621188998361, 1e-6) {
		t.Errorf("conservative DCF = %v", rows[0].IntrinsicDCF)
	}
}

func TestIntrinsicValueMonotonicInGrowth(t *testing.T) {
	var prevPE, prevDCF float64
	for i, g := range []float64{-0.05, 0, 0.03, 0.08, 0.15, 0.30} {
		pe, err := PEValue(5, g, 18, 0.10)
		if err != nil {
			t.Fatal(err)
		}
		dcf, err := DCFValue(100, g, 0.02, 0.10, 10)
		if err != nil {
			t.Fatal(err)
		}
		if i > 0 && (pe <= prevPE || dcf.PerShare <= prevDCF) {
			t.Errorf("growth %v: PE %v (prev %v), DCF %v (prev %v) not increasing", g, pe, prevPE, dcf.PerShare, prevDCF)
		}
		prevPE, prevDCF = pe, dcf.PerShare
	}
}

func TestComputeIntrinsicValueWACCEqualsTerminal(t *testing.T) {
	in := baseInputs()
	in.WACC = 0.025 // Moderate terminal growth
	_, err := ComputeIntrinsicValue(in)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGrowthAssumptionsRate(t *testing.T) {
	g := GrowthAssumptions{Conservative: 0.01, Moderate: 0.02, Optimistic: 0.03}
	for _, s := range Scenarios {
		if _, err := g.Rate(s.Name); err != nil {
			t.Errorf("Rate(%q): %v", s.Name, err)
		}
	}
	if _, err := g.Rate("Bearish"); err == nil {
		t.Error("expected error for unknown scenario")
	}
}

func TestComputeIntrinsicValueNonFinite(t *testing.T) {
	nanWACC := baseInputs()
	nanWACC.WACC = math.NaN()
	overflow := baseInputs()
	overflow.Growth.Conservative = 1e300

	for name, in := range map[string]IntrinsicInputs{"NaN wacc": nanWACC, "overflowing growth": overflow} {
		t.Run(name, func(t *testing.T) {
			rows, err := ComputeIntrinsicValue(in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if rows != nil {
				t.Errorf("expected no rows, got %d", len(rows))
			}
		})
	}
}

func TestComputeWACCNonFinite(t *testing.T) {
	tests := []struct {
		name string
		in   WACCInputs
	}{
		{"NaN risk-free rate", WACCInputs{Price: 50, SharesOutstanding: 1e8, Beta: 1, RiskFreeRate: math.NaN(), MarketReturn: 0.1}},
		{"infinite market return", WACCInputs{Price: 50, SharesOutstanding: 1e8, Beta: 1, RiskFreeRate: 0.04, MarketReturn: math.Inf(1)}},
		{"overflowing market equity", WACCInputs{Price: 1e200, SharesOutstanding: 1e200, Beta: 1, RiskFreeRate: 0.04, MarketReturn: 0.1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ComputeWACC(tt.in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if b.WACC != 0 {
				t.Errorf("WACC = %v with error", b.WACC)
			}
		})
	}
}
