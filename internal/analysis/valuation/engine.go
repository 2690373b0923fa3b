package valuation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/seenimoa/fairvalue/internal/provider"
	"github.com/seenimoa/fairvalue/pkg/utils"
)

// Engine fetches company figures from a data source and runs the valuation
// formulas. It holds no state between calls.
type Engine struct {
	src provider.DataSource
	log zerolog.Logger
}

// NewEngine creates an engine over src.
func NewEngine(src provider.DataSource, log zerolog.Logger) *Engine {
	return &Engine{src: src, log: log.With().Str("component", "valuation").Logger()}
}

// WACCReport is the WACC of one company with the inputs it was computed from.
type WACCReport struct {
	Symbol string     `json:"symbol"`
	Inputs WACCInputs `json:"inputs"`
	WACCBreakdown
}

// IntrinsicReport is the scenario table for one company. When the company
// figures could not be fetched, Error describes the failure and Rows is empty.
type IntrinsicReport struct {
	Symbol string              `json:"symbol"`
	Inputs *IntrinsicInputs    `json:"inputs,omitempty"`
	Rows   []ScenarioValuation `json:"rows"`
	Error  string              `json:"error,omitempty"`
}

// Failed reports whether the report carries a data error instead of rows.
func (r *IntrinsicReport) Failed() bool { return r.Error != "" }

// WACC fetches the capital structure of symbol and computes its WACC.
// Data errors are returned wrapped; they match provider.ErrDataUnavailable.
func (e *Engine) WACC(ctx context.Context, symbol string, riskFreeRate, marketReturn float64) (*WACCReport, error) {
	symbol = utils.NormalizeTicker(symbol)
	in := WACCInputs{RiskFreeRate: riskFreeRate, MarketReturn: marketReturn}

	var err error
	if in.Price, err = e.src.Price(ctx, symbol); err != nil {
		return nil, fmt.Errorf("wacc %s: %w", symbol, err)
	}
	if in.SharesOutstanding, err = e.src.SharesOutstanding(ctx, symbol); err != nil {
		return nil, fmt.Errorf("wacc %s: %w", symbol, err)
	}
	if in.TotalDebt, err = e.src.LatestTotalDebt(ctx, symbol); err != nil {
		return nil, fmt.Errorf("wacc %s: %w", symbol, err)
	}
	if in.Beta, err = e.src.Beta(ctx, symbol); err != nil {
		return nil, fmt.Errorf("wacc %s: %w", symbol, err)
	}
	income, err := e.src.TrailingIncomeStatement(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("wacc %s: %w", symbol, err)
	}
	in.InterestExpense = income.InterestExpense
	in.TaxRate = income.TaxRateForCalcs

	b, err := ComputeWACC(in)
	if err != nil {
		return nil, fmt.Errorf("wacc %s: %w", symbol, err)
	}

	e.log.Info().
		Str("symbol", symbol).
		Float64("wacc", b.WACC).
		Float64("cost_of_equity", b.CostOfEquity).
		Float64("cost_of_debt", b.CostOfDebt).
		Msg("wacc computed")
	return &WACCReport{Symbol: symbol, Inputs: in, WACCBreakdown: b}, nil
}

// IntrinsicValue values symbol under every scenario at the given WACC.
//
// A failure to fetch EPS, price, shares or free cash flow is not a Go error:
// the returned report carries the failure in Error. Undefined formulas are
// returned as errors wrapping ErrInvalidInput.
func (e *Engine) IntrinsicValue(ctx context.Context, symbol string, growth GrowthAssumptions, wacc float64) (*IntrinsicReport, error) {
	symbol = utils.NormalizeTicker(symbol)
	report := &IntrinsicReport{Symbol: symbol, Rows: []ScenarioValuation{}}

	in, err := e.intrinsicInputs(ctx, symbol)
	if err != nil {
		e.log.Warn().Err(err).Str("symbol", symbol).Msg("intrinsic value data unavailable")
		report.Error = err.Error()
		return report, nil
	}
	in.Growth = growth
	in.WACC = wacc

	rows, err := ComputeIntrinsicValue(in)
	if err != nil {
		return nil, fmt.Errorf("intrinsic value %s: %w", symbol, err)
	}
	report.Inputs = &in
	report.Rows = rows

	e.log.Info().Str("symbol", symbol).Float64("wacc", wacc).Int("scenarios", len(rows)).Msg("intrinsic value computed")
	return report, nil
}

func (e *Engine) intrinsicInputs(ctx context.Context, symbol string) (IntrinsicInputs, error) {
	var in IntrinsicInputs
	var err error
	if in.EPS, err = e.src.TrailingEPS(ctx, symbol); err != nil {
		return in, err
	}
	if in.Price, err = e.src.Price(ctx, symbol); err != nil {
		return in, err
	}
	if in.SharesOutstanding, err = e.src.SharesOutstanding(ctx, symbol); err != nil {
		return in, err
	}
	if in.LatestFCF, err = e.src.LatestFreeCashFlow(ctx, symbol); err != nil {
		return in, err
	}
	return in, nil
}

// ValueRequest parameterizes Value.
type ValueRequest struct {
	RiskFreeRate float64
	MarketReturn float64
	Growth       GrowthAssumptions
	// WACC overrides the computed WACC when non-nil.
	WACC *float64
}

// ValueReport combines the WACC and the scenario table. WACC is nil when an
// override was supplied.
type ValueReport struct {
	Symbol    string           `json:"symbol"`
	WACC      *WACCReport      `json:"wacc,omitempty"`
	Intrinsic *IntrinsicReport `json:"intrinsic"`
}

// Value computes the WACC of symbol (unless overridden) and then its
// intrinsic value table at that rate.
func (e *Engine) Value(ctx context.Context, symbol string, req ValueRequest) (*ValueReport, error) {
	symbol = utils.NormalizeTicker(symbol)
	out := &ValueReport{Symbol: symbol}

	var wacc float64
	if req.WACC != nil {
		wacc = *req.WACC
	} else {
		w, err := e.WACC(ctx, symbol, req.RiskFreeRate, req.MarketReturn)
		if err != nil {
			return nil, err
		}
		out.WACC = w
		wacc = w.WACC
	}

	iv, err := e.IntrinsicValue(ctx, symbol, req.Growth, wacc)
	if err != nil {
		return nil, err
	}
	out.Intrinsic = iv
	return out, nil
}
