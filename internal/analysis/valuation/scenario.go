// Package valuation computes the weighted average cost of capital and
// per-share intrinsic value under three growth scenarios, using a P/E
// multiple model and a five-year discounted cash flow model.
package valuation

import (
	"errors"
	"fmt"
	"math"
)

// ProjectionYears is the forecast horizon of both models.
const ProjectionYears = 5

// ErrInvalidInput is returned when inputs make a formula undefined, such as a
// zero firm value or a discount rate equal to the terminal growth rate.
var ErrInvalidInput = errors.New("invalid input")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// finite reports whether every value is neither NaN nor infinite.
func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Scenario holds the design constants of one valuation scenario.
type Scenario struct {
	Name           string  `json:"name"`
	TargetPE       float64 `json:"target_pe"`
	TerminalGrowth float64 `json:"terminal_growth"`
}

// Scenarios are evaluated and reported in this order.
var Scenarios = []Scenario{
	{Name: "Conservative", TargetPE: 18, TerminalGrowth: 0.02},
	{Name: "Moderate", TargetPE: 21, TerminalGrowth: 0.025},
	{Name: "Optimistic", TargetPE: 25, TerminalGrowth: 0.03},
}

// GrowthAssumptions are the caller's annual growth rates per scenario, as
// fractions. Each rate drives both EPS and FCF growth.
type GrowthAssumptions struct {
	Conservative float64 `json:"conservative"`
	Moderate     float64 `json:"moderate"`
	Optimistic   float64 `json:"optimistic"`
}

// Rate returns the growth rate for the named scenario.
func (g GrowthAssumptions) Rate(scenario string) (float64, error) {
	switch scenario {
	case "Conservative":
		return g.Conservative, nil
	case "Moderate":
		return g.Moderate, nil
	case "Optimistic":
		return g.Optimistic, nil
	}
	return 0, fmt.Errorf("unknown scenario %q", scenario)
}
