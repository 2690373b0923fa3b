package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/seenimoa/fairvalue/internal/analysis/valuation"
	"github.com/seenimoa/fairvalue/internal/app"
	"github.com/seenimoa/fairvalue/internal/report"
	"github.com/seenimoa/fairvalue/pkg/models"
	"github.com/seenimoa/fairvalue/pkg/utils"
)

// --- WACC Command ---

var waccCmd = &cobra.Command{
	Use:   "wacc [ticker]",
	Short: "Compute the weighted average cost of capital",
	Long: `Compute WACC from market equity, total debt, CAPM cost of equity and the
after-tax cost of debt. Without --risk-free the latest 10-year Treasury yield
is used when the treasury lookup is enabled, else the configured default.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker, err := parseTicker(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		rf, source := application.RiskFreeRate(ctx, optFloat(cmd, "risk-free"))
		application.Logger.Debug().Float64("risk_free_rate", rf).Str("source", source).Msg("risk-free rate")

		rep, err := application.Engine.WACC(ctx, ticker, rf, application.MarketReturn(optFloat(cmd, "market-return")))
		if err != nil {
			return err
		}
		return render(report.WACCDocument(rep, application.Currency()))
	},
}

// --- Intrinsic Command ---

var intrinsicCmd = &cobra.Command{
	Use:   "intrinsic [ticker]",
	Short: "Estimate intrinsic value per share under three scenarios",
	Long: `Value the company with a P/E multiple model and a five-year DCF under the
conservative, moderate and optimistic scenarios. The WACC is computed unless
--wacc is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := runValue(cmd, args[0])
		if err != nil {
			return err
		}
		return render(report.IntrinsicDocument(v.Intrinsic, application.Currency()))
	},
}

// --- Value Command ---

var valueCmd = &cobra.Command{
	Use:   "value [ticker]",
	Short: "Compute WACC and the scenario valuation together",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := runValue(cmd, args[0])
		if err != nil {
			return err
		}

		history := []models.PricePoint(nil)
		if format == report.FormatHTML {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			if history, err = application.Provider.PriceHistory(ctx, v.Symbol); err != nil {
				application.Logger.Warn().Err(err).Str("ticker", v.Symbol).Msg("price history unavailable")
			}
		}
		return render(report.ValueDocument(v, application.Currency(), history))
	},
}

func init() {
	for _, c := range []*cobra.Command{waccCmd, intrinsicCmd, valueCmd} {
		c.PreRunE = checkRateFlags
		c.Flags().Float64("risk-free", 0, "risk-free rate as a fraction, e.g. 0.042")
		c.Flags().Float64("market-return", 0, "expected market return as a fraction, e.g. 0.10")
	}
	for _, c := range []*cobra.Command{intrinsicCmd, valueCmd} {
		c.Flags().Float64("conservative", 0, "conservative growth rate as a fraction")
		c.Flags().Float64("moderate", 0, "moderate growth rate as a fraction")
		c.Flags().Float64("optimistic", 0, "optimistic growth rate as a fraction")
	}
	intrinsicCmd.Flags().Float64("wacc", 0, "discount rate as a fraction (computed when omitted)")
}

// runValue resolves the rate flags and runs the combined valuation. A data
// failure in the scenario table is carried in the report, not returned.
func runValue(cmd *cobra.Command, arg string) (*valuation.ValueReport, error) {
	ticker, err := parseTicker(arg)
	if err != nil {
		return nil, err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	req := valuation.ValueRequest{
		Growth: application.Growth(app.GrowthOverrides{
			Conservative: optFloat(cmd, "conservative"),
			Moderate:     optFloat(cmd, "moderate"),
			Optimistic:   optFloat(cmd, "optimistic"),
		}),
		WACC: optFloat(cmd, "wacc"),
	}
	if req.WACC == nil {
		req.RiskFreeRate, _ = application.RiskFreeRate(ctx, optFloat(cmd, "risk-free"))
		req.MarketReturn = application.MarketReturn(optFloat(cmd, "market-return"))
	}
	return application.Engine.Value(ctx, ticker, req)
}

// checkRateFlags rejects NaN and infinite values in the float flags the user
// set. pflag parses "NaN" and "Inf" like any other float.
func checkRateFlags(cmd *cobra.Command, _ []string) error {
	var bad error
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if bad != nil || f.Value.Type() != "float64" {
			return
		}
		v, err := cmd.Flags().GetFloat64(f.Name)
		if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
			bad = fmt.Errorf("--%s must be a finite number, got %s", f.Name, f.Value.String())
		}
	})
	return bad
}

// optFloat returns the flag value only when the user set it.
func optFloat(cmd *cobra.Command, name string) *float64 {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return nil
	}
	v, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		return nil
	}
	return &v
}

func parseTicker(arg string) (string, error) {
	if !utils.ValidTicker(arg) {
		return "", fmt.Errorf("invalid ticker %q", arg)
	}
	return utils.NormalizeTicker(arg), nil
}
