package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/fairvalue/internal/report"
	"github.com/seenimoa/fairvalue/pkg/models"
	"github.com/seenimoa/fairvalue/pkg/utils"
)

// --- Profile Command ---

var profileCmd = &cobra.Command{
	Use:   "profile [ticker]",
	Short: "Show the quote snapshot and recent headlines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker, err := parseTicker(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		limit, _ := cmd.Flags().GetInt("news")
		var (
			p    *models.Profile
			news []models.Headline
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			p, err = application.Provider.Profile(gctx, ticker)
			return err
		})
		if limit > 0 {
			g.Go(func() error {
				var err error
				// Headlines are optional context for the profile.
				if news, err = application.Provider.Headlines(gctx, ticker, limit); err != nil {
					application.Logger.Warn().Err(err).Str("ticker", ticker).Msg("headlines unavailable")
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		return render(report.ProfileDocument(p, news, currencyFor(p.Currency)))
	},
}

func init() {
	profileCmd.Flags().Int("news", 5, "number of headlines to show (0 to skip)")
}

// --- Statements Command ---

var statementsCmd = &cobra.Command{
	Use:   "statements [ticker]",
	Short: "Show annual financial statements",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker, err := parseTicker(args[0])
		if err != nil {
			return err
		}
		kind, _ := cmd.Flags().GetString("kind")
		ctx, cancel := commandContext(cmd)
		defer cancel()

		cur := application.Currency()
		var (
			tbl  report.Table
			data any
		)
		switch strings.ToLower(kind) {
		case "income":
			rows, err := application.Provider.IncomeStatements(ctx, ticker)
			if err != nil {
				return err
			}
			tbl, data = report.IncomeTable(rows, cur), rows
		case "cashflow":
			rows, err := application.Provider.CashFlowStatements(ctx, ticker)
			if err != nil {
				return err
			}
			tbl, data = report.CashFlowTable(rows, cur), rows
		case "balance":
			rows, err := application.Provider.BalanceSheets(ctx, ticker)
			if err != nil {
				return err
			}
			tbl, data = report.BalanceTable(rows, cur), rows
		default:
			return fmt.Errorf("unknown statement kind %q (want income, cashflow or balance)", kind)
		}

		return render(report.Document{Title: ticker + ": " + tbl.Title, Tables: []report.Table{tbl}, Data: data})
	},
}

func init() {
	statementsCmd.Flags().String("kind", "income", "statement kind: income, cashflow or balance")
}

// --- Metrics Command ---

var metricsCmd = &cobra.Command{
	Use:   "metrics [ticker]",
	Short: "Show valuation measures (P/S, P/E, forward P/E, enterprise value)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker, err := parseTicker(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		rows, err := application.Provider.ValuationMeasures(ctx, ticker)
		if err != nil {
			return err
		}
		tbl := report.ValuationMeasuresTable(rows, application.Currency())
		return render(report.Document{Title: ticker + ": " + tbl.Title, Tables: []report.Table{tbl}, Data: rows})
	},
}

// --- Recommendations Command ---

var recommendationsCmd = &cobra.Command{
	Use:   "recommendations [ticker]",
	Short: "Show analyst recommendation counts for the last four months",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker, err := parseTicker(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		rows, err := application.Provider.RecommendationTrend(ctx, ticker)
		if err != nil {
			return err
		}
		tbl := report.RecommendationTable(rows)
		return render(report.Document{Title: ticker + ": " + tbl.Title, Tables: []report.Table{tbl}, Data: rows})
	},
}

// --- History Command ---

var historyCmd = &cobra.Command{
	Use:   "history [ticker]",
	Short: "Show five years of daily adjusted closes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker, err := parseTicker(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		points, err := application.Provider.PriceHistory(ctx, ticker)
		if err != nil {
			return err
		}
		if last, _ := cmd.Flags().GetInt("last"); last > 0 && len(points) > last && format != report.FormatHTML {
			points = points[len(points)-last:]
		}
		return render(report.HistoryDocument(ticker, points, application.Currency()))
	},
}

func init() {
	historyCmd.Flags().Int("last", 30, "only show the most recent N closes in tables (0 for all)")
}

// currencyFor prefers the symbol of the quote currency when it is known,
// falling back to the configured symbol.
func currencyFor(code string) string {
	if code == "" {
		return application.Currency()
	}
	return utils.CurrencySymbol(code)
}
