// fairvalue estimates a company's weighted average cost of capital and its
// intrinsic value per share under three growth scenarios.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/seenimoa/fairvalue/api"
	"github.com/seenimoa/fairvalue/internal/app"
	"github.com/seenimoa/fairvalue/internal/config"
	"github.com/seenimoa/fairvalue/internal/infra"
	"github.com/seenimoa/fairvalue/internal/report"
	"github.com/seenimoa/fairvalue/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global state, populated by the root PersistentPreRunE.
var (
	cfg         *config.Config
	application *app.App
	format      report.Format
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fairvalue",
	Short: "WACC and intrinsic value estimates for listed companies",
	Long: `fairvalue fetches a company's market and financial statement data and
estimates its weighted average cost of capital (CAPM cost of equity, book
debt) and its intrinsic value per share under conservative, moderate and
optimistic scenarios, using a P/E multiple model and a five-year DCF.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = loadConfig(cmd); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		f, _ := cmd.Flags().GetString("format")
		if format, err = report.ParseFormat(f); err != nil {
			return err
		}

		logger := infra.NewLogger(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
		if application, err = app.New(cfg, logger); err != nil {
			return err
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if application != nil {
			return application.Close()
		}
		return nil
	},
}

// loadConfig reads the config file and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")

	var c *config.Config
	var err error
	if configFile != "" {
		c, err = config.LoadFromFile(configFile)
	} else {
		c, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		c.Logging.Level = level
	}
	if name, _ := cmd.Flags().GetString("provider"); name != "" {
		c.Provider.Name = name
	}
	if file, _ := cmd.Flags().GetString("fixture"); file != "" {
		c.Provider.FixtureFile = file
	}
	return c, c.Validate()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file path (default: ./config/config.yaml)")
	pf.String("log-level", "", "log level override (debug, info, warn, error)")
	pf.String("format", "text", "output format (text, json, markdown, html)")
	pf.String("provider", "", "data provider override (yfinance, fixture)")
	pf.String("fixture", "", "fixture file for the fixture provider")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(statementsCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(recommendationsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(waccCmd)
	rootCmd.AddCommand(intrinsicCmd)
	rootCmd.AddCommand(valueCmd)
}

// render writes doc to stdout in the selected format.
func render(doc report.Document) error {
	return report.Render(os.Stdout, format, doc)
}

// commandContext bounds a command by the provider timeout, with headroom for
// the several requests a valuation makes.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout := time.Duration(cfg.Provider.TimeoutSec) * time.Second * 4
	return context.WithTimeout(cmd.Context(), timeout)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// No config or provider needed.
	PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
	PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fairvalue %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.API.Port = port
		}
		api.Version = version
		srv := api.NewServer(application)
		return srv.ListenAndServe(cmd.Context(), cfg.API.Addr())
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (default from config)")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and check the data sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  fairvalue: System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Time (UTC):    %s\n", time.Now().UTC().Format("2006-01-02 15:04:05"))
		fmt.Printf("  API Server:    %s\n", cfg.API.Addr())
		fmt.Println()

		fmt.Println("  Settings:")
		for _, s := range config.CheckSettings(cfg) {
			value := s.Value
			if value == "" {
				value = "(unset)"
			}
			fmt.Printf("    %-20s %-30s [%s]\n", s.Name+":", value, s.Source)
		}
		fmt.Println()

		fmt.Println("  API Keys:")
		for _, k := range config.CheckAPIKeys(cfg) {
			if k.IsSet {
				fmt.Printf("    %-20s ✅ %-26s [%s]\n", k.Name+":", k.Masked, k.Source)
			} else {
				fmt.Printf("    %-20s ⚪ not set\n", k.Name+":")
			}
		}
		fmt.Println()

		fmt.Println("  Data Sources:")
		info := application.Provider.Info()
		if err := application.Provider.Ping(ctx); err != nil {
			fmt.Printf("    %-20s ❌ %v\n", info.Name+":", err)
		} else {
			fmt.Printf("    %-20s ✅ reachable\n", info.Name+":")
		}
		rate, src := application.RiskFreeRate(ctx, nil)
		fmt.Printf("    %-20s %s (%s)\n", "risk-free rate:", utils.FormatPercent(rate, 2), src)

		fmt.Println("═══════════════════════════════════════")
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ctx.Err()
		}
		return nil
	},
}
