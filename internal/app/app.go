// Package app wires configuration, the data provider, the risk-free yield
// source and the valuation engine into one set of application dependencies
// shared by the CLI and the HTTP API.
package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/seenimoa/fairvalue/internal/analysis/valuation"
	"github.com/seenimoa/fairvalue/internal/config"
	"github.com/seenimoa/fairvalue/internal/infra"
	"github.com/seenimoa/fairvalue/internal/provider"
	"github.com/seenimoa/fairvalue/internal/providers"
	"github.com/seenimoa/fairvalue/internal/providers/fred"
	"github.com/seenimoa/fairvalue/internal/providers/treasury"
)

// YieldSource supplies the current 10-year Treasury yield as a fraction.
type YieldSource interface {
	TenYearYield(ctx context.Context) (float64, error)
}

// Rate sources reported alongside a resolved risk-free rate.
const (
	RateFromCaller   = "caller"
	RateFromTreasury = "treasury"
	RateFromConfig   = "config"
)

// App holds all application components and dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Provider provider.CompanyData
	Engine   *valuation.Engine
	Treasury YieldSource // nil when the yield lookup is disabled
}

// New initializes the application with the provider named in cfg.
func New(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	p, err := providers.NewRegistry().New(cfg.Provider.Name, ProviderOptions(cfg, logger))
	if err != nil {
		return nil, err
	}

	a := NewWithProvider(cfg, logger, p, NewYieldSource(cfg, logger))
	a.Logger.Info().
		Str("provider", p.Info().Name).
		Bool("treasury", cfg.Treasury.Enabled).
		Str("yield_source", cfg.Treasury.Source).
		Msg("application initialization complete")
	return a, nil
}

// NewYieldSource builds the configured 10-year yield source, or nil when the
// lookup is disabled.
func NewYieldSource(cfg *config.Config, logger zerolog.Logger) YieldSource {
	if !cfg.Treasury.Enabled {
		return nil
	}
	httpCfg := infra.HTTPConfig{
		Timeout:   time.Duration(cfg.Provider.TimeoutSec) * time.Second,
		UserAgent: cfg.Provider.UserAgent,
		Logger:    logger,
	}
	if cfg.Treasury.Source == "fred" {
		return fred.New(cfg.Treasury.FREDAPIKey, cfg.Treasury.FREDURL, httpCfg)
	}
	return treasury.New(cfg.Treasury.URL, httpCfg)
}

// NewWithProvider builds an App around an existing provider and yield source.
func NewWithProvider(cfg *config.Config, logger zerolog.Logger, p provider.CompanyData, ts YieldSource) *App {
	return &App{
		Config:   cfg,
		Logger:   logger,
		Provider: p,
		Engine:   valuation.NewEngine(p, logger),
		Treasury: ts,
	}
}

// ProviderOptions maps the provider config section onto registry options.
func ProviderOptions(cfg *config.Config, logger zerolog.Logger) provider.Options {
	return provider.Options{
		BaseURL:     cfg.Provider.BaseURL,
		NewsURL:     cfg.Provider.NewsURL,
		UserAgent:   cfg.Provider.UserAgent,
		Timeout:     time.Duration(cfg.Provider.TimeoutSec) * time.Second,
		RateLimit:   cfg.Provider.RateLimit,
		FixtureFile: cfg.Provider.FixtureFile,
		Logger:      logger,
	}
}

// RiskFreeRate resolves the risk-free rate: the caller's value when given,
// else the latest 10-year Treasury yield, else the configured default.
// A failed Treasury lookup is logged and falls through to the default.
func (a *App) RiskFreeRate(ctx context.Context, explicit *float64) (rate float64, source string) {
	if explicit != nil {
		return *explicit, RateFromCaller
	}
	if a.Treasury != nil {
		y, err := a.Treasury.TenYearYield(ctx)
		if err == nil {
			return y, RateFromTreasury
		}
		a.Logger.Warn().Err(err).Float64("default", a.Config.Valuation.RiskFreeRate).Msg("treasury yield unavailable, using configured risk-free rate")
	}
	return a.Config.Valuation.RiskFreeRate, RateFromConfig
}

// MarketReturn returns explicit when given, else the configured default.
func (a *App) MarketReturn(explicit *float64) float64 {
	if explicit != nil {
		return *explicit
	}
	return a.Config.Valuation.MarketReturn
}

// GrowthOverrides replaces individual configured growth rates.
type GrowthOverrides struct {
	Conservative *float64
	Moderate     *float64
	Optimistic   *float64
}

// Growth returns the configured growth assumptions with overrides applied.
func (a *App) Growth(o GrowthOverrides) valuation.GrowthAssumptions {
	v := a.Config.Valuation
	g := valuation.GrowthAssumptions{
		Conservative: v.ConservativeGrowth,
		Moderate:     v.ModerateGrowth,
		Optimistic:   v.OptimisticGrowth,
	}
	if o.Conservative != nil {
		g.Conservative = *o.Conservative
	}
	if o.Moderate != nil {
		g.Moderate = *o.Moderate
	}
	if o.Optimistic != nil {
		g.Optimistic = *o.Optimistic
	}
	return g
}

// Currency is the display prefix for money values.
func (a *App) Currency() string {
	if s := a.Config.Valuation.CurrencySymbol; s != "" {
		return s
	}
	return "$"
}

// Close closes all application resources.
func (a *App) Close() error {
	return nil
}
