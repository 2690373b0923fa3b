// Package config handles configuration loading for fairvalue.
// It supports YAML config files, a .env file and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FAIRVALUE_PROVIDER_NAME.
const EnvPrefix = "FAIRVALUE"

// Config represents the complete application configuration.
type Config struct {
	Valuation ValuationConfig `mapstructure:"valuation" yaml:"valuation"`
	Provider  ProviderConfig  `mapstructure:"provider"  yaml:"provider"`
	Treasury  TreasuryConfig  `mapstructure:"treasury"  yaml:"treasury"`
	API       APIConfig       `mapstructure:"api"       yaml:"api"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// ValuationConfig holds the market assumptions used when a caller does not
// supply its own. Rates are fractions.
type ValuationConfig struct {
	RiskFreeRate       float64 `mapstructure:"risk_free_rate"      yaml:"risk_free_rate"`
	MarketReturn       float64 `mapstructure:"market_return"       yaml:"market_return"`
	ConservativeGrowth float64 `mapstructure:"conservative_growth" yaml:"conservative_growth"`
	ModerateGrowth     float64 `mapstructure:"moderate_growth"     yaml:"moderate_growth"`
	OptimisticGrowth   float64 `mapstructure:"optimistic_growth"   yaml:"optimistic_growth"`
	CurrencySymbol     string  `mapstructure:"currency_symbol"     yaml:"currency_symbol"`
}

// ProviderConfig selects and tunes the market data provider.
type ProviderConfig struct {
	Name        string `mapstructure:"name"         yaml:"name"` // "yfinance" or "fixture"
	BaseURL     string `mapstructure:"base_url"     yaml:"base_url"`
	NewsURL     string `mapstructure:"news_url"     yaml:"news_url"`
	TimeoutSec  int    `mapstructure:"timeout_sec"  yaml:"timeout_sec"`
	UserAgent   string `mapstructure:"user_agent"   yaml:"user_agent"`
	RateLimit   int    `mapstructure:"rate_limit"   yaml:"rate_limit"` // requests per second
	FixtureFile string `mapstructure:"fixture_file" yaml:"fixture_file"`
}

// TreasuryConfig controls the 10-year yield lookup for the risk-free rate.
type TreasuryConfig struct {
	Enabled    bool   `mapstructure:"enabled"      yaml:"enabled"`
	Source     string `mapstructure:"source"       yaml:"source"` // "treasury" or "fred"
	URL        string `mapstructure:"url"          yaml:"url"`      // Treasury yield curve page
	FREDURL    string `mapstructure:"fred_url"     yaml:"fred_url"` // FRED API base
	FREDAPIKey string `mapstructure:"fred_api_key" yaml:"fred_api_key" json:"-"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host           string   `mapstructure:"host"            yaml:"host"`
	Port           int      `mapstructure:"port"            yaml:"port"`
	CORSOrigins    []string `mapstructure:"cors_origins"    yaml:"cors_origins"`
	RequestTimeout int      `mapstructure:"request_timeout" yaml:"request_timeout"` // seconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Providers lists the provider names Validate accepts.
var Providers = []string{"yfinance", "fixture"}

// YieldSources lists the treasury.source values Validate accepts.
var YieldSources = []string{"treasury", "fred"}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.fairvalue/config.yaml (home directory)
//  3. /etc/fairvalue/config.yaml (system)
//
// A .env file in the working directory is loaded into the environment first.
// Environment variables override config file values.
// Format: FAIRVALUE_<SECTION>_<KEY>, e.g., FAIRVALUE_VALUATION_RISK_FREE_RATE
func Load() (*Config, error) {
	loadDotEnv()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".fairvalue"))
	v.AddConfigPath("/etc/fairvalue")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadDotEnv()

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	overrideFromEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv populates the environment from ./.env. Variables already set
// win, and a missing file is not an error.
func loadDotEnv() {
	_ = godotenv.Load()
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Valuation defaults
	v.SetDefault("valuation.risk_free_rate", 0.042)
	v.SetDefault("valuation.market_return", 0.10)
	v.SetDefault("valuation.conservative_growth", 0.05)
	v.SetDefault("valuation.moderate_growth", 0.08)
	v.SetDefault("valuation.optimistic_growth", 0.12)
	v.SetDefault("valuation.currency_symbol", "$")

	// Provider defaults
	v.SetDefault("provider.name", "yfinance")
	v.SetDefault("provider.base_url", "")
	v.SetDefault("provider.news_url", "")
	v.SetDefault("provider.timeout_sec", 15)
	v.SetDefault("provider.user_agent", "")
	v.SetDefault("provider.rate_limit", 5)
	v.SetDefault("provider.fixture_file", "")

	// Treasury defaults
	v.SetDefault("treasury.enabled", true)
	v.SetDefault("treasury.source", "treasury")
	v.SetDefault("treasury.url", "")
	v.SetDefault("treasury.fred_url", "")
	v.SetDefault("treasury.fred_api_key", "")

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("api.request_timeout", 60)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv reads sensitive keys and short-form variables that do not
// follow the section_key layout. A short form must never equal a section name
// (FAIRVALUE_PROVIDER would shadow every provider.* key in viper).
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("FRED_API_KEY"); key != "" {
		cfg.Treasury.FREDAPIKey = key
	}
	if level := os.Getenv("FAIRVALUE_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("FAIRVALUE_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}
}

// Validate checks values that would otherwise fail later at first use.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(Providers, c.Provider.Name) {
		errs = append(errs, fmt.Errorf("provider.name %q is not one of %s", c.Provider.Name, strings.Join(Providers, ", ")))
	}
	if c.Provider.Name == "fixture" && c.Provider.FixtureFile == "" {
		errs = append(errs, errors.New("provider.fixture_file is required for the fixture provider"))
	}
	if c.Provider.TimeoutSec <= 0 {
		errs = append(errs, fmt.Errorf("provider.timeout_sec must be positive, got %d", c.Provider.TimeoutSec))
	}
	if c.Provider.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("provider.rate_limit must not be negative, got %d", c.Provider.RateLimit))
	}
	if c.Treasury.Enabled && !slices.Contains(YieldSources, c.Treasury.Source) {
		errs = append(errs, fmt.Errorf("treasury.source %q is not one of %s", c.Treasury.Source, strings.Join(YieldSources, ", ")))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be text or json", c.Logging.Format))
	}
	if c.API.Port < 0 || c.API.Port > 65535 {
		errs = append(errs, fmt.Errorf("api.port %d out of range", c.API.Port))
	}
	return errors.Join(errs...)
}

// Addr returns the host:port the API server listens on.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
