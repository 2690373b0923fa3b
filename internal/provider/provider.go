// Package provider defines the data access contract between market-data
// providers and the valuation engine, plus a registry that builds the
// configured provider by name.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/seenimoa/fairvalue/pkg/models"
)

// ProviderInfo holds metadata about a provider implementation.
type ProviderInfo struct {
	Name        string `json:"name"`        // e.g., "yfinance", "fixture"
	Description string `json:"description"` // human-readable description
	Website     string `json:"website"`
}

// DataSource is the field contract the valuation engine consumes.
// Every method may fail with a *DataUnavailableError.
type DataSource interface {
	Price(ctx context.Context, symbol string) (float64, error)
	SharesOutstanding(ctx context.Context, symbol string) (float64, error)
	Beta(ctx context.Context, symbol string) (float64, error)
	TrailingEPS(ctx context.Context, symbol string) (float64, error)

	// LatestTotalDebt returns total debt from the most recent annual balance sheet.
	LatestTotalDebt(ctx context.Context, symbol string) (float64, error)

	// LatestFreeCashFlow returns free cash flow from the most recent annual
	// cash flow statement.
	LatestFreeCashFlow(ctx context.Context, symbol string) (float64, error)

	// TrailingIncomeStatement returns the trailing-twelve-month income fields.
	TrailingIncomeStatement(ctx context.Context, symbol string) (models.TrailingIncome, error)
}

// CompanyData is the full accessor set a provider exposes: the valuation
// fields plus profile data and the tabular series.
type CompanyData interface {
	DataSource

	Info() ProviderInfo

	// Ping verifies the provider is reachable.
	Ping(ctx context.Context) error

	Profile(ctx context.Context, symbol string) (*models.Profile, error)

	// Statement series are annual rows sorted by date, oldest first.
	IncomeStatements(ctx context.Context, symbol string) ([]models.IncomeStatement, error)
	CashFlowStatements(ctx context.Context, symbol string) ([]models.CashFlow, error)
	BalanceSheets(ctx context.Context, symbol string) ([]models.BalanceSheet, error)

	ValuationMeasures(ctx context.Context, symbol string) ([]models.ValuationMeasure, error)
	RecommendationTrend(ctx context.Context, symbol string) ([]models.RecommendationTrend, error)
	PriceHistory(ctx context.Context, symbol string) ([]models.PricePoint, error)
	Headlines(ctx context.Context, symbol string, limit int) ([]models.Headline, error)
}

// Options configures a provider built through the registry.
type Options struct {
	BaseURL     string
	NewsURL     string
	UserAgent   string
	Timeout     time.Duration
	RateLimit   int // requests per second, 0 disables limiting
	FixtureFile string
	Logger      zerolog.Logger
}

// --- Errors ---

// ErrDataUnavailable is matched by every *DataUnavailableError.
var ErrDataUnavailable = errors.New("data unavailable")

// DataUnavailableError reports a required field that could not be retrieved
// or was missing from the provider's response.
type DataUnavailableError struct {
	Provider string
	Symbol   string
	Field    string
	Err      error
}

func (e *DataUnavailableError) Error() string {
	msg := fmt.Sprintf("%s: %s unavailable for %s", e.Provider, e.Field, e.Symbol)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDataUnavailable) true for any DataUnavailableError.
func (e *DataUnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}

// Unavailable builds a *DataUnavailableError.
func Unavailable(provider, symbol, field string, cause error) error {
	return &DataUnavailableError{Provider: provider, Symbol: symbol, Field: field, Err: cause}
}

// ErrProviderNotFound is returned when a requested provider is not registered.
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return fmt.Sprintf("provider %q not found", e.Name)
}

// ErrMissingParam is returned when a required provider option is missing.
type ErrMissingParam struct {
	Param string
}

func (e *ErrMissingParam) Error() string {
	return fmt.Sprintf("missing required parameter %q", e.Param)
}
