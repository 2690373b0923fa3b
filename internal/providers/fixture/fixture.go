// Package fixture serves company data from a YAML file keyed by ticker. It
// backs offline runs and tests with the same contract as the live provider.
package fixture

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/seenimoa/fairvalue/internal/provider"
	"github.com/seenimoa/fairvalue/pkg/models"
	"github.com/seenimoa/fairvalue/pkg/utils"
)

const providerName = "fixture"

// Company is one ticker's entry in the fixture file. Nil scalars are
// reported as unavailable.
type Company struct {
	Profile           *models.Profile              `yaml:"profile"`
	Price             *float64                     `yaml:"price"`
	SharesOutstanding *float64                     `yaml:"shares_outstanding"`
	Beta              *float64                     `yaml:"beta"`
	TrailingEPS       *float64                     `yaml:"trailing_eps"`
	TrailingIncome    *models.TrailingIncome       `yaml:"trailing_income"`
	IncomeStatements  []models.IncomeStatement     `yaml:"income_statements"`
	CashFlows         []models.CashFlow            `yaml:"cash_flows"`
	BalanceSheets     []models.BalanceSheet        `yaml:"balance_sheets"`
	ValuationMeasures []models.ValuationMeasure    `yaml:"valuation_measures"`
	Recommendations   []models.RecommendationTrend `yaml:"recommendation_trend"`
	PriceHistory      []models.PricePoint          `yaml:"price_history"`
	Headlines         []models.Headline            `yaml:"headlines"`
}

// Provider implements provider.CompanyData over an in-memory fixture set.
type Provider struct {
	source    string
	companies map[string]*Company
}

var _ provider.CompanyData = (*Provider)(nil)

// Load reads a fixture file.
func Load(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture file: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.source = path
	return p, nil
}

// Parse decodes fixture YAML. Ticker keys are normalized.
func Parse(data []byte) (*Provider, error) {
	raw := map[string]*Company{}
	if err := yaml.UnmarshalStrict(data, &raw); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	p := &Provider{source: "inline", companies: make(map[string]*Company, len(raw))}
	for ticker, c := range raw {
		if c == nil {
			c = &Company{}
		}
		p.companies[utils.NormalizeTicker(ticker)] = c
	}
	return p, nil
}

// Factory adapts Load to provider.Factory using Options.FixtureFile.
func Factory(opts provider.Options) (provider.CompanyData, error) {
	if opts.FixtureFile == "" {
		return nil, &provider.ErrMissingParam{Param: "fixture_file"}
	}
	return Load(opts.FixtureFile)
}

func (p *Provider) Info() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:        providerName,
		Description: "Static company data from " + p.source,
	}
}

// Ping always succeeds once the file has loaded.
func (p *Provider) Ping(context.Context) error { return nil }

func (p *Provider) company(symbol, field string) (*Company, error) {
	c, ok := p.companies[utils.NormalizeTicker(symbol)]
	if !ok {
		return nil, provider.Unavailable(providerName, symbol, field, fmt.Errorf("ticker not in fixture"))
	}
	return c, nil
}

func (p *Provider) scalar(symbol, field string, pick func(*Company) *float64) (float64, error) {
	c, err := p.company(symbol, field)
	if err != nil {
		return 0, err
	}
	v := pick(c)
	if v == nil {
		return 0, provider.Unavailable(providerName, symbol, field, nil)
	}
	return *v, nil
}

func (p *Provider) Price(_ context.Context, symbol string) (float64, error) {
	return p.scalar(symbol, "price", func(c *Company) *float64 { return c.Price })
}

func (p *Provider) SharesOutstanding(_ context.Context, symbol string) (float64, error) {
	return p.scalar(symbol, "shares_outstanding", func(c *Company) *float64 { return c.SharesOutstanding })
}

func (p *Provider) Beta(_ context.Context, symbol string) (float64, error) {
	return p.scalar(symbol, "beta", func(c *Company) *float64 { return c.Beta })
}

func (p *Provider) TrailingEPS(_ context.Context, symbol string) (float64, error) {
	return p.scalar(symbol, "trailing_eps", func(c *Company) *float64 { return c.TrailingEPS })
}

func (p *Provider) LatestTotalDebt(ctx context.Context, symbol string) (float64, error) {
	rows, err := p.BalanceSheets(ctx, symbol)
	if err != nil {
		return 0, err
	}
	latest, ok := provider.Latest(rows)
	if !ok {
		return 0, provider.Unavailable(providerName, symbol, "total_debt", nil)
	}
	return latest.TotalDebt, nil
}

func (p *Provider) LatestFreeCashFlow(ctx context.Context, symbol string) (float64, error) {
	rows, err := p.CashFlowStatements(ctx, symbol)
	if err != nil {
		return 0, err
	}
	latest, ok := provider.Latest(rows)
	if !ok {
		return 0, provider.Unavailable(providerName, symbol, "free_cash_flow", nil)
	}
	return latest.FreeCashFlow, nil
}

func (p *Provider) TrailingIncomeStatement(_ context.Context, symbol string) (models.TrailingIncome, error) {
	c, err := p.company(symbol, "trailing_income")
	if err != nil {
		return models.TrailingIncome{}, err
	}
	if c.TrailingIncome == nil {
		return models.TrailingIncome{}, provider.Unavailable(providerName, symbol, "trailing_income", nil)
	}
	return *c.TrailingIncome, nil
}

func (p *Provider) Profile(_ context.Context, symbol string) (*models.Profile, error) {
	c, err := p.company(symbol, "profile")
	if err != nil {
		return nil, err
	}
	if c.Profile == nil {
		return nil, provider.Unavailable(providerName, symbol, "profile", nil)
	}
	prof := *c.Profile
	if prof.Symbol == "" {
		prof.Symbol = utils.NormalizeTicker(symbol)
	}
	return &prof, nil
}

// annual keeps rows whose period type is empty or 12M.
func annual[T any](rows []T, period func(T) string) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if pt := period(r); pt == "" || pt == models.PeriodAnnual {
			out = append(out, r)
		}
	}
	return out
}

func (p *Provider) IncomeStatements(_ context.Context, symbol string) ([]models.IncomeStatement, error) {
	c, err := p.company(symbol, "income_statements")
	if err != nil {
		return nil, err
	}
	rows := provider.Dedupe(annual(c.IncomeStatements, func(r models.IncomeStatement) string { return r.PeriodType }))
	provider.SortByDate(rows, func(r models.IncomeStatement) string { return r.AsOfDate })
	return rows, nil
}

func (p *Provider) CashFlowStatements(_ context.Context, symbol string) ([]models.CashFlow, error) {
	c, err := p.company(symbol, "cash_flows")
	if err != nil {
		return nil, err
	}
	rows := provider.Dedupe(annual(c.CashFlows, func(r models.CashFlow) string { return r.PeriodType }))
	provider.SortByDate(rows, func(r models.CashFlow) string { return r.AsOfDate })
	return rows, nil
}

func (p *Provider) BalanceSheets(_ context.Context, symbol string) ([]models.BalanceSheet, error) {
	c, err := p.company(symbol, "balance_sheets")
	if err != nil {
		return nil, err
	}
	rows := provider.Dedupe(annual(c.BalanceSheets, func(r models.BalanceSheet) string { return r.PeriodType }))
	provider.SortByDate(rows, func(r models.BalanceSheet) string { return r.AsOfDate })
	return rows, nil
}

func (p *Provider) ValuationMeasures(_ context.Context, symbol string) ([]models.ValuationMeasure, error) {
	c, err := p.company(symbol, "valuation_measures")
	if err != nil {
		return nil, err
	}
	rows := provider.Dedupe(append([]models.ValuationMeasure(nil), c.ValuationMeasures...))
	provider.SortByDate(rows, func(r models.ValuationMeasure) string { return r.AsOfDate })
	return rows, nil
}

func (p *Provider) RecommendationTrend(_ context.Context, symbol string) ([]models.RecommendationTrend, error) {
	c, err := p.company(symbol, "recommendation_trend")
	if err != nil {
		return nil, err
	}
	if len(c.Recommendations) == 0 {
		return nil, provider.Unavailable(providerName, symbol, "recommendation_trend", nil)
	}
	rows := append([]models.RecommendationTrend(nil), c.Recommendations...)
	provider.SortRecommendations(rows)
	return rows, nil
}

func (p *Provider) PriceHistory(_ context.Context, symbol string) ([]models.PricePoint, error) {
	c, err := p.company(symbol, "price_history")
	if err != nil {
		return nil, err
	}
	rows := append([]models.PricePoint(nil), c.PriceHistory...)
	provider.SortByDate(rows, func(r models.PricePoint) string { return r.Date })
	return rows, nil
}

func (p *Provider) Headlines(_ context.Context, symbol string, limit int) ([]models.Headline, error) {
	c, err := p.company(symbol, "headlines")
	if err != nil {
		return nil, err
	}
	items := c.Headlines
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return append([]models.Headline(nil), items...), nil
}
