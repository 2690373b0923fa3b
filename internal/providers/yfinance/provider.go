// Package yfinance implements the Yahoo Finance data provider.
// It wraps Yahoo Finance's public APIs (v10 quoteSummary, fundamentals
// timeseries, v8 chart and the headline RSS feed) behind provider.CompanyData.
//
// Yahoo Finance is a free, no-API-key provider, but quoteSummary requires a
// session cookie plus a crumb token obtained from /v1/test/getcrumb.
package yfinance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/seenimoa/fairvalue/internal/infra"
	"github.com/seenimoa/fairvalue/internal/provider"
	"github.com/seenimoa/fairvalue/pkg/models"
	"github.com/seenimoa/fairvalue/pkg/utils"
)

const providerName = "yfinance"

const (
	DefaultBaseURL = "https://query2.finance.yahoo.com"
	DefaultNewsURL = "https://feeds.finance.yahoo.com/rss/2.0/headline"
	defaultSeedURL = "https://fc.yahoo.com"
)

const summaryModules = "price,summaryDetail,defaultKeyStatistics,recommendationTrend"

// Provider implements provider.CompanyData for Yahoo Finance.
type Provider struct {
	http    *infra.HTTPClient
	baseURL string
	seedURL string
	newsURL string
	log     zerolog.Logger

	mu    sync.Mutex
	crumb string
}

var _ provider.CompanyData = (*Provider)(nil)

// New creates a Yahoo Finance provider. When BaseURL is overridden the
// session cookie is seeded from the base URL root instead of fc.yahoo.com.
func New(opts provider.Options) (*Provider, error) {
	p := &Provider{
		baseURL: DefaultBaseURL,
		seedURL: defaultSeedURL,
		newsURL: DefaultNewsURL,
		log:     opts.Logger.With().Str("provider", providerName).Logger(),
	}
	if opts.BaseURL != "" {
		u, err := url.Parse(opts.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid base url %q", opts.BaseURL)
		}
		p.baseURL = strings.TrimRight(opts.BaseURL, "/")
		p.seedURL = p.baseURL + "/"
	}
	if opts.NewsURL != "" {
		p.newsURL = opts.NewsURL
	}
	p.http = infra.NewHTTPClient(infra.HTTPConfig{
		Timeout:   opts.Timeout,
		UserAgent: opts.UserAgent,
		RateLimit: opts.RateLimit,
		Logger:    p.log,
	})
	return p, nil
}

// Factory adapts New to provider.Factory.
func Factory(opts provider.Options) (provider.CompanyData, error) {
	return New(opts)
}

// Info returns provider metadata.
func (p *Provider) Info() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:        providerName,
		Description: "Yahoo Finance - free global financial data",
		Website:     "https://finance.yahoo.com",
	}
}

// Ping checks connectivity to Yahoo Finance by completing the crumb handshake.
func (p *Provider) Ping(ctx context.Context) error {
	if _, err := p.crumbToken(ctx); err != nil {
		return fmt.Errorf("yfinance ping: %w", err)
	}
	return nil
}

// --- Crumb handshake ---

func (p *Provider) crumbToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.crumb != "" {
		return p.crumb, nil
	}

	// The seed response status does not matter, only the cookies it sets.
	if err := p.http.Touch(ctx, p.seedURL); err != nil {
		return "", fmt.Errorf("seed session: %w", err)
	}
	body, err := p.http.Get(ctx, p.baseURL+"/v1/test/getcrumb", nil)
	if err != nil {
		return "", fmt.Errorf("fetch crumb: %w", err)
	}
	crumb := strings.TrimSpace(string(body))
	if crumb == "" {
		return "", errors.New("fetch crumb: empty crumb returned")
	}
	p.crumb = crumb
	p.log.Debug().Msg("crumb obtained")
	return crumb, nil
}

func (p *Provider) resetCrumb() {
	p.mu.Lock()
	p.crumb = ""
	p.mu.Unlock()
}

// --- quoteSummary ---

func (p *Provider) quoteSummary(ctx context.Context, symbol string) (*yfQuoteSummaryResult, error) {
	crumb, err := p.crumbToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s", p.baseURL, url.PathEscape(toYFTicker(symbol)))
	body, err := p.http.Get(ctx, endpoint, map[string]string{
		"modules": summaryModules,
		"crumb":   crumb,
	})
	if err != nil {
		var httpErr *infra.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnauthorized {
			// Stale crumb; the next call performs a fresh handshake.
			p.resetCrumb()
		}
		return nil, err
	}

	var resp yfQuoteSummaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse quoteSummary: %w", err)
	}
	if resp.QuoteSummary.Error != nil {
		return nil, resp.QuoteSummary.Error
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no quoteSummary result for %s", symbol)
	}
	return &resp.QuoteSummary.Result[0], nil
}

// summaryField fetches quoteSummary and extracts one number from it.
func (p *Provider) summaryField(ctx context.Context, symbol, field string, pick func(*yfQuoteSummaryResult) yfFinVal) (float64, error) {
	r, err := p.quoteSummary(ctx, symbol)
	if err != nil {
		return 0, provider.Unavailable(providerName, symbol, field, err)
	}
	v, ok := pick(r).value()
	if !ok {
		return 0, provider.Unavailable(providerName, symbol, field, nil)
	}
	return v, nil
}

// --- DataSource scalars ---

func (p *Provider) Price(ctx context.Context, symbol string) (float64, error) {
	return p.summaryField(ctx, symbol, "regularMarketPrice", func(r *yfQuoteSummaryResult) yfFinVal {
		if r.Price == nil {
			return yfFinVal{}
		}
		return r.Price.RegularMarketPrice
	})
}

func (p *Provider) SharesOutstanding(ctx context.Context, symbol string) (float64, error) {
	return p.summaryField(ctx, symbol, "sharesOutstanding", keyStat(func(k *yfDefaultKeyStatistics) yfFinVal {
		return k.SharesOutstanding
	}))
}

// Beta returns the key-statistics beta used for the cost of equity.
func (p *Provider) Beta(ctx context.Context, symbol string) (float64, error) {
	return p.summaryField(ctx, symbol, "beta", keyStat(func(k *yfDefaultKeyStatistics) yfFinVal {
		return k.Beta
	}))
}

func (p *Provider) TrailingEPS(ctx context.Context, symbol string) (float64, error) {
	return p.summaryField(ctx, symbol, "trailingEps", keyStat(func(k *yfDefaultKeyStatistics) yfFinVal {
		return k.TrailingEps
	}))
}

func keyStat(f func(*yfDefaultKeyStatistics) yfFinVal) func(*yfQuoteSummaryResult) yfFinVal {
	return func(r *yfQuoteSummaryResult) yfFinVal {
		if r.DefaultKeyStatistics == nil {
			return yfFinVal{}
		}
		return f(r.DefaultKeyStatistics)
	}
}

// --- Profile ---

// Profile assembles the quote snapshot. Price, market cap and dividend yield
// are required; the remaining numbers are left zero when Yahoo omits them.
func (p *Provider) Profile(ctx context.Context, symbol string) (*models.Profile, error) {
	r, err := p.quoteSummary(ctx, symbol)
	if err != nil {
		return nil, provider.Unavailable(providerName, symbol, "profile", err)
	}
	if r.Price == nil || r.SummaryDetail == nil {
		return nil, provider.Unavailable(providerName, symbol, "profile", nil)
	}
	pr, sd := r.Price, r.SummaryDetail

	prof := &models.Profile{
		Symbol:   utils.NormalizeTicker(symbol),
		Name:     coalesce(pr.LongName, pr.ShortName, symbol),
		Currency: pr.Currency,
	}

	var ok bool
	if prof.Price, ok = pr.RegularMarketPrice.value(); !ok {
		return nil, provider.Unavailable(providerName, symbol, "regularMarketPrice", nil)
	}
	if prof.MarketCap, ok = pr.MarketCap.value(); !ok {
		if prof.MarketCap, ok = sd.MarketCap.value(); !ok {
			return nil, provider.Unavailable(providerName, symbol, "marketCap", nil)
		}
	}
	dy, ok := sd.DividendYield.value()
	if !ok {
		return nil, provider.Unavailable(providerName, symbol, "dividendYield", nil)
	}
	prof.DividendYieldPct = dy * 100

	if chg, ok := pr.RegularMarketChangePercent.value(); ok {
		prof.ChangePct = round(chg, 4) * 100
	}
	if b, ok := sd.Beta.value(); ok {
		prof.Beta = b
	}
	if pe, ok := sd.TrailingPE.value(); ok {
		prof.TrailingPE = round(pe, 2)
	}
	if k := r.DefaultKeyStatistics; k != nil {
		prof.SharesOutstanding, _ = k.SharesOutstanding.value()
		prof.TrailingEPS, _ = k.TrailingEps.value()
	}
	return prof, nil
}

// RecommendationTrend returns analyst counts ordered -3m, -2m, -1m, 0m.
func (p *Provider) RecommendationTrend(ctx context.Context, symbol string) ([]models.RecommendationTrend, error) {
	r, err := p.quoteSummary(ctx, symbol)
	if err != nil {
		return nil, provider.Unavailable(providerName, symbol, "recommendationTrend", err)
	}
	if r.RecommendationTrend == nil || len(r.RecommendationTrend.Trend) == 0 {
		return nil, provider.Unavailable(providerName, symbol, "recommendationTrend", nil)
	}

	rows := make([]models.RecommendationTrend, 0, len(r.RecommendationTrend.Trend))
	for _, t := range r.RecommendationTrend.Trend {
		rows = append(rows, models.RecommendationTrend{
			Period:     t.Period,
			StrongBuy:  t.StrongBuy,
			Buy:        t.Buy,
			Hold:       t.Hold,
			Sell:       t.Sell,
			StrongSell: t.StrongSell,
		})
	}
	provider.SortRecommendations(rows)
	return rows, nil
}

// --- Shared helpers ---

// toYFTicker converts a symbol to Yahoo Finance format.
func toYFTicker(symbol string) string {
	return utils.ToYFinanceTicker(symbol)
}

// coalesce returns the first non-empty string.
func coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// round rounds half away from zero to the given number of decimals.
func round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
