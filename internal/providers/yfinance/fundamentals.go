package yfinance

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/seenimoa/fairvalue/internal/provider"
	"github.com/seenimoa/fairvalue/pkg/models"
)

// period1 is the earliest timestamp Yahoo's own site requests (1985-08-23).
const timeseriesPeriod1 = 493590046

var (
	incomeFields    = []string{"NetIncome", "TotalRevenue", "BasicEPS"}
	cashFlowFields  = []string{"CapitalExpenditure", "FreeCashFlow"}
	balanceFields   = []string{"TotalAssets", "TotalDebt"}
	trailingFields  = []string{"InterestExpense", "EBIT", "TaxRateForCalcs"}
	valuationFields = []string{"PsRatio", "ForwardPeRatio", "PeRatio", "EnterpriseValue"}
)

// tsRow is every field reported for one (asOfDate, periodType) pair.
type tsRow struct {
	AsOfDate   string
	PeriodType string
	Values     map[string]float64
}

// values returns the named fields in order, ok is false if any is missing.
func (r tsRow) values(fields ...string) ([]float64, bool) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, ok := r.Values[f]
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// timeseries fetches the given fields with each prefix ("annual",
// "trailing", "quarterly") from the fundamentals-timeseries endpoint.
func (p *Provider) timeseries(ctx context.Context, symbol string, prefixes []string, fields []string) ([]tsRow, error) {
	types := make([]string, 0, len(prefixes)*len(fields))
	for _, pre := range prefixes {
		for _, f := range fields {
			types = append(types, pre+f)
		}
	}

	yfTicker := toYFTicker(symbol)
	endpoint := fmt.Sprintf("%s/ws/fundamentals-timeseries/v1/finance/timeseries/%s", p.baseURL, url.PathEscape(yfTicker))
	body, err := p.http.Get(ctx, endpoint, map[string]string{
		"symbol":  yfTicker,
		"type":    strings.Join(types, ","),
		"period1": strconv.Itoa(timeseriesPeriod1),
		"period2": strconv.FormatInt(time.Now().Unix(), 10),
	})
	if err != nil {
		return nil, err
	}
	return parseTimeseries(body)
}

// parseTimeseries flattens the per-type arrays of a timeseries response into
// rows keyed by date and period type, in first-seen order. Null points and
// points without a reported value are skipped.
func parseTimeseries(body []byte) ([]tsRow, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("parse timeseries: invalid JSON")
	}
	if e := gjson.GetBytes(body, "timeseries.error"); e.Exists() && e.Type != gjson.Null {
		return nil, fmt.Errorf("timeseries: %s", e.Get("description").String())
	}
	result := gjson.GetBytes(body, "timeseries.result")
	if !result.IsArray() {
		return nil, errors.New("parse timeseries: missing result")
	}

	index := map[string]int{}
	var rows []tsRow
	result.ForEach(func(_, item gjson.Result) bool {
		typ := item.Get("meta.type.0").String()
		field := stripPeriodPrefix(typ)
		if field == "" {
			return true
		}
		item.Get(gjson.Escape(typ)).ForEach(func(_, pt gjson.Result) bool {
			raw := pt.Get("reportedValue.raw")
			if pt.Type == gjson.Null || !raw.Exists() || raw.Type != gjson.Number {
				return true
			}
			date := pt.Get("asOfDate").String()
			ptype := pt.Get("periodType").String()
			key := date + "|" + ptype
			i, ok := index[key]
			if !ok {
				i = len(rows)
				index[key] = i
				rows = append(rows, tsRow{AsOfDate: date, PeriodType: ptype, Values: map[string]float64{}})
			}
			rows[i].Values[field] = raw.Float()
			return true
		})
		return true
	})
	return rows, nil
}

func stripPeriodPrefix(typ string) string {
	for _, pre := range []string{"annual", "trailing", "quarterly"} {
		if strings.HasPrefix(typ, pre) {
			return strings.TrimPrefix(typ, pre)
		}
	}
	return ""
}

// --- Statements ---

// IncomeStatements returns complete annual income statement rows, oldest first.
func (p *Provider) IncomeStatements(ctx context.Context, symbol string) ([]models.IncomeStatement, error) {
	rows, err := p.timeseries(ctx, symbol, []string{"annual"}, incomeFields)
	if err != nil {
		return nil, provider.Unavailable(providerName, symbol, "incomeStatement", err)
	}
	return parseIncomeStatements(rows), nil
}

func parseIncomeStatements(rows []tsRow) []models.IncomeStatement {
	var out []models.IncomeStatement
	for _, r := range rows {
		v, ok := r.values(incomeFields...)
		if r.PeriodType != models.PeriodAnnual || !ok {
			continue
		}
		out = append(out, models.IncomeStatement{
			AsOfDate:     r.AsOfDate,
			PeriodType:   r.PeriodType,
			NetIncome:    v[0],
			TotalRevenue: v[1],
			BasicEPS:     v[2],
		})
	}
	out = provider.Dedupe(out)
	provider.SortByDate(out, func(s models.IncomeStatement) string { return s.AsOfDate })
	return out
}

// CashFlowStatements returns complete annual cash flow rows, oldest first.
func (p *Provider) CashFlowStatements(ctx context.Context, symbol string) ([]models.CashFlow, error) {
	rows, err := p.timeseries(ctx, symbol, []string{"annual"}, cashFlowFields)
	if err != nil {
		return nil, provider.Unavailable(providerName, symbol, "cashFlow", err)
	}
	return parseCashFlows(rows), nil
}

func parseCashFlows(rows []tsRow) []models.CashFlow {
	var out []models.CashFlow
	for _, r := range rows {
		v, ok := r.values(cashFlowFields...)
		if r.PeriodType != models.PeriodAnnual || !ok {
			continue
		}
		out = append(out, models.CashFlow{
			AsOfDate:           r.AsOfDate,
			PeriodType:         r.PeriodType,
			CapitalExpenditure: v[0],
			FreeCashFlow:       v[1],
		})
	}
	out = provider.Dedupe(out)
	provider.SortByDate(out, func(c models.CashFlow) string { return c.AsOfDate })
	return out
}

// BalanceSheets returns complete annual balance sheet rows, oldest first.
func (p *Provider) BalanceSheets(ctx context.Context, symbol string) ([]models.BalanceSheet, error) {
	rows, err := p.timeseries(ctx, symbol, []string{"annual"}, balanceFields)
	if err != nil {
		return nil, provider.Unavailable(providerName, symbol, "balanceSheet", err)
	}
	return parseBalanceSheets(rows), nil
}

func parseBalanceSheets(rows []tsRow) []models.BalanceSheet {
	var out []models.BalanceSheet
	for _, r := range rows {
		v, ok := r.values(balanceFields...)
		if r.PeriodType != models.PeriodAnnual || !ok {
			continue
		}
		out = append(out, models.BalanceSheet{
			AsOfDate:    r.AsOfDate,
			PeriodType:  r.PeriodType,
			TotalAssets: v[0],
			TotalDebt:   v[1],
		})
	}
	out = provider.Dedupe(out)
	provider.SortByDate(out, func(b models.BalanceSheet) string { return b.AsOfDate })
	return out
}

// --- Latest values ---

// LatestTotalDebt returns total debt from the most recent annual balance sheet
// that reports it.
func (p *Provider) LatestTotalDebt(ctx context.Context, symbol string) (float64, error) {
	return p.latestAnnual(ctx, symbol, "TotalDebt")
}

// LatestFreeCashFlow returns free cash flow from the most recent annual cash
// flow statement that reports it.
func (p *Provider) LatestFreeCashFlow(ctx context.Context, symbol string) (float64, error) {
	return p.latestAnnual(ctx, symbol, "FreeCashFlow")
}

func (p *Provider) latestAnnual(ctx context.Context, symbol, field string) (float64, error) {
	rows, err := p.timeseries(ctx, symbol, []string{"annual"}, []string{field})
	if err != nil {
		return 0, provider.Unavailable(providerName, symbol, field, err)
	}
	v, ok := latestValue(rows, models.PeriodAnnual, field)
	if !ok {
		return 0, provider.Unavailable(providerName, symbol, field, nil)
	}
	return v, nil
}

// latestValue returns field from the most recent row of periodType that has it.
func latestValue(rows []tsRow, periodType, field string) (float64, bool) {
	var best tsRow
	found := false
	for _, r := range rows {
		if r.PeriodType != periodType {
			continue
		}
		if _, ok := r.Values[field]; !ok {
			continue
		}
		if !found || r.AsOfDate > best.AsOfDate {
			best, found = r, true
		}
	}
	if !found {
		return 0, false
	}
	return best.Values[field], true
}

// TrailingIncomeStatement returns the trailing-twelve-month interest expense,
// EBIT and tax rate. A field absent from the TTM row falls back to the most
// recent annual value.
func (p *Provider) TrailingIncomeStatement(ctx context.Context, symbol string) (models.TrailingIncome, error) {
	rows, err := p.timeseries(ctx, symbol, []string{"trailing", "annual"}, trailingFields)
	if err != nil {
		return models.TrailingIncome{}, provider.Unavailable(providerName, symbol, "trailingIncomeStatement", err)
	}
	return parseTrailingIncome(rows, symbol)
}

func parseTrailingIncome(rows []tsRow, symbol string) (models.TrailingIncome, error) {
	var out models.TrailingIncome
	vals := make([]float64, len(trailingFields))
	for i, f := range trailingFields {
		v, ok := latestValue(rows, models.PeriodTrailing, f)
		if !ok {
			v, ok = latestValue(rows, models.PeriodAnnual, f)
		}
		if !ok {
			return out, provider.Unavailable(providerName, symbol, f, nil)
		}
		vals[i] = v
	}
	for _, r := range rows {
		if r.PeriodType == models.PeriodTrailing && r.AsOfDate > out.AsOfDate {
			out.AsOfDate = r.AsOfDate
		}
	}
	out.InterestExpense, out.EBIT, out.TaxRateForCalcs = vals[0], vals[1], vals[2]
	return out, nil
}

// --- Valuation measures ---

// ValuationMeasures returns quarterly and trailing valuation rows with every
// measure present, oldest first.
func (p *Provider) ValuationMeasures(ctx context.Context, symbol string) ([]models.ValuationMeasure, error) {
	rows, err := p.timeseries(ctx, symbol, []string{"quarterly", "trailing"}, valuationFields)
	if err != nil {
		return nil, provider.Unavailable(providerName, symbol, "valuationMeasures", err)
	}
	return parseValuationMeasures(rows), nil
}

func parseValuationMeasures(rows []tsRow) []models.ValuationMeasure {
	var out []models.ValuationMeasure
	for _, r := range rows {
		v, ok := r.values(valuationFields...)
		if !ok {
			continue
		}
		out = append(out, models.ValuationMeasure{
			AsOfDate:        r.AsOfDate,
			PeriodType:      r.PeriodType,
			PsRatio:         v[0],
			ForwardPeRatio:  v[1],
			PeRatio:         v[2],
			EnterpriseValue: v[3],
		})
	}
	out = provider.Dedupe(out)
	provider.SortByDate(out, func(m models.ValuationMeasure) string { return m.AsOfDate })
	return out
}
