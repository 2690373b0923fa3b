// Package treasury reads the 10-year U.S. Treasury par yield, used as the
// default risk-free rate, from the Treasury's daily yield curve page.
package treasury

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/seenimoa/fairvalue/internal/infra"
)

// DefaultURL is the daily par yield curve text view.
const DefaultURL = "https://home.treasury.gov/resource-center/data-chart-center/interest-rates/TextView"

const tenYearColumn = "10 Yr"

// ErrNoYield is returned when neither the current nor the previous month has
// a 10-year observation.
var ErrNoYield = errors.New("treasury: no 10-year yield published")

// Client scrapes the yield curve table.
type Client struct {
	http *infra.HTTPClient
	url  string
	log  zerolog.Logger
	now  func() time.Time
}

// New creates a treasury client. An empty url uses DefaultURL.
func New(url string, cfg infra.HTTPConfig) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		http: infra.NewHTTPClient(cfg),
		url:  url,
		log:  cfg.Logger.With().Str("source", "treasury").Logger(),
		now:  time.Now,
	}
}

// TenYearYield returns the most recent 10-year par yield as a fraction
// (4.25% -> 0.0425). Early in a month the page can be empty, so the previous
// month is tried as well.
func (c *Client) TenYearYield(ctx context.Context) (float64, error) {
	now := c.now().UTC()
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	for _, m := range []time.Time{month, month.AddDate(0, -1, 0)} {
		body, err := c.http.Get(ctx, c.url, map[string]string{
			"type":                       "daily_treasury_yield_curve",
			"field_tdr_date_value_month": m.Format("200601"),
		})
		if err != nil {
			return 0, fmt.Errorf("treasury yield curve: %w", err)
		}
		obs, ok, err := parseTenYear(body)
		if err != nil {
			return 0, err
		}
		if ok {
			c.log.Debug().Str("date", obs.Date.Format("2006-01-02")).Float64("yield_pct", obs.Percent).Msg("10-year yield")
			return obs.Percent / 100, nil
		}
	}
	return 0, ErrNoYield
}

type observation struct {
	Date    time.Time
	Percent float64
}

// parseTenYear returns the latest row of the "10 Yr" column. ok is false when
// the table has no usable rows.
func parseTenYear(body []byte) (obs observation, ok bool, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return obs, false, fmt.Errorf("parse treasury page: %w", err)
	}

	dateCol, yieldCol := -1, -1
	doc.Find("table thead th").Each(func(i int, th *goquery.Selection) {
		switch strings.TrimSpace(th.Text()) {
		case "Date":
			dateCol = i
		case tenYearColumn:
			yieldCol = i
		}
	})
	if dateCol < 0 || yieldCol < 0 {
		return obs, false, nil
	}

	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() <= max(dateCol, yieldCol) {
			return
		}
		date, err := time.Parse("01/02/2006", strings.TrimSpace(cells.Eq(dateCol).Text()))
		if err != nil {
			return
		}
		pct, err := strconv.ParseFloat(strings.TrimSpace(cells.Eq(yieldCol).Text()), 64)
		if err != nil {
			return
		}
		if !ok || date.After(obs.Date) {
			obs, ok = observation{Date: date, Percent: pct}, true
		}
	})
	return obs, ok, nil
}
