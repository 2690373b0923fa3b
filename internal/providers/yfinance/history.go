package yfinance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/seenimoa/fairvalue/internal/provider"
	"github.com/seenimoa/fairvalue/pkg/models"
)

// PriceHistory returns five years of daily adjusted closes, oldest first.
// Days without an adjusted close are skipped.
func (p *Provider) PriceHistory(ctx context.Context, symbol string) ([]models.PricePoint, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", p.baseURL, url.PathEscape(toYFTicker(symbol)))
	body, err := p.http.Get(ctx, endpoint, map[string]string{
		"range":    "5y",
		"interval": "1d",
	})
	if err != nil {
		return nil, provider.Unavailable(providerName, symbol, "priceHistory", err)
	}

	var resp yfChartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, provider.Unavailable(providerName, symbol, "priceHistory", fmt.Errorf("parse chart: %w", err))
	}
	if resp.Chart.Error != nil {
		return nil, provider.Unavailable(providerName, symbol, "priceHistory", resp.Chart.Error)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, provider.Unavailable(providerName, symbol, "priceHistory", nil)
	}
	return parseChart(resp.Chart.Result[0]), nil
}

func parseChart(r yfChartResult) []models.PricePoint {
	if len(r.Indicators.AdjClose) == 0 {
		return nil
	}
	closes := r.Indicators.AdjClose[0].AdjClose

	points := make([]models.PricePoint, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		points = append(points, models.PricePoint{
			Date:     time.Unix(ts, 0).UTC().Format("2006-01-02"),
			AdjClose: *closes[i],
		})
	}
	return points
}

// Headlines returns up to limit recent news items from the Yahoo headline
// RSS feed. limit <= 0 returns every item.
func (p *Provider) Headlines(ctx context.Context, symbol string, limit int) ([]models.Headline, error) {
	body, err := p.http.Get(ctx, p.newsURL, map[string]string{
		"s":      toYFTicker(symbol),
		"region": "US",
		"lang":   "en-US",
	})
	if err != nil {
		return nil, provider.Unavailable(providerName, symbol, "headlines", err)
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, provider.Unavailable(providerName, symbol, "headlines", fmt.Errorf("parse feed: %w", err))
	}
	return feedHeadlines(feed, limit), nil
}

func feedHeadlines(feed *gofeed.Feed, limit int) []models.Headline {
	out := make([]models.Headline, 0, len(feed.Items))
	for _, item := range feed.Items {
		if limit > 0 && len(out) >= limit {
			break
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		h := models.Headline{
			Title:  title,
			Link:   item.Link,
			Source: feed.Title,
		}
		if item.PublishedParsed != nil {
			h.Published = item.PublishedParsed.UTC()
		}
		out = append(out, h)
	}
	return out
}
