// Package fred reads the 10-year Treasury constant maturity rate (series
// DGS10) from FRED, Federal Reserve Economic Data.
//
// Requires a free API key from https://fred.stlouisfed.org/docs/api/api_key.html
// Docs: https://fred.stlouisfed.org/docs/api/fred/series_observations.html
package fred

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/seenimoa/fairvalue/internal/infra"
)

const (
	// DefaultBaseURL is the FRED API root.
	DefaultBaseURL = "https://api.stlouisfed.org/fred"

	// TenYearSeries is the 10-year Treasury constant maturity rate, in percent.
	TenYearSeries = "DGS10"
)

var (
	// ErrNoAPIKey is returned when the client was built without a key.
	ErrNoAPIKey = errors.New("fred: api key not set")

	// ErrNoObservation is returned when the recent window holds only missing values.
	ErrNoObservation = errors.New("fred: no recent observation")
)

// Client fetches series observations from FRED.
type Client struct {
	http    *infra.HTTPClient
	baseURL string
	apiKey  string
	log     zerolog.Logger
}

// New creates a FRED client. An empty baseURL uses DefaultBaseURL.
func New(apiKey, baseURL string, cfg infra.HTTPConfig) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    infra.NewHTTPClient(cfg),
		baseURL: baseURL,
		apiKey:  apiKey,
		log:     cfg.Logger.With().Str("source", "fred").Logger(),
	}
}

// TenYearYield returns the latest DGS10 observation as a fraction
// (4.25 -> 0.0425).
func (c *Client) TenYearYield(ctx context.Context) (float64, error) {
	obs, err := c.Latest(ctx, TenYearSeries)
	if err != nil {
		return 0, err
	}
	c.log.Debug().Str("date", obs.Date).Float64("yield_pct", obs.Value).Msg("10-year yield")
	return obs.Value / 100, nil
}

// Observation is one dated value of a series.
type Observation struct {
	Date  string
	Value float64
}

// Latest returns the most recent non-missing observation of seriesID.
// FRED reports holidays as ".", so the last few observations are requested.
func (c *Client) Latest(ctx context.Context, seriesID string) (Observation, error) {
	if c.apiKey == "" {
		return Observation{}, ErrNoAPIKey
	}

	body, err := c.http.Get(ctx, c.baseURL+"/series/observations", map[string]string{
		"series_id":  seriesID,
		"api_key":    c.apiKey,
		"file_type":  "json",
		"sort_order": "desc",
		"limit":      "10",
	})
	if err != nil {
		return Observation{}, fmt.Errorf("fred series %s: %w", seriesID, err)
	}
	return latestObservation(body)
}

func latestObservation(body []byte) (Observation, error) {
	var resp observationsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Observation{}, fmt.Errorf("parse FRED JSON: %w", err)
	}
	if resp.ErrorMessage != "" {
		return Observation{}, fmt.Errorf("fred: %s", resp.ErrorMessage)
	}

	// Observations arrive newest first.
	for _, o := range resp.Observations {
		if o.Value == "." || o.Value == "" {
			continue // Skip missing values
		}
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			continue
		}
		return Observation{Date: o.Date, Value: v}, nil
	}
	return Observation{}, ErrNoObservation
}

// --- FRED Observations ---

type observationsResponse struct {
	ObservationStart string        `json:"observation_start"`
	ObservationEnd   string        `json:"observation_end"`
	Units            string        `json:"units"`
	OrderBy          string        `json:"order_by"`
	SortOrder        string        `json:"sort_order"`
	Count            int           `json:"count"`
	Observations     []observation `json:"observations"`
	ErrorCode        int           `json:"error_code"`
	ErrorMessage     string        `json:"error_message"`
}

type observation struct {
	RealtimeStart string `json:"realtime_start"`
	RealtimeEnd   string `json:"realtime_end"`
	Date          string `json:"date"`
	Value         string `json:"value"`
}
