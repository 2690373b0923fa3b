// Package models defines the core data structures used throughout fairvalue.
package models

import "time"

// Profile is a snapshot of a company's quote and headline statistics.
type Profile struct {
	Symbol            string  `json:"symbol"             yaml:"symbol"`
	Name              string  `json:"name"               yaml:"name"`
	Currency          string  `json:"currency"           yaml:"currency"`
	Price             float64 `json:"price"              yaml:"price"`
	ChangePct         float64 `json:"change_pct"         yaml:"change_pct"`         // percent, e.g. 1.23
	DividendYieldPct  float64 `json:"dividend_yield_pct" yaml:"dividend_yield_pct"` // percent
	Beta              float64 `json:"beta"               yaml:"beta"`
	MarketCap         float64 `json:"market_cap"         yaml:"market_cap"`
	TrailingPE        float64 `json:"trailing_pe"        yaml:"trailing_pe"` // rounded to 2 decimals
	SharesOutstanding float64 `json:"shares_outstanding" yaml:"shares_outstanding"`
	TrailingEPS       float64 `json:"trailing_eps"       yaml:"trailing_eps"`
}

// PricePoint is one daily adjusted close.
type PricePoint struct {
	Date     string  `json:"date"      yaml:"date"`
	AdjClose float64 `json:"adj_close" yaml:"adj_close"`
}

// Headline is a single company news item.
type Headline struct {
	Title     string    `json:"title"     yaml:"title"`
	Link      string    `json:"link"      yaml:"link"`
	Source    string    `json:"source"    yaml:"source"`
	Published time.Time `json:"published" yaml:"published"`
}
