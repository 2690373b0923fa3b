package yfinance

// --- Yahoo Finance API response types ---

// yfQuoteSummaryResponse wraps the v10 quoteSummary API response.
type yfQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []yfQuoteSummaryResult `json:"result"`
		Error  *yfError               `json:"error"`
	} `json:"quoteSummary"`
}

type yfQuoteSummaryResult struct {
	Price                *yfPrice                `json:"price"`
	SummaryDetail        *yfSummaryDetail        `json:"summaryDetail"`
	DefaultKeyStatistics *yfDefaultKeyStatistics `json:"defaultKeyStatistics"`
	RecommendationTrend  *struct {
		Trend []yfTrend `json:"trend"`
	} `json:"recommendationTrend"`
}

// yfFinVal is Yahoo's {raw, fmt} number pair. Missing values arrive as {}
// so Raw stays nil.
type yfFinVal struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

func (v yfFinVal) value() (float64, bool) {
	if v.Raw == nil {
		return 0, false
	}
	return *v.Raw, true
}

type yfPrice struct {
	Symbol                     string   `json:"symbol"`
	ShortName                  string   `json:"shortName"`
	LongName                   string   `json:"longName"`
	Currency                   string   `json:"currency"`
	RegularMarketPrice         yfFinVal `json:"regularMarketPrice"`
	RegularMarketChangePercent yfFinVal `json:"regularMarketChangePercent"`
	MarketCap                  yfFinVal `json:"marketCap"`
}

type yfSummaryDetail struct {
	DividendYield yfFinVal `json:"dividendYield"`
	Beta          yfFinVal `json:"beta"`
	TrailingPE    yfFinVal `json:"trailingPE"`
	MarketCap     yfFinVal `json:"marketCap"`
}

type yfDefaultKeyStatistics struct {
	SharesOutstanding yfFinVal `json:"sharesOutstanding"`
	Beta              yfFinVal `json:"beta"`
	TrailingEps       yfFinVal `json:"trailingEps"`
}

type yfTrend struct {
	Period     string `json:"period"`
	StrongBuy  int    `json:"strongBuy"`
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongSell int    `json:"strongSell"`
}

// yfChartResponse wraps the v8 chart API response.
type yfChartResponse struct {
	Chart struct {
		Result []yfChartResult `json:"result"`
		Error  *yfError        `json:"error"`
	} `json:"chart"`
}

type yfChartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

type yfError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *yfError) Error() string {
	return e.Code + ": " + e.Description
}
