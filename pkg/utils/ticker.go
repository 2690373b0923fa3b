package utils

import (
	"regexp"
	"strings"
)

// Common ticker aliases, mostly company names typed instead of symbols.
var tickerAliases = map[string]string{
	"APPLE":     "AAPL",
	"MICROSOFT": "MSFT",
	"GOOGLE":    "GOOGL",
	"ALPHABET":  "GOOGL",
	"AMAZON":    "AMZN",
	"META":      "META",
	"FACEBOOK":  "META",
	"NVIDIA":    "NVDA",
	"TESLA":     "TSLA",
	"BERKSHIRE": "BRK-B",
}

var tickerPattern = regexp.MustCompile(`^\^?[A-Z0-9][A-Z0-9.\-=]{0,14}$`)

// NormalizeTicker normalizes a user-input ticker to canonical upper-case form.
// It handles aliases, whitespace and a leading "$".
func NormalizeTicker(ticker string) string {
	ticker = strings.TrimSpace(strings.ToUpper(ticker))

	// Remove $ prefix if present (common in chat)
	ticker = strings.TrimPrefix(ticker, "$")

	if canonical, ok := tickerAliases[ticker]; ok {
		return canonical
	}
	return ticker
}

// ValidTicker reports whether ticker looks like an exchange symbol after
// normalization.
func ValidTicker(ticker string) bool {
	return tickerPattern.MatchString(NormalizeTicker(ticker))
}

// ToYFinanceTicker converts a ticker to Yahoo Finance format.
// Share classes written with a dot ("BRK.B") use a dash on Yahoo ("BRK-B");
// exchange suffixes such as ".L" or ".NS" are kept.
func ToYFinanceTicker(ticker string) string {
	ticker = NormalizeTicker(ticker)
	if IsIndex(ticker) {
		return ticker
	}

	base, suffix, found := strings.Cut(ticker, ".")
	if found && len(suffix) == 1 && suffix >= "A" && suffix <= "C" {
		return base + "-" + suffix
	}
	return ticker
}

// IsIndex checks if the ticker is an index (Yahoo "^" prefix).
func IsIndex(ticker string) bool {
	return strings.HasPrefix(NormalizeTicker(ticker), "^")
}
