// Package utils provides common utility functions for fairvalue.
package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatPercent formats a fraction as a percentage with the given number of
// decimals, rounding half away from zero. e.g., (0.05, 0) → "5%", (0.025, 1) → "2.5%"
func FormatPercent(fraction float64, places int32) string {
	return decimal.NewFromFloat(fraction).Shift(2).StringFixed(places) + "%"
}

// FormatMoney formats an amount with a currency prefix and two decimals.
// e.g., ("$", 71.3223) → "$71.32", ("$", -5) → "-$5.00"
func FormatMoney(symbol string, amount float64) string {
	d := decimal.NewFromFloat(amount)
	if d.IsNegative() && !d.Round(2).IsZero() {
		return "-" + symbol + d.Neg().StringFixed(2)
	}
	return symbol + d.Abs().StringFixed(2)
}

// FormatPct formats a percentage value with sign and suffix.
// e.g., 2.45 → "+2.45%", -1.23 → "-1.23%"
func FormatPct(pct float64) string {
	s := decimal.NewFromFloat(pct).StringFixed(2)
	if !strings.HasPrefix(s, "-") {
		s = "+" + s
	}
	return s + "%"
}

// FormatCompact formats a large amount with a K/M/B/T suffix.
// e.g., ("$", 2.95e12) → "$2.95T", ("", 1500000) → "1.50M"
func FormatCompact(symbol string, amount float64) string {
	d := decimal.NewFromFloat(amount)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	units := []struct {
		exp    int32
		suffix string
	}{
		{12, "T"},
		{9, "B"},
		{6, "M"},
		{3, "K"},
	}
	for _, u := range units {
		if d.GreaterThanOrEqual(decimal.New(1, u.exp)) {
			return sign + symbol + d.Shift(-u.exp).StringFixed(2) + u.suffix
		}
	}
	return sign + symbol + d.StringFixed(2)
}

// FormatNumber formats a plain number with the given decimals.
func FormatNumber(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
	"CAD": "C$",
	"AUD": "A$",
}

// CurrencySymbol maps an ISO currency code to a display prefix.
// Empty means USD; unknown codes render as "CODE ".
func CurrencySymbol(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "$"
	}
	if s, ok := currencySymbols[code]; ok {
		return s
	}
	return code + " "
}
