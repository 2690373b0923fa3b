package utils

import "testing"

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		input    float64
		places   int32
		expected string
	}{
		{0.05, 0, "5%"},
		{0.08, 0, "8%"},
		{0.12, 0, "12%"},
		{0.02, 1, "2.0%"},
		{0.025, 1, "2.5%"},
		{0.0982666, 1, "9.8%"},
		{0.105, 0, "11%"},
		{-0.03, 0, "-3%"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatPercent(tt.input, tt.places)
			if result != tt.expected {
				t.Errorf("FormatPercent(%v, %d) = %s, want %s", tt.input, tt.places, result, tt.expected)
			}
		})
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "$0.00"},
		{71.32233927, "$71.32"},
		{144.625, "$144.63"},
		{190.5, "$190.50"},
		{-5, "-$5.00"},
		{-0.001, "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatMoney("$", tt.input)
			if result != tt.expected {
				t.Errorf("FormatMoney(%v) = %s, want %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFormatPct(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{2.45, "+2.45%"},
		{-1.23, "-1.23%"},
		{0, "+0.00%"},
		{100, "+100.00%"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatPct(tt.input)
			if result != tt.expected {
				t.Errorf("FormatPct(%f) = %s, want %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		symbol   string
		input    float64
		expected string
	}{
		{"$", 2.95e12, "$2.95T"},
		{"$", 383285000000, "$383.29B"},
		{"", 1500000, "1.50M"},
		{"$", 2500, "$2.50K"},
		{"$", 999, "$999.00"},
		{"$", -10708000000, "-$10.71B"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatCompact(tt.symbol, tt.input)
			if result != tt.expected {
				t.Errorf("FormatCompact(%v) = %s, want %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCurrencySymbol(t *testing.T) {
	tests := map[string]string{
		"":    "$",
		"USD": "$",
		"usd": "$",
		"EUR": "€",
		"CHF": "CHF ",
	}
	for code, want := range tests {
		if got := CurrencySymbol(code); got != want {
			t.Errorf("CurrencySymbol(%q) = %q, want %q", code, got, want)
		}
	}
}
