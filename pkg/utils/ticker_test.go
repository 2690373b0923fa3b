package utils

import "testing"

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"AAPL", "AAPL"},
		{"aapl", "AAPL"},
		{" msft ", "MSFT"},
		{"$TSLA", "TSLA"},
		{"apple", "AAPL"},
		{"berkshire", "BRK-B"},
		{"UNKNOWNSTOCK", "UNKNOWNSTOCK"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NormalizeTicker(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeTicker(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestToYFinanceTicker(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"AAPL", "AAPL"},
		{"brk.b", "BRK-B"},
		{"BF.A", "BF-A"},
		{"VOD.L", "VOD.L"},
		{"RELIANCE.NS", "RELIANCE.NS"},
		{"^GSPC", "^GSPC"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ToYFinanceTicker(tt.input); got != tt.expected {
				t.Errorf("ToYFinanceTicker(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValidTicker(t *testing.T) {
	valid := []string{"AAPL", "brk-b", "VOD.L", "^TNX", "EURUSD=X"}
	for _, v := range valid {
		if !ValidTicker(v) {
			t.Errorf("ValidTicker(%q) = false, want true", v)
		}
	}
	invalid := []string{"", "   ", "AA PL", "../etc/passwd", "ABCDEFGHIJKLMNOPQ"}
	for _, v := range invalid {
		if ValidTicker(v) {
			t.Errorf("ValidTicker(%q) = true, want false", v)
		}
	}
}

func TestIsIndex(t *testing.T) {
	if !IsIndex("^GSPC") {
		t.Error("expected ^GSPC to be an index")
	}
	if IsIndex("AAPL") {
		t.Error("expected AAPL not to be an index")
	}
}
