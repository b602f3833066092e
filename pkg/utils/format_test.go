package utils

import "testing"

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{4.8, "$4.80"},
		{-4.8, "-$4.80"},
		{1234.5, "$1,234.50"},
		{1234567.89, "$1,234,567.89"},
		{-98765.4, "-$98,765.40"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(tc.in); got != tc.want {
			t.Errorf("FormatCurrency(%g) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatPnL(t *testing.T) {
	if got := FormatPnL(7.7); got != "+$7.70" {
		t.Errorf("FormatPnL(7.7) = %q, want +$7.70", got)
	}
	if got := FormatPnL(-4.8); got != "-$4.80" {
		t.Errorf("FormatPnL(-4.8) = %q, want -$4.80", got)
	}
	if got := FormatPnL(0); got != "$0.00" {
		t.Errorf("FormatPnL(0) = %q, want $0.00", got)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(0.035); got != "+3.50%" {
		t.Errorf("FormatPercent(0.035) = %q, want +3.50%%", got)
	}
	if got := FormatPercent(-0.021); got != "-2.10%" {
		t.Errorf("FormatPercent(-0.021) = %q, want -2.10%%", got)
	}
}

func TestFormatProbability(t *testing.T) {
	if got := FormatProbability(0.974); got != "97.4%" {
		t.Errorf("FormatProbability(0.974) = %q, want 97.4%%", got)
	}
	if got := FormatProbability(1); got != "100.0%" {
		t.Errorf("FormatProbability(1) = %q, want 100.0%%", got)
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(199.8); got != "199.80" {
		t.Errorf("FormatPrice(199.8) = %q, want 199.80", got)
	}
}
