package cli

import (
	"testing"
)

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "$0.00"},
		{1, "$1.00"},
		{1.5, "$1.50"},
		{999.99, "$999.99"},
		{1000, "$1,000.00"},
		{1234.56, "$1,234.56"},
		{1234567.89, "$1,234,567.89"},
		{-42.5, "-$42.50"},
		{-1234.56, "-$1,234.56"},
		{0.004, "$0.00"},
		{0.005, "$0.01"},
	}

	for _, tt := range tests {
		if got := FormatUSD(tt.amount); got != tt.want {
			t.Errorf("FormatUSD(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatShares(t *testing.T) {
	tests := []struct {
		shares float64
		want   string
	}{
		{10, "10"},
		{0, "0"},
		{2.5, "2.5"},
		{0.3333, "0.3333"},
		{1.5000, "1.5"},
	}

	for _, tt := range tests {
		if got := FormatShares(tt.shares); got != tt.want {
			t.Errorf("FormatShares(%v) = %q, want %q", tt.shares, got, tt.want)
		}
	}
}

func TestFormatOptional(t *testing.T) {
	v := 12.345
	if got := FormatOptional(&v); got != "12.35" {
		t.Errorf("FormatOptional = %q, want 12.35", got)
	}
	if got := FormatOptional(nil); got != "—" {
		t.Errorf("FormatOptional(nil) = %q, want dash", got)
	}
	if got := FormatOptionalUSD(nil); got != "—" {
		t.Errorf("FormatOptionalUSD(nil) = %q, want dash", got)
	}
	p := 1234.5
	if got := FormatOptionalUSD(&p); got != "$1,234.50" {
		t.Errorf("FormatOptionalUSD = %q", got)
	}
}

func TestVisibleLen(t *testing.T) {
	if got := visibleLen("plain"); got != 5 {
		t.Errorf("visibleLen(plain) = %d", got)
	}
	if got := visibleLen("\x1b[32mgreen\x1b[0m"); got != 5 {
		t.Errorf("visibleLen(colored) = %d, want 5", got)
	}
}
