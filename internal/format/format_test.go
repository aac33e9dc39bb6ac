package format

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCurrency(t *testing.T) {
	cases := []struct {
		amount   decimal.Decimal
		currency string
		want     string
	}{
		{decimal.NewFromInt(500), "INR", "₹500"},
		{decimal.NewFromInt(1000), "INR", "₹1,000"},
		{decimal.NewFromInt(1234567), "", "₹1,234,567"},
		{decimal.RequireFromString("499.5"), "INR", "₹499.50"},
		{decimal.RequireFromString("999.999"), "INR", "₹1,000.00"},
		{decimal.NewFromInt(12345), "JPY", "¥12,345"},
		{decimal.RequireFromString("-12.05"), "USD", "-$12.05"},
		{decimal.Zero, "INR", "₹0"},
	}
	for _, tc := range cases {
		if got := Currency(tc.amount, tc.currency); got != tc.want {
			t.Errorf("Currency(%s, %s) = %q, want %q", tc.amount, tc.currency, got, tc.want)
		}
	}
}

func TestRating(t *testing.T) {
	if got := Rating(4.5); got != "4.5 ⭐" {
		t.Fatalf("unexpected rating %q", got)
	}
	if got := Rating(4); got != "4 ⭐" {
		t.Fatalf("unexpected rating %q", got)
	}
}
