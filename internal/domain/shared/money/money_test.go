package money

import (
	"errors"
	"testing"
)

func TestNewValidatesCurrency(t *testing.T) {
	m, err := New(10000, "eur")
	if err != nil {
		t.Fatalf("new money: %v", err)
	}
	if m.Currency != "EUR" {
		t.Fatalf("expected upper-cased currency, got %q", m.Currency)
	}
	if _, err := New(100, "EURO"); !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
}

func TestArithmeticRequiresMatchingCurrency(t *testing.T) {
	a := Must(10000, "EUR")
	b := Must(2500, "EUR")

	sum, err := a.Add(b)
	if err != nil || sum.Amount != 12500 {
		t.Fatalf("add: got %v, %v", sum, err)
	}
	diff, err := a.Sub(b)
	if err != nil || diff.Amount != 7500 {
		t.Fatalf("sub: got %v, %v", diff, err)
	}
	if _, err := a.Add(Must(100, "USD")); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
	}
}

func TestPercentRoundsHalfUp(t *testing.T) {
	tests := []struct {
		amount  int64
		percent int
		want    int64
	}{
		{50000, 60, 30000}, // 500.00 at 60% -> 300.00
		{10000, 0, 0},
		{10000, 100, 10000},
		{10000, 150, 10000}, // clamped
		{10000, -5, 0},      // clamped
		{333, 20, 67},       // 66.6 rounds up
		{111, 20, 22},       // 22.2 rounds down
	}
	for _, tc := range tests {
		got := Must(tc.amount, "EUR").Percent(tc.percent)
		if got.Amount != tc.want {
			t.Fatalf("%d at %d%%: got %d, want %d", tc.amount, tc.percent, got.Amount, tc.want)
		}
		if got.Currency != "EUR" {
			t.Fatalf("percent must preserve currency, got %q", got.Currency)
		}
	}
}

func TestString(t *testing.T) {
	if got := Must(30050, "EUR").String(); got != "300.50 EUR" {
		t.Fatalf("unexpected formatting: %q", got)
	}
}
