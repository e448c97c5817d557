package booking

import (
	"testing"
	"time"

	"github.com/Mihail0123/hausrunde/internal/domain/shared/daterange"
	"github.com/Mihail0123/hausrunde/internal/domain/shared/money"
)

func stay(t *testing.T, from, to time.Time) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(from, to)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	return dr
}

func TestQuoteCancellationSchedule(t *testing.T) {
	today := day(2026, 6, 1)
	nightly := money.Must(10000, "EUR") // 100.00/night

	tests := []struct {
		name        string
		leadDays    int
		nights      int
		wantPercent int
		wantFee     int64
		afterStart  bool
	}{
		{"five days out is free", 5, 4, 0, 0, false},
		{"four days out is free", 4, 4, 0, 0, false},
		{"three days out", 3, 5, 20, 10000, false},
		{"two days out", 2, 5, 40, 20000, false},
		{"one day out", 1, 5, 60, 30000, false},
		{"starts today", 0, 5, 100, 50000, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			from := today.AddDate(0, 0, tc.leadDays)
			q := QuoteCancellation(today, stay(t, from, from.AddDate(0, 0, tc.nights)), nightly)
			if q.DaysUntilStart != tc.leadDays {
				t.Fatalf("days_until_start = %d, want %d", q.DaysUntilStart, tc.leadDays)
			}
			if q.FeePercent != tc.wantPercent {
				t.Fatalf("fee_percent = %d, want %d", q.FeePercent, tc.wantPercent)
			}
			if q.Fee.Amount != tc.wantFee {
				t.Fatalf("fee = %d, want %d", q.Fee.Amount, tc.wantFee)
			}
			if q.Nights != tc.nights {
				t.Fatalf("nights = %d, want %d", q.Nights, tc.nights)
			}
			if q.TotalCost.Amount != int64(tc.nights)*10000 {
				t.Fatalf("total = %d, want %d", q.TotalCost.Amount, int64(tc.nights)*10000)
			}
			if q.AfterStart != tc.afterStart {
				t.Fatalf("after_start = %v, want %v", q.AfterStart, tc.afterStart)
			}
			if q.Message == "" {
				t.Fatal("quote must carry a message")
			}
		})
	}
}

func TestQuoteCancellationAfterStartIsFull(t *testing.T) {
	today := day(2026, 6, 10)
	nightly := money.Must(10000, "EUR")
	q := QuoteCancellation(today, stay(t, day(2026, 6, 5), day(2026, 6, 12)), nightly)
	if q.DaysUntilStart != -5 {
		t.Fatalf("days_until_start = %d, want -5", q.DaysUntilStart)
	}
	if q.FeePercent != 100 || !q.AfterStart {
		t.Fatalf("expected full fee after start, got %d%%, after_start=%v", q.FeePercent, q.AfterStart)
	}
	if q.Fee.Amount != q.TotalCost.Amount {
		t.Fatalf("fee %d must equal total %d", q.Fee.Amount, q.TotalCost.Amount)
	}
}

func TestQuoteCancellationFeeIsMonotonic(t *testing.T) {
	today := day(2026, 6, 1)
	nightly := money.Must(10000, "EUR")
	prev := int64(1 << 62)
	for lead := -3; lead <= 8; lead++ {
		from := today.AddDate(0, 0, lead)
		q := QuoteCancellation(today, stay(t, from, from.AddDate(0, 0, 3)), nightly)
		if q.Fee.Amount > prev {
			t.Fatalf("fee must not increase with lead time: lead=%d fee=%d prev=%d", lead, q.Fee.Amount, prev)
		}
		prev = q.Fee.Amount
	}
}

func TestQuoteCancellationCurrencyFollowsNightlyPrice(t *testing.T) {
	q := QuoteCancellation(day(2026, 6, 1), stay(t, day(2026, 6, 2), day(2026, 6, 4)), money.Must(5000, "USD"))
	if q.Fee.Currency != "USD" || q.TotalCost.Currency != "USD" {
		t.Fatalf("expected USD amounts, got %q/%q", q.Fee.Currency, q.TotalCost.Currency)
	}
}
