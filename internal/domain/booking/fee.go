package booking

import (
	"fmt"
	"time"

	"github.com/Mihail0123/hausrunde/internal/domain/shared/daterange"
	"github.com/Mihail0123/hausrunde/internal/domain/shared/money"
)

// Cancellation fee schedule: free with four or more full days of lead
// time, then 20% per missing day, and the full stay cost once the stay
// has started.
const (
	freeCancellationLeadDays = 4
	feeStepPercent           = 20
)

// CancellationQuote is the informational fee breakdown computed for a
// cancellation. The fee is never charged here; callers only surface it.
type CancellationQuote struct {
	DaysUntilStart int
	FeePercent     int
	Fee            money.Money
	Nights         int
	TotalCost      money.Money
	AfterStart     bool
	Message        string
}

// QuoteCancellation is a pure function of today's date, the stay window
// and the nightly price. It never mutates state and is safe to call for
// previews.
func QuoteCancellation(today time.Time, stay daterange.DateRange, nightly money.Money) CancellationQuote {
	daysUntil := daterange.DaysBetween(today, stay.From)

	percent := 0
	switch {
	case daysUntil >= freeCancellationLeadDays:
		percent = 0
	case daysUntil <= 0:
		percent = 100
	default:
		percent = feeStepPercent * (freeCancellationLeadDays - daysUntil)
	}

	nights := stay.Nights()
	if nights < 1 {
		nights = 1
	}
	total := nightly.Multiply(int64(nights))
	fee := total.Percent(percent)

	q := CancellationQuote{
		DaysUntilStart: daysUntil,
		FeePercent:     percent,
		Fee:            fee,
		Nights:         nights,
		TotalCost:      total,
		AfterStart:     daysUntil <= 0,
	}
	q.Message = q.message()
	return q
}

func (q CancellationQuote) message() string {
	switch {
	case q.AfterStart:
		return fmt.Sprintf("the stay has started: cancelling forfeits the full %s", q.TotalCost)
	case q.FeePercent == 0:
		return "free cancellation"
	default:
		return fmt.Sprintf("cancelling %d day(s) before check-in forfeits %d%% of %s (%s)",
			q.DaysUntilStart, q.FeePercent, q.TotalCost, q.Fee)
	}
}
