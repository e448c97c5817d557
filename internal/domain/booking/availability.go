package booking

import (
	"sort"

	"github.com/Mihail0123/hausrunde/internal/domain/shared/daterange"
)

// FirstBlockingOverlap returns the first booking whose status blocks the
// calendar under policy and whose window overlaps the candidate window.
// The booking identified by exclude is skipped so that updates never
// collide with their own row. Returns nil when the window is free.
func FirstBlockingOverlap(items []*Booking, window daterange.DateRange, policy BlockingPolicy, exclude BookingID) *Booking {
	for _, b := range items {
		if b == nil || b.ID == exclude {
			continue
		}
		if !policy.Blocks(b.Status) {
			continue
		}
		if b.Range.Overlaps(window) {
			return b
		}
	}
	return nil
}

// WindowFree reports whether no blocking booking overlaps the window.
func WindowFree(items []*Booking, window daterange.DateRange, policy BlockingPolicy) bool {
	return FirstBlockingOverlap(items, window, policy, "") == nil
}

// BlockingCalendar lists the bookings that occupy the calendar under
// policy, ordered by start date ascending. When filter is non-empty only
// bookings in that status are returned.
func BlockingCalendar(items []*Booking, policy BlockingPolicy, filter Status) []*Booking {
	out := make([]*Booking, 0, len(items))
	for _, b := range items {
		if b == nil || !policy.Blocks(b.Status) {
			continue
		}
		if filter != "" && b.Status != filter {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Range.From.Equal(out[j].Range.From) {
			return out[i].Range.To.Before(out[j].Range.To)
		}
		return out[i].Range.From.Before(out[j].Range.From)
	})
	return out
}
