package dto

import (
	"time"

	domainbooking "github.com/Mihail0123/hausrunde/internal/domain/booking"
)

type Booking struct {
	ID        string    `json:"id"`
	AdID      string    `json:"ad_id"`
	TenantID  string    `json:"tenant_id"`
	DateFrom  time.Time `json:"date_from"`
	DateTo    time.Time `json:"date_to"`
	Nights    int       `json:"nights"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BookingCollection struct {
	Items []Booking `json:"items"`
	Total int       `json:"total"`
}

// CancellationQuote surfaces the fee a tenant would forfeit by
// cancelling now. Purely informational.
type CancellationQuote struct {
	BookingID      string   `json:"booking_id"`
	DaysUntilStart int      `json:"days_until_start"`
	FeePercent     int      `json:"fee_percent"`
	Fee            MoneyDTO `json:"fee"`
	Nights         int      `json:"nights"`
	TotalCost      MoneyDTO `json:"total_cost"`
	Cancellable    bool     `json:"cancellable"`
	Message        string   `json:"message"`
}

// CancellationResult is returned after an actual cancellation.
type CancellationResult struct {
	Booking Booking           `json:"booking"`
	Quote   CancellationQuote `json:"quote"`
}

// BookingStats aggregates the bookings on an owner's ads per status,
// plus the revenue their confirmed stays represent.
type BookingStats struct {
	Total     int      `json:"total_bookings"`
	Pending   int      `json:"pending_bookings"`
	Confirmed int      `json:"confirmed_bookings"`
	Cancelled int      `json:"cancelled_bookings"`
	Revenue   MoneyDTO `json:"total_revenue"`
}

func MapBooking(b *domainbooking.Booking) Booking {
	if b == nil {
		return Booking{}
	}
	return Booking{
		ID:        string(b.ID),
		AdID:      string(b.AdID),
		TenantID:  string(b.TenantID),
		DateFrom:  b.Range.From,
		DateTo:    b.Range.To,
		Nights:    b.Range.Nights(),
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func MapBookings(items []*domainbooking.Booking) BookingCollection {
	out := BookingCollection{Items: make([]Booking, 0, len(items)), Total: len(items)}
	for _, b := range items {
		out.Items = append(out.Items, MapBooking(b))
	}
	return out
}

func MapQuote(id domainbooking.BookingID, q domainbooking.CancellationQuote, cancellable bool) CancellationQuote {
	return CancellationQuote{
		BookingID:      string(id),
		DaysUntilStart: q.DaysUntilStart,
		FeePercent:     q.FeePercent,
		Fee:            MapMoney(q.Fee),
		Nights:         q.Nights,
		TotalCost:      MapMoney(q.TotalCost),
		Cancellable:    cancellable,
		Message:        q.Message,
	}
}
