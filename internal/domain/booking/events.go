package booking

import (
	"time"

	"github.com/Mihail0123/hausrunde/internal/domain/ads"
	"github.com/Mihail0123/hausrunde/internal/domain/shared/daterange"
	"github.com/Mihail0123/hausrunde/internal/domain/shared/money"
	"github.com/Mihail0123/hausrunde/internal/domain/user"
)

type BookingRequested struct {
	BookingID BookingID
	AdID      ads.AdID
	TenantID  user.ID
	Range     daterange.DateRange
	At        time.Time
}

func (e BookingRequested) EventName() string     { return "booking.requested" }
func (e BookingRequested) AggregateID() string   { return string(e.BookingID) }
func (e BookingRequested) OccurredAt() time.Time { return e.At }

type BookingConfirmed struct {
	BookingID BookingID
	AdID      ads.AdID
	Range     daterange.DateRange
	At        time.Time
}

func (e BookingConfirmed) EventName() string     { return "booking.confirmed" }
func (e BookingConfirmed) AggregateID() string   { return string(e.BookingID) }
func (e BookingConfirmed) OccurredAt() time.Time { return e.At }

type BookingRejected struct {
	BookingID BookingID
	AdID      ads.AdID
	At        time.Time
}

func (e BookingRejected) EventName() string     { return "booking.rejected" }
func (e BookingRejected) AggregateID() string   { return string(e.BookingID) }
func (e BookingRejected) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID  BookingID
	AdID       ads.AdID
	Fee        money.Money
	FeePercent int
	At         time.Time
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }

type BookingAutoCancelled struct {
	BookingID   BookingID
	AdID        ads.AdID
	ConfirmedID BookingID
	At          time.Time
}

func (e BookingAutoCancelled) EventName() string     { return "booking.auto_cancelled" }
func (e BookingAutoCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingAutoCancelled) OccurredAt() time.Time { return e.At }
