package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Mihail0123/hausrunde/internal/domain/ads"
	"github.com/Mihail0123/hausrunde/internal/domain/shared/daterange"
	"github.com/Mihail0123/hausrunde/internal/domain/shared/events"
	"github.com/Mihail0123/hausrunde/internal/domain/user"
)

var (
	ErrIDRequired         = errors.New("booking: id is required")
	ErrAdRequired         = errors.New("booking: ad is required")
	ErrTenantRequired     = errors.New("booking: tenant is required")
	ErrInvalidTransition  = errors.New("booking: invalid status transition")
	ErrStayAlreadyStarted = errors.New("booking: stay has already started")
	ErrNotFound           = errors.New("booking: not found")
)

type BookingID string

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// Booking is a tenant's request to occupy an ad for a date range. It is
// never hard-deleted; cancellation is a status transition.
type Booking struct {
	ID        BookingID
	AdID      ads.AdID
	TenantID  user.ID
	Range     daterange.DateRange
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	ListByAd(ctx context.Context, adID ads.AdID) ([]*Booking, error)
	ListByTenant(ctx context.Context, tenantID user.ID) ([]*Booking, error)
	Save(ctx context.Context, booking *Booking) error
}

type CreateParams struct {
	ID        BookingID
	AdID      ads.AdID
	TenantID  user.ID
	Range     daterange.DateRange
	CreatedAt time.Time
}

// NewBooking builds a PENDING booking. Business checks that need the Ad
// (active flag, self-booking, overlap) belong to the validation pipeline
// in the application layer.
func NewBooking(params CreateParams) (*Booking, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(string(params.AdID)) == "" {
		return nil, ErrAdRequired
	}
	if strings.TrimSpace(string(params.TenantID)) == "" {
		return nil, ErrTenantRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:        params.ID,
		AdID:      params.AdID,
		TenantID:  params.TenantID,
		Range:     params.Range,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.Record(BookingRequested{BookingID: b.ID, AdID: b.AdID, TenantID: b.TenantID, Range: b.Range, At: now})
	return b, nil
}

// Confirm moves a PENDING booking to CONFIRMED. The overlap cascade on
// sibling bookings is orchestrated by the application layer inside the
// same unit of work.
func (b *Booking) Confirm(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidTransition
	}
	b.Status = StatusConfirmed
	b.UpdatedAt = now.UTC()
	b.Record(BookingConfirmed{BookingID: b.ID, AdID: b.AdID, Range: b.Range, At: b.UpdatedAt})
	return nil
}

// Reject moves a PENDING booking to CANCELLED on behalf of the ad owner.
func (b *Booking) Reject(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidTransition
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
	b.Record(BookingRejected{BookingID: b.ID, AdID: b.AdID, At: b.UpdatedAt})
	return nil
}

// Cancel moves a PENDING or CONFIRMED booking to CANCELLED on behalf of
// the tenant. A stay that has started (today on or after date_from) can
// no longer be cancelled.
func (b *Booking) Cancel(now time.Time, quote CancellationQuote) error {
	if !b.Cancellable() {
		return ErrInvalidTransition
	}
	if b.Range.StartedBy(now) {
		return ErrStayAlreadyStarted
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
	b.Record(BookingCancelled{BookingID: b.ID, AdID: b.AdID, Fee: quote.Fee, FeePercent: quote.FeePercent, At: b.UpdatedAt})
	return nil
}

// AutoCancel is the confirm-cascade transition applied to competing
// PENDING bookings. Unlike Cancel it has no time rule and no fee.
func (b *Booking) AutoCancel(winner BookingID, now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidTransition
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
	b.Record(BookingAutoCancelled{BookingID: b.ID, AdID: b.AdID, ConfirmedID: winner, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Cancellable() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}
