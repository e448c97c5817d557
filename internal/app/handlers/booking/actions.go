package booking

import (
	"context"
	"errors"
	"time"

	"github.com/Mihail0123/hausrunde/internal/app/apperr"
	"github.com/Mihail0123/hausrunde/internal/app/commands"
	"github.com/Mihail0123/hausrunde/internal/app/dto"
	"github.com/Mihail0123/hausrunde/internal/app/handlers/support"
	"github.com/Mihail0123/hausrunde/internal/app/outbox"
	"github.com/Mihail0123/hausrunde/internal/app/uow"
	domainads "github.com/Mihail0123/hausrunde/internal/domain/ads"
	domainbooking "github.com/Mihail0123/hausrunde/internal/domain/booking"
	domainuser "github.com/Mihail0123/hausrunde/internal/domain/user"
)

const (
	confirmBookingKey = "booking.confirm"
	rejectBookingKey  = "booking.reject"
	cancelBookingKey  = "booking.cancel"
)

// loadForOwner fetches a booking and its ad, requiring the actor to be
// the ad owner. Actors who are no party to the booking get a not-found
// answer so the booking's existence stays hidden.
func loadForOwner(ctx context.Context, unit uow.UnitOfWork, id domainbooking.BookingID, actor domainuser.ID) (*domainbooking.Booking, *domainads.Ad, error) {
	b, ad, err := loadBooking(ctx, unit, id)
	if err != nil {
		return nil, nil, err
	}
	if ad.OwnedBy(actor) {
		return b, ad, nil
	}
	if b.TenantID == actor {
		return nil, nil, apperr.Forbidden("only the ad owner can decide on a booking")
	}
	return nil, nil, apperr.NotFound("booking not found")
}

// loadForTenant is the tenant-side counterpart of loadForOwner.
func loadForTenant(ctx context.Context, unit uow.UnitOfWork, id domainbooking.BookingID, actor domainuser.ID) (*domainbooking.Booking, *domainads.Ad, error) {
	b, ad, err := loadBooking(ctx, unit, id)
	if err != nil {
		return nil, nil, err
	}
	if b.TenantID == actor {
		return b, ad, nil
	}
	if ad.OwnedBy(actor) {
		return nil, nil, apperr.Forbidden("only the tenant can cancel a booking")
	}
	return nil, nil, apperr.NotFound("booking not found")
}

func loadBooking(ctx context.Context, unit uow.UnitOfWork, id domainbooking.BookingID) (*domainbooking.Booking, *domainads.Ad, error) {
	b, err := unit.Bookings().ByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainbooking.ErrNotFound) {
			return nil, nil, apperr.NotFound("booking not found")
		}
		return nil, nil, apperr.Infrastructure(err)
	}
	ad, err := unit.Ads().ByID(ctx, b.AdID)
	if err != nil {
		if errors.Is(err, domainads.ErrNotFound) {
			return nil, nil, apperr.NotFound("booking not found")
		}
		return nil, nil, apperr.Infrastructure(err)
	}
	return b, ad, nil
}

type ConfirmBookingCommand struct {
	BookingID string
	ActorID   string
}

func (c ConfirmBookingCommand) Key() string { return confirmBookingKey }

type ConfirmBookingResult struct {
	Booking   dto.Booking `json:"booking"`
	Cancelled []string    `json:"auto_cancelled_ids"`
}

// ConfirmBookingHandler confirms a pending booking and, in the same unit
// of work, auto-cancels every competing PENDING booking whose window
// overlaps the confirmed one. Confirm and cascade commit or fail
// together.
type ConfirmBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      func() time.Time
}

func (h *ConfirmBookingHandler) Handle(ctx context.Context, cmd ConfirmBookingCommand) (*ConfirmBookingResult, error) {
	unit, ctx, done, err := support.BeginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer done.Rollback(ctx)

	b, _, err := loadForOwner(ctx, unit, domainbooking.BookingID(cmd.BookingID), domainuser.ID(cmd.ActorID))
	if err != nil {
		return nil, err
	}

	now := clockNow(h.Clock)
	if err := b.Confirm(now); err != nil {
		return nil, apperr.Conflict("booking cannot be confirmed from its current status", err)
	}

	siblings, err := unit.Bookings().ListByAd(ctx, b.AdID)
	if err != nil {
		return nil, apperr.Infrastructure(err)
	}

	cancelled := make([]string, 0)
	drained := []support.EventSource{b}
	for _, sibling := range siblings {
		if sibling.ID == b.ID || sibling.Status != domainbooking.StatusPending {
			continue
		}
		if !sibling.Range.Overlaps(b.Range) {
			continue
		}
		if err := sibling.AutoCancel(b.ID, now); err != nil {
			return nil, apperr.Conflict("competing booking changed concurrently", err)
		}
		if err := unit.Bookings().Save(ctx, sibling); err != nil {
			return nil, apperr.Infrastructure(err)
		}
		cancelled = append(cancelled, string(sibling.ID))
		drained = append(drained, sibling)
	}

	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, apperr.Infrastructure(err)
	}
	if err := support.DrainEvents(ctx, h.Outbox, h.Encoder, drained...); err != nil {
		return nil, err
	}
	if err := done.Commit(ctx); err != nil {
		return nil, err
	}

	return &ConfirmBookingResult{Booking: dto.MapBooking(b), Cancelled: cancelled}, nil
}

type RejectBookingCommand struct {
	BookingID string
	ActorID   string
}

func (c RejectBookingCommand) Key() string { return rejectBookingKey }

type RejectBookingResult struct {
	Booking dto.Booking `json:"booking"`
}

type RejectBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      func() time.Time
}

func (h *RejectBookingHandler) Handle(ctx context.Context, cmd RejectBookingCommand) (*RejectBookingResult, error) {
	unit, ctx, done, err := support.BeginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer done.Rollback(ctx)

	b, _, err := loadForOwner(ctx, unit, domainbooking.BookingID(cmd.BookingID), domainuser.ID(cmd.ActorID))
	if err != nil {
		return nil, err
	}

	if err := b.Reject(clockNow(h.Clock)); err != nil {
		return nil, apperr.Conflict("booking cannot be rejected from its current status", err)
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, apperr.Infrastructure(err)
	}
	if err := support.DrainEvents(ctx, h.Outbox, h.Encoder, b); err != nil {
		return nil, err
	}
	if err := done.Commit(ctx); err != nil {
		return nil, err
	}

	return &RejectBookingResult{Booking: dto.MapBooking(b)}, nil
}

type CancelBookingCommand struct {
	BookingID string
	ActorID   string
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

type CancelBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      func() time.Time
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*dto.CancellationResult, error) {
	unit, ctx, done, err := support.BeginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer done.Rollback(ctx)

	b, ad, err := loadForTenant(ctx, unit, domainbooking.BookingID(cmd.BookingID), domainuser.ID(cmd.ActorID))
	if err != nil {
		return nil, err
	}

	now := clockNow(h.Clock)
	quote := domainbooking.QuoteCancellation(now, b.Range, ad.NightlyPrice)
	if err := b.Cancel(now, quote); err != nil {
		switch {
		case errors.Is(err, domainbooking.ErrStayAlreadyStarted):
			return nil, apperr.BusinessRule("You cannot cancel a booking on or after its start date.")
		default:
			return nil, apperr.Conflict("booking cannot be cancelled from its current status", err)
		}
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, apperr.Infrastructure(err)
	}
	if err := support.DrainEvents(ctx, h.Outbox, h.Encoder, b); err != nil {
		return nil, err
	}
	if err := done.Commit(ctx); err != nil {
		return nil, err
	}

	return &dto.CancellationResult{
		Booking: dto.MapBooking(b),
		Quote:   dto.MapQuote(b.ID, quote, false),
	}, nil
}

func clockNow(clock func() time.Time) time.Time {
	if clock != nil {
		return clock()
	}
	return time.Now().UTC()
}

var _ commands.Handler[ConfirmBookingCommand, *ConfirmBookingResult] = (*ConfirmBookingHandler)(nil)
var _ commands.Handler[RejectBookingCommand, *RejectBookingResult] = (*RejectBookingHandler)(nil)
var _ commands.Handler[CancelBookingCommand, *dto.CancellationResult] = (*CancelBookingHandler)(nil)
