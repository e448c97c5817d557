package booking

import (
	"context"
	"time"

	"github.com/Mihail0123/hausrunde/internal/app/apperr"
	"github.com/Mihail0123/hausrunde/internal/app/commands"
	"github.com/Mihail0123/hausrunde/internal/app/dto"
	"github.com/Mihail0123/hausrunde/internal/app/handlers/support"
	"github.com/Mihail0123/hausrunde/internal/app/middleware"
	"github.com/Mihail0123/hausrunde/internal/app/outbox"
	"github.com/Mihail0123/hausrunde/internal/app/uow"
	domainbooking "github.com/Mihail0123/hausrunde/internal/domain/booking"
	domainuser "github.com/Mihail0123/hausrunde/internal/domain/user"
)

const createBookingKey = "booking.create"

type CreateBookingCommand struct {
	CommandID       string
	AdID            string
	TenantID        string
	DateFrom        time.Time
	DateTo          time.Time
	IdempotencyKeyV string
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

func (c CreateBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateBookingCommand) ResultPrototype() any { return &CreateBookingResult{} }

type CreateBookingResult struct {
	Booking dto.Booking `json:"booking"`
}

type CreateBookingHandler struct {
	UoWFactory uow.UoWFactory
	Policy     domainbooking.BlockingPolicy
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      func() time.Time
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*CreateBookingResult, error) {
	unit, ctx, done, err := support.BeginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer done.Rollback(ctx)

	now := clockNow(h.Clock)
	checked, err := validateBooking(ctx, unit, validateRequest{
		AdID:     cmd.AdID,
		TenantID: domainuser.ID(cmd.TenantID),
		DateFrom: cmd.DateFrom,
		DateTo:   cmd.DateTo,
		Policy:   h.Policy.OrDefault(),
		Now:      now,
	})
	if err != nil {
		return nil, err
	}

	booking, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:        domainbooking.BookingID(cmd.CommandID),
		AdID:      checked.Ad.ID,
		TenantID:  domainuser.ID(cmd.TenantID),
		Range:     checked.Range,
		CreatedAt: now,
	})
	if err != nil {
		return nil, apperr.ValidationField(apperr.NonFieldKey, err.Error())
	}

	if err := unit.Bookings().Save(ctx, booking); err != nil {
		return nil, apperr.Infrastructure(err)
	}
	if err := support.DrainEvents(ctx, h.Outbox, h.Encoder, booking); err != nil {
		return nil, err
	}
	if err := done.Commit(ctx); err != nil {
		return nil, err
	}

	return &CreateBookingResult{Booking: dto.MapBooking(booking)}, nil
}

var _ commands.Handler[CreateBookingCommand, *CreateBookingResult] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = CreateBookingCommand{}
