package booking

import (
	"context"
	"time"

	"github.com/Mihail0123/hausrunde/internal/app/dto"
	"github.com/Mihail0123/hausrunde/internal/app/handlers/support"
	"github.com/Mihail0123/hausrunde/internal/app/queries"
	"github.com/Mihail0123/hausrunde/internal/app/uow"
	domainbooking "github.com/Mihail0123/hausrunde/internal/domain/booking"
	domainuser "github.com/Mihail0123/hausrunde/internal/domain/user"
)

const previewCancellationKey = "booking.preview_cancellation"

type PreviewCancellationQuery struct {
	BookingID string
	ActorID   string
}

func (q PreviewCancellationQuery) Key() string { return previewCancellationKey }

// PreviewCancellationHandler computes the fee a tenant would forfeit by
// cancelling now, without touching the booking.
type PreviewCancellationHandler struct {
	UoWFactory uow.UoWFactory
	Clock      func() time.Time
}

func (h *PreviewCancellationHandler) Handle(ctx context.Context, q PreviewCancellationQuery) (*dto.CancellationQuote, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	b, ad, err := loadForTenant(ctx, unit, domainbooking.BookingID(q.BookingID), domainuser.ID(q.ActorID))
	if err != nil {
		return nil, err
	}

	now := clockNow(h.Clock)
	quote := domainbooking.QuoteCancellation(now, b.Range, ad.NightlyPrice)
	cancellable := b.Cancellable() && !b.Range.StartedBy(now)
	out := dto.MapQuote(b.ID, quote, cancellable)
	return &out, nil
}

var _ queries.Handler[PreviewCancellationQuery, *dto.CancellationQuote] = (*PreviewCancellationHandler)(nil)
