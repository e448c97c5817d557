package reviews

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
	domainreviews "github.com/Mihail0123/hausrunde/internal/domain/reviews"
	domainuser "github.com/Mihail0123/hausrunde/internal/domain/user"
)

const submitReviewKey = "reviews.submit"

type SubmitReviewCommand struct {
	CommandID string
	AdID      string
	TenantID  string
	Rating    int
	Text      string
}

func (c SubmitReviewCommand) Key() string { return submitReviewKey }

type SubmitReviewResult struct {
	Review dto.Review `json:"review"`
}

// SubmitReviewHandler gates review creation on a completed stay: the
// tenant must hold a CONFIRMED booking on the ad whose checkout lies in
// the past and which carries no review yet. The review binds to the most
// recently completed such booking, one review per stay.
type SubmitReviewHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      func() time.Time
}

func (h *SubmitReviewHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) (*SubmitReviewResult, error) {
	unit, ctx, done, err := support.BeginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer done.Rollback(ctx)

	if cmd.Rating < 1 || cmd.Rating > 5 {
		return nil, apperr.ValidationField("rating", "Rating must be between 1 and 5.")
	}

	now := time.Now().UTC()
	if h.Clock != nil {
		now = h.Clock()
	}

	eligible, err := latestEligibleBooking(ctx, unit, domainads.AdID(cmd.AdID), domainuser.ID(cmd.TenantID), now)
	if err != nil {
		return nil, err
	}

	review, err := domainreviews.Submit(domainreviews.SubmitParams{
		ID:        domainreviews.ReviewID(cmd.CommandID),
		Booking:   eligible,
		Rating:    cmd.Rating,
		Text:      cmd.Text,
		CreatedAt: now,
	})
	if err != nil {
		if errors.Is(err, domainreviews.ErrInvalidRating) {
			return nil, apperr.ValidationField("rating", "Rating must be between 1 and 5.")
		}
		return nil, apperr.ValidationField(apperr.NonFieldKey, err.Error())
	}

	if err := unit.Reviews().Save(ctx, review); err != nil {
		return nil, apperr.Infrastructure(err)
	}
	if err := support.DrainEvents(ctx, h.Outbox, h.Encoder, review); err != nil {
		return nil, err
	}
	if err := done.Commit(ctx); err != nil {
		return nil, err
	}

	return &SubmitReviewResult{Review: dto.MapReview(review)}, nil
}

// latestEligibleBooking scans the tenant's bookings on the ad for
// completed confirmed stays without a review, preferring the one with
// the latest checkout.
func latestEligibleBooking(ctx context.Context, unit uow.UnitOfWork, adID domainads.AdID, tenant domainuser.ID, now time.Time) (*domainbooking.Booking, error) {
	if _, err := unit.Ads().ByID(ctx, adID); err != nil {
		if errors.Is(err, domainads.ErrNotFound) {
			return nil, apperr.NotFound("ad not found")
		}
		return nil, apperr.Infrastructure(err)
	}

	items, err := unit.Bookings().ListByTenant(ctx, tenant)
	if err != nil {
		return nil, apperr.Infrastructure(err)
	}

	var best *domainbooking.Booking
	for _, b := range items {
		if b.AdID != adID || b.Status != domainbooking.StatusConfirmed {
			continue
		}
		if !b.Range.EndedBefore(now) {
			continue
		}
		if _, err := unit.Reviews().ByBooking(ctx, b.ID); err == nil {
			continue
		} else if !errors.Is(err, domainreviews.ErrNotFound) {
			return nil, apperr.Infrastructure(err)
		}
		if best == nil || b.Range.To.After(best.Range.To) {
			best = b
		}
	}
	if best == nil {
		return nil, apperr.BusinessRule("You can only review ads you have stayed at.")
	}
	return best, nil
}

var _ commands.Handler[SubmitReviewCommand, *SubmitReviewResult] = (*SubmitReviewHandler)(nil)
