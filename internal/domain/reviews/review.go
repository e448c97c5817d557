package reviews

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Mihail0123/hausrunde/internal/domain/ads"
	"github.com/Mihail0123/hausrunde/internal/domain/booking"
	"github.com/Mihail0123/hausrunde/internal/domain/shared/events"
	"github.com/Mihail0123/hausrunde/internal/domain/user"
)

var (
	ErrInvalidRating = errors.New("reviews: rating must be between 1 and 5")
	ErrNotFound      = errors.New("reviews: not found")
)

type ReviewID string

// Review is bound one-to-one to a completed booking. AdID is derived
// from the booking at creation time and is never independent client
// input, so it always equals booking.ad.
type Review struct {
	ID        ReviewID
	BookingID booking.BookingID
	AdID      ads.AdID
	TenantID  user.ID
	Rating    int
	Text      string
	CreatedAt time.Time
	events.EventRecorder
}

type Repository interface {
	ByBooking(ctx context.Context, bookingID booking.BookingID) (*Review, error)
	ListByAd(ctx context.Context, adID ads.AdID) ([]*Review, error)
	Save(ctx context.Context, review *Review) error
}

type SubmitParams struct {
	ID        ReviewID
	Booking   *booking.Booking
	Rating    int
	Text      string
	CreatedAt time.Time
}

// Submit validates the rating and derives the ad and tenant references
// from the booking the review is attached to.
func Submit(params SubmitParams) (*Review, error) {
	if params.Rating < 1 || params.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if params.Booking == nil {
		return nil, booking.ErrNotFound
	}
	review := &Review{
		ID:        params.ID,
		BookingID: params.Booking.ID,
		AdID:      params.Booking.AdID,
		TenantID:  params.Booking.TenantID,
		Rating:    params.Rating,
		Text:      strings.TrimSpace(params.Text),
		CreatedAt: params.CreatedAt.UTC(),
	}
	review.Record(ReviewSubmitted{ReviewID: review.ID, BookingID: review.BookingID, AdID: review.AdID, Rating: review.Rating, At: review.CreatedAt})
	return review, nil
}

type ReviewSubmitted struct {
	ReviewID  ReviewID
	BookingID booking.BookingID
	AdID      ads.AdID
	Rating    int
	At        time.Time
}

func (e ReviewSubmitted) EventName() string     { return "review.submitted" }
func (e ReviewSubmitted) AggregateID() string   { return string(e.ReviewID) }
func (e ReviewSubmitted) OccurredAt() time.Time { return e.At }
