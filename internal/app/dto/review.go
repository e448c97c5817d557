package dto

import (
	"time"

	domainreviews "github.com/Mihail0123/hausrunde/internal/domain/reviews"
)

type Review struct {
	ID        string    `json:"id"`
	BookingID string    `json:"booking_id"`
	AdID      string    `json:"ad_id"`
	TenantID  string    `json:"tenant_id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewCollection struct {
	Items []Review `json:"items"`
	Total int      `json:"total"`
}

func MapReview(r *domainreviews.Review) Review {
	if r == nil {
		return Review{}
	}
	return Review{
		ID:        string(r.ID),
		BookingID: string(r.BookingID),
		AdID:      string(r.AdID),
		TenantID:  string(r.TenantID),
		Rating:    r.Rating,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
	}
}

func MapReviews(items []*domainreviews.Review) ReviewCollection {
	out := ReviewCollection{Items: make([]Review, 0, len(items)), Total: len(items)}
	for _, r := range items {
		out.Items = append(out.Items, MapReview(r))
	}
	return out
}
