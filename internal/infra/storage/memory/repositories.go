package memory

import (
	"context"
	"sync"

	domainads "github.com/Mihail0123/hausrunde/internal/domain/ads"
	domainbooking "github.com/Mihail0123/hausrunde/internal/domain/booking"
	domainreviews "github.com/Mihail0123/hausrunde/internal/domain/reviews"
	domainuser "github.com/Mihail0123/hausrunde/internal/domain/user"
)

// AdRepository keeps ads in memory. Useful for tests and local runs.
type AdRepository struct {
	mu    sync.RWMutex
	items map[domainads.AdID]*domainads.Ad
}

func NewAdRepository() *AdRepository {
	return &AdRepository{items: make(map[domainads.AdID]*domainads.Ad)}
}

func (r *AdRepository) ByID(ctx context.Context, id domainads.AdID) (*domainads.Ad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ad, ok := r.items[id]
	if !ok {
		return nil, domainads.ErrNotFound
	}
	return cloneAd(ad), nil
}

func (r *AdRepository) List(ctx context.Context) ([]*domainads.Ad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainads.Ad, 0, len(r.items))
	for _, ad := range r.items {
		out = append(out, cloneAd(ad))
	}
	return out, nil
}

func (r *AdRepository) ListByOwner(ctx context.Context, owner domainuser.ID) ([]*domainads.Ad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainads.Ad, 0)
	for _, ad := range r.items {
		if ad.OwnerID == owner {
			out = append(out, cloneAd(ad))
		}
	}
	return out, nil
}

func (r *AdRepository) Save(ctx context.Context, ad *domainads.Ad) error {
	if ad == nil || ad.ID == "" {
		return domainads.ErrIDRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := cloneAd(ad)
	stored.Version++
	r.items[ad.ID] = stored
	ad.Version = stored.Version
	return nil
}

// BookingRepository keeps bookings in memory, indexed by ad and tenant.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *BookingRepository) ListByAd(ctx context.Context, adID domainads.AdID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if b.AdID == adID {
			out = append(out, cloneBooking(b))
		}
	}
	return out, nil
}

func (r *BookingRepository) ListByTenant(ctx context.Context, tenant domainuser.ID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if b.TenantID == tenant {
			out = append(out, cloneBooking(b))
		}
	}
	return out, nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	if b == nil || b.ID == "" {
		return domainbooking.ErrIDRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := cloneBooking(b)
	stored.Version++
	r.items[b.ID] = stored
	b.Version = stored.Version
	return nil
}

// ReviewRepository keeps reviews in memory, one per booking.
type ReviewRepository struct {
	mu        sync.RWMutex
	byID      map[domainreviews.ReviewID]*domainreviews.Review
	byBooking map[domainbooking.BookingID]domainreviews.ReviewID
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{
		byID:      make(map[domainreviews.ReviewID]*domainreviews.Review),
		byBooking: make(map[domainbooking.BookingID]domainreviews.ReviewID),
	}
}

func (r *ReviewRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID) (*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byBooking[bookingID]
	if !ok {
		return nil, domainreviews.ErrNotFound
	}
	return cloneReview(r.byID[id]), nil
}

func (r *ReviewRepository) ListByAd(ctx context.Context, adID domainads.AdID) ([]*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainreviews.Review, 0)
	for _, review := range r.byID {
		if review.AdID == adID {
			out = append(out, cloneReview(review))
		}
	}
	return out, nil
}

func (r *ReviewRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	if review == nil || review.ID == "" {
		return domainreviews.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[review.ID] = cloneReview(review)
	r.byBooking[review.BookingID] = review.ID
	return nil
}

func cloneAd(ad *domainads.Ad) *domainads.Ad {
	if ad == nil {
		return nil
	}
	out := *ad
	out.ClearEvents()
	return &out
}

func cloneBooking(b *domainbooking.Booking) *domainbooking.Booking {
	if b == nil {
		return nil
	}
	out := *b
	out.ClearEvents()
	return &out
}

func cloneReview(review *domainreviews.Review) *domainreviews.Review {
	if review == nil {
		return nil
	}
	out := *review
	out.ClearEvents()
	return &out
}

var _ domainads.Repository = (*AdRepository)(nil)
var _ domainbooking.Repository = (*BookingRepository)(nil)
var _ domainreviews.Repository = (*ReviewRepository)(nil)
