package booking

import (
	"context"
	"errors"
	"sort"

	"github.com/Mihail0123/hausrunde/internal/app/apperr"
	"github.com/Mihail0123/hausrunde/internal/app/dto"
	"github.com/Mihail0123/hausrunde/internal/app/handlers/support"
	"github.com/Mihail0123/hausrunde/internal/app/queries"
	"github.com/Mihail0123/hausrunde/internal/app/uow"
	domainads "github.com/Mihail0123/hausrunde/internal/domain/ads"
	domainbooking "github.com/Mihail0123/hausrunde/internal/domain/booking"
	domainuser "github.com/Mihail0123/hausrunde/internal/domain/user"
)

const (
	listTenantBookingsKey = "booking.list_tenant"
	listAdBookingsKey     = "booking.list_ad"
	bookingStatsKey       = "booking.stats"
)

type ListTenantBookingsQuery struct {
	TenantID string
	Status   string
}

func (q ListTenantBookingsQuery) Key() string { return listTenantBookingsKey }

type ListTenantBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListTenantBookingsHandler) Handle(ctx context.Context, q ListTenantBookingsQuery) (*dto.BookingCollection, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items, err := unit.Bookings().ListByTenant(ctx, domainuser.ID(q.TenantID))
	if err != nil {
		return nil, apperr.Infrastructure(err)
	}
	items = filterStatus(items, domainbooking.Status(q.Status))
	sortByStart(items)
	out := dto.MapBookings(items)
	return &out, nil
}

// ListAdBookingsQuery is the owner's view of requests on one of their
// ads.
type ListAdBookingsQuery struct {
	AdID    string
	ActorID string
	Status  string
}

func (q ListAdBookingsQuery) Key() string { return listAdBookingsKey }

type ListAdBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListAdBookingsHandler) Handle(ctx context.Context, q ListAdBookingsQuery) (*dto.BookingCollection, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	ad, err := unit.Ads().ByID(ctx, domainads.AdID(q.AdID))
	if err != nil {
		if errors.Is(err, domainads.ErrNotFound) {
			return nil, apperr.NotFound("ad not found")
		}
		return nil, apperr.Infrastructure(err)
	}
	if !ad.OwnedBy(domainuser.ID(q.ActorID)) {
		return nil, apperr.NotFound("ad not found")
	}

	items, err := unit.Bookings().ListByAd(ctx, ad.ID)
	if err != nil {
		return nil, apperr.Infrastructure(err)
	}
	items = filterStatus(items, domainbooking.Status(q.Status))
	sortByStart(items)
	out := dto.MapBookings(items)
	return &out, nil
}

// BookingStatsQuery aggregates the requests on all of the owner's ads.
type BookingStatsQuery struct {
	OwnerID string
}

func (q BookingStatsQuery) Key() string { return bookingStatsKey }

type BookingStatsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *BookingStatsHandler) Handle(ctx context.Context, q BookingStatsQuery) (*dto.BookingStats, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	ownedAds, err := unit.Ads().ListByOwner(ctx, domainuser.ID(q.OwnerID))
	if err != nil {
		return nil, apperr.Infrastructure(err)
	}

	stats := dto.BookingStats{}
	for _, ad := range ownedAds {
		items, err := unit.Bookings().ListByAd(ctx, ad.ID)
		if err != nil {
			return nil, apperr.Infrastructure(err)
		}
		stats.Total += len(items)
		for _, b := range items {
			switch b.Status {
			case domainbooking.StatusPending:
				stats.Pending++
			case domainbooking.StatusConfirmed:
				stats.Confirmed++
				total := ad.NightlyPrice.Multiply(int64(b.Range.Nights()))
				stats.Revenue.Amount += total.Amount
				stats.Revenue.Currency = total.Currency
			case domainbooking.StatusCancelled:
				stats.Cancelled++
			}
		}
	}
	return &stats, nil
}

func filterStatus(items []*domainbooking.Booking, status domainbooking.Status) []*domainbooking.Booking {
	if status == "" {
		return items
	}
	out := items[:0:0]
	for _, b := range items {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out
}

func sortByStart(items []*domainbooking.Booking) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].Range.From.Before(items[j].Range.From)
	})
}

var _ queries.Handler[ListTenantBookingsQuery, *dto.BookingCollection] = (*ListTenantBookingsHandler)(nil)
var _ queries.Handler[ListAdBookingsQuery, *dto.BookingCollection] = (*ListAdBookingsHandler)(nil)
var _ queries.Handler[BookingStatsQuery, *dto.BookingStats] = (*BookingStatsHandler)(nil)
