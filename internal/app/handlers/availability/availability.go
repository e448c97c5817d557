package availability

import (
	"context"
	"errors"
	"time"

	"github.com/Mihail0123/hausrunde/internal/app/apperr"
	"github.com/Mihail0123/hausrunde/internal/app/handlers/support"
	"github.com/Mihail0123/hausrunde/internal/app/queries"
	"github.com/Mihail0123/hausrunde/internal/app/uow"
	domainads "github.com/Mihail0123/hausrunde/internal/domain/ads"
	domainbooking "github.com/Mihail0123/hausrunde/internal/domain/booking"
	domainrange "github.com/Mihail0123/hausrunde/internal/domain/shared/daterange"
)

const (
	isAvailableKey      = "availability.is_available"
	listAvailabilityKey = "availability.list"
)

// IsAvailableQuery asks whether a candidate window on an ad is free of
// blocking bookings. Read-only.
type IsAvailableQuery struct {
	AdID     string
	DateFrom time.Time
	DateTo   time.Time
}

func (q IsAvailableQuery) Key() string { return isAvailableKey }

type IsAvailableResult struct {
	Available bool `json:"available"`
}

type IsAvailableHandler struct {
	UoWFactory uow.UoWFactory
	Policy     domainbooking.BlockingPolicy
}

func (h *IsAvailableHandler) Handle(ctx context.Context, q IsAvailableQuery) (*IsAvailableResult, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	window, err := domainrange.New(q.DateFrom, q.DateTo)
	if err != nil {
		return nil, apperr.ValidationField("date_to", "must be greater than date_from")
	}
	items, err := loadAdBookings(ctx, unit, q.AdID)
	if err != nil {
		return nil, err
	}
	return &IsAvailableResult{Available: domainbooking.WindowFree(items, window, h.Policy.OrDefault())}, nil
}

// ListAvailabilityQuery returns every blocking booking on an ad as an
// ordered calendar, optionally narrowed to one status.
type ListAvailabilityQuery struct {
	AdID         string
	StatusFilter string
}

func (q ListAvailabilityQuery) Key() string { return listAvailabilityKey }

type CalendarEntry struct {
	DateFrom time.Time `json:"date_from"`
	DateTo   time.Time `json:"date_to"`
	Status   string    `json:"status"`
}

type Calendar struct {
	AdID    string          `json:"ad_id"`
	Entries []CalendarEntry `json:"entries"`
}

type ListAvailabilityHandler struct {
	UoWFactory uow.UoWFactory
	Policy     domainbooking.BlockingPolicy
}

func (h *ListAvailabilityHandler) Handle(ctx context.Context, q ListAvailabilityQuery) (*Calendar, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items, err := loadAdBookings(ctx, unit, q.AdID)
	if err != nil {
		return nil, err
	}
	blocking := domainbooking.BlockingCalendar(items, h.Policy.OrDefault(), domainbooking.Status(q.StatusFilter))
	cal := &Calendar{AdID: q.AdID, Entries: make([]CalendarEntry, 0, len(blocking))}
	for _, b := range blocking {
		cal.Entries = append(cal.Entries, CalendarEntry{
			DateFrom: b.Range.From,
			DateTo:   b.Range.To,
			Status:   string(b.Status),
		})
	}
	return cal, nil
}

func loadAdBookings(ctx context.Context, unit uow.UnitOfWork, adID string) ([]*domainbooking.Booking, error) {
	ad, err := unit.Ads().ByID(ctx, domainads.AdID(adID))
	if err != nil {
		if errors.Is(err, domainads.ErrNotFound) {
			return nil, apperr.NotFound("ad not found")
		}
		return nil, apperr.Infrastructure(err)
	}
	items, err := unit.Bookings().ListByAd(ctx, ad.ID)
	if err != nil {
		return nil, apperr.Infrastructure(err)
	}
	return items, nil
}

var _ queries.Handler[IsAvailableQuery, *IsAvailableResult] = (*IsAvailableHandler)(nil)
var _ queries.Handler[ListAvailabilityQuery, *Calendar] = (*ListAvailabilityHandler)(nil)
