package ads

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Mihail0123/hausrunde/internal/app/apperr"
	"github.com/Mihail0123/hausrunde/internal/app/dto"
	"github.com/Mihail0123/hausrunde/internal/app/handlers/support"
	"github.com/Mihail0123/hausrunde/internal/app/queries"
	"github.com/Mihail0123/hausrunde/internal/app/uow"
	domainads "github.com/Mihail0123/hausrunde/internal/domain/ads"
	domainbooking "github.com/Mihail0123/hausrunde/internal/domain/booking"
	domainrange "github.com/Mihail0123/hausrunde/internal/domain/shared/daterange"
)

const searchAdsKey = "ads.search"

// SearchAdsQuery is the public listing browse. Only active ads are
// returned; every filter is optional. Search terms are AND-combined
// over title, description, location and housing type. When both dates
// are set, only ads whose calendar is free for that window survive.
type SearchAdsQuery struct {
	Query       string
	Location    string
	HousingType string
	PriceMin    *int64
	PriceMax    *int64
	RoomsMin    *int
	RoomsMax    *int
	DateFrom    time.Time
	DateTo      time.Time
}

func (q SearchAdsQuery) Key() string { return searchAdsKey }

type SearchAdsHandler struct {
	UoWFactory uow.UoWFactory
	Policy     domainbooking.BlockingPolicy
}

func (h *SearchAdsHandler) Handle(ctx context.Context, q SearchAdsQuery) (*dto.AdCollection, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	var window *domainrange.DateRange
	if !q.DateFrom.IsZero() || !q.DateTo.IsZero() {
		w, err := domainrange.New(q.DateFrom, q.DateTo)
		if err != nil {
			return nil, apperr.ValidationField("date_to", "must be greater than date_from")
		}
		window = &w
	}

	items, err := unit.Ads().List(ctx)
	if err != nil {
		return nil, apperr.Infrastructure(err)
	}

	matched := make([]*domainads.Ad, 0, len(items))
	for _, ad := range items {
		if !ad.IsActive || !q.matches(ad) {
			continue
		}
		if window != nil {
			bookings, err := unit.Bookings().ListByAd(ctx, ad.ID)
			if err != nil {
				return nil, apperr.Infrastructure(err)
			}
			if !domainbooking.WindowFree(bookings, *window, h.Policy.OrDefault()) {
				continue
			}
		}
		matched = append(matched, ad)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	out := dto.MapAds(matched)
	return &out, nil
}

func (q SearchAdsQuery) matches(ad *domainads.Ad) bool {
	for _, term := range strings.Fields(q.Query) {
		if !adContains(ad, term) {
			return false
		}
	}
	if q.Location != "" && !containsFold(ad.Location, q.Location) {
		return false
	}
	if q.HousingType != "" && !strings.EqualFold(string(ad.HousingType), q.HousingType) {
		return false
	}
	if q.PriceMin != nil && ad.NightlyPrice.Amount < *q.PriceMin {
		return false
	}
	if q.PriceMax != nil && ad.NightlyPrice.Amount > *q.PriceMax {
		return false
	}
	if q.RoomsMin != nil && ad.Rooms < *q.RoomsMin {
		return false
	}
	if q.RoomsMax != nil && ad.Rooms > *q.RoomsMax {
		return false
	}
	return true
}

func adContains(ad *domainads.Ad, term string) bool {
	return containsFold(ad.Title, term) ||
		containsFold(ad.Description, term) ||
		containsFold(ad.Location, term) ||
		containsFold(string(ad.HousingType), term)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

var _ queries.Handler[SearchAdsQuery, *dto.AdCollection] = (*SearchAdsHandler)(nil)
