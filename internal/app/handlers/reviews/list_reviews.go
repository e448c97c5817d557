package reviews

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
)

const listAdReviewsKey = "reviews.list_ad"

type ListAdReviewsQuery struct {
	AdID string
}

func (q ListAdReviewsQuery) Key() string { return listAdReviewsKey }

type ListAdReviewsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListAdReviewsHandler) Handle(ctx context.Context, q ListAdReviewsQuery) (*dto.ReviewCollection, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	if _, err := unit.Ads().ByID(ctx, domainads.AdID(q.AdID)); err != nil {
		if errors.Is(err, domainads.ErrNotFound) {
			return nil, apperr.NotFound("ad not found")
		}
		return nil, apperr.Infrastructure(err)
	}

	items, err := unit.Reviews().ListByAd(ctx, domainads.AdID(q.AdID))
	if err != nil {
		return nil, apperr.Infrastructure(err)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	out := dto.MapReviews(items)
	return &out, nil
}

var _ queries.Handler[ListAdReviewsQuery, *dto.ReviewCollection] = (*ListAdReviewsHandler)(nil)
