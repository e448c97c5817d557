package ads

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
	domainuser "github.com/Mihail0123/hausrunde/internal/domain/user"
)

const (
	getAdKey        = "ads.get"
	listOwnerAdsKey = "ads.list_owner"
)

type GetAdQuery struct {
	AdID string
}

func (q GetAdQuery) Key() string { return getAdKey }

type GetAdHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetAdHandler) Handle(ctx context.Context, q GetAdQuery) (*dto.Ad, error) {
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
	out := dto.MapAd(ad)
	return &out, nil
}

type ListOwnerAdsQuery struct {
	OwnerID string
}

func (q ListOwnerAdsQuery) Key() string { return listOwnerAdsKey }

type ListOwnerAdsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListOwnerAdsHandler) Handle(ctx context.Context, q ListOwnerAdsQuery) (*dto.AdCollection, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items, err := unit.Ads().ListByOwner(ctx, domainuser.ID(q.OwnerID))
	if err != nil {
		return nil, apperr.Infrastructure(err)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	out := dto.MapAds(items)
	return &out, nil
}

var _ queries.Handler[GetAdQuery, *dto.Ad] = (*GetAdHandler)(nil)
var _ queries.Handler[ListOwnerAdsQuery, *dto.AdCollection] = (*ListOwnerAdsHandler)(nil)
