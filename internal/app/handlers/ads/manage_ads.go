package ads

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
	"github.com/Mihail0123/hausrunde/internal/domain/shared/money"
	domainuser "github.com/Mihail0123/hausrunde/internal/domain/user"
)

const (
	publishAdKey    = "ads.publish"
	updateAdKey     = "ads.update"
	setAdActiveKey  = "ads.set_active"
	defaultCurrency = "EUR"
)

type PublishAdCommand struct {
	CommandID   string
	OwnerID     string
	Title       string
	Description string
	Location    string
	PriceCents  int64
	Currency    string
	Rooms       int
	HousingType string
}

func (c PublishAdCommand) Key() string { return publishAdKey }

type PublishAdResult struct {
	Ad dto.Ad `json:"ad"`
}

type PublishAdHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      func() time.Time
	// Currency is the configured platform currency, applied when the
	// command does not name one.
	Currency string
}

func (h *PublishAdHandler) Handle(ctx context.Context, cmd PublishAdCommand) (*PublishAdResult, error) {
	unit, ctx, done, err := support.BeginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer done.Rollback(ctx)

	currency := cmd.Currency
	if currency == "" {
		currency = h.Currency
	}
	if currency == "" {
		currency = defaultCurrency
	}
	price, err := money.New(cmd.PriceCents, currency)
	if err != nil {
		return nil, apperr.ValidationField("price", "Invalid price or currency.")
	}

	now := time.Now().UTC()
	if h.Clock != nil {
		now = h.Clock()
	}
	ad, err := domainads.NewAd(domainads.CreateParams{
		ID:           domainads.AdID(cmd.CommandID),
		OwnerID:      domainuser.ID(cmd.OwnerID),
		Title:        cmd.Title,
		Description:  cmd.Description,
		Location:     cmd.Location,
		NightlyPrice: price,
		Rooms:        cmd.Rooms,
		HousingType:  domainads.HousingType(cmd.HousingType),
		CreatedAt:    now,
	})
	if err != nil {
		return nil, mapAdError(err)
	}

	if err := unit.Ads().Save(ctx, ad); err != nil {
		return nil, apperr.Infrastructure(err)
	}
	if err := support.DrainEvents(ctx, h.Outbox, h.Encoder, ad); err != nil {
		return nil, err
	}
	if err := done.Commit(ctx); err != nil {
		return nil, err
	}

	return &PublishAdResult{Ad: dto.MapAd(ad)}, nil
}

type UpdateAdCommand struct {
	AdID        string
	ActorID     string
	Title       string
	Description string
	Location    string
	PriceCents  *int64
	Currency    string
	Rooms       int
	HousingType string
}

func (c UpdateAdCommand) Key() string { return updateAdKey }

type UpdateAdResult struct {
	Ad dto.Ad `json:"ad"`
}

type UpdateAdHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      func() time.Time
}

func (h *UpdateAdHandler) Handle(ctx context.Context, cmd UpdateAdCommand) (*UpdateAdResult, error) {
	unit, ctx, done, err := support.BeginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer done.Rollback(ctx)

	ad, err := loadOwnedAd(ctx, unit, domainads.AdID(cmd.AdID), domainuser.ID(cmd.ActorID))
	if err != nil {
		return nil, err
	}

	var price *money.Money
	if cmd.PriceCents != nil {
		currency := cmd.Currency
		if currency == "" {
			currency = ad.NightlyPrice.Currency
		}
		p, err := money.New(*cmd.PriceCents, currency)
		if err != nil {
			return nil, apperr.ValidationField("price", "Invalid price or currency.")
		}
		price = &p
	}

	now := time.Now().UTC()
	if h.Clock != nil {
		now = h.Clock()
	}
	if err := ad.Update(domainads.UpdateParams{
		Title:        cmd.Title,
		Description:  cmd.Description,
		Location:     cmd.Location,
		NightlyPrice: price,
		Rooms:        cmd.Rooms,
		HousingType:  domainads.HousingType(cmd.HousingType),
	}, now); err != nil {
		return nil, mapAdError(err)
	}

	if err := unit.Ads().Save(ctx, ad); err != nil {
		return nil, apperr.Infrastructure(err)
	}
	if err := support.DrainEvents(ctx, h.Outbox, h.Encoder, ad); err != nil {
		return nil, err
	}
	if err := done.Commit(ctx); err != nil {
		return nil, err
	}

	return &UpdateAdResult{Ad: dto.MapAd(ad)}, nil
}

// SetAdActiveCommand toggles whether an ad accepts new bookings.
// Existing bookings are untouched.
type SetAdActiveCommand struct {
	AdID    string
	ActorID string
	Active  bool
}

func (c SetAdActiveCommand) Key() string { return setAdActiveKey }

type SetAdActiveResult struct {
	Ad dto.Ad `json:"ad"`
}

type SetAdActiveHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      func() time.Time
}

func (h *SetAdActiveHandler) Handle(ctx context.Context, cmd SetAdActiveCommand) (*SetAdActiveResult, error) {
	unit, ctx, done, err := support.BeginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer done.Rollback(ctx)

	ad, err := loadOwnedAd(ctx, unit, domainads.AdID(cmd.AdID), domainuser.ID(cmd.ActorID))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if h.Clock != nil {
		now = h.Clock()
	}
	if cmd.Active {
		ad.Activate(now)
	} else {
		ad.Deactivate(now)
	}

	if err := unit.Ads().Save(ctx, ad); err != nil {
		return nil, apperr.Infrastructure(err)
	}
	if err := support.DrainEvents(ctx, h.Outbox, h.Encoder, ad); err != nil {
		return nil, err
	}
	if err := done.Commit(ctx); err != nil {
		return nil, err
	}

	return &SetAdActiveResult{Ad: dto.MapAd(ad)}, nil
}

func loadOwnedAd(ctx context.Context, unit uow.UnitOfWork, id domainads.AdID, actor domainuser.ID) (*domainads.Ad, error) {
	ad, err := unit.Ads().ByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainads.ErrNotFound) {
			return nil, apperr.NotFound("ad not found")
		}
		return nil, apperr.Infrastructure(err)
	}
	if !ad.OwnedBy(actor) {
		return nil, apperr.NotFound("ad not found")
	}
	return ad, nil
}

func mapAdError(err error) error {
	switch {
	case errors.Is(err, domainads.ErrTitleRequired):
		return apperr.ValidationField("title", msgRequired)
	case errors.Is(err, domainads.ErrLocationRequired):
		return apperr.ValidationField("location", msgRequired)
	case errors.Is(err, domainads.ErrInvalidPrice):
		return apperr.ValidationField("price", "Price must not be negative.")
	case errors.Is(err, domainads.ErrInvalidRooms):
		return apperr.ValidationField("rooms", "Rooms must be positive.")
	case errors.Is(err, domainads.ErrInvalidHousing):
		return apperr.ValidationField("housing_type", "Unknown housing type.")
	default:
		return apperr.ValidationField(apperr.NonFieldKey, err.Error())
	}
}

const msgRequired = "This field is required."

var _ commands.Handler[PublishAdCommand, *PublishAdResult] = (*PublishAdHandler)(nil)
var _ commands.Handler[UpdateAdCommand, *UpdateAdResult] = (*UpdateAdHandler)(nil)
var _ commands.Handler[SetAdActiveCommand, *SetAdActiveResult] = (*SetAdActiveHandler)(nil)
