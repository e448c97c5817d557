package ads

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Mihail0123/hausrunde/internal/domain/shared/events"
	"github.com/Mihail0123/hausrunde/internal/domain/shared/money"
	"github.com/Mihail0123/hausrunde/internal/domain/user"
)

var (
	ErrIDRequired       = errors.New("ads: id is required")
	ErrOwnerRequired    = errors.New("ads: owner is required")
	ErrTitleRequired    = errors.New("ads: title is required")
	ErrLocationRequired = errors.New("ads: location is required")
	ErrInvalidPrice     = errors.New("ads: nightly price must not be negative")
	ErrInvalidRooms     = errors.New("ads: rooms must be positive")
	ErrInvalidHousing   = errors.New("ads: unknown housing type")
	ErrNotFound         = errors.New("ads: not found")
)

type AdID string

type HousingType string

const (
	HousingApartment HousingType = "apartment"
	HousingHouse     HousingType = "house"
	HousingStudio    HousingType = "studio"
	HousingLoft      HousingType = "loft"
	HousingRoom      HousingType = "room"
	HousingTownhouse HousingType = "townhouse"
	HousingVilla     HousingType = "villa"
)

// Ad is a rentable listing. IsActive gates new bookings only; existing
// bookings survive deactivation.
type Ad struct {
	ID           AdID
	OwnerID      user.ID
	Title        string
	Description  string
	Location     string
	NightlyPrice money.Money
	Rooms        int
	HousingType  HousingType
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id AdID) (*Ad, error)
	List(ctx context.Context) ([]*Ad, error)
	ListByOwner(ctx context.Context, owner user.ID) ([]*Ad, error)
	Save(ctx context.Context, ad *Ad) error
}

type CreateParams struct {
	ID           AdID
	OwnerID      user.ID
	Title        string
	Description  string
	Location     string
	NightlyPrice money.Money
	Rooms        int
	HousingType  HousingType
	CreatedAt    time.Time
}

func NewAd(params CreateParams) (*Ad, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(string(params.OwnerID)) == "" {
		return nil, ErrOwnerRequired
	}
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	location := strings.TrimSpace(params.Location)
	if location == "" {
		return nil, ErrLocationRequired
	}
	if params.NightlyPrice.Amount < 0 {
		return nil, ErrInvalidPrice
	}
	if params.Rooms <= 0 {
		return nil, ErrInvalidRooms
	}
	housing := params.HousingType
	if housing == "" {
		housing = HousingApartment
	}
	if !validHousing(housing) {
		return nil, ErrInvalidHousing
	}
	now := params.CreatedAt.UTC()
	ad := &Ad{
		ID:           params.ID,
		OwnerID:      params.OwnerID,
		Title:        title,
		Description:  strings.TrimSpace(params.Description),
		Location:     location,
		NightlyPrice: params.NightlyPrice,
		Rooms:        params.Rooms,
		HousingType:  housing,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	ad.Record(AdPublished{AdID: ad.ID, OwnerID: ad.OwnerID, At: now})
	return ad, nil
}

type UpdateParams struct {
	Title        string
	Description  string
	Location     string
	NightlyPrice *money.Money
	Rooms        int
	HousingType  HousingType
}

func (a *Ad) Update(params UpdateParams, now time.Time) error {
	if title := strings.TrimSpace(params.Title); title != "" {
		a.Title = title
	}
	if desc := strings.TrimSpace(params.Description); desc != "" {
		a.Description = desc
	}
	if location := strings.TrimSpace(params.Location); location != "" {
		a.Location = location
	}
	if params.NightlyPrice != nil {
		if params.NightlyPrice.Amount < 0 {
			return ErrInvalidPrice
		}
		a.NightlyPrice = *params.NightlyPrice
	}
	if params.Rooms > 0 {
		a.Rooms = params.Rooms
	}
	if params.HousingType != "" {
		if !validHousing(params.HousingType) {
			return ErrInvalidHousing
		}
		a.HousingType = params.HousingType
	}
	a.UpdatedAt = now.UTC()
	a.Record(AdUpdated{AdID: a.ID, At: a.UpdatedAt})
	return nil
}

func (a *Ad) Deactivate(now time.Time) {
	if !a.IsActive {
		return
	}
	a.IsActive = false
	a.UpdatedAt = now.UTC()
	a.Record(AdDeactivated{AdID: a.ID, At: a.UpdatedAt})
}

func (a *Ad) Activate(now time.Time) {
	if a.IsActive {
		return
	}
	a.IsActive = true
	a.UpdatedAt = now.UTC()
	a.Record(AdActivated{AdID: a.ID, At: a.UpdatedAt})
}

func (a *Ad) OwnedBy(id user.ID) bool {
	return a.OwnerID == id
}

func validHousing(h HousingType) bool {
	switch h {
	case HousingApartment, HousingHouse, HousingStudio, HousingLoft, HousingRoom, HousingTownhouse, HousingVilla:
		return true
	}
	return false
}
