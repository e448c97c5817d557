package dto

import (
	"time"

	domainads "github.com/Mihail0123/hausrunde/internal/domain/ads"
)

type Ad struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	NightlyPrice MoneyDTO  `json:"nightly_price"`
	Rooms        int       `json:"rooms"`
	HousingType  string    `json:"housing_type"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type AdCollection struct {
	Items []Ad `json:"items"`
	Total int  `json:"total"`
}

func MapAd(ad *domainads.Ad) Ad {
	if ad == nil {
		return Ad{}
	}
	return Ad{
		ID:           string(ad.ID),
		OwnerID:      string(ad.OwnerID),
		Title:        ad.Title,
		Description:  ad.Description,
		Location:     ad.Location,
		NightlyPrice: MapMoney(ad.NightlyPrice),
		Rooms:        ad.Rooms,
		HousingType:  string(ad.HousingType),
		IsActive:     ad.IsActive,
		CreatedAt:    ad.CreatedAt,
		UpdatedAt:    ad.UpdatedAt,
	}
}

func MapAds(items []*domainads.Ad) AdCollection {
	out := AdCollection{Items: make([]Ad, 0, len(items)), Total: len(items)}
	for _, ad := range items {
		out.Items = append(out.Items, MapAd(ad))
	}
	return out
}
