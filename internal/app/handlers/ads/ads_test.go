package ads

import (
	"context"
	"testing"
	"time"

	"github.com/Mihail0123/hausrunde/internal/app/apperr"
	domainads "github.com/Mihail0123/hausrunde/internal/domain/ads"
	domainbooking "github.com/Mihail0123/hausrunde/internal/domain/booking"
	"github.com/Mihail0123/hausrunde/internal/domain/shared/daterange"
	"github.com/Mihail0123/hausrunde/internal/domain/shared/money"
	domainuser "github.com/Mihail0123/hausrunde/internal/domain/user"
	"github.com/Mihail0123/hausrunde/internal/infra/storage/memory"
)

var today = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return today }

func newFactory(t *testing.T) memory.Factory {
	t.Helper()
	return memory.NewFactory()
}

func seedAd(t *testing.T, f memory.Factory, id, owner string) {
	t.Helper()
	ad, err := domainads.NewAd(domainads.CreateParams{
		ID:           domainads.AdID(id),
		OwnerID:      domainuser.ID(owner),
		Title:        "Altbau flat",
		Location:     "Berlin",
		NightlyPrice: money.Must(9000, "EUR"),
		Rooms:        2,
		CreatedAt:    today.AddDate(0, -1, 0),
	})
	if err != nil {
		t.Fatalf("seed ad: %v", err)
	}
	ad.ClearEvents()
	if err := f.AdsRepo.Save(context.Background(), ad); err != nil {
		t.Fatalf("save ad: %v", err)
	}
}

func TestPublishAd(t *testing.T) {
	f := newFactory(t)
	h := &PublishAdHandler{UoWFactory: f, Clock: fixedClock}

	res, err := h.Handle(context.Background(), PublishAdCommand{
		CommandID:   "ad-1",
		OwnerID:     "anna",
		Title:       "Loft am Kanal",
		Location:    "Hamburg",
		PriceCents:  12000,
		Rooms:       3,
		HousingType: "loft",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !res.Ad.IsActive {
		t.Fatal("new ads must start active")
	}
	if res.Ad.NightlyPrice.Currency != "EUR" {
		t.Fatalf("currency must default to EUR, got %q", res.Ad.NightlyPrice.Currency)
	}
}

func TestPublishAdValidation(t *testing.T) {
	f := newFactory(t)
	h := &PublishAdHandler{UoWFactory: f, Clock: fixedClock}

	_, err := h.Handle(context.Background(), PublishAdCommand{
		CommandID: "ad-1",
		OwnerID:   "anna",
		Location:  "Hamburg",
		Rooms:     1,
	})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("missing title must be validation, got %v", err)
	}
	if fields := apperr.FieldsOf(err); !fields.Has("title") {
		t.Fatalf("error must key on title, got %v", fields)
	}
}

func TestUpdateAdOwnerGate(t *testing.T) {
	f := newFactory(t)
	seedAd(t, f, "ad-1", "anna")
	h := &UpdateAdHandler{UoWFactory: f, Clock: fixedClock}

	price := int64(15000)
	res, err := h.Handle(context.Background(), UpdateAdCommand{
		AdID:       "ad-1",
		ActorID:    "anna",
		Title:      "Altbau flat, renovated",
		Location:   "Berlin",
		PriceCents: &price,
		Rooms:      2,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if res.Ad.NightlyPrice.Amount != 15000 {
		t.Fatalf("price not updated, got %d", res.Ad.NightlyPrice.Amount)
	}

	_, err = h.Handle(context.Background(), UpdateAdCommand{
		AdID:     "ad-1",
		ActorID:  "ben",
		Title:    "Hijacked",
		Location: "Berlin",
		Rooms:    2,
	})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("stranger must see not-found, got %v", err)
	}
}

func TestDeactivateAndReactivate(t *testing.T) {
	f := newFactory(t)
	seedAd(t, f, "ad-1", "anna")
	h := &SetAdActiveHandler{UoWFactory: f, Clock: fixedClock}

	res, err := h.Handle(context.Background(), SetAdActiveCommand{AdID: "ad-1", ActorID: "anna", Active: false})
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if res.Ad.IsActive {
		t.Fatal("ad must be inactive")
	}

	res, err = h.Handle(context.Background(), SetAdActiveCommand{AdID: "ad-1", ActorID: "anna", Active: true})
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !res.Ad.IsActive {
		t.Fatal("ad must be active again")
	}
}

func TestGetAdAndOwnerList(t *testing.T) {
	f := newFactory(t)
	seedAd(t, f, "ad-1", "anna")
	seedAd(t, f, "ad-2", "anna")

	get := &GetAdHandler{UoWFactory: f}
	ad, err := get.Handle(context.Background(), GetAdQuery{AdID: "ad-1"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ad.ID != "ad-1" {
		t.Fatalf("unexpected ad %q", ad.ID)
	}
	if _, err := get.Handle(context.Background(), GetAdQuery{AdID: "ad-9"}); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("missing ad must be not-found, got %v", err)
	}

	list := &ListOwnerAdsHandler{UoWFactory: f}
	mine, err := list.Handle(context.Background(), ListOwnerAdsQuery{OwnerID: "anna"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if mine.Total != 2 {
		t.Fatalf("expected 2 ads, got %d", mine.Total)
	}
}

func seedSearchAd(t *testing.T, f memory.Factory, id, owner, title, location string, price int64, rooms int, housing domainads.HousingType, active bool, createdAt time.Time) {
	t.Helper()
	ad, err := domainads.NewAd(domainads.CreateParams{
		ID:           domainads.AdID(id),
		OwnerID:      domainuser.ID(owner),
		Title:        title,
		Location:     location,
		NightlyPrice: money.Must(price, "EUR"),
		Rooms:        rooms,
		HousingType:  housing,
		CreatedAt:    createdAt,
	})
	if err != nil {
		t.Fatalf("seed ad %s: %v", id, err)
	}
	ad.IsActive = active
	ad.ClearEvents()
	if err := f.AdsRepo.Save(context.Background(), ad); err != nil {
		t.Fatalf("save ad %s: %v", id, err)
	}
}

func searchFixture(t *testing.T) memory.Factory {
	t.Helper()
	f := newFactory(t)
	seedSearchAd(t, f, "ad-berlin", "anna", "Bright Altbau flat", "Berlin", 9000, 2, domainads.HousingApartment, true, today.AddDate(0, 0, -3))
	seedSearchAd(t, f, "ad-hamburg", "ben", "Loft am Kanal", "Hamburg", 15000, 3, domainads.HousingLoft, true, today.AddDate(0, 0, -2))
	seedSearchAd(t, f, "ad-hidden", "anna", "Quiet studio", "Berlin", 5000, 1, domainads.HousingStudio, false, today.AddDate(0, 0, -1))
	return f
}

func TestSearchAdsActiveOnlyNewestFirst(t *testing.T) {
	f := searchFixture(t)
	h := &SearchAdsHandler{UoWFactory: f}

	res, err := h.Handle(context.Background(), SearchAdsQuery{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("inactive ads must be hidden, got %d results", res.Total)
	}
	if res.Items[0].ID != "ad-hamburg" || res.Items[1].ID != "ad-berlin" {
		t.Fatalf("results must be newest first: %v", res.Items)
	}
}

func TestSearchAdsFilters(t *testing.T) {
	f := searchFixture(t)
	h := &SearchAdsHandler{UoWFactory: f}

	priceMax := int64(10000)
	roomsMin := 3
	cases := []struct {
		name  string
		query SearchAdsQuery
		want  []string
	}{
		{"text terms are ANDed", SearchAdsQuery{Query: "loft kanal"}, []string{"ad-hamburg"}},
		{"location contains", SearchAdsQuery{Location: "berl"}, []string{"ad-berlin"}},
		{"housing type exact", SearchAdsQuery{HousingType: "LOFT"}, []string{"ad-hamburg"}},
		{"price ceiling", SearchAdsQuery{PriceMax: &priceMax}, []string{"ad-berlin"}},
		{"rooms floor", SearchAdsQuery{RoomsMin: &roomsMin}, []string{"ad-hamburg"}},
		{"no match", SearchAdsQuery{Query: "castle"}, nil},
	}
	for _, tc := range cases {
		res, err := h.Handle(context.Background(), tc.query)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if len(res.Items) != len(tc.want) {
			t.Fatalf("%s: expected %d results, got %v", tc.name, len(tc.want), res.Items)
		}
		for i, id := range tc.want {
			if res.Items[i].ID != id {
				t.Fatalf("%s: expected %s at %d, got %s", tc.name, id, i, res.Items[i].ID)
			}
		}
	}
}

func TestSearchAdsAvailabilityWindow(t *testing.T) {
	f := searchFixture(t)
	stay, err := daterange.New(today.AddDate(0, 1, 9), today.AddDate(0, 1, 19))
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	b := &domainbooking.Booking{
		ID:       "b-1",
		AdID:     "ad-berlin",
		TenantID: "tenant-1",
		Range:    stay,
		Status:   domainbooking.StatusConfirmed,
	}
	if err := f.BookingRepo.Save(context.Background(), b); err != nil {
		t.Fatalf("save booking: %v", err)
	}
	h := &SearchAdsHandler{UoWFactory: f}

	res, err := h.Handle(context.Background(), SearchAdsQuery{
		DateFrom: today.AddDate(0, 1, 12),
		DateTo:   today.AddDate(0, 1, 15),
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].ID != "ad-hamburg" {
		t.Fatalf("occupied ad must be excluded for the window: %v", res.Items)
	}

	touching, err := h.Handle(context.Background(), SearchAdsQuery{
		DateFrom: today.AddDate(0, 1, 19),
		DateTo:   today.AddDate(0, 1, 22),
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(touching.Items) != 2 {
		t.Fatalf("window touching checkout must not exclude the ad: %v", touching.Items)
	}
}

func TestSearchAdsBadWindow(t *testing.T) {
	f := searchFixture(t)
	h := &SearchAdsHandler{UoWFactory: f}

	_, err := h.Handle(context.Background(), SearchAdsQuery{
		DateFrom: today.AddDate(0, 1, 15),
		DateTo:   today.AddDate(0, 1, 12),
	})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("inverted window must be validation, got %v", err)
	}
}

func TestPublishAdUsesConfiguredCurrency(t *testing.T) {
	f := newFactory(t)
	h := &PublishAdHandler{UoWFactory: f, Clock: fixedClock, Currency: "USD"}

	res, err := h.Handle(context.Background(), PublishAdCommand{
		CommandID:  "ad-1",
		OwnerID:    "anna",
		Title:      "Loft am Kanal",
		Location:   "Hamburg",
		PriceCents: 12000,
		Rooms:      3,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if res.Ad.NightlyPrice.Currency != "USD" {
		t.Fatalf("configured currency must apply, got %q", res.Ad.NightlyPrice.Currency)
	}
}
