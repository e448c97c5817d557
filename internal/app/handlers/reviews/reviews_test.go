package reviews

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

func date(offsetDays int) time.Time {
	return today.AddDate(0, 0, offsetDays)
}

func seed(t *testing.T) memory.Factory {
	t.Helper()
	factory := memory.NewFactory()
	ad, err := domainads.NewAd(domainads.CreateParams{
		ID:           "ad-1",
		OwnerID:      "owner-1",
		Title:        "Garden house",
		Location:     "Munich",
		NightlyPrice: money.Must(12000, "EUR"),
		Rooms:        3,
		CreatedAt:    date(-365),
	})
	if err != nil {
		t.Fatalf("ad: %v", err)
	}
	ad.ClearEvents()
	if err := factory.AdsRepo.Save(context.Background(), ad); err != nil {
		t.Fatalf("save ad: %v", err)
	}
	return factory
}

func seedBooking(t *testing.T, factory memory.Factory, id string, status domainbooking.Status, from, to time.Time) {
	t.Helper()
	stay, err := daterange.New(from, to)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	b := &domainbooking.Booking{
		ID:       domainbooking.BookingID(id),
		AdID:     "ad-1",
		TenantID: domainuser.ID("tenant-1"),
		Range:    stay,
		Status:   status,
	}
	if err := factory.BookingRepo.Save(context.Background(), b); err != nil {
		t.Fatalf("save booking: %v", err)
	}
}

func handler(factory memory.Factory) *SubmitReviewHandler {
	return &SubmitReviewHandler{UoWFactory: factory, Clock: fixedClock}
}

func submit(factory memory.Factory, id string) (*SubmitReviewResult, error) {
	return handler(factory).Handle(context.Background(), SubmitReviewCommand{
		CommandID: id,
		AdID:      "ad-1",
		TenantID:  "tenant-1",
		Rating:    5,
		Text:      "Great stay.",
	})
}

func TestReviewRequiresCompletedStay(t *testing.T) {
	factory := seed(t)
	seedBooking(t, factory, "future", domainbooking.StatusConfirmed, date(10), date(15))

	if _, err := submit(factory, "rev-1"); apperr.KindOf(err) != apperr.KindBusinessRule {
		t.Fatalf("future stay must not be reviewable, got %v", err)
	}

	// Same call succeeds once the stay lies in the past.
	seedBooking(t, factory, "past", domainbooking.StatusConfirmed, date(-10), date(-5))
	res, err := submit(factory, "rev-1")
	if err != nil {
		t.Fatalf("completed stay must be reviewable: %v", err)
	}
	if res.Review.BookingID != "past" {
		t.Fatalf("review must bind to the completed booking, got %s", res.Review.BookingID)
	}
}

func TestReviewIgnoresPendingAndCancelledStays(t *testing.T) {
	factory := seed(t)
	seedBooking(t, factory, "pending", domainbooking.StatusPending, date(-10), date(-5))
	seedBooking(t, factory, "cancelled", domainbooking.StatusCancelled, date(-20), date(-15))

	if _, err := submit(factory, "rev-1"); apperr.KindOf(err) != apperr.KindBusinessRule {
		t.Fatalf("only confirmed stays count, got %v", err)
	}
}

func TestReviewCheckoutTodayNotYetEligible(t *testing.T) {
	factory := seed(t)
	seedBooking(t, factory, "ends-today", domainbooking.StatusConfirmed, date(-5), date(0))

	if _, err := submit(factory, "rev-1"); apperr.KindOf(err) != apperr.KindBusinessRule {
		t.Fatalf("checkout today is not strictly past, got %v", err)
	}
}

func TestReviewBindsToLatestCompletedStay(t *testing.T) {
	factory := seed(t)
	seedBooking(t, factory, "older", domainbooking.StatusConfirmed, date(-60), date(-55))
	seedBooking(t, factory, "newer", domainbooking.StatusConfirmed, date(-20), date(-15))

	res, err := submit(factory, "rev-1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Review.BookingID != "newer" {
		t.Fatalf("expected binding to latest checkout, got %s", res.Review.BookingID)
	}

	// Second review falls through to the older unreviewed stay.
	second, err := submit(factory, "rev-2")
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if second.Review.BookingID != "older" {
		t.Fatalf("expected binding to remaining stay, got %s", second.Review.BookingID)
	}

	// All stays reviewed now.
	if _, err := submit(factory, "rev-3"); apperr.KindOf(err) != apperr.KindBusinessRule {
		t.Fatalf("no unreviewed stay left, got %v", err)
	}
}

func TestReviewRatingRange(t *testing.T) {
	factory := seed(t)
	seedBooking(t, factory, "past", domainbooking.StatusConfirmed, date(-10), date(-5))

	for _, rating := range []int{0, 6, -1} {
		_, err := handler(factory).Handle(context.Background(), SubmitReviewCommand{
			CommandID: "rev-1",
			AdID:      "ad-1",
			TenantID:  "tenant-1",
			Rating:    rating,
		})
		if apperr.KindOf(err) != apperr.KindValidation {
			t.Fatalf("rating %d must fail validation, got %v", rating, err)
		}
		if fields := apperr.FieldsOf(err); !fields.Has("rating") {
			t.Fatalf("error must be keyed to rating, got %v", fields)
		}
	}
}

func TestListAdReviews(t *testing.T) {
	factory := seed(t)
	seedBooking(t, factory, "past", domainbooking.StatusConfirmed, date(-10), date(-5))
	if _, err := submit(factory, "rev-1"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	h := &ListAdReviewsHandler{UoWFactory: factory}
	res, err := h.Handle(context.Background(), ListAdReviewsQuery{AdID: "ad-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 1 || res.Items[0].ID != "rev-1" {
		t.Fatalf("unexpected reviews %+v", res)
	}
}
