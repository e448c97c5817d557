package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Mihail0123/hausrunde/internal/app/middleware"
	"github.com/Mihail0123/hausrunde/internal/app/uow"
	domainads "github.com/Mihail0123/hausrunde/internal/domain/ads"
	domainauth "github.com/Mihail0123/hausrunde/internal/domain/auth"
	domainbooking "github.com/Mihail0123/hausrunde/internal/domain/booking"
	domainreviews "github.com/Mihail0123/hausrunde/internal/domain/reviews"
	"github.com/Mihail0123/hausrunde/internal/domain/shared/daterange"
	"github.com/Mihail0123/hausrunde/internal/domain/shared/money"
	domainuser "github.com/Mihail0123/hausrunde/internal/domain/user"
)

var testDay = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func testAd(t *testing.T, id, owner string) *domainads.Ad {
	t.Helper()
	ad, err := domainads.NewAd(domainads.CreateParams{
		ID:           domainads.AdID(id),
		OwnerID:      domainuser.ID(owner),
		Title:        "Studio near Mauerpark",
		Location:     "Berlin",
		NightlyPrice: money.Must(8000, "EUR"),
		Rooms:        1,
		CreatedAt:    testDay,
	})
	if err != nil {
		t.Fatalf("new ad: %v", err)
	}
	return ad
}

func testBooking(t *testing.T, id, adID, tenant string) *domainbooking.Booking {
	t.Helper()
	stay, err := daterange.New(testDay.AddDate(0, 0, 5), testDay.AddDate(0, 0, 8))
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	return &domainbooking.Booking{
		ID:        domainbooking.BookingID(id),
		AdID:      domainads.AdID(adID),
		TenantID:  domainuser.ID(tenant),
		Range:     stay,
		Status:    domainbooking.StatusPending,
		CreatedAt: testDay,
		UpdatedAt: testDay,
	}
}

func TestBookingSaveBumpsVersion(t *testing.T) {
	repo := NewBookingRepository()
	b := testBooking(t, "bk-1", "ad-1", "tenant-1")

	if err := repo.Save(context.Background(), b); err != nil {
		t.Fatalf("save: %v", err)
	}
	if b.Version != 1 {
		t.Fatalf("first save must set version 1, got %d", b.Version)
	}
	if err := repo.Save(context.Background(), b); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if b.Version != 2 {
		t.Fatalf("second save must set version 2, got %d", b.Version)
	}
}

func TestBookingReadsAreIsolated(t *testing.T) {
	repo := NewBookingRepository()
	b := testBooking(t, "bk-1", "ad-1", "tenant-1")
	if err := repo.Save(context.Background(), b); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.ByID(context.Background(), "bk-1")
	if err != nil {
		t.Fatalf("byID: %v", err)
	}
	got.Status = domainbooking.StatusCancelled

	again, err := repo.ByID(context.Background(), "bk-1")
	if err != nil {
		t.Fatalf("byID again: %v", err)
	}
	if again.Status != domainbooking.StatusPending {
		t.Fatal("mutating a read result must not touch the stored booking")
	}
}

func TestAdListByOwner(t *testing.T) {
	repo := NewAdRepository()
	if err := repo.Save(context.Background(), testAd(t, "ad-1", "anna")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(context.Background(), testAd(t, "ad-2", "anna")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(context.Background(), testAd(t, "ad-3", "ben")); err != nil {
		t.Fatalf("save: %v", err)
	}

	mine, err := repo.ListByOwner(context.Background(), "anna")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 ads for anna, got %d", len(mine))
	}
	if _, err := repo.ByID(context.Background(), "ad-9"); !errors.Is(err, domainads.ErrNotFound) {
		t.Fatalf("missing ad must be ErrNotFound, got %v", err)
	}
}

func TestReviewByBookingIndex(t *testing.T) {
	repo := NewReviewRepository()
	review := &domainreviews.Review{
		ID:        "rv-1",
		BookingID: "bk-1",
		AdID:      "ad-1",
		TenantID:  "tenant-1",
		Rating:    5,
		CreatedAt: testDay,
	}
	if err := repo.Save(context.Background(), review); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.ByBooking(context.Background(), "bk-1")
	if err != nil {
		t.Fatalf("byBooking: %v", err)
	}
	if got.ID != "rv-1" {
		t.Fatalf("unexpected review %q", got.ID)
	}
	if _, err := repo.ByBooking(context.Background(), "bk-2"); !errors.Is(err, domainreviews.ErrNotFound) {
		t.Fatalf("unreviewed booking must be ErrNotFound, got %v", err)
	}
}

func TestUserEmailUniqueness(t *testing.T) {
	repo := NewUserRepository()
	first := &domainuser.User{ID: "u-1", Email: "anna@example.com", PasswordHash: "x"}
	if err := repo.Save(context.Background(), first); err != nil {
		t.Fatalf("save: %v", err)
	}

	dup := &domainuser.User{ID: "u-2", Email: "Anna@Example.com", PasswordHash: "y"}
	if err := repo.Save(context.Background(), dup); !errors.Is(err, domainuser.ErrEmailAlreadyUsed) {
		t.Fatalf("case-insensitive duplicate must be rejected, got %v", err)
	}

	// Same user re-saving under their own email is fine.
	first.Name = "Anna"
	if err := repo.Save(context.Background(), first); err != nil {
		t.Fatalf("re-save: %v", err)
	}
	got, err := repo.ByEmail(context.Background(), "ANNA@example.com")
	if err != nil {
		t.Fatalf("byEmail: %v", err)
	}
	if got.ID != "u-1" {
		t.Fatalf("unexpected user %q", got.ID)
	}
}

func TestSessionStoreEvictsExpired(t *testing.T) {
	store := NewSessionStore()
	session, err := domainauth.NewSession(domainauth.CreateSessionParams{
		Token:  "tok-1",
		UserID: "u-1",
		TTL:    time.Millisecond,
		Now:    time.Now().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := store.Save(context.Background(), session); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.ByToken(context.Background(), "tok-1"); !errors.Is(err, domainauth.ErrSessionNotFound) {
		t.Fatalf("expired session must be gone, got %v", err)
	}
}

func TestFactoryUnitSharesRepositories(t *testing.T) {
	factory := NewFactory()
	unit, err := factory.Begin(context.Background(), uow.TxOptions{})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := unit.Ads().Save(context.Background(), testAd(t, "ad-1", "anna")); err != nil {
		t.Fatalf("save through unit: %v", err)
	}

	other, err := factory.Begin(context.Background(), uow.TxOptions{})
	if err != nil {
		t.Fatalf("begin again: %v", err)
	}
	if _, err := other.Ads().ByID(context.Background(), "ad-1"); err != nil {
		t.Fatalf("second unit must see the write: %v", err)
	}
}

func TestIdempotencyStoreEvictsExpired(t *testing.T) {
	store := NewIdempotencyStore(time.Hour)
	current := testDay
	store.now = func() time.Time { return current }

	rec := middleware.IdempotencyRecord{Key: "cmd-1", Payload: []byte(`{"ok":true}`), OccurredAt: testDay}
	if err := store.Save(context.Background(), rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, found, _ := store.Get(context.Background(), "cmd-1"); !found {
		t.Fatal("fresh record must be replayable")
	}

	current = testDay.Add(2 * time.Hour)
	if _, found, _ := store.Get(context.Background(), "cmd-1"); found {
		t.Fatal("record past the TTL must be evicted")
	}
}

func TestIdempotencyStoreZeroTTLKeepsRecords(t *testing.T) {
	store := NewIdempotencyStore(0)
	current := testDay
	store.now = func() time.Time { return current }

	rec := middleware.IdempotencyRecord{Key: "cmd-1", OccurredAt: testDay}
	if err := store.Save(context.Background(), rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	current = testDay.AddDate(1, 0, 0)
	if _, found, _ := store.Get(context.Background(), "cmd-1"); !found {
		t.Fatal("zero TTL must keep records indefinitely")
	}
}
