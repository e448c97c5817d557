package booking

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

type fixture struct {
	factory memory.Factory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{factory: memory.NewFactory()}
	f.seedAd(t, "ad-1", "owner-1", true, 10000)
	return f
}

func (f *fixture) seedAd(t *testing.T, id, owner string, active bool, priceCents int64) {
	t.Helper()
	ad, err := domainads.NewAd(domainads.CreateParams{
		ID:           domainads.AdID(id),
		OwnerID:      domainuser.ID(owner),
		Title:        "Altbau flat",
		Location:     "Berlin",
		NightlyPrice: money.Must(priceCents, "EUR"),
		Rooms:        2,
		CreatedAt:    today.AddDate(0, -1, 0),
	})
	if err != nil {
		t.Fatalf("seed ad: %v", err)
	}
	if !active {
		ad.Deactivate(today.AddDate(0, -1, 1))
	}
	ad.ClearEvents()
	if err := f.factory.AdsRepo.Save(context.Background(), ad); err != nil {
		t.Fatalf("save ad: %v", err)
	}
}

func (f *fixture) seedBooking(t *testing.T, id, adID, tenant string, status domainbooking.Status, from, to time.Time) {
	t.Helper()
	stay, err := daterange.New(from, to)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	b := &domainbooking.Booking{
		ID:        domainbooking.BookingID(id),
		AdID:      domainads.AdID(adID),
		TenantID:  domainuser.ID(tenant),
		Range:     stay,
		Status:    status,
		CreatedAt: today.AddDate(0, 0, -7),
		UpdatedAt: today.AddDate(0, 0, -7),
	}
	if err := f.factory.BookingRepo.Save(context.Background(), b); err != nil {
		t.Fatalf("save booking: %v", err)
	}
}

func (f *fixture) createHandler() *CreateBookingHandler {
	return &CreateBookingHandler{
		UoWFactory: f.factory,
		Policy:     domainbooking.BlockConfirmedOnly,
		Clock:      fixedClock,
	}
}

func TestCreateBookingHappyPath(t *testing.T) {
	f := newFixture(t)
	res, err := f.createHandler().Handle(context.Background(), CreateBookingCommand{
		CommandID: "bk-1",
		AdID:      "ad-1",
		TenantID:  "tenant-1",
		DateFrom:  date(10),
		DateTo:    date(15),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.Booking.Status != string(domainbooking.StatusPending) {
		t.Fatalf("expected PENDING, got %s", res.Booking.Status)
	}
	if res.Booking.Nights != 5 {
		t.Fatalf("expected 5 nights, got %d", res.Booking.Nights)
	}
}

func TestCreateBookingRequiredFields(t *testing.T) {
	f := newFixture(t)
	_, err := f.createHandler().Handle(context.Background(), CreateBookingCommand{CommandID: "bk-1", TenantID: "tenant-1"})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := apperr.FieldsOf(err)
	for _, key := range []string{"ad", "date_from", "date_to"} {
		if !fields.Has(key) {
			t.Fatalf("expected %q error, got %v", key, fields)
		}
	}
}

func TestCreateBookingInactiveAdAndSelfBookingReportTogether(t *testing.T) {
	f := newFixture(t)
	f.seedAd(t, "ad-2", "owner-2", false, 10000)

	_, err := f.createHandler().Handle(context.Background(), CreateBookingCommand{
		CommandID: "bk-1",
		AdID:      "ad-2",
		TenantID:  "owner-2",
		DateFrom:  date(10),
		DateTo:    date(12),
	})
	fields := apperr.FieldsOf(err)
	if !fields.Has("ad") {
		t.Fatalf("expected inactive-ad error on 'ad', got %v", fields)
	}
	if !fields.Has(apperr.NonFieldKey) {
		t.Fatalf("expected self-booking error on non_field_errors, got %v", fields)
	}
}

func TestCreateBookingDateOrderSuppressesLaterChecks(t *testing.T) {
	f := newFixture(t)
	_, err := f.createHandler().Handle(context.Background(), CreateBookingCommand{
		CommandID: "bk-1",
		AdID:      "ad-1",
		TenantID:  "tenant-1",
		DateFrom:  date(-5),
		DateTo:    date(-10),
	})
	fields := apperr.FieldsOf(err)
	if !fields.Has("date_to") {
		t.Fatalf("expected 'date_to' error, got %v", fields)
	}
	if fields.Has("date_from") {
		t.Fatalf("lead-time check must be skipped on broken order, got %v", fields)
	}
}

func TestCreateBookingLeadTime(t *testing.T) {
	f := newFixture(t)
	for _, offset := range []int{0, -1} {
		_, err := f.createHandler().Handle(context.Background(), CreateBookingCommand{
			CommandID: "bk-1",
			AdID:      "ad-1",
			TenantID:  "tenant-1",
			DateFrom:  date(offset),
			DateTo:    date(offset + 3),
		})
		if fields := apperr.FieldsOf(err); !fields.Has("date_from") {
			t.Fatalf("offset %d: expected 'date_from' error, got %v", offset, err)
		}
	}
}

func TestCreateBookingOverlapBlocked(t *testing.T) {
	f := newFixture(t)
	f.seedBooking(t, "taken", "ad-1", "tenant-2", domainbooking.StatusConfirmed, date(10), date(15))

	_, err := f.createHandler().Handle(context.Background(), CreateBookingCommand{
		CommandID: "bk-1",
		AdID:      "ad-1",
		TenantID:  "tenant-1",
		DateFrom:  date(12),
		DateTo:    date(14),
	})
	fields := apperr.FieldsOf(err)
	if !fields.Has(apperr.NonFieldKey) {
		t.Fatalf("expected overlap error on non_field_errors, got %v", err)
	}
}

func TestCreateBookingBackToBackAllowed(t *testing.T) {
	f := newFixture(t)
	f.seedBooking(t, "taken", "ad-1", "tenant-2", domainbooking.StatusConfirmed, date(10), date(15))

	res, err := f.createHandler().Handle(context.Background(), CreateBookingCommand{
		CommandID: "bk-1",
		AdID:      "ad-1",
		TenantID:  "tenant-1",
		DateFrom:  date(15),
		DateTo:    date(18),
	})
	if err != nil {
		t.Fatalf("back-to-back stay must be allowed: %v", err)
	}
	if res.Booking.ID != "bk-1" {
		t.Fatalf("unexpected booking %v", res.Booking)
	}
}

func TestCreateBookingPendingDoesNotBlockUnderConfirmedOnlyPolicy(t *testing.T) {
	f := newFixture(t)
	f.seedBooking(t, "rival", "ad-1", "tenant-2", domainbooking.StatusPending, date(10), date(15))

	if _, err := f.createHandler().Handle(context.Background(), CreateBookingCommand{
		CommandID: "bk-1",
		AdID:      "ad-1",
		TenantID:  "tenant-1",
		DateFrom:  date(12),
		DateTo:    date(14),
	}); err != nil {
		t.Fatalf("pending must not block under confirmed-only policy: %v", err)
	}
}

func TestConfirmCascadesOverOverlappingPending(t *testing.T) {
	f := newFixture(t)
	f.seedBooking(t, "winner", "ad-1", "tenant-1", domainbooking.StatusPending, date(10), date(15))
	f.seedBooking(t, "rival", "ad-1", "tenant-2", domainbooking.StatusPending, date(12), date(17))
	f.seedBooking(t, "bystander", "ad-1", "tenant-3", domainbooking.StatusPending, date(20), date(25))

	h := &ConfirmBookingHandler{UoWFactory: f.factory, Clock: fixedClock}
	res, err := h.Handle(context.Background(), ConfirmBookingCommand{BookingID: "winner", ActorID: "owner-1"})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if res.Booking.Status != string(domainbooking.StatusConfirmed) {
		t.Fatalf("expected CONFIRMED, got %s", res.Booking.Status)
	}
	if len(res.Cancelled) != 1 || res.Cancelled[0] != "rival" {
		t.Fatalf("expected rival auto-cancelled, got %v", res.Cancelled)
	}

	rival, _ := f.factory.BookingRepo.ByID(context.Background(), "rival")
	if rival.Status != domainbooking.StatusCancelled {
		t.Fatalf("rival must be CANCELLED, got %s", rival.Status)
	}
	bystander, _ := f.factory.BookingRepo.ByID(context.Background(), "bystander")
	if bystander.Status != domainbooking.StatusPending {
		t.Fatalf("non-overlapping booking must stay PENDING, got %s", bystander.Status)
	}
}

func TestConfirmAuthorization(t *testing.T) {
	f := newFixture(t)
	f.seedBooking(t, "bk-1", "ad-1", "tenant-1", domainbooking.StatusPending, date(10), date(15))

	h := &ConfirmBookingHandler{UoWFactory: f.factory, Clock: fixedClock}

	if _, err := h.Handle(context.Background(), ConfirmBookingCommand{BookingID: "bk-1", ActorID: "tenant-1"}); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("tenant confirming must be forbidden, got %v", err)
	}
	if _, err := h.Handle(context.Background(), ConfirmBookingCommand{BookingID: "bk-1", ActorID: "stranger"}); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("stranger must see not-found, got %v", err)
	}
}

func TestConfirmTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	f.seedBooking(t, "bk-1", "ad-1", "tenant-1", domainbooking.StatusConfirmed, date(10), date(15))

	h := &ConfirmBookingHandler{UoWFactory: f.factory, Clock: fixedClock}
	if _, err := h.Handle(context.Background(), ConfirmBookingCommand{BookingID: "bk-1", ActorID: "owner-1"}); apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCancelAfterStartRejected(t *testing.T) {
	f := newFixture(t)
	f.seedBooking(t, "bk-1", "ad-1", "tenant-1", domainbooking.StatusConfirmed, date(0), date(5))

	h := &CancelBookingHandler{UoWFactory: f.factory, Clock: fixedClock}
	_, err := h.Handle(context.Background(), CancelBookingCommand{BookingID: "bk-1", ActorID: "tenant-1"})
	if apperr.KindOf(err) != apperr.KindBusinessRule {
		t.Fatalf("cancel on start day must fail as business rule, got %v", err)
	}

	got, _ := f.factory.BookingRepo.ByID(context.Background(), "bk-1")
	if got.Status != domainbooking.StatusConfirmed {
		t.Fatalf("failed cancel must not change status, got %s", got.Status)
	}
}

func TestCancelChargesScheduledFee(t *testing.T) {
	f := newFixture(t)
	f.seedBooking(t, "bk-1", "ad-1", "tenant-1", domainbooking.StatusConfirmed, date(2), date(6))

	h := &CancelBookingHandler{UoWFactory: f.factory, Clock: fixedClock}
	res, err := h.Handle(context.Background(), CancelBookingCommand{BookingID: "bk-1", ActorID: "tenant-1"})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if res.Booking.Status != string(domainbooking.StatusCancelled) {
		t.Fatalf("expected CANCELLED, got %s", res.Booking.Status)
	}
	if res.Quote.FeePercent != 40 {
		t.Fatalf("2 days lead must cost 40%%, got %d", res.Quote.FeePercent)
	}
	// 4 nights at 100.00 -> 400.00 total, 40% fee = 160.00
	if res.Quote.Fee.Amount != 16000 {
		t.Fatalf("expected fee 16000 cents, got %d", res.Quote.Fee.Amount)
	}
}

func TestPreviewCancellationStartsToday(t *testing.T) {
	f := newFixture(t)
	f.seedBooking(t, "bk-1", "ad-1", "tenant-1", domainbooking.StatusConfirmed, date(0), date(5))

	h := &PreviewCancellationHandler{UoWFactory: f.factory, Clock: fixedClock}
	quote, err := h.Handle(context.Background(), PreviewCancellationQuery{BookingID: "bk-1", ActorID: "tenant-1"})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if quote.FeePercent != 100 {
		t.Fatalf("start today must cost 100%%, got %d", quote.FeePercent)
	}
	// 5 nights at 100.00 -> full 500.00 forfeited
	if quote.Fee.Amount != 50000 {
		t.Fatalf("expected fee 50000 cents, got %d", quote.Fee.Amount)
	}
	if quote.Cancellable {
		t.Fatal("started stay must not be cancellable")
	}
}

func TestPreviewCancellationFreeWindow(t *testing.T) {
	f := newFixture(t)
	f.seedBooking(t, "bk-1", "ad-1", "tenant-1", domainbooking.StatusConfirmed, date(5), date(9))

	h := &PreviewCancellationHandler{UoWFactory: f.factory, Clock: fixedClock}
	quote, err := h.Handle(context.Background(), PreviewCancellationQuery{BookingID: "bk-1", ActorID: "tenant-1"})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if quote.FeePercent != 0 || quote.Fee.Amount != 0 {
		t.Fatalf("5 days lead must be free, got %d%% / %d", quote.FeePercent, quote.Fee.Amount)
	}
	if !quote.Cancellable {
		t.Fatal("future confirmed stay must be cancellable")
	}
}

func TestListAdBookingsOrderedByStart(t *testing.T) {
	f := newFixture(t)
	f.seedBooking(t, "late", "ad-1", "tenant-1", domainbooking.StatusPending, date(20), date(25))
	f.seedBooking(t, "early", "ad-1", "tenant-2", domainbooking.StatusConfirmed, date(5), date(10))

	h := &ListAdBookingsHandler{UoWFactory: f.factory}
	res, err := h.Handle(context.Background(), ListAdBookingsQuery{AdID: "ad-1", ActorID: "owner-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(res.Items) != 2 || res.Items[0].ID != "early" || res.Items[1].ID != "late" {
		t.Fatalf("expected start-date order, got %v", res.Items)
	}

	if _, err := h.Handle(context.Background(), ListAdBookingsQuery{AdID: "ad-1", ActorID: "tenant-1"}); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("non-owner must see not-found, got %v", err)
	}
}

func TestBookingStats(t *testing.T) {
	f := newFixture(t)
	f.seedBooking(t, "a", "ad-1", "tenant-1", domainbooking.StatusPending, date(5), date(7))
	f.seedBooking(t, "b", "ad-1", "tenant-1", domainbooking.StatusConfirmed, date(10), date(12))
	f.seedBooking(t, "c", "ad-1", "tenant-1", domainbooking.StatusCancelled, date(15), date(17))

	h := &BookingStatsHandler{UoWFactory: f.factory}
	stats, err := h.Handle(context.Background(), BookingStatsQuery{OwnerID: "owner-1"})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 3 || stats.Pending != 1 || stats.Confirmed != 1 || stats.Cancelled != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	// one confirmed 2-night stay at 10000 cents/night
	if stats.Revenue.Amount != 20000 || stats.Revenue.Currency != "EUR" {
		t.Fatalf("unexpected revenue %+v", stats.Revenue)
	}

	empty, err := h.Handle(context.Background(), BookingStatsQuery{OwnerID: "tenant-1"})
	if err != nil {
		t.Fatalf("stats for non-owner: %v", err)
	}
	if empty.Total != 0 {
		t.Fatalf("user without ads must see zero stats, got %+v", empty)
	}
}
