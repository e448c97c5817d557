package booking

import (
	"context"
	"errors"
	"time"

	"github.com/Mihail0123/hausrunde/internal/app/apperr"
	"github.com/Mihail0123/hausrunde/internal/app/uow"
	domainads "github.com/Mihail0123/hausrunde/internal/domain/ads"
	domainbooking "github.com/Mihail0123/hausrunde/internal/domain/booking"
	domainrange "github.com/Mihail0123/hausrunde/internal/domain/shared/daterange"
	domainuser "github.com/Mihail0123/hausrunde/internal/domain/user"
)

const msgRequired = "This field is required."

// validateRequest runs the booking checks in a fixed order, accumulating
// field-keyed errors. Independent checks report together; date-dependent
// checks are skipped once the date order is broken, and the overlap query
// runs only on an otherwise clean request.
type validateRequest struct {
	AdID     string
	TenantID domainuser.ID
	DateFrom time.Time
	DateTo   time.Time
	// Exclude keeps a booking's own row out of the overlap query when
	// its dates are being changed.
	Exclude domainbooking.BookingID
	Policy  domainbooking.BlockingPolicy
	Now     time.Time
}

type validated struct {
	Ad    *domainads.Ad
	Range domainrange.DateRange
}

func validateBooking(ctx context.Context, unit uow.UnitOfWork, req validateRequest) (validated, error) {
	fields := apperr.FieldErrors{}

	if req.AdID == "" {
		fields.Add("ad", msgRequired)
	}
	if req.DateFrom.IsZero() {
		fields.Add("date_from", msgRequired)
	}
	if req.DateTo.IsZero() {
		fields.Add("date_to", msgRequired)
	}
	if fields.Any() {
		return validated{}, apperr.Validation(fields)
	}

	ad, err := unit.Ads().ByID(ctx, domainads.AdID(req.AdID))
	if err != nil {
		if errors.Is(err, domainads.ErrNotFound) {
			return validated{}, apperr.ValidationField("ad", "Ad does not exist.")
		}
		return validated{}, apperr.Infrastructure(err)
	}

	if !ad.IsActive {
		fields.Add("ad", "This ad is inactive.")
	}
	if ad.OwnedBy(req.TenantID) {
		fields.AddNonField("You cannot book your own ad.")
	}

	from := domainrange.Day(req.DateFrom)
	to := domainrange.Day(req.DateTo)
	datesOrdered := to.After(from)
	if !datesOrdered {
		fields.Add("date_to", "must be greater than date_from")
	} else if !from.After(domainrange.Day(req.Now)) {
		fields.Add("date_from", "Start date must be at least tomorrow.")
	}

	if fields.Any() {
		return validated{}, apperr.Validation(fields)
	}

	window, err := domainrange.New(from, to)
	if err != nil {
		return validated{}, apperr.ValidationField("date_to", "must be greater than date_from")
	}
	existing, err := unit.Bookings().ListByAd(ctx, ad.ID)
	if err != nil {
		return validated{}, apperr.Infrastructure(err)
	}
	if hit := domainbooking.FirstBlockingOverlap(existing, window, req.Policy, req.Exclude); hit != nil {
		fields.AddNonField(overlapMessage(req.Policy))
		return validated{}, apperr.Validation(fields)
	}

	return validated{Ad: ad, Range: window}, nil
}

func overlapMessage(policy domainbooking.BlockingPolicy) string {
	if policy.Blocks(domainbooking.StatusPending) {
		return "Requested dates overlap with an existing booking."
	}
	return "Requested dates overlap with a confirmed booking."
}
