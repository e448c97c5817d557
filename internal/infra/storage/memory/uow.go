package memory

import (
	"context"
	"errors"

	"github.com/Mihail0123/hausrunde/internal/app/uow"
	domainads "github.com/Mihail0123/hausrunde/internal/domain/ads"
	domainbooking "github.com/Mihail0123/hausrunde/internal/domain/booking"
	domainreviews "github.com/Mihail0123/hausrunde/internal/domain/reviews"
	domainuser "github.com/Mihail0123/hausrunde/internal/domain/user"
)

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	AdsRepo     domainads.Repository
	BookingRepo domainbooking.Repository
	ReviewsRepo domainreviews.Repository
	UsersRepo   domainuser.Repository
}

// NewFactory builds a factory over fresh empty repositories.
func NewFactory() Factory {
	return Factory{
		AdsRepo:     NewAdRepository(),
		BookingRepo: NewBookingRepository(),
		ReviewsRepo: NewReviewRepository(),
		UsersRepo:   NewUserRepository(),
	}
}

// Begin starts a lightweight transaction boundary. No isolation is
// provided but the abstraction matches the application ports.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.AdsRepo == nil || f.BookingRepo == nil || f.ReviewsRepo == nil || f.UsersRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		ads:      f.AdsRepo,
		bookings: f.BookingRepo,
		reviews:  f.ReviewsRepo,
		users:    f.UsersRepo,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	ads      domainads.Repository
	bookings domainbooking.Repository
	reviews  domainreviews.Repository
	users    domainuser.Repository
}

func (u *Unit) Ads() domainads.Repository {
	return u.ads
}

func (u *Unit) Bookings() domainbooking.Repository {
	return u.bookings
}

func (u *Unit) Reviews() domainreviews.Repository {
	return u.reviews
}

func (u *Unit) Users() domainuser.Repository {
	return u.users
}

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}

var _ uow.UoWFactory = Factory{}
var _ uow.UnitOfWork = (*Unit)(nil)
