package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Mihail0123/hausrunde/internal/app/uow"
	domainads "github.com/Mihail0123/hausrunde/internal/domain/ads"
	domainbooking "github.com/Mihail0123/hausrunde/internal/domain/booking"
	domainreviews "github.com/Mihail0123/hausrunde/internal/domain/reviews"
	domainuser "github.com/Mihail0123/hausrunde/internal/domain/user"
)

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("mongo: unit of work factory misconfigured")

// Factory starts Mongo session transactions around the repositories.
// Read-only units skip the transaction and run on plain contexts.
type Factory struct {
	Client      *Client
	AdsRepo     domainads.Repository
	BookingRepo domainbooking.Repository
	ReviewsRepo domainreviews.Repository
	UsersRepo   domainuser.Repository
}

// NewFactory builds a factory over repositories bound to the client's
// database.
func NewFactory(client *Client) Factory {
	return Factory{
		Client:      client,
		AdsRepo:     NewAdRepository(client.DB),
		BookingRepo: NewBookingRepository(client.DB),
		ReviewsRepo: NewReviewRepository(client.DB),
		UsersRepo:   NewUserRepository(client.DB),
	}
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.Client == nil || f.AdsRepo == nil || f.BookingRepo == nil || f.ReviewsRepo == nil || f.UsersRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	unit := &Unit{factory: f}
	if opts.ReadOnly {
		return unit, nil
	}
	session, err := f.Client.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	if err := session.StartTransaction(); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	unit.session = session
	return unit, nil
}

type Unit struct {
	factory Factory
	session mongo.Session
}

func (u *Unit) Ads() domainads.Repository          { return u.factory.AdsRepo }
func (u *Unit) Bookings() domainbooking.Repository { return u.factory.BookingRepo }
func (u *Unit) Reviews() domainreviews.Repository  { return u.factory.ReviewsRepo }
func (u *Unit) Users() domainuser.Repository       { return u.factory.UsersRepo }

// InjectContext binds repository calls to the session so every write in
// the unit lands inside one transaction.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	if u.session == nil {
		return ctx
	}
	return mongo.NewSessionContext(ctx, u.session)
}

func (u *Unit) Commit(ctx context.Context) error {
	if u.session == nil {
		return nil
	}
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	if u.session == nil {
		return nil
	}
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

var _ uow.UoWFactory = Factory{}
var _ uow.UnitOfWork = (*Unit)(nil)
