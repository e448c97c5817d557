package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainads "github.com/Mihail0123/hausrunde/internal/domain/ads"
	"github.com/Mihail0123/hausrunde/internal/domain/shared/money"
	domainuser "github.com/Mihail0123/hausrunde/internal/domain/user"
)

type AdRepository struct {
	col *mongo.Collection
}

func NewAdRepository(db *mongo.Database) *AdRepository {
	col := db.Collection("agg_ad")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "owner_id", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &AdRepository{col: col}
}

func (r *AdRepository) ByID(ctx context.Context, id domainads.AdID) (*domainads.Ad, error) {
	var doc adDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainads.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *AdRepository) List(ctx context.Context) ([]*domainads.Ad, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]*domainads.Ad, 0)
	for cursor.Next(ctx) {
		var doc adDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *AdRepository) ListByOwner(ctx context.Context, owner domainuser.ID) ([]*domainads.Ad, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"owner_id": string(owner)}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]*domainads.Ad, 0)
	for cursor.Next(ctx) {
		var doc adDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *AdRepository) Save(ctx context.Context, ad *domainads.Ad) error {
	doc := newAdDocument(ad)
	filter := bson.M{"_id": doc.ID, "version": ad.Version}
	doc.Version = ad.Version + 1
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	ad.Version = doc.Version
	return nil
}

type adDocument struct {
	ID          string `bson:"_id"`
	OwnerID     string `bson:"owner_id"`
	Title       string `bson:"title"`
	Description string `bson:"description"`
	Location    string `bson:"location"`
	PriceCents  int64  `bson:"price_cents"`
	Currency    string `bson:"currency"`
	Rooms       int    `bson:"rooms"`
	HousingType string `bson:"housing_type"`
	IsActive    bool   `bson:"is_active"`
	CreatedAt   int64  `bson:"created_at"`
	UpdatedAt   int64  `bson:"updated_at"`
	Version     int64  `bson:"version"`
}

func newAdDocument(ad *domainads.Ad) adDocument {
	return adDocument{
		ID:          string(ad.ID),
		OwnerID:     string(ad.OwnerID),
		Title:       ad.Title,
		Description: ad.Description,
		Location:    ad.Location,
		PriceCents:  ad.NightlyPrice.Amount,
		Currency:    ad.NightlyPrice.Currency,
		Rooms:       ad.Rooms,
		HousingType: string(ad.HousingType),
		IsActive:    ad.IsActive,
		CreatedAt:   ad.CreatedAt.UnixMilli(),
		UpdatedAt:   ad.UpdatedAt.UnixMilli(),
		Version:     ad.Version,
	}
}

func (d adDocument) toAggregate() *domainads.Ad {
	return &domainads.Ad{
		ID:           domainads.AdID(d.ID),
		OwnerID:      domainuser.ID(d.OwnerID),
		Title:        d.Title,
		Description:  d.Description,
		Location:     d.Location,
		NightlyPrice: money.Money{Amount: d.PriceCents, Currency: d.Currency},
		Rooms:        d.Rooms,
		HousingType:  domainads.HousingType(d.HousingType),
		IsActive:     d.IsActive,
		CreatedAt:    timestampToTime(d.CreatedAt),
		UpdatedAt:    timestampToTime(d.UpdatedAt),
		Version:      d.Version,
	}
}

var _ domainads.Repository = (*AdRepository)(nil)
