package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainads "github.com/Mihail0123/hausrunde/internal/domain/ads"
	domainbooking "github.com/Mihail0123/hausrunde/internal/domain/booking"
	domainreviews "github.com/Mihail0123/hausrunde/internal/domain/reviews"
	domainuser "github.com/Mihail0123/hausrunde/internal/domain/user"
)

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	col := db.Collection("agg_review")
	// One review per booking, enforced at the storage level too.
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "booking_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &ReviewRepository{col: col}
}

func (r *ReviewRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID) (*domainreviews.Review, error) {
	var doc reviewDocument
	if err := r.col.FindOne(ctx, bson.M{"booking_id": string(bookingID)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainreviews.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ReviewRepository) ListByAd(ctx context.Context, adID domainads.AdID) ([]*domainreviews.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"ad_id": string(adID)}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]*domainreviews.Review, 0)
	for cursor.Next(ctx) {
		var doc reviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *ReviewRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	doc := newReviewDocument(review)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	if mongo.IsDuplicateKeyError(err) {
		return ErrConcurrentUpdate
	}
	return err
}

type reviewDocument struct {
	ID        string `bson:"_id"`
	BookingID string `bson:"booking_id"`
	AdID      string `bson:"ad_id"`
	TenantID  string `bson:"tenant_id"`
	Rating    int    `bson:"rating"`
	Text      string `bson:"text"`
	CreatedAt int64  `bson:"created_at"`
}

func newReviewDocument(review *domainreviews.Review) reviewDocument {
	return reviewDocument{
		ID:        string(review.ID),
		BookingID: string(review.BookingID),
		AdID:      string(review.AdID),
		TenantID:  string(review.TenantID),
		Rating:    review.Rating,
		Text:      review.Text,
		CreatedAt: review.CreatedAt.UnixMilli(),
	}
}

func (d reviewDocument) toAggregate() *domainreviews.Review {
	return &domainreviews.Review{
		ID:        domainreviews.ReviewID(d.ID),
		BookingID: domainbooking.BookingID(d.BookingID),
		AdID:      domainads.AdID(d.AdID),
		TenantID:  domainuser.ID(d.TenantID),
		Rating:    d.Rating,
		Text:      d.Text,
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}

var _ domainreviews.Repository = (*ReviewRepository)(nil)
