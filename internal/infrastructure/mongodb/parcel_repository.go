package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/emporium/backoffice/internal/domain"
	storage "github.com/emporium/backoffice/pkg/mongodb"
)

// ParcelRepository implements domain.ParcelRepository using MongoDB
type ParcelRepository struct {
	collection *storage.InstrumentedCollection
}

// NewParcelRepository creates a new ParcelRepository
func NewParcelRepository(db *storage.InstrumentedDatabase) *ParcelRepository {
	collection := db.Collection("parcels")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "parcelId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "trackingNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &ParcelRepository{collection: collection}
}

// Save persists a parcel (upsert by parcelId)
func (r *ParcelRepository) Save(ctx context.Context, parcel *domain.Parcel) error {
	parcel.UpdatedAt = storage.Now()

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"parcelId": parcel.ParcelID}
	update := bson.M{"$set": parcel}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicateTrackingNumber
	}
	return err
}

// FindByID retrieves a parcel by its ParcelID
func (r *ParcelRepository) FindByID(ctx context.Context, parcelID string) (*domain.Parcel, error) {
	var parcel domain.Parcel
	err := r.collection.FindOne(ctx, bson.M{"parcelId": parcelID}).Decode(&parcel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &parcel, nil
}

// FindByTrackingNumber retrieves a parcel by its tracking number
func (r *ParcelRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Parcel, error) {
	var parcel domain.Parcel
	err := r.collection.FindOne(ctx, bson.M{"trackingNumber": trackingNumber}).Decode(&parcel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &parcel, nil
}

// FindAll retrieves parcels matching the filter
func (r *ParcelRepository) FindAll(ctx context.Context, filter domain.ParcelFilter, pagination domain.Pagination) ([]*domain.Parcel, error) {
	opts := options.Find().
		SetSort(storage.SortDescending("createdAt")).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit())

	cursor, err := r.collection.Find(ctx, r.buildFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var parcels []*domain.Parcel
	if err := cursor.All(ctx, &parcels); err != nil {
		return nil, err
	}
	return parcels, nil
}

// Delete removes a parcel
func (r *ParcelRepository) Delete(ctx context.Context, parcelID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"parcelId": parcelID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrParcelNotFound
	}
	return nil
}

func (r *ParcelRepository) buildFilter(filter domain.ParcelFilter) bson.M {
	mongoFilter := bson.M{}
	if filter.Status != nil {
		mongoFilter["status"] = *filter.Status
	}
	if filter.PaymentStatus != nil {
		mongoFilter["paymentStatus"] = *filter.PaymentStatus
	}
	return mongoFilter
}

// Count returns the number of parcels matching the filter
func (r *ParcelRepository) Count(ctx context.Context, filter domain.ParcelFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, r.buildFilter(filter))
}
