package mongodb

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/emporium/backoffice/internal/domain"
	storage "github.com/emporium/backoffice/pkg/mongodb"
)

// PurchaseBatchRepository implements domain.PurchaseBatchRepository using MongoDB
type PurchaseBatchRepository struct {
	collection *storage.InstrumentedCollection
}

// NewPurchaseBatchRepository creates a new PurchaseBatchRepository
func NewPurchaseBatchRepository(db *storage.InstrumentedDatabase) *PurchaseBatchRepository {
	collection := db.Collection("purchase_batches")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "batchId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "purchaseDate", Value: -1}},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &PurchaseBatchRepository{collection: collection}
}

// Save persists a purchase batch
func (r *PurchaseBatchRepository) Save(ctx context.Context, batch *domain.PurchaseBatch) error {
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"batchId": batch.BatchID}
	update := bson.M{"$set": batch}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// FindByID retrieves a purchase batch by its BatchID
func (r *PurchaseBatchRepository) FindByID(ctx context.Context, batchID string) (*domain.PurchaseBatch, error) {
	var batch domain.PurchaseBatch
	err := r.collection.FindOne(ctx, bson.M{"batchId": batchID}).Decode(&batch)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &batch, nil
}

// FindAll retrieves purchase batches matching the filter, newest delivery first
func (r *PurchaseBatchRepository) FindAll(ctx context.Context, filter domain.PurchaseBatchFilter, pagination domain.Pagination) ([]*domain.PurchaseBatch, error) {
	opts := options.Find().
		SetSort(storage.SortDescending("purchaseDate")).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit())

	cursor, err := r.collection.Find(ctx, r.buildFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var batches []*domain.PurchaseBatch
	if err := cursor.All(ctx, &batches); err != nil {
		return nil, err
	}
	return batches, nil
}

// Count returns the number of purchase batches matching the filter
func (r *PurchaseBatchRepository) Count(ctx context.Context, filter domain.PurchaseBatchFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, r.buildFilter(filter))
}

func (r *PurchaseBatchRepository) buildFilter(filter domain.PurchaseBatchFilter) bson.M {
	mongoFilter := bson.M{}
	if filter.SupplierName != nil {
		mongoFilter["supplierName"] = primitive.Regex{Pattern: regexp.QuoteMeta(*filter.SupplierName), Options: "i"}
	}
	if filter.DateFrom != nil || filter.DateTo != nil {
		dateRange := bson.M{}
		if filter.DateFrom != nil {
			dateRange["$gte"] = *filter.DateFrom
		}
		if filter.DateTo != nil {
			dateRange["$lte"] = *filter.DateTo
		}
		mongoFilter["purchaseDate"] = dateRange
	}
	return mongoFilter
}
