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

// ReturnRepository implements domain.ReturnRepository using MongoDB
type ReturnRepository struct {
	collection *storage.InstrumentedCollection
}

// NewReturnRepository creates a new ReturnRepository
func NewReturnRepository(db *storage.InstrumentedDatabase) *ReturnRepository {
	collection := db.Collection("returns")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "returnId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &ReturnRepository{collection: collection}
}

// Save persists a return record
func (r *ReturnRepository) Save(ctx context.Context, ret *domain.Return) error {
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"returnId": ret.ReturnID}
	update := bson.M{"$set": ret}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// FindByID retrieves a return by its ReturnID
func (r *ReturnRepository) FindByID(ctx context.Context, returnID string) (*domain.Return, error) {
	var ret domain.Return
	err := r.collection.FindOne(ctx, bson.M{"returnId": returnID}).Decode(&ret)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &ret, nil
}

// FindAll retrieves return records matching the filter
func (r *ReturnRepository) FindAll(ctx context.Context, filter domain.ReturnFilter, pagination domain.Pagination) ([]*domain.Return, error) {
	opts := options.Find().
		SetSort(storage.SortDescending("createdAt")).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit())

	cursor, err := r.collection.Find(ctx, r.buildFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var returns []*domain.Return
	if err := cursor.All(ctx, &returns); err != nil {
		return nil, err
	}
	return returns, nil
}

// Count returns the number of return records matching the filter
func (r *ReturnRepository) Count(ctx context.Context, filter domain.ReturnFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, r.buildFilter(filter))
}

func (r *ReturnRepository) buildFilter(filter domain.ReturnFilter) bson.M {
	mongoFilter := bson.M{}
	if filter.Search != nil {
		mongoFilter["trackingId"] = primitive.Regex{Pattern: regexp.QuoteMeta(*filter.Search), Options: "i"}
	}
	return mongoFilter
}
