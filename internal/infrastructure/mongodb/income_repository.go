package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/emporium/backoffice/internal/domain"
	storage "github.com/emporium/backoffice/pkg/mongodb"
)

// IncomeRepository implements domain.IncomeRepository using MongoDB. The
// income log is append-only; entries are never updated or removed.
type IncomeRepository struct {
	collection *storage.InstrumentedCollection
}

// NewIncomeRepository creates a new IncomeRepository
func NewIncomeRepository(db *storage.InstrumentedDatabase) *IncomeRepository {
	collection := db.Collection("incomes")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "incomeId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "type", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "billId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &IncomeRepository{collection: collection}
}

// Save persists an income entry
func (r *IncomeRepository) Save(ctx context.Context, income *domain.Income) error {
	_, err := r.collection.InsertOne(ctx, income)
	return err
}

// FindAll retrieves income entries matching the filter
func (r *IncomeRepository) FindAll(ctx context.Context, filter domain.IncomeFilter, pagination domain.Pagination) ([]*domain.Income, error) {
	opts := options.Find().
		SetSort(storage.SortDescending("createdAt")).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit())

	cursor, err := r.collection.Find(ctx, r.buildFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var incomes []*domain.Income
	if err := cursor.All(ctx, &incomes); err != nil {
		return nil, err
	}
	return incomes, nil
}

// Count returns the number of income entries matching the filter
func (r *IncomeRepository) Count(ctx context.Context, filter domain.IncomeFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, r.buildFilter(filter))
}

func (r *IncomeRepository) buildFilter(filter domain.IncomeFilter) bson.M {
	mongoFilter := bson.M{}
	if filter.Type != nil {
		mongoFilter["type"] = *filter.Type
	}
	if filter.BillID != nil {
		mongoFilter["billId"] = *filter.BillID
	}
	return mongoFilter
}
