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

// StockHistoryRepository implements domain.StockHistoryRepository using MongoDB
type StockHistoryRepository struct {
	collection *storage.InstrumentedCollection
}

// NewStockHistoryRepository creates a new StockHistoryRepository
func NewStockHistoryRepository(db *storage.InstrumentedDatabase) *StockHistoryRepository {
	collection := db.Collection("stock_history")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "productId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &StockHistoryRepository{collection: collection}
}

// Insert appends a stock movement entry
func (r *StockHistoryRepository) Insert(ctx context.Context, entry *domain.StockHistory) error {
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// FindByProduct retrieves a product's movements, newest first
func (r *StockHistoryRepository) FindByProduct(ctx context.Context, productID string) ([]*domain.StockHistory, error) {
	opts := options.Find().SetSort(storage.SortDescending("createdAt"))

	cursor, err := r.collection.Find(ctx, bson.M{"productId": productID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*domain.StockHistory
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteByProduct removes all movements for a product
func (r *StockHistoryRepository) DeleteByProduct(ctx context.Context, productID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"productId": productID})
	return err
}
