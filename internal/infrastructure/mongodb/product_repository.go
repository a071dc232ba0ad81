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

// ProductRepository implements domain.ProductRepository using MongoDB. The
// stock ledger guard lives here: AdjustStock is a single conditional
// FindOneAndUpdate so concurrent decrements can never drive stock negative.
type ProductRepository struct {
	collection *storage.InstrumentedCollection
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *storage.InstrumentedDatabase) *ProductRepository {
	collection := db.Collection("products")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "productId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "model", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &ProductRepository{collection: collection}
}

// Save persists a product (upsert by productId)
func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) error {
	product.UpdatedAt = storage.Now()

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"productId": product.ProductID}
	update := bson.M{"$set": product}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// FindByID retrieves a product by its ProductID
func (r *ProductRepository) FindByID(ctx context.Context, productID string) (*domain.Product, error) {
	var product domain.Product
	err := r.collection.FindOne(ctx, bson.M{"productId": productID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// FindByModel retrieves a product by its unique model
func (r *ProductRepository) FindByModel(ctx context.Context, model string) (*domain.Product, error) {
	var product domain.Product
	err := r.collection.FindOne(ctx, bson.M{"model": model}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// FindAll retrieves products matching the filter
func (r *ProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter, pagination domain.Pagination) ([]*domain.Product, error) {
	opts := options.Find().
		SetSort(storage.SortDescending("createdAt")).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit())

	cursor, err := r.collection.Find(ctx, r.buildFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []*domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// AdjustStock applies stock += delta, guarded so the result never drops
// below zero. The guard and the increment are one document update, which is
// what makes concurrent consumption safe without a transaction.
func (r *ProductRepository) AdjustStock(ctx context.Context, productID string, delta int) (*domain.Product, error) {
	filter := bson.M{"productId": productID}
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}

	update := bson.M{
		"$inc": bson.M{"stock": delta},
		"$set": bson.M{"updatedAt": storage.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product domain.Product
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&product)
	if err == nil {
		return &product, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// No match: either the product is missing or the guard rejected the
	// decrement. A second read tells them apart.
	current, err := r.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrProductNotFound
	}
	return nil, &domain.InsufficientStockError{
		ProductID: productID,
		Requested: -delta,
		Available: current.Stock,
	}
}

// Delete removes a product
func (r *ProductRepository) Delete(ctx context.Context, productID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"productId": productID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Count returns the number of products matching the filter
func (r *ProductRepository) Count(ctx context.Context, filter domain.ProductFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, r.buildFilter(filter))
}

func (r *ProductRepository) buildFilter(filter domain.ProductFilter) bson.M {
	mongoFilter := bson.M{}
	if filter.Category != nil {
		mongoFilter["category"] = *filter.Category
	}
	if filter.Model != nil {
		mongoFilter["model"] = *filter.Model
	}
	if filter.LowStock {
		// lowStockThreshold is per document, so compare fields
		mongoFilter["$expr"] = bson.M{"$lte": bson.A{"$stock", "$lowStockThreshold"}}
	}
	return mongoFilter
}
