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

// CustomerRepository implements domain.CustomerRepository using MongoDB
type CustomerRepository struct {
	collection *storage.InstrumentedCollection
}

// NewCustomerRepository creates a new CustomerRepository
func NewCustomerRepository(db *storage.InstrumentedDatabase) *CustomerRepository {
	collection := db.Collection("customers")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "customerId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "sellerId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "correlationId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &CustomerRepository{collection: collection}
}

// Save persists a customer (upsert by customerId)
func (r *CustomerRepository) Save(ctx context.Context, customer *domain.Customer) error {
	customer.UpdatedAt = storage.Now()

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"customerId": customer.CustomerID}
	update := bson.M{"$set": customer}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// FindByID retrieves a customer by its CustomerID
func (r *CustomerRepository) FindByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.collection.FindOne(ctx, bson.M{"customerId": customerID}).Decode(&customer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// FindAll retrieves customers matching the filter
func (r *CustomerRepository) FindAll(ctx context.Context, filter domain.CustomerFilter, pagination domain.Pagination) ([]*domain.Customer, error) {
	opts := options.Find().
		SetSort(storage.SortDescending("createdAt")).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit())

	cursor, err := r.collection.Find(ctx, r.buildFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var customers []*domain.Customer
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// Delete removes a customer
func (r *CustomerRepository) Delete(ctx context.Context, customerID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"customerId": customerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// Count returns the number of customers matching the filter
func (r *CustomerRepository) Count(ctx context.Context, filter domain.CustomerFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, r.buildFilter(filter))
}

func (r *CustomerRepository) buildFilter(filter domain.CustomerFilter) bson.M {
	mongoFilter := bson.M{}
	if filter.Type != nil {
		mongoFilter["type"] = *filter.Type
	}
	if filter.SellerID != nil {
		mongoFilter["sellerId"] = *filter.SellerID
	}
	return mongoFilter
}
