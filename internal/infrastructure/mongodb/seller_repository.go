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

// SellerRepository implements domain.SellerRepository using MongoDB
type SellerRepository struct {
	collection *storage.InstrumentedCollection
}

// NewSellerRepository creates a new SellerRepository
func NewSellerRepository(db *storage.InstrumentedDatabase) *SellerRepository {
	collection := db.Collection("sellers")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sellerId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &SellerRepository{collection: collection}
}

// Save persists a seller (upsert by sellerId)
func (r *SellerRepository) Save(ctx context.Context, seller *domain.Seller) error {
	seller.UpdatedAt = storage.Now()

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"sellerId": seller.SellerID}
	update := bson.M{"$set": seller}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// FindByID retrieves a seller by its SellerID
func (r *SellerRepository) FindByID(ctx context.Context, sellerID string) (*domain.Seller, error) {
	var seller domain.Seller
	err := r.collection.FindOne(ctx, bson.M{"sellerId": sellerID}).Decode(&seller)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &seller, nil
}

// FindAll retrieves all sellers
func (r *SellerRepository) FindAll(ctx context.Context, pagination domain.Pagination) ([]*domain.Seller, error) {
	opts := options.Find().
		SetSort(storage.SortDescending("createdAt")).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit())

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sellers []*domain.Seller
	if err := cursor.All(ctx, &sellers); err != nil {
		return nil, err
	}
	return sellers, nil
}

// Count returns the number of sellers
func (r *SellerRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// AdjustCommission applies commission += delta floored at zero, adding any
// positive movement to the lifetime totalCommission and recomputing total,
// all in one aggregation-pipeline update so concurrent accruals and
// reversals serialize on the document.
func (r *SellerRepository) AdjustCommission(ctx context.Context, sellerID string, delta float64) (*domain.Seller, error) {
	pipeline := bson.A{
		bson.M{"$set": bson.M{"commissionPrev": "$commission"}},
		bson.M{"$set": bson.M{
			"commission": bson.M{"$max": bson.A{0, bson.M{"$add": bson.A{"$commission", delta}}}},
		}},
		bson.M{"$set": bson.M{
			"totalCommission": bson.M{"$add": bson.A{
				bson.M{"$ifNull": bson.A{"$totalCommission", 0}},
				bson.M{"$max": bson.A{0, bson.M{"$subtract": bson.A{"$commission", "$commissionPrev"}}}},
			}},
		}},
		bson.M{"$set": bson.M{
			"total":     bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$basicSalary", 0}}, "$commission"}},
			"updatedAt": "$$NOW",
		}},
		bson.M{"$unset": "commissionPrev"},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var seller domain.Seller
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"sellerId": sellerID}, pipeline, opts).Decode(&seller)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSellerNotFound
		}
		return nil, err
	}
	return &seller, nil
}

// Delete removes a seller
func (r *SellerRepository) Delete(ctx context.Context, sellerID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"sellerId": sellerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrSellerNotFound
	}
	return nil
}
