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

// SaleRepository implements domain.SaleRepository using MongoDB
type SaleRepository struct {
	collection *storage.InstrumentedCollection
}

// NewSaleRepository creates a new SaleRepository
func NewSaleRepository(db *storage.InstrumentedDatabase) *SaleRepository {
	collection := db.Collection("sales")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "saleId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "correlationId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "sellerId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &SaleRepository{collection: collection}
}

// Insert appends sale records
func (r *SaleRepository) Insert(ctx context.Context, sales []*domain.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(sales))
	for _, sale := range sales {
		docs = append(docs, sale)
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// FindByID retrieves a sale by its SaleID
func (r *SaleRepository) FindByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	var sale domain.Sale
	err := r.collection.FindOne(ctx, bson.M{"saleId": saleID}).Decode(&sale)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

// FindMatching retrieves commission rows selected by the match
func (r *SaleRepository) FindMatching(ctx context.Context, match domain.SaleMatch) ([]*domain.Sale, error) {
	cursor, err := r.collection.Find(ctx, r.matchFilter(match))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sales []*domain.Sale
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// DeleteMatching removes commission rows selected by the match
func (r *SaleRepository) DeleteMatching(ctx context.Context, match domain.SaleMatch) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, r.matchFilter(match))
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// FindAll retrieves sales matching the filter
func (r *SaleRepository) FindAll(ctx context.Context, filter domain.SaleFilter, pagination domain.Pagination) ([]*domain.Sale, error) {
	opts := options.Find().
		SetSort(storage.SortDescending("createdAt")).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit())

	cursor, err := r.collection.Find(ctx, r.buildFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sales []*domain.Sale
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// FindLatest retrieves the most recent sale matching the filter
func (r *SaleRepository) FindLatest(ctx context.Context, filter domain.SaleFilter) (*domain.Sale, error) {
	opts := options.FindOne().SetSort(storage.SortDescending("createdAt"))

	var sale domain.Sale
	err := r.collection.FindOne(ctx, r.buildFilter(filter), opts).Decode(&sale)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

// SellerStats aggregates sale totals for one seller
func (r *SaleRepository) SellerStats(ctx context.Context, sellerID string) (*domain.SellerSaleStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"sellerId": sellerID}}},
		{{Key: "$group", Value: bson.M{
			"_id":               nil,
			"totalSales":        bson.M{"$sum": 1},
			"totalRevenue":      bson.M{"$sum": "$total"},
			"totalCommission":   bson.M{"$sum": "$commission"},
			"totalProductsSold": bson.M{"$sum": "$quantity"},
		}}},
	}

	var rows []struct {
		TotalSales        int64   `bson:"totalSales"`
		TotalRevenue      float64 `bson:"totalRevenue"`
		TotalCommission   float64 `bson:"totalCommission"`
		TotalProductsSold int64   `bson:"totalProductsSold"`
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return &domain.SellerSaleStats{}, nil
	}
	return &domain.SellerSaleStats{
		TotalSales:        rows[0].TotalSales,
		TotalRevenue:      rows[0].TotalRevenue,
		TotalCommission:   rows[0].TotalCommission,
		TotalProductsSold: rows[0].TotalProductsSold,
	}, nil
}

// Delete removes a single sale record
func (r *SaleRepository) Delete(ctx context.Context, saleID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"saleId": saleID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

// matchFilter translates a SaleMatch into a query. A correlation id is the
// sole criterion when present; the legacy attribute match only touches rows
// whose commission flag is true or absent, sparing manual sale records.
func (r *SaleRepository) matchFilter(match domain.SaleMatch) bson.M {
	if match.IsDirect() {
		return bson.M{"correlationId": match.CorrelationID}
	}

	filter := bson.M{
		"sellerId":   match.SellerID,
		"customerId": match.CustomerID,
		"productId":  bson.M{"$in": match.ProductIDs},
		"$or": bson.A{
			bson.M{"isCustomerCommissionSale": true},
			bson.M{"isCustomerCommissionSale": bson.M{"$exists": false}},
		},
	}
	if match.UnitPrice != nil {
		filter["unitPrice"] = *match.UnitPrice
	}
	return filter
}

func (r *SaleRepository) buildFilter(filter domain.SaleFilter) bson.M {
	mongoFilter := bson.M{}
	if filter.SellerID != nil {
		mongoFilter["sellerId"] = *filter.SellerID
	}
	if filter.CustomerID != nil {
		mongoFilter["customerId"] = *filter.CustomerID
	}
	if filter.ProductID != nil {
		mongoFilter["productId"] = *filter.ProductID
	}
	return mongoFilter
}

// Count returns the number of sales matching the filter
func (r *SaleRepository) Count(ctx context.Context, filter domain.SaleFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, r.buildFilter(filter))
}
