package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/emporium/backoffice/internal/domain"
	storage "github.com/emporium/backoffice/pkg/mongodb"
)

// BillRepository implements domain.BillRepository using MongoDB. Bill
// numbers come from an atomic counter document, never from counting bills,
// so cancelled bills leave holes instead of causing duplicates.
type BillRepository struct {
	collection *storage.InstrumentedCollection
	counters   *storage.InstrumentedCollection
}

// NewBillRepository creates a new BillRepository
func NewBillRepository(db *storage.InstrumentedDatabase) *BillRepository {
	collection := db.Collection("bills")
	counters := db.Collection("counters")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "billId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "billNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "customer.name", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "sellerId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &BillRepository{collection: collection, counters: counters}
}

// Save persists a bill (upsert by billId)
func (r *BillRepository) Save(ctx context.Context, bill *domain.Bill) error {
	bill.UpdatedAt = storage.Now()

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"billId": bill.BillID}
	update := bson.M{"$set": bill}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// FindByID retrieves a bill by its BillID
func (r *BillRepository) FindByID(ctx context.Context, billID string) (*domain.Bill, error) {
	var bill domain.Bill
	err := r.collection.FindOne(ctx, bson.M{"billId": billID}).Decode(&bill)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &bill, nil
}

// FindAll retrieves bills matching the filter
func (r *BillRepository) FindAll(ctx context.Context, filter domain.BillFilter, pagination domain.Pagination) ([]*domain.Bill, error) {
	opts := options.Find().
		SetSort(storage.SortDescending("createdAt")).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit())

	cursor, err := r.collection.Find(ctx, r.buildFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bills []*domain.Bill
	if err := cursor.All(ctx, &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

// NextBillNumber reserves the next number in the bill sequence
func (r *BillRepository) NextBillNumber(ctx context.Context) (string, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "billNumber"},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("EM-%04d", counter.Seq), nil
}

// LatestRemainingForCustomer returns the remaining balance of the
// customer's most recent bill, or zero when the customer has none
func (r *BillRepository) LatestRemainingForCustomer(ctx context.Context, customerName string) (float64, error) {
	opts := options.FindOne().SetSort(storage.SortDescending("createdAt"))

	var bill domain.Bill
	err := r.collection.FindOne(ctx, bson.M{"customer.name": customerName}, opts).Decode(&bill)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return bill.RemainingAmount, nil
}

// Count returns the number of bills matching the filter
func (r *BillRepository) Count(ctx context.Context, filter domain.BillFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, r.buildFilter(filter))
}

// CustomerStats aggregates purchase totals across all of the customer's bills
func (r *BillRepository) CustomerStats(ctx context.Context, customerName string) (*domain.CustomerBillStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"customer.name": customerName}}},
		{{Key: "$group", Value: bson.M{
			"_id":               nil,
			"totalPurchases":    bson.M{"$sum": 1},
			"totalAmount":       bson.M{"$sum": "$total"},
			"averageOrderValue": bson.M{"$avg": "$total"},
			"totalPaid":         bson.M{"$sum": "$amountPaid"},
		}}},
	}

	var rows []struct {
		TotalPurchases    int64   `bson:"totalPurchases"`
		TotalAmount       float64 `bson:"totalAmount"`
		AverageOrderValue float64 `bson:"averageOrderValue"`
		TotalPaid         float64 `bson:"totalPaid"`
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
		return &domain.CustomerBillStats{}, nil
	}
	return &domain.CustomerBillStats{
		TotalPurchases:    rows[0].TotalPurchases,
		TotalAmount:       rows[0].TotalAmount,
		AverageOrderValue: rows[0].AverageOrderValue,
		TotalPaid:         rows[0].TotalPaid,
	}, nil
}

// StatsSince aggregates completed bills created at or after the cutoff
func (r *BillRepository) StatsSince(ctx context.Context, since time.Time) (*domain.BillingWindowStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"createdAt": bson.M{"$gte": since},
			"status":    domain.BillStatusCompleted,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":               nil,
			"totalBills":        bson.M{"$sum": 1},
			"totalRevenue":      bson.M{"$sum": "$total"},
			"averageOrderValue": bson.M{"$avg": "$total"},
		}}},
	}

	var rows []struct {
		TotalBills        int64   `bson:"totalBills"`
		TotalRevenue      float64 `bson:"totalRevenue"`
		AverageOrderValue float64 `bson:"averageOrderValue"`
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
		return &domain.BillingWindowStats{}, nil
	}
	return &domain.BillingWindowStats{
		TotalBills:        rows[0].TotalBills,
		TotalRevenue:      rows[0].TotalRevenue,
		AverageOrderValue: rows[0].AverageOrderValue,
	}, nil
}

func (r *BillRepository) buildFilter(filter domain.BillFilter) bson.M {
	mongoFilter := bson.M{}
	if filter.SellerID != nil {
		mongoFilter["sellerId"] = *filter.SellerID
	}
	if filter.Status != nil {
		mongoFilter["status"] = *filter.Status
	}
	if filter.CustomerName != nil {
		mongoFilter["customer.name"] = *filter.CustomerName
	}
	if filter.DateFrom != nil || filter.DateTo != nil {
		dateRange := bson.M{}
		if filter.DateFrom != nil {
			dateRange["$gte"] = *filter.DateFrom
		}
		if filter.DateTo != nil {
			dateRange["$lte"] = *filter.DateTo
		}
		mongoFilter["createdAt"] = dateRange
	}
	if filter.Search != nil {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(*filter.Search), Options: "i"}
		mongoFilter["$or"] = bson.A{
			bson.M{"billNumber": pattern},
			bson.M{"customer.name": pattern},
		}
	}
	return mongoFilter
}
