package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/emporium/backoffice/pkg/metrics"
)

// InstrumentedDatabase wraps a mongo.Database so that every collection handle
// it hands out records operation counters and latency.
type InstrumentedDatabase struct {
	db      *mongo.Database
	metrics *metrics.Metrics
}

// NewInstrumentedDatabase creates a new instrumented database wrapper
func NewInstrumentedDatabase(db *mongo.Database, m *metrics.Metrics) *InstrumentedDatabase {
	return &InstrumentedDatabase{db: db, metrics: m}
}

// Database returns the underlying mongo.Database
func (d *InstrumentedDatabase) Database() *mongo.Database {
	return d.db
}

// Collection returns an instrumented collection handle
func (d *InstrumentedDatabase) Collection(name string) *InstrumentedCollection {
	return &InstrumentedCollection{
		Collection: d.db.Collection(name),
		name:       name,
		metrics:    d.metrics,
	}
}

// InstrumentedCollection wraps mongo.Collection, shadowing the operations the
// repositories use with metric-recording variants. Index management and any
// other methods pass through to the embedded collection.
type InstrumentedCollection struct {
	*mongo.Collection
	name    string
	metrics *metrics.Metrics
}

func (c *InstrumentedCollection) record(op string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	success := err == nil || err == mongo.ErrNoDocuments
	c.metrics.RecordMongoDBOperation(c.name, op, success, time.Since(start))
}

// FindOne records metrics around mongo.Collection.FindOne
func (c *InstrumentedCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	start := time.Now()
	result := c.Collection.FindOne(ctx, filter, opts...)
	c.record("findOne", start, result.Err())
	return result
}

// Find records metrics around mongo.Collection.Find
func (c *InstrumentedCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	start := time.Now()
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	c.record("find", start, err)
	return cursor, err
}

// FindOneAndUpdate records metrics around mongo.Collection.FindOneAndUpdate
func (c *InstrumentedCollection) FindOneAndUpdate(ctx context.Context, filter, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	start := time.Now()
	result := c.Collection.FindOneAndUpdate(ctx, filter, update, opts...)
	c.record("findOneAndUpdate", start, result.Err())
	return result
}

// InsertOne records metrics around mongo.Collection.InsertOne
func (c *InstrumentedCollection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	start := time.Now()
	result, err := c.Collection.InsertOne(ctx, document, opts...)
	c.record("insertOne", start, err)
	return result, err
}

// InsertMany records metrics around mongo.Collection.InsertMany
func (c *InstrumentedCollection) InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	start := time.Now()
	result, err := c.Collection.InsertMany(ctx, documents, opts...)
	c.record("insertMany", start, err)
	return result, err
}

// UpdateOne records metrics around mongo.Collection.UpdateOne
func (c *InstrumentedCollection) UpdateOne(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	start := time.Now()
	result, err := c.Collection.UpdateOne(ctx, filter, update, opts...)
	c.record("updateOne", start, err)
	return result, err
}

// DeleteOne records metrics around mongo.Collection.DeleteOne
func (c *InstrumentedCollection) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	start := time.Now()
	result, err := c.Collection.DeleteOne(ctx, filter, opts...)
	c.record("deleteOne", start, err)
	return result, err
}

// DeleteMany records metrics around mongo.Collection.DeleteMany
func (c *InstrumentedCollection) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	start := time.Now()
	result, err := c.Collection.DeleteMany(ctx, filter, opts...)
	c.record("deleteMany", start, err)
	return result, err
}

// CountDocuments records metrics around mongo.Collection.CountDocuments
func (c *InstrumentedCollection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	start := time.Now()
	count, err := c.Collection.CountDocuments(ctx, filter, opts...)
	c.record("countDocuments", start, err)
	return count, err
}

// Aggregate records metrics around mongo.Collection.Aggregate
func (c *InstrumentedCollection) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error) {
	start := time.Now()
	cursor, err := c.Collection.Aggregate(ctx, pipeline, opts...)
	c.record("aggregate", start, err)
	return cursor, err
}
