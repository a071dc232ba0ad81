package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Now returns the current time in UTC. Every stored timestamp uses UTC so
// listing sort order is stable across server timezones.
func Now() time.Time {
	return time.Now().UTC()
}

// SortDescending creates a descending sort option
func SortDescending(field string) bson.D {
	return bson.D{{Key: field, Value: -1}}
}
