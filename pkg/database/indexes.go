package database

import (
	"context"
	"time"

	"campus-sublets/pkg/logger"
	"campus-sublets/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexPlan lists the indexes each collection needs.
func IndexPlan() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		ListingsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "price", Value: 1}}},
			{Keys: bson.D{{Key: "property_type", Value: 1}}},
		},
		MessagesCollection: {
			{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
}

// CreateIndexes creates every index in IndexPlan, continuing past failures.
func CreateIndexes(db *mongo.Database) error {
	var firstErr error
	for collectionName, models := range IndexPlan() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		start := time.Now()
		_, err := db.Collection(collectionName).Indexes().CreateMany(ctx, models)
		cancel()
		metrics.MongoOperationDuration.WithLabelValues("create_indexes", collectionName).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.MongoErrorsTotal.WithLabelValues("create_indexes", collectionName).Inc()
			logger.GlobalLogger.Errorf("Failed to create indexes collection=%s: %v", collectionName, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
	}
	if firstErr == nil {
		logger.GlobalLogger.Println("MongoDB indexes created successfully.")
	}
	return firstErr
}
