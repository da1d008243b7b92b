package database

import (
	"context"
	"fmt"
	"time"

	"campus-sublets/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	ListingsCollection = "listings"
	MessagesCollection = "messages"
	ProfilesCollection = "profiles"
	UsersCollection    = "users"
)

var MongoClient *mongo.Client
var DB *mongo.Database

type Config struct {
	URI    string
	DBName string
}

func InitDB(cfg Config) error {
	if cfg.URI == "" || cfg.DBName == "" {
		return fmt.Errorf("missing required database settings: uri or dbname")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.URI).
		SetConnectTimeout(10 * time.Second).
		SetMaxPoolSize(100)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	MongoClient = client
	DB = client.Database(cfg.DBName)

	if err := CreateIndexes(DB); err != nil {
		logger.GlobalLogger.Warnf("continuing without all indexes: %v", err)
	}

	logger.GlobalLogger.Println("MongoDB connected successfully.")
	return nil
}

// Ping reports whether the primary is reachable.
func Ping(ctx context.Context) error {
	if MongoClient == nil {
		return fmt.Errorf("mongo client not initialized")
	}
	return MongoClient.Ping(ctx, readpref.Primary())
}

func CloseDB() {
	if MongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := MongoClient.Disconnect(ctx); err != nil {
			logger.GlobalLogger.Errorf("Error closing MongoDB: %v", err)
		} else {
			logger.GlobalLogger.Println("MongoDB connection closed")
		}
	}
}
