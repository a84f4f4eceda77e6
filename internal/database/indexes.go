package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateIndexes creates all necessary indexes for the collections
func CreateIndexes(ctx context.Context, db *MongoDB) error {
	slog.Info("Creating MongoDB indexes")

	ctxTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	summaryIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "saved_at", Value: -1}},
			Options: options.Index().SetName("idx_saved_at"),
		},
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetName("idx_record_id"),
		},
	}
	if _, err := db.GetCollection(CollectionSummaries).Indexes().CreateMany(ctxTimeout, summaryIndexes); err != nil {
		return fmt.Errorf("failed to create summary indexes: %w", err)
	}

	// Mongo's TTL monitor removes expired cache entries; lookups additionally
	// filter on expires_at because the monitor only sweeps about once a minute.
	cacheIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("idx_cache_ttl").SetExpireAfterSeconds(0),
		},
	}
	if _, err := db.GetCollection(CollectionResultCache).Indexes().CreateMany(ctxTimeout, cacheIndexes); err != nil {
		return fmt.Errorf("failed to create cache indexes: %w", err)
	}

	slog.Info("Successfully created all MongoDB indexes")
	return nil
}
