package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/briefd/briefd/internal/pipeline"
)

// cacheDocument is one memoized pipeline result. Transcript and summary live
// in the same document so a hit can never be half-valid: either the whole
// entry is present and unexpired, or it is a miss.
type cacheDocument struct {
	Fingerprint string    `bson:"_id"`
	Transcript  string    `bson:"transcript"`
	Summary     string    `bson:"summary"`
	ExpiresAt   time.Time `bson:"expires_at"`
}

// CacheRepository is the MongoDB-backed ResultCache shared by all workers
type CacheRepository struct {
	collection *mongo.Collection
	ttl        time.Duration
}

// NewCacheRepository creates a cache repository with the given entry TTL
func NewCacheRepository(db *MongoDB, ttl time.Duration) *CacheRepository {
	return &CacheRepository{
		collection: db.GetCollection(CollectionResultCache),
		ttl:        ttl,
	}
}

// Lookup returns the cached result for a fingerprint. Expired entries are
// treated as misses even before the background TTL sweep removes them.
func (r *CacheRepository) Lookup(ctx context.Context, fingerprint string) (*pipeline.CachedResult, bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"_id":        fingerprint,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}

	var doc cacheDocument
	err := r.collection.FindOne(ctxTimeout, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read result cache: %w", err)
	}

	if doc.Transcript == "" || doc.Summary == "" {
		return nil, false, nil
	}

	return &pipeline.CachedResult{
		Transcript: doc.Transcript,
		Summary:    doc.Summary,
	}, true, nil
}

// Store writes a result, overwriting any prior entry and resetting the TTL
func (r *CacheRepository) Store(ctx context.Context, fingerprint string, result pipeline.CachedResult) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	doc := cacheDocument{
		Fingerprint: fingerprint,
		Transcript:  result.Transcript,
		Summary:     result.Summary,
		ExpiresAt:   time.Now().UTC().Add(r.ttl),
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctxTimeout, bson.M{"_id": fingerprint}, doc, opts); err != nil {
		return fmt.Errorf("failed to write result cache: %w", err)
	}

	return nil
}

// PurgeExpired removes entries past their TTL. Run periodically as a backstop
// for deployments without a TTL index.
func (r *CacheRepository) PurgeExpired(ctx context.Context) (int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"expires_at": bson.M{"$lt": time.Now().UTC()}}
	result, err := r.collection.DeleteMany(ctxTimeout, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired cache entries: %w", err)
	}

	if result.DeletedCount > 0 {
		slog.Info("Purged expired cache entries", "count", result.DeletedCount)
	}

	return result.DeletedCount, nil
}
