package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/briefd/briefd/internal/model"
)

// ErrSummaryNotFound is returned when no record exists for the requested ID
var ErrSummaryNotFound = errors.New("summary not found")

// SummaryRepository persists client-supplied summary records
type SummaryRepository struct {
	collection *mongo.Collection
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *MongoDB) *SummaryRepository {
	return &SummaryRepository{
		collection: db.GetCollection(CollectionSummaries),
	}
}

// Save stores a record verbatim under its namespaced key, replacing any
// earlier record with the same ID.
func (r *SummaryRepository) Save(ctx context.Context, record *model.SummaryRecord) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	record.Key = record.StorageKey()
	if record.SavedAt.IsZero() {
		record.SavedAt = time.Now().UTC()
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctxTimeout, bson.M{"_id": record.Key}, record, opts); err != nil {
		return fmt.Errorf("failed to save summary record: %w", err)
	}

	return nil
}

// GetByID retrieves a record by its client-supplied ID
func (r *SummaryRepository) GetByID(ctx context.Context, id string) (*model.SummaryRecord, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	key := (&model.SummaryRecord{ID: id}).StorageKey()

	var record model.SummaryRecord
	err := r.collection.FindOne(ctxTimeout, bson.M{"_id": key}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSummaryNotFound
		}
		return nil, fmt.Errorf("failed to get summary record: %w", err)
	}

	return &record, nil
}

// List retrieves the most recently saved records
func (r *SummaryRepository) List(ctx context.Context, limit int) ([]model.SummaryRecord, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "saved_at", Value: -1}})

	cursor, err := r.collection.Find(ctxTimeout, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list summary records: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	var records []model.SummaryRecord
	if err := cursor.All(ctxTimeout, &records); err != nil {
		return nil, fmt.Errorf("failed to decode summary records: %w", err)
	}

	return records, nil
}
