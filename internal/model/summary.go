package model

import (
	"errors"
	"time"
)

// SummaryRecord is a client-supplied summary document persisted verbatim.
// The pipeline never mutates these; they are written once by the save endpoint
// and read back by the listing endpoints.
type SummaryRecord struct {
	Key          string    `json:"-" bson:"_id"`
	ID           string    `json:"id" bson:"id"`
	Title        string    `json:"title" bson:"title"`
	ThumbnailURL string    `json:"thumbnailUrl" bson:"thumbnail_url"`
	VideoURL     string    `json:"videoUrl" bson:"video_url"`
	Summary      string    `json:"summary" bson:"summary"`
	SourceModel  string    `json:"model_name,omitempty" bson:"source_model,omitempty"`
	SavedAt      time.Time `json:"saved_at" bson:"saved_at"`
}

// Validate checks the fields required to persist a record
func (s *SummaryRecord) Validate() error {
	if s.ID == "" {
		return errors.New("id is required")
	}
	if s.Title == "" {
		return errors.New("title is required")
	}
	if s.Summary == "" {
		return errors.New("summary is required")
	}
	return nil
}

// StorageKey returns the namespaced key the record is stored under
func (s *SummaryRecord) StorageKey() string {
	return "summary:" + s.ID
}
