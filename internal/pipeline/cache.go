package pipeline

import (
	"context"
	"sync"
	"time"
)

// CachedResult is the memoized output of one full pipeline run, keyed by
// content fingerprint. Transcript and summary are stored as a single atomic
// entry: a hit is only valid when both are present, so they can never expire
// independently.
type CachedResult struct {
	Transcript string
	Summary    string
}

// ResultCache memoizes pipeline results across jobs and clients. A backend
// error on Lookup must be treated by callers as a miss, never as a job
// failure.
type ResultCache interface {
	Lookup(ctx context.Context, fingerprint string) (*CachedResult, bool, error)
	Store(ctx context.Context, fingerprint string, result CachedResult) error
}

type memoryEntry struct {
	result    CachedResult
	expiresAt time.Time
}

// MemoryCache is an in-process ResultCache with TTL expiry. It backs the
// service when no MongoDB is configured and the pipeline tests.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

// NewMemoryCache creates an in-memory cache whose entries expire after ttl
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

// Lookup returns the cached result for a fingerprint if present and unexpired
func (c *MemoryCache) Lookup(_ context.Context, fingerprint string) (*CachedResult, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[fingerprint]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, false, nil
	}

	result := entry.result
	return &result, true, nil
}

// Store writes a result, overwriting any prior value and resetting the TTL
func (c *MemoryCache) Store(_ context.Context, fingerprint string, result CachedResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[fingerprint] = memoryEntry{
		result:    result,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// PurgeExpired removes expired entries and returns how many were dropped
func (c *MemoryCache) PurgeExpired(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var removed int64
	for fingerprint, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, fingerprint)
			removed++
		}
	}
	return removed, nil
}
