// Package cache provides the TTL cache used by provider clients to avoid
// redundant network calls. The cache is an injected collaborator, never a
// package-level singleton, so tests can control time.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Cache is a key-to-payload store with per-entry expiration. A failing
// backend behaves as an always-miss cache; no method returns an error to the
// caller.
type Cache interface {
	// Get returns the payload for key, or ok=false when the key is absent
	// or expired. Reading an expired entry purges it.
	Get(ctx context.Context, key string) (json.RawMessage, bool)

	// Set stores payload under key with the given TTL, replacing any
	// previous entry.
	Set(ctx context.Context, key string, payload json.RawMessage, ttl time.Duration)

	// PurgeExpired removes all expired entries and returns how many were
	// deleted.
	PurgeExpired(ctx context.Context) int
}

// Backend is the persistence surface a store must expose for StoreBacked.
// GetCacheEntry returns (nil, nil) for absent or expired keys.
type Backend interface {
	GetCacheEntry(ctx context.Context, key string) (json.RawMessage, error)
	SetCacheEntry(ctx context.Context, key string, payload json.RawMessage, ttl time.Duration) error
	DeleteExpiredCacheEntries(ctx context.Context) (int, error)
}

// StoreBacked adapts a store Backend to the Cache contract, downgrading
// backend failures to cache misses.
type StoreBacked struct {
	backend Backend
}

// NewStoreBacked wraps a store backend as a Cache.
func NewStoreBacked(backend Backend) *StoreBacked {
	return &StoreBacked{backend: backend}
}

func (c *StoreBacked) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	payload, err := c.backend.GetCacheEntry(ctx, key)
	if err != nil {
		zap.L().Warn("cache: get failed, treating as miss", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if payload == nil {
		return nil, false
	}
	return payload, true
}

func (c *StoreBacked) Set(ctx context.Context, key string, payload json.RawMessage, ttl time.Duration) {
	if err := c.backend.SetCacheEntry(ctx, key, payload, ttl); err != nil {
		zap.L().Warn("cache: set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *StoreBacked) PurgeExpired(ctx context.Context) int {
	n, err := c.backend.DeleteExpiredCacheEntries(ctx)
	if err != nil {
		zap.L().Warn("cache: purge failed", zap.Error(err))
		return 0
	}
	return n
}

// NearbySearchKey builds the deterministic key for a nearby-place search.
// Coordinates are pre-rounded by the caller so logically identical requests
// share an entry.
func NearbySearchKey(coords string, radiusMeters int, venueType, keyword string) string {
	return fmt.Sprintf("nearby:%s:%d:%s:%s", coords, radiusMeters, venueType, keyword)
}

// PlaceDetailsKey builds the key for a place-details fetch.
func PlaceDetailsKey(provider, externalID string) string {
	return fmt.Sprintf("details:%s:%s", provider, externalID)
}

// EventDetailsKey builds the key for a single-event detail fetch.
func EventDetailsKey(provider, externalID string) string {
	return fmt.Sprintf("eventdetails:%s:%s", provider, externalID)
}

// EventSearchKey builds the key for an event search.
func EventSearchKey(provider, location string, start, end time.Time) string {
	return fmt.Sprintf("events:%s:%s:%s:%s",
		provider, location, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

// GeocodeKey builds the key for a ZIP geocoding lookup.
func GeocodeKey(zip string) string {
	return fmt.Sprintf("geocode:zip:%s", zip)
}
