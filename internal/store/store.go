// Package store defines the persistence interface consumed by the discovery
// and aggregation engines, with SQLite and Postgres implementations.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/accessible-outings/outings/internal/geo"
	"github.com/accessible-outings/outings/internal/model"
)

// VenueFilter narrows bounding-box venue queries.
type VenueFilter struct {
	Category       model.Category
	WheelchairOnly bool
	Limit          int
}

// EventFilter narrows event searches. Types uses OR semantics across the
// requested type names.
type EventFilter struct {
	Start    time.Time
	End      time.Time
	Types    []string
	VenueIDs []string
	Limit    int
}

// Store is the backing store for venues, events, reviews and the generic API
// cache table. Lookup methods return (nil, nil) when the record is absent.
type Store interface {
	// Venues
	UpsertVenue(ctx context.Context, v *model.Venue) error
	GetVenue(ctx context.Context, id string) (*model.Venue, error)
	FindVenueByExternalID(ctx context.Context, provider, externalID string) (*model.Venue, error)
	FindVenueByName(ctx context.Context, name string) (*model.Venue, error)
	QueryVenuesInBBox(ctx context.Context, box geo.BBox, filter VenueFilter) ([]model.Venue, error)
	ListVenues(ctx context.Context) ([]model.Venue, error)

	// Reviews
	AddReview(ctx context.Context, r *model.Review) error
	ListReviews(ctx context.Context, venueID string) ([]model.Review, error)

	// Events
	UpsertEvent(ctx context.Context, e *model.Event) error
	FindEventBySource(ctx context.Context, source, externalID string) (*model.Event, error)
	SearchEvents(ctx context.Context, filter EventFilter) ([]model.Event, error)

	// API cache (cache.Backend)
	GetCacheEntry(ctx context.Context, key string) (json.RawMessage, error)
	SetCacheEntry(ctx context.Context, key string, payload json.RawMessage, ttl time.Duration) error
	DeleteExpiredCacheEntries(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
