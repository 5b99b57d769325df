// Package events holds the event-provider interface and the clients that
// implement it. Providers normalize heterogeneous wire formats into
// EventData; like the places client they log failures and return empty
// rather than surfacing transport errors.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// EventData is the normalized event shape shared by all providers.
type EventData struct {
	ExternalID string
	Source     string

	Title       string
	Description string

	StartDate time.Time
	StartTime string // "15:04", empty when unknown
	EndDate   time.Time
	EndTime   string

	VenueName      string
	VenueAddress   string
	VenueLatitude  float64
	VenueLongitude float64

	Cost            string
	RegistrationURL string
	MaxParticipants int

	AccessibilityNotes string

	RawPayload json.RawMessage
}

// SearchParams narrow a provider event search.
type SearchParams struct {
	Location    string // free-form address or ZIP
	Start       time.Time
	End         time.Time
	RadiusMiles float64
	MaxResults  int
}

// Provider is an external event source.
type Provider interface {
	// Name identifies the provider in store records and cache keys.
	Name() string

	// Available reports whether the provider is configured for use.
	Available() bool

	// SearchEvents returns events matching the params. Transport failures
	// are logged and read as an empty result.
	SearchEvents(ctx context.Context, params SearchParams) []EventData

	// GetEventDetails fetches one event by its provider id. Nil when the
	// event is unknown or the fetch fails.
	GetEventDetails(ctx context.Context, externalID string) *EventData

	// ValidateCredentials confirms the configured credentials work.
	ValidateCredentials(ctx context.Context) bool
}

// Valid reports whether an event meets the minimum requirements to persist:
// a title, a start date, some venue identity, and a start that is not in the
// past relative to now.
func (e *EventData) Valid(now time.Time) bool {
	if e.Title == "" || e.StartDate.IsZero() {
		return false
	}
	if e.VenueName == "" && e.VenueAddress == "" {
		return false
	}
	today := now.Truncate(24 * time.Hour)
	return !e.StartDate.Before(today)
}
