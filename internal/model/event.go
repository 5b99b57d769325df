package model

import (
	"encoding/json"
	"time"
)

// VerificationStatus tracks whether an event has been confirmed against its
// source provider.
type VerificationStatus string

const (
	VerificationVerified   VerificationStatus = "verified"
	VerificationUnverified VerificationStatus = "unverified"
	VerificationExpired    VerificationStatus = "expired"
	VerificationRemoved    VerificationStatus = "removed"
)

// EventTypeFlags are independent, non-exclusive classification flags derived
// from event title and description.
type EventTypeFlags struct {
	Fun         bool `json:"fun"`
	Interesting bool `json:"interesting"`
	OffBeat     bool `json:"off_beat"`
}

// None reports whether no flag is set.
func (f EventTypeFlags) None() bool {
	return !f.Fun && !f.Interesting && !f.OffBeat
}

// Event is a time-bound happening at a venue. Uniqueness is
// (ExternalID, Source); an event with both empty is locally authored and is
// never touched by provider sync.
type Event struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id,omitempty"`
	Source     string `json:"source,omitempty"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	StartDate time.Time `json:"start_date"`
	StartTime string    `json:"start_time,omitempty"` // "15:04", empty when unknown
	EndDate   time.Time `json:"end_date,omitempty"`
	EndTime   string    `json:"end_time,omitempty"`

	VenueID string `json:"venue_id"`

	Cost            string `json:"cost,omitempty"`
	RegistrationURL string `json:"registration_url,omitempty"`
	MaxParticipants int    `json:"max_participants,omitempty"`

	Types EventTypeFlags `json:"types"`

	WheelchairAccessible bool   `json:"wheelchair_accessible"`
	AccessibilityNotes   string `json:"accessibility_notes,omitempty"`

	Verification VerificationStatus `json:"verification_status"`
	LastVerified time.Time          `json:"last_verified,omitempty"`

	RawPayload json.RawMessage `json:"raw_payload,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocallyAuthored reports whether this event was created by hand rather than
// synced from a provider.
func (e *Event) LocallyAuthored() bool {
	return e.ExternalID == "" && e.Source == ""
}

// MatchesTypes reports whether the event carries at least one of the
// requested type names ("fun", "interesting", "off_beat"). An empty request
// matches everything.
func (e *Event) MatchesTypes(types []string) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		switch t {
		case "fun":
			if e.Types.Fun {
				return true
			}
		case "interesting":
			if e.Types.Interesting {
				return true
			}
		case "off_beat":
			if e.Types.OffBeat {
				return true
			}
		}
	}
	return false
}
