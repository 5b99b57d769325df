package model

import "time"

// Review is a user or provider review attached to a venue. Accessibility
// ratings use a 1-5 scale; zero via the pointer being nil means no explicit
// rating was given.
type Review struct {
	ID      string `json:"id"`
	VenueID string `json:"venue_id"`

	OverallRating       *float64 `json:"overall_rating,omitempty"`
	AccessibilityRating *float64 `json:"accessibility_rating,omitempty"`
	Text                string   `json:"text,omitempty"`
	AccessibilityNotes  string   `json:"accessibility_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// ScoreInputs is the ephemeral feature vector assembled per venue right
// before scoring. It is computed fresh on every pass and never persisted;
// the scores derived from it are cached via the venue record itself.
type ScoreInputs struct {
	Flags         AccessibilityFlags
	Verified      bool
	Category      Category
	Rating        *float64
	Tags          []string
	EventFreq     int
	Reviews       []Review
	ProviderTypes []string
	Name          string
}
