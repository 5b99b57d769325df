package model

import (
	"time"
)

// AccessibilityFlags holds the seven independent structured accessibility
// features tracked per venue.
type AccessibilityFlags struct {
	WheelchairAccessible bool `json:"wheelchair_accessible"`
	AccessibleParking    bool `json:"accessible_parking"`
	AccessibleRestroom   bool `json:"accessible_restroom"`
	ElevatorAccess       bool `json:"elevator_access"`
	WideDoorways         bool `json:"wide_doorways"`
	RampAccess           bool `json:"ramp_access"`
	AccessibleSeating    bool `json:"accessible_seating"`
}

// Count returns how many flags are set.
func (f AccessibilityFlags) Count() int {
	n := 0
	for _, b := range f.List() {
		if b {
			n++
		}
	}
	return n
}

// List returns the flags in their canonical order.
func (f AccessibilityFlags) List() []bool {
	return []bool{
		f.WheelchairAccessible,
		f.AccessibleParking,
		f.AccessibleRestroom,
		f.ElevatorAccess,
		f.WideDoorways,
		f.RampAccess,
		f.AccessibleSeating,
	}
}

// FeatureNames returns human-readable names for the set flags, in canonical
// order.
func (f AccessibilityFlags) FeatureNames() []string {
	names := []string{
		"Wheelchair Accessible",
		"Accessible Parking",
		"Accessible Restroom",
		"Elevator Access",
		"Wide Doorways",
		"Ramp Access",
		"Accessible Seating",
	}
	var out []string
	for i, b := range f.List() {
		if b {
			out = append(out, names[i])
		}
	}
	return out
}

// Venue is the canonical record for a physical venue. At most one venue
// exists per (Provider, ExternalID); a venue with an empty ExternalID is a
// stub created from event data and is eligible for later enrichment.
type Venue struct {
	ID         string `json:"id"`
	Provider   string `json:"provider,omitempty"`
	ExternalID string `json:"external_id,omitempty"`

	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`

	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`

	Category Category `json:"category"`
	Rating   *float64 `json:"rating,omitempty"`

	Accessibility      AccessibilityFlags `json:"accessibility"`
	AccessibilityNotes string             `json:"accessibility_notes,omitempty"`
	VerifiedAccessible bool               `json:"verified_accessible"`

	ExperienceTags      []string `json:"experience_tags,omitempty"`
	AccessibilityScore  float64  `json:"accessibility_score"`
	Interestingness     float64  `json:"interestingness_score"`
	EventFrequencyScore int      `json:"event_frequency_score"`

	// NeedsEnrichment marks stub venues created from event payloads that
	// carry no verified accessibility detail.
	NeedsEnrichment bool `json:"needs_enrichment,omitempty"`

	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// IsStub reports whether this venue was created without a provider identity.
func (v *Venue) IsStub() bool {
	return v.ExternalID == ""
}

// Stale reports whether the venue's detail data is older than the freshness
// window and should be re-fetched from its provider.
func (v *Venue) Stale(now time.Time, window time.Duration) bool {
	return now.Sub(v.LastUpdated) > window
}

// AccessibilityLevel bands the accessibility score for display.
func (v *Venue) AccessibilityLevel() string {
	switch {
	case v.AccessibilityScore >= 0.8:
		return "Excellent"
	case v.AccessibilityScore >= 0.6:
		return "Good"
	case v.AccessibilityScore >= 0.4:
		return "Fair"
	default:
		return "Limited"
	}
}

// HasTag reports whether the venue carries the given experience tag.
func (v *Venue) HasTag(tag string) bool {
	for _, t := range v.ExperienceTags {
		if t == tag {
			return true
		}
	}
	return false
}
