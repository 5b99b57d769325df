package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccessibilityFlagsCount(t *testing.T) {
	assert.Equal(t, 0, AccessibilityFlags{}.Count())
	assert.Equal(t, 2, AccessibilityFlags{WheelchairAccessible: true, RampAccess: true}.Count())

	all := AccessibilityFlags{
		WheelchairAccessible: true,
		AccessibleParking:    true,
		AccessibleRestroom:   true,
		ElevatorAccess:       true,
		WideDoorways:         true,
		RampAccess:           true,
		AccessibleSeating:    true,
	}
	assert.Equal(t, 7, all.Count())
	assert.Len(t, all.FeatureNames(), 7)
}

func TestVenueStale(t *testing.T) {
	now := time.Now()
	v := &Venue{LastUpdated: now.Add(-8 * 24 * time.Hour)}
	assert.True(t, v.Stale(now, 7*24*time.Hour))

	v.LastUpdated = now.Add(-6 * 24 * time.Hour)
	assert.False(t, v.Stale(now, 7*24*time.Hour))
}

func TestVenueAccessibilityLevel(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0.95, "Excellent"},
		{0.8, "Excellent"},
		{0.7, "Good"},
		{0.45, "Fair"},
		{0.1, "Limited"},
	}
	for _, tc := range cases {
		v := &Venue{AccessibilityScore: tc.score}
		assert.Equal(t, tc.want, v.AccessibilityLevel())
	}
}

func TestVenueIsStub(t *testing.T) {
	assert.True(t, (&Venue{Name: "Hall"}).IsStub())
	assert.False(t, (&Venue{ExternalID: "p1"}).IsStub())
}

func TestEventMatchesTypes(t *testing.T) {
	e := &Event{Types: EventTypeFlags{Fun: true}}
	assert.True(t, e.MatchesTypes(nil))
	assert.True(t, e.MatchesTypes([]string{"fun", "off_beat"}))
	assert.False(t, e.MatchesTypes([]string{"interesting"}))
	assert.False(t, e.MatchesTypes([]string{"off_beat"}))
}

func TestEventLocallyAuthored(t *testing.T) {
	assert.True(t, (&Event{Title: "Book Club"}).LocallyAuthored())
	assert.False(t, (&Event{ExternalID: "e1", Source: "eventbrite"}).LocallyAuthored())
}

func TestParseCategoryRoundTrip(t *testing.T) {
	for _, c := range Categories() {
		assert.Equal(t, c, ParseCategory(c.String()))
	}
	assert.Equal(t, CategoryUnknown, ParseCategory("bowling"))
}
