package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accessible-outings/outings/internal/geo"
	"github.com/accessible-outings/outings/internal/model"
)

func newTestStore(t *testing.T, opts ...SQLiteOption) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"), opts...)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func testVenue(name, externalID string) *model.Venue {
	return &model.Venue{
		Provider:   "google_places",
		ExternalID: externalID,
		Name:       name,
		City:       "Boston",
		State:      "MA",
		ZipCode:    "02101",
		Latitude:   42.3601,
		Longitude:  -71.0589,
		Category:   model.CategoryMuseum,
		Accessibility: model.AccessibilityFlags{
			WheelchairAccessible: true,
			AccessibleRestroom:   true,
		},
		ExperienceTags: []string{"hands-on"},
	}
}

func TestUpsertVenueInsertAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	v := testVenue("Science Museum", "place-1")
	require.NoError(t, s.UpsertVenue(ctx, v))
	require.NotEmpty(t, v.ID)

	got, err := s.GetVenue(ctx, v.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Science Museum", got.Name)
	assert.Equal(t, model.CategoryMuseum, got.Category)
	assert.True(t, got.Accessibility.WheelchairAccessible)
	assert.Equal(t, []string{"hands-on"}, got.ExperienceTags)
	assert.InDelta(t, 42.3601, got.Latitude, 1e-9)
}

func TestUpsertVenueDeduplicatesByExternalID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := testVenue("Science Museum", "place-1")
	require.NoError(t, s.UpsertVenue(ctx, first))

	second := testVenue("Museum of Science", "place-1")
	second.Rating = ptr(4.6)
	require.NoError(t, s.UpsertVenue(ctx, second))

	// Same identity, so the second upsert lands on the first row.
	assert.Equal(t, first.ID, second.ID)

	got, err := s.FindVenueByExternalID(ctx, "google_places", "place-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Museum of Science", got.Name)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 4.6, *got.Rating, 1e-9)
}

func TestStubVenuesDoNotCollide(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := &model.Venue{Name: "Community Hall"}
	b := &model.Venue{Name: "Public Library"}
	require.NoError(t, s.UpsertVenue(ctx, a))
	require.NoError(t, s.UpsertVenue(ctx, b))
	assert.NotEqual(t, a.ID, b.ID)
}

func TestVenueLookupsReturnNilWhenAbsent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	got, err := s.GetVenue(ctx, "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.FindVenueByExternalID(ctx, "google_places", "no-such-place")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.FindVenueByName(ctx, "no such venue")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindVenueByNameIsCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	v := testVenue("Roger Williams Park", "place-2")
	require.NoError(t, s.UpsertVenue(ctx, v))

	got, err := s.FindVenueByName(ctx, "roger williams park")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, v.ID, got.ID)
}

func TestQueryVenuesInBBox(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	boston := testVenue("Boston Museum", "place-1")
	nyc := testVenue("NYC Gallery", "place-2")
	nyc.Latitude, nyc.Longitude = 40.7128, -74.0060
	nyc.Category = model.CategoryArtGallery
	require.NoError(t, s.UpsertVenue(ctx, boston))
	require.NoError(t, s.UpsertVenue(ctx, nyc))

	box := geo.BoundingBox(geo.Point{Lat: 42.36, Lon: -71.06}, 30)
	got, err := s.QueryVenuesInBBox(ctx, box, VenueFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Boston Museum", got[0].Name)
}

func TestQueryVenuesInBBoxFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	museum := testVenue("Boston Museum", "place-1")
	garden := testVenue("Botanic Garden", "place-2")
	garden.Category = model.CategoryBotanicalGarden
	garden.Accessibility.WheelchairAccessible = false
	require.NoError(t, s.UpsertVenue(ctx, museum))
	require.NoError(t, s.UpsertVenue(ctx, garden))

	box := geo.BoundingBox(geo.Point{Lat: 42.36, Lon: -71.06}, 30)

	got, err := s.QueryVenuesInBBox(ctx, box, VenueFilter{Category: model.CategoryBotanicalGarden})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Botanic Garden", got[0].Name)

	got, err = s.QueryVenuesInBBox(ctx, box, VenueFilter{WheelchairOnly: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Boston Museum", got[0].Name)
}

func TestReviews(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	v := testVenue("Science Museum", "place-1")
	require.NoError(t, s.UpsertVenue(ctx, v))

	r := &model.Review{
		VenueID:             v.ID,
		OverallRating:       ptr(4.0),
		AccessibilityRating: ptr(5.0),
		Text:                "wide doorways throughout",
	}
	require.NoError(t, s.AddReview(ctx, r))
	require.NotEmpty(t, r.ID)

	got, err := s.ListReviews(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].AccessibilityRating)
	assert.InDelta(t, 5.0, *got[0].AccessibilityRating, 1e-9)
	assert.Equal(t, "wide doorways throughout", got[0].Text)
}

func testEvent(venueID, externalID, title string, start time.Time) *model.Event {
	return &model.Event{
		ExternalID: externalID,
		Source:     "eventbrite",
		Title:      title,
		StartDate:  start,
		StartTime:  "14:00",
		VenueID:    venueID,
		Types:      model.EventTypeFlags{Interesting: true},
	}
}

func TestUpsertEventDeduplicatesBySource(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	v := testVenue("Science Museum", "place-1")
	require.NoError(t, s.UpsertVenue(ctx, v))

	start := time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)
	first := testEvent(v.ID, "evt-1", "Birding Walk", start)
	require.NoError(t, s.UpsertEvent(ctx, first))

	second := testEvent(v.ID, "evt-1", "Guided Birding Walk", start)
	require.NoError(t, s.UpsertEvent(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	got, err := s.FindEventBySource(ctx, "eventbrite", "evt-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Guided Birding Walk", got.Title)
}

func TestSearchEvents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	v := testVenue("Science Museum", "place-1")
	require.NoError(t, s.UpsertVenue(ctx, v))

	oct := time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)
	nov := time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC)

	fun := testEvent(v.ID, "evt-1", "Comedy Night", oct)
	fun.Types = model.EventTypeFlags{Fun: true}
	offBeat := testEvent(v.ID, "evt-2", "Ghost Tour", nov)
	offBeat.Types = model.EventTypeFlags{OffBeat: true}
	require.NoError(t, s.UpsertEvent(ctx, fun))
	require.NoError(t, s.UpsertEvent(ctx, offBeat))

	// Date window.
	got, err := s.SearchEvents(ctx, EventFilter{
		Start: oct.AddDate(0, 0, -1),
		End:   oct.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Comedy Night", got[0].Title)

	// Type filter ORs across requested names.
	got, err = s.SearchEvents(ctx, EventFilter{Types: []string{"fun", "off_beat"}})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.SearchEvents(ctx, EventFilter{Types: []string{"off_beat"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ghost Tour", got[0].Title)

	// Venue filter.
	got, err = s.SearchEvents(ctx, EventFilter{VenueIDs: []string{"no-such-venue"}})
	require.NoError(t, err)
	assert.Empty(t, got)

	// Results come back in chronological order.
	got, err = s.SearchEvents(ctx, EventFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Comedy Night", got[0].Title)
}

func TestCacheEntryLifecycle(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	s := newTestStore(t, WithSQLiteClock(clock))
	ctx := context.Background()

	payload := json.RawMessage(`{"results":[1,2,3]}`)
	require.NoError(t, s.SetCacheEntry(ctx, "nearby:02101:30:garden:", payload, 24*time.Hour))

	got, err := s.GetCacheEntry(ctx, "nearby:02101:30:garden:")
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(got))

	// Absent key.
	got, err = s.GetCacheEntry(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Past expiry the entry reads as absent and is purged.
	now = now.Add(25 * time.Hour)
	got, err = s.GetCacheEntry(ctx, "nearby:02101:30:garden:")
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := s.DeleteExpiredCacheEntries(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteExpiredCacheEntries(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	s := newTestStore(t, WithSQLiteClock(clock))
	ctx := context.Background()

	require.NoError(t, s.SetCacheEntry(ctx, "a", json.RawMessage(`1`), time.Hour))
	require.NoError(t, s.SetCacheEntry(ctx, "b", json.RawMessage(`2`), 48*time.Hour))

	now = now.Add(2 * time.Hour)
	n, err := s.DeleteExpiredCacheEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.GetCacheEntry(ctx, "b")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func ptr(f float64) *float64 { return &f }

func TestListVenues(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertVenue(ctx, testVenue("Zoo New England", "place-1")))
	require.NoError(t, s.UpsertVenue(ctx, testVenue("Boston Museum", "place-2")))

	got, err := s.ListVenues(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Boston Museum", got[0].Name)
	assert.Equal(t, "Zoo New England", got[1].Name)
}
