package events

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEventbrite(t *testing.T, handler http.HandlerFunc) *Eventbrite {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewEventbrite("test-token",
		WithEventbriteBaseURL(srv.URL),
		WithEventbriteHTTPClient(srv.Client()))
}

func searchParams() SearchParams {
	return SearchParams{
		Location:    "02101",
		Start:       time.Now().AddDate(0, 0, 1),
		End:         time.Now().AddDate(0, 0, 30),
		RadiusMiles: 25,
		MaxResults:  50,
	}
}

func futureDate() string {
	return time.Now().AddDate(0, 1, 0).Format("2006-01-02")
}

func TestEventbriteSearchEvents(t *testing.T) {
	date := futureDate()
	c := newTestEventbrite(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events/search/", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "50", r.URL.Query().Get("page_size"))
		fmt.Fprintf(w, `{"events":[{
			"id":"evt-1",
			"name":{"text":"Birding Walk"},
			"description":{"text":"Guided walk through the sanctuary."},
			"start":{"utc":"%sT14:00:00Z"},
			"end":{"utc":"%sT16:00:00Z"},
			"url":"https://example.com/evt-1",
			"is_free":true,
			"venue":{"name":"Mass Audubon","latitude":"42.26","longitude":"-71.17",
				"address":{"address_1":"280 Eliot St","city":"Natick","region":"MA","postal_code":"01760"}}
		}]}`, date, date)
	})

	got := c.SearchEvents(context.Background(), searchParams())
	require.Len(t, got, 1)
	e := got[0]
	assert.Equal(t, "evt-1", e.ExternalID)
	assert.Equal(t, "eventbrite", e.Source)
	assert.Equal(t, "Birding Walk", e.Title)
	assert.Equal(t, "14:00", e.StartTime)
	assert.Equal(t, "free", e.Cost)
	assert.Equal(t, "Mass Audubon", e.VenueName)
	assert.Equal(t, "280 Eliot St, Natick, MA, 01760", e.VenueAddress)
	assert.InDelta(t, 42.26, e.VenueLatitude, 1e-9)
	assert.NotEmpty(t, e.RawPayload)
}

func TestEventbriteSkipsInvalidEvents(t *testing.T) {
	date := futureDate()
	c := newTestEventbrite(t, func(w http.ResponseWriter, r *http.Request) {
		// First event has no start; second has no venue identity; third is
		// past; fourth is good.
		fmt.Fprintf(w, `{"events":[
			{"id":"e1","name":{"text":"No Start"},"venue":{"name":"V"}},
			{"id":"e2","name":{"text":"No Venue"},"start":{"utc":"%sT10:00:00Z"}},
			{"id":"e3","name":{"text":"Past"},"start":{"utc":"2020-01-01T10:00:00Z"},"venue":{"name":"V"}},
			{"id":"e4","name":{"text":"Good"},"start":{"utc":"%sT10:00:00Z"},"venue":{"name":"V"}}
		]}`, date, date)
	})

	got := c.SearchEvents(context.Background(), searchParams())
	require.Len(t, got, 1)
	assert.Equal(t, "Good", got[0].Title)
}

func TestEventbriteAuthFailureReturnsEmpty(t *testing.T) {
	c := newTestEventbrite(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	assert.Empty(t, c.SearchEvents(context.Background(), searchParams()))

	c = newTestEventbrite(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	assert.Empty(t, c.SearchEvents(context.Background(), searchParams()))
}

func TestEventbriteCachesSearches(t *testing.T) {
	var calls atomic.Int32
	date := futureDate()
	c := newTestEventbrite(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprintf(w, `{"events":[{"id":"e1","name":{"text":"A"},"start":{"utc":"%sT10:00:00Z"},"venue":{"name":"V"}}]}`, date)
	})

	params := searchParams()
	c.SearchEvents(context.Background(), params)
	c.SearchEvents(context.Background(), params)
	assert.Equal(t, int32(1), calls.Load())
}

func TestEventbriteValidateCredentials(t *testing.T) {
	c := newTestEventbrite(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/me/", r.URL.Path)
		fmt.Fprint(w, `{"id":"me"}`)
	})
	assert.True(t, c.ValidateCredentials(context.Background()))

	c = newTestEventbrite(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	assert.False(t, c.ValidateCredentials(context.Background()))

	assert.False(t, NewEventbrite("").ValidateCredentials(context.Background()))
}

func TestEventDataValid(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	valid := EventData{Title: "T", StartDate: now.AddDate(0, 0, 1), VenueName: "V"}
	assert.True(t, valid.Valid(now))

	// Today still counts.
	today := EventData{Title: "T", StartDate: now.Truncate(24 * time.Hour), VenueAddress: "A"}
	assert.True(t, today.Valid(now))

	past := EventData{Title: "T", StartDate: now.AddDate(0, 0, -1), VenueName: "V"}
	assert.False(t, past.Valid(now))
}

func TestEventbriteGetEventDetails(t *testing.T) {
	date := futureDate()
	c := newTestEventbrite(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events/evt-9/", r.URL.Path)
		assert.Equal(t, "venue", r.URL.Query().Get("expand"))
		fmt.Fprintf(w, `{
			"id":"evt-9",
			"name":{"text":"Hidden Boston Walking Tour"},
			"description":{"text":"Wheelchair accessible route through the old city."},
			"start":{"utc":"%sT17:00:00Z"},
			"venue":{"name":"Faneuil Hall","latitude":"42.36","longitude":"-71.05",
				"address":{"address_1":"1 Faneuil Hall Sq","city":"Boston","region":"MA","postal_code":"02109"}}
		}`, date)
	})

	got := c.GetEventDetails(context.Background(), "evt-9")
	require.NotNil(t, got)
	assert.Equal(t, "evt-9", got.ExternalID)
	assert.Equal(t, "Hidden Boston Walking Tour", got.Title)
	assert.Equal(t, "Faneuil Hall", got.VenueName)
	assert.Equal(t, "17:00", got.StartTime)
	assert.Contains(t, got.AccessibilityNotes, "wheelchair accessible")
}

func TestEventbriteGetEventDetailsNotFound(t *testing.T) {
	c := newTestEventbrite(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	assert.Nil(t, c.GetEventDetails(context.Background(), "missing"))
}
