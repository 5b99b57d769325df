package places

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accessible-outings/outings/internal/geo"
	"github.com/accessible-outings/outings/internal/model"
)

var boston = geo.Point{Lat: 42.3601, Lon: -71.0589}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	return c, srv
}

func TestSearchNearby(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/nearbysearch/json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "garden", r.URL.Query().Get("keyword"))
		fmt.Fprint(w, `{"status":"OK","results":[
			{"place_id":"p1","name":"Arnold Arboretum","geometry":{"location":{"lat":42.30,"lng":-71.12}}},
			{"place_id":"p2","name":"Fenway Victory Gardens","geometry":{"location":{"lat":42.34,"lng":-71.09}}}
		]}`)
	})

	got := c.SearchNearby(context.Background(), boston, 30, "garden")
	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].PlaceID)
	assert.Equal(t, "Arnold Arboretum", got[0].Name)
}

func TestSearchNearbyCachesResponses(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"status":"OK","results":[{"place_id":"p1","name":"A"}]}`)
	})

	ctx := context.Background()
	first := c.SearchNearby(ctx, boston, 30, "garden")
	second := c.SearchNearby(ctx, boston, 30, "garden")
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())

	// A different keyword is a different cache key.
	c.SearchNearby(ctx, boston, 30, "museum")
	assert.Equal(t, int32(2), calls.Load())
}

func TestSearchNearbyFailuresReturnEmpty(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	assert.Empty(t, c.SearchNearby(context.Background(), boston, 30, ""))

	c, _ = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"REQUEST_DENIED","results":[]}`)
	})
	assert.Empty(t, c.SearchNearby(context.Background(), boston, 30, ""))
}

func TestSearchByKeywordsMergesAndDedupes(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("keyword") {
		case "botanical garden":
			fmt.Fprint(w, `{"status":"OK","results":[{"place_id":"p1","name":"A"},{"place_id":"p2","name":"B"}]}`)
		case "arboretum":
			fmt.Fprint(w, `{"status":"OK","results":[{"place_id":"p2","name":"B"},{"place_id":"p3","name":"C"}]}`)
		default:
			fmt.Fprint(w, `{"status":"ZERO_RESULTS","results":[]}`)
		}
	})

	got := c.SearchByKeywords(context.Background(), boston, 30,
		[]string{"botanical garden", "arboretum", "greenhouse", "never-queried"})
	require.Len(t, got, 3)
	assert.Equal(t, "p1", got[0].PlaceID)
	assert.Equal(t, "p3", got[2].PlaceID)
}

func TestGetDetails(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/details/json", r.URL.Path)
		assert.Equal(t, "p1", r.URL.Query().Get("place_id"))
		fmt.Fprint(w, `{"status":"OK","result":{
			"place_id":"p1","name":"Museum of Science",
			"formatted_address":"1 Science Park, Boston, MA 02114, USA",
			"rating":4.6,"types":["museum","tourist_attraction"],
			"wheelchair_accessible_entrance":true
		}}`)
	})

	got := c.GetDetails(context.Background(), "p1")
	require.NotNil(t, got)
	assert.Equal(t, "Museum of Science", got.Name)
	assert.True(t, got.WheelchairAccessibleEntrance)

	c, _ = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"NOT_FOUND"}`)
	})
	assert.Nil(t, c.GetDetails(context.Background(), "gone"))
}

func TestValidateCredentials(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"ZERO_RESULTS","results":[]}`)
	})
	assert.True(t, c.ValidateCredentials(context.Background()))

	c, _ = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"REQUEST_DENIED"}`)
	})
	assert.False(t, c.ValidateCredentials(context.Background()))

	assert.False(t, NewClient("").ValidateCredentials(context.Background()))
}

func TestExtractAccessibility(t *testing.T) {
	p := &Place{
		WheelchairAccessibleEntrance: true,
		Reviews: []Review{
			{Text: "Plenty of accessible parking and an elevator to every floor."},
			{Text: "Great gift shop."},
		},
	}
	flags, notes := ExtractAccessibility(p)
	assert.True(t, flags.WheelchairAccessible)
	assert.True(t, flags.AccessibleParking)
	assert.True(t, flags.ElevatorAccess)
	assert.Contains(t, notes, "Wheelchair accessible entrance.")
	assert.Contains(t, notes, "parking")
}

func TestExtractAccessibilityScansOnlyLeadingReviews(t *testing.T) {
	reviews := make([]Review, 6)
	reviews[5] = Review{Text: "There is a ramp at the side entrance."}
	flags, _ := ExtractAccessibility(&Place{Reviews: reviews})
	assert.False(t, flags.RampAccess)
}

func TestVenueConversion(t *testing.T) {
	c := NewClient("test-key")
	rating := 4.6
	p := &Place{
		PlaceID:          "p1",
		Name:             "Museum of Science",
		FormattedAddress: "1 Science Park, Boston, MA 02114, USA",
		Phone:            "(617) 723-2500",
		Rating:           &rating,
		Types:            []string{"museum", "tourist_attraction"},
	}
	p.Geometry.Location.Lat = 42.3672
	p.Geometry.Location.Lng = -71.0711

	v := c.Venue(p)
	assert.Equal(t, "google_places", v.Provider)
	assert.Equal(t, "p1", v.ExternalID)
	assert.Equal(t, "1 Science Park", v.Address)
	assert.Equal(t, "Boston", v.City)
	assert.Equal(t, "MA", v.State)
	assert.Equal(t, "02114", v.ZipCode)
	assert.Equal(t, model.CategoryMuseum, v.Category)
	require.NotNil(t, v.Rating)
	assert.InDelta(t, 4.6, *v.Rating, 1e-9)
}

func TestParseAddressShortForms(t *testing.T) {
	street, city, state, zip := parseAddress("10 Main St")
	assert.Equal(t, "10 Main St", street)
	assert.Empty(t, city)
	assert.Empty(t, state)
	assert.Empty(t, zip)

	street, city, state, zip = parseAddress("10 Main St, Concord, NH 03301, USA")
	assert.Equal(t, "10 Main St", street)
	assert.Equal(t, "Concord", city)
	assert.Equal(t, "NH", state)
	assert.Equal(t, "03301", zip)
}
