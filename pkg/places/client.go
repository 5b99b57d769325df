// Package places is a Google Places-style client for venue discovery. All
// network calls are cache-first and the public search/detail methods never
// surface transport errors: failures are logged and read as "no data this
// round".
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/accessible-outings/outings/internal/cache"
	"github.com/accessible-outings/outings/internal/geo"
)

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

	// Google caps nearby-search radius at 50km and a client call at 60
	// results.
	maxRadiusMeters = 50000
	maxResults      = 60

	// Keywords tried per category search before giving up. More burns quota
	// without improving recall.
	maxCategoryKeywords = 3

	defaultSearchTTL  = 24 * time.Hour
	defaultDetailsTTL = 168 * time.Hour
)

// Place is a normalized provider record, from either a search result or a
// detail fetch.
type Place struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Geometry         Geometry `json:"geometry"`
	Phone            string   `json:"formatted_phone_number"`
	Website          string   `json:"website"`
	Rating           *float64 `json:"rating"`
	Types            []string `json:"types"`
	Reviews          []Review `json:"reviews"`

	WheelchairAccessibleEntrance bool `json:"wheelchair_accessible_entrance"`
}

// Geometry carries the place coordinates.
type Geometry struct {
	Location struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
}

// Review is a provider review attached to a detail record.
type Review struct {
	Rating float64 `json:"rating"`
	Text   string  `json:"text"`
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCache sets the TTL cache consulted before every network call.
func WithCache(cc cache.Cache) Option {
	return func(c *Client) {
		c.cache = cc
	}
}

// WithRateLimit sets the requests-per-second limit for API calls.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps))
	}
}

// WithSearchTTL overrides the nearby-search cache TTL.
func WithSearchTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.searchTTL = ttl
	}
}

// WithDetailsTTL overrides the place-details cache TTL.
func WithDetailsTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.detailsTTL = ttl
	}
}

// Client talks to the places API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      cache.Cache
	limiter    *rate.Limiter
	searchTTL  time.Duration
	detailsTTL time.Duration
	log        *zap.Logger
}

// NewClient creates a places client with the given options.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      cache.NewMemory(),
		limiter:    rate.NewLimiter(10, 10),
		searchTTL:  defaultSearchTTL,
		detailsTTL: defaultDetailsTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = zap.L().With(zap.String("component", "places"))
	return c
}

// Name identifies this provider in store records and cache keys.
func (c *Client) Name() string {
	return "google_places"
}

// Available reports whether the client is configured with credentials.
func (c *Client) Available() bool {
	return c.apiKey != ""
}

// SearchNearby returns venues around the point. Radius is clamped to the
// provider maximum. Failures log and return an empty slice.
func (c *Client) SearchNearby(ctx context.Context, pt geo.Point, radiusMiles float64, keyword string) []Place {
	radius := geo.MilesToMeters(radiusMiles)
	if radius > maxRadiusMeters {
		radius = maxRadiusMeters
	}

	params := url.Values{
		"location": {fmt.Sprintf("%f,%f", pt.Lat, pt.Lon)},
		"radius":   {strconv.Itoa(radius)},
		"type":     {"establishment"},
	}
	if keyword != "" {
		params.Set("keyword", keyword)
	}

	key := cache.NearbySearchKey(geo.RoundedKey(pt), radius, "establishment", keyword)
	var resp struct {
		Status  string  `json:"status"`
		Results []Place `json:"results"`
	}
	if err := c.getJSON(ctx, "nearbysearch/json", params, key, c.searchTTL, &resp); err != nil {
		c.log.Warn("nearby search failed", zap.String("keyword", keyword), zap.Error(err))
		return nil
	}
	if resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
		c.log.Warn("nearby search rejected", zap.String("status", resp.Status))
		return nil
	}
	if len(resp.Results) > maxResults {
		resp.Results = resp.Results[:maxResults]
	}
	return resp.Results
}

// SearchByKeywords runs one nearby search per keyword (first three only) and
// merges the results, deduplicated by place id and capped at the provider
// result limit.
func (c *Client) SearchByKeywords(ctx context.Context, pt geo.Point, radiusMiles float64, keywords []string) []Place {
	if len(keywords) > maxCategoryKeywords {
		keywords = keywords[:maxCategoryKeywords]
	}

	seen := map[string]struct{}{}
	var merged []Place
	for _, kw := range keywords {
		for _, p := range c.SearchNearby(ctx, pt, radiusMiles, kw) {
			if _, dup := seen[p.PlaceID]; dup {
				continue
			}
			seen[p.PlaceID] = struct{}{}
			merged = append(merged, p)
			if len(merged) >= maxResults {
				return merged
			}
		}
	}
	return merged
}

// GetDetails fetches the full record for a place. It returns nil both when
// the place does not exist and when the provider is unreachable; callers
// fall back to whatever summary data they already hold.
func (c *Client) GetDetails(ctx context.Context, placeID string) *Place {
	params := url.Values{
		"place_id": {placeID},
		"fields": {"place_id,name,formatted_address,geometry,formatted_phone_number," +
			"website,rating,types,reviews,wheelchair_accessible_entrance"},
	}

	key := cache.PlaceDetailsKey(c.Name(), placeID)
	var resp struct {
		Status string `json:"status"`
		Result *Place `json:"result"`
	}
	if err := c.getJSON(ctx, "details/json", params, key, c.detailsTTL, &resp); err != nil {
		c.log.Warn("details fetch failed", zap.String("place_id", placeID), zap.Error(err))
		return nil
	}
	if resp.Status != "OK" {
		c.log.Warn("details rejected", zap.String("place_id", placeID), zap.String("status", resp.Status))
		return nil
	}
	return resp.Result
}

// ValidateCredentials makes a minimal API call to confirm the key works.
func (c *Client) ValidateCredentials(ctx context.Context) bool {
	if !c.Available() {
		return false
	}
	params := url.Values{
		"location": {"42.3601,-71.0589"},
		"radius":   {"100"},
		"type":     {"establishment"},
	}
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.fetchJSON(ctx, "nearbysearch/json", params, &resp); err != nil {
		return false
	}
	return resp.Status == "OK" || resp.Status == "ZERO_RESULTS"
}

// getJSON serves the request from cache when possible, otherwise fetches and
// caches successful payloads. A broken cache degrades to always-miss.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, key string, ttl time.Duration, out any) error {
	if payload, ok := c.cache.Get(ctx, key); ok {
		if err := json.Unmarshal(payload, out); err == nil {
			return nil
		}
		c.log.Warn("discarding undecodable cache entry", zap.String("key", key))
	}

	raw, err := c.fetchRaw(ctx, endpoint, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return eris.Wrap(err, "places: parse response")
	}
	c.cache.Set(ctx, key, raw, ttl)
	return nil
}

func (c *Client) fetchJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	raw, err := c.fetchRaw(ctx, endpoint, params)
	if err != nil {
		return err
	}
	return eris.Wrap(json.Unmarshal(raw, out), "places: parse response")
}

func (c *Client) fetchRaw(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "places: rate limit")
	}

	params.Set("key", c.apiKey)
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "places: build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "places: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("places: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "places: read body")
	}
	return body, nil
}
