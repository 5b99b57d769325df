// Package geocode converts US ZIP codes and free-form addresses to
// coordinates via a Google Geocoding-style API. ZIP→coordinate mappings are
// stable, so responses are cached for 30 days.
package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/accessible-outings/outings/internal/cache"
	"github.com/accessible-outings/outings/internal/geo"
)

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

	defaultGeocodeTTL = 720 * time.Hour
)

var zipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{5}$`),
	regexp.MustCompile(`^\d{5}-\d{4}$`),
	regexp.MustCompile(`^\d{9}$`),
}

var digitsRE = regexp.MustCompile(`\d`)

// ValidZip reports whether the string is a US ZIP in 5-digit, ZIP+4, or
// undashed 9-digit form.
func ValidZip(zip string) bool {
	zip = strings.TrimSpace(zip)
	if zip == "" {
		return false
	}
	for _, re := range zipPatterns {
		if re.MatchString(zip) {
			return true
		}
	}
	return false
}

// NormalizeZip reduces any valid ZIP form to the leading 5 digits. Inputs
// with fewer than 5 digits come back trimmed but otherwise untouched.
func NormalizeZip(zip string) string {
	zip = strings.TrimSpace(zip)
	digits := digitsRE.FindAllString(zip, -1)
	if len(digits) >= 5 {
		return strings.Join(digits[:5], "")
	}
	return zip
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

// WithCache sets the TTL cache consulted before network calls.
func WithCache(cc cache.Cache) Option {
	return func(c *Client) {
		c.cache = cc
	}
}

// WithRateLimit sets the requests-per-second limit.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps))
	}
}

// Client geocodes ZIPs and addresses.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      cache.Cache
	limiter    *rate.Limiter
	ttl        time.Duration
	log        *zap.Logger
}

// NewClient creates a geocoding client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      cache.NewMemory(),
		limiter:    rate.NewLimiter(10, 10),
		ttl:        defaultGeocodeTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = zap.L().With(zap.String("component", "geocode"))
	return c
}

// GeocodeZip resolves a US ZIP to coordinates. Invalid ZIPs and provider
// failures return (zero, false).
func (c *Client) GeocodeZip(ctx context.Context, zip string) (geo.Point, bool) {
	if !ValidZip(zip) {
		c.log.Warn("invalid zip code", zap.String("zip", zip))
		return geo.Point{}, false
	}
	normalized := NormalizeZip(zip)

	params := url.Values{
		"address":    {normalized},
		"components": {"country:US"},
	}
	return c.geocode(ctx, params, cache.GeocodeKey(normalized))
}

// GeocodeAddress resolves a free-form address to coordinates.
func (c *Client) GeocodeAddress(ctx context.Context, address string) (geo.Point, bool) {
	if strings.TrimSpace(address) == "" {
		return geo.Point{}, false
	}
	params := url.Values{
		"address": {address},
	}
	return c.geocode(ctx, params, "geocode:addr:"+strings.ToLower(address))
}

func (c *Client) geocode(ctx context.Context, params url.Values, key string) (geo.Point, bool) {
	var resp struct {
		Status  string `json:"status"`
		Results []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, params, key, &resp); err != nil {
		c.log.Warn("geocode failed", zap.Error(err))
		return geo.Point{}, false
	}
	if resp.Status != "OK" || len(resp.Results) == 0 {
		return geo.Point{}, false
	}
	loc := resp.Results[0].Geometry.Location
	return geo.Point{Lat: loc.Lat, Lon: loc.Lng}, true
}

func (c *Client) getJSON(ctx context.Context, params url.Values, key string, out any) error {
	if payload, ok := c.cache.Get(ctx, key); ok {
		if err := json.Unmarshal(payload, out); err == nil {
			return nil
		}
		c.log.Warn("discarding undecodable cache entry", zap.String("key", key))
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "geocode: rate limit")
	}

	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "geocode: build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return eris.Wrap(err, "geocode: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("geocode: status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "geocode: read body")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return eris.Wrap(err, "geocode: parse response")
	}
	c.cache.Set(ctx, key, raw, c.ttl)
	return nil
}
