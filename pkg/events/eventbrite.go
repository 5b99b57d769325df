package events

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
)

const (
	eventbriteBaseURL = "https://www.eventbriteapi.com/v3"

	// Eventbrite returns at most 50 events per page.
	eventbritePageSize = 50

	defaultEventSearchTTL = 24 * time.Hour
)

// EventbriteOption configures the Eventbrite client.
type EventbriteOption func(*Eventbrite)

// WithEventbriteBaseURL overrides the API base URL.
func WithEventbriteBaseURL(u string) EventbriteOption {
	return func(c *Eventbrite) {
		c.baseURL = u
	}
}

// WithEventbriteHTTPClient sets a custom HTTP client.
func WithEventbriteHTTPClient(hc *http.Client) EventbriteOption {
	return func(c *Eventbrite) {
		c.httpClient = hc
	}
}

// WithEventbriteCache sets the TTL cache consulted before network calls.
func WithEventbriteCache(cc cache.Cache) EventbriteOption {
	return func(c *Eventbrite) {
		c.cache = cc
	}
}

// WithEventbriteRateLimit sets the requests-per-second limit.
func WithEventbriteRateLimit(rps float64) EventbriteOption {
	return func(c *Eventbrite) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps))
	}
}

// Eventbrite implements Provider against the Eventbrite v3 API.
type Eventbrite struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      cache.Cache
	limiter    *rate.Limiter
	searchTTL  time.Duration
	log        *zap.Logger
}

// NewEventbrite creates an Eventbrite client.
func NewEventbrite(apiKey string, opts ...EventbriteOption) *Eventbrite {
	c := &Eventbrite{
		apiKey:     apiKey,
		baseURL:    eventbriteBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      cache.NewMemory(),
		limiter:    rate.NewLimiter(10, 10),
		searchTTL:  defaultEventSearchTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = zap.L().With(zap.String("component", "eventbrite"))
	return c
}

func (c *Eventbrite) Name() string {
	return "eventbrite"
}

func (c *Eventbrite) Available() bool {
	return c.apiKey != ""
}

// rawEvent mirrors the provider wire shape worth keeping.
type rawEvent struct {
	ID   string `json:"id"`
	Name struct {
		Text string `json:"text"`
	} `json:"name"`
	Description struct {
		Text string `json:"text"`
	} `json:"description"`
	Start    rawWhen `json:"start"`
	End      rawWhen `json:"end"`
	URL      string  `json:"url"`
	Capacity int     `json:"capacity"`
	IsFree   bool    `json:"is_free"`
	Venue    *struct {
		Name      string `json:"name"`
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
		Address   struct {
			Address1 string `json:"address_1"`
			City     string `json:"city"`
			Region   string `json:"region"`
			Postal   string `json:"postal_code"`
		} `json:"address"`
	} `json:"venue"`
}

type rawWhen struct {
	UTC   string `json:"utc"`
	Local string `json:"local"`
}

// SearchEvents queries the events/search endpoint, cache-first. A 401 or
// 404 logs the auth/endpoint problem and reads as no events; so does any
// transport failure. Single events that fail to parse or validate are
// skipped without aborting the batch.
func (c *Eventbrite) SearchEvents(ctx context.Context, params SearchParams) []EventData {
	pageSize := params.MaxResults
	if pageSize <= 0 || pageSize > eventbritePageSize {
		pageSize = eventbritePageSize
	}

	query := url.Values{
		"location.address":       {params.Location},
		"location.within":        {fmt.Sprintf("%.0fmi", params.RadiusMiles)},
		"start_date.range_start": {params.Start.Format("2006-01-02") + "T00:00:00"},
		"start_date.range_end":   {params.End.Format("2006-01-02") + "T23:59:59"},
		"sort_by":                {"date"},
		"expand":                 {"venue"},
		"page_size":              {strconv.Itoa(pageSize)},
	}

	key := cache.EventSearchKey(c.Name(), params.Location, params.Start, params.End)
	var resp struct {
		Events []json.RawMessage `json:"events"`
	}
	if err := c.getJSON(ctx, "/events/search/", query, key, &resp); err != nil {
		c.log.Warn("event search failed", zap.String("location", params.Location), zap.Error(err))
		return nil
	}

	now := time.Now()
	var out []EventData
	for _, raw := range resp.Events {
		event, err := c.parseEvent(raw)
		if err != nil {
			c.log.Warn("skipping unparseable event", zap.Error(err))
			continue
		}
		if !event.Valid(now) {
			continue
		}
		out = append(out, *event)
	}
	return out
}

// GetEventDetails fetches a single event by id, cache-first. Nil when the
// event does not exist or cannot be fetched.
func (c *Eventbrite) GetEventDetails(ctx context.Context, externalID string) *EventData {
	key := cache.EventDetailsKey(c.Name(), externalID)
	var raw json.RawMessage
	if err := c.getJSON(ctx, "/events/"+externalID+"/", url.Values{"expand": {"venue"}}, key, &raw); err != nil {
		c.log.Warn("event details fetch failed", zap.String("external_id", externalID), zap.Error(err))
		return nil
	}
	event, err := c.parseEvent(raw)
	if err != nil {
		c.log.Warn("event details unparseable", zap.String("external_id", externalID), zap.Error(err))
		return nil
	}
	return event
}

// ValidateCredentials calls users/me with the configured token.
func (c *Eventbrite) ValidateCredentials(ctx context.Context) bool {
	if !c.Available() {
		return false
	}
	_, err := c.fetch(ctx, "/users/me/", url.Values{})
	return err == nil
}

func (c *Eventbrite) parseEvent(raw json.RawMessage) (*EventData, error) {
	var ev rawEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, eris.Wrap(err, "eventbrite: decode event")
	}

	start, ok := parseWhen(ev.Start)
	if !ok {
		return nil, eris.Errorf("eventbrite: event %s has no parseable start", ev.ID)
	}

	out := &EventData{
		ExternalID:      ev.ID,
		Source:          c.Name(),
		Title:           ev.Name.Text,
		Description:     truncate(ev.Description.Text, 1000),
		StartDate:       start.Truncate(24 * time.Hour),
		StartTime:       start.Format("15:04"),
		RegistrationURL: ev.URL,
		MaxParticipants: ev.Capacity,
		RawPayload:      raw,
	}
	if ev.IsFree {
		out.Cost = "free"
	}
	if end, ok := parseWhen(ev.End); ok {
		out.EndDate = end.Truncate(24 * time.Hour)
		out.EndTime = end.Format("15:04")
	}

	if ev.Venue != nil {
		out.VenueName = ev.Venue.Name
		out.VenueAddress = joinAddress(
			ev.Venue.Address.Address1, ev.Venue.Address.City,
			ev.Venue.Address.Region, ev.Venue.Address.Postal)
		if lat, err := strconv.ParseFloat(ev.Venue.Latitude, 64); err == nil {
			out.VenueLatitude = lat
		}
		if lon, err := strconv.ParseFloat(ev.Venue.Longitude, 64); err == nil {
			out.VenueLongitude = lon
		}
	} else {
		out.VenueName = "Online Event"
	}
	out.AccessibilityNotes = ExtractAccessibilityInfo(out.Description, out.VenueName+" "+out.VenueAddress)
	return out, nil
}

func parseWhen(w rawWhen) (time.Time, bool) {
	if w.UTC != "" {
		if t, err := time.Parse(time.RFC3339, w.UTC); err == nil {
			return t, true
		}
	}
	if w.Local != "" {
		if t, err := time.Parse("2006-01-02T15:04:05", w.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (c *Eventbrite) getJSON(ctx context.Context, path string, query url.Values, key string, out any) error {
	if payload, ok := c.cache.Get(ctx, key); ok {
		if err := json.Unmarshal(payload, out); err == nil {
			return nil
		}
		c.log.Warn("discarding undecodable cache entry", zap.String("key", key))
	}

	raw, err := c.fetch(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return eris.Wrap(err, "eventbrite: parse response")
	}
	c.cache.Set(ctx, key, raw, c.searchTTL)
	return nil
}

func (c *Eventbrite) fetch(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "eventbrite: rate limit")
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "eventbrite: build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "eventbrite: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, eris.New("eventbrite: authentication failed")
	case http.StatusNotFound:
		return nil, eris.New("eventbrite: endpoint not found")
	default:
		return nil, eris.Errorf("eventbrite: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "eventbrite: read body")
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func joinAddress(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}
