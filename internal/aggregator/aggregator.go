// Package aggregator merges stored events with freshly fetched provider
// events: store-first lookup, provider fan-out when the store runs thin,
// dedup by (source, external id), venue stub creation, and type
// classification.
package aggregator

import (
	"context"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/accessible-outings/outings/internal/model"
	"github.com/accessible-outings/outings/internal/store"
	"github.com/accessible-outings/outings/pkg/events"
)

const defaultMaxResults = 50

// Cost shown when a provider reports none.
const defaultCost = "Check website"

// Request is one event search-and-sync pass.
type Request struct {
	Location    string // free-form address or ZIP handed to providers
	Start       time.Time
	End         time.Time
	RadiusMiles float64
	Types       []string // "fun", "interesting", "off_beat"; OR semantics
	VenueIDs    []string
	MaxResults  int
}

// ProviderStatus reports one provider's health.
type ProviderStatus struct {
	Name             string `json:"name"`
	Active           bool   `json:"active"`
	CredentialsValid bool   `json:"credentials_valid"`
}

// Option configures the aggregator.
type Option func(*Aggregator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// Aggregator syncs provider events into the store and serves merged,
// filtered event lists.
type Aggregator struct {
	store     store.Store
	providers []events.Provider
	now       func() time.Time
	log       *zap.Logger
}

// New wires the aggregator over a store and a set of event providers.
func New(st store.Store, providers []events.Provider, opts ...Option) *Aggregator {
	a := &Aggregator{
		store:     st,
		providers: providers,
		now:       time.Now,
		log:       zap.L().With(zap.String("component", "aggregator")),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SearchAndSync queries the store for events in the window, supplements
// from providers when the store holds fewer than half the requested
// maximum, and returns the merged, filtered, chronologically sorted list.
// Provider failures are isolated per provider; a bad record skips that
// record only. Partial results are returned, never discarded.
func (a *Aggregator) SearchAndSync(ctx context.Context, req Request) ([]model.Event, error) {
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	stored, err := a.store.SearchEvents(ctx, store.EventFilter{
		Start:    req.Start,
		End:      req.End,
		Types:    req.Types,
		VenueIDs: req.VenueIDs,
	})
	if err != nil {
		return nil, eris.Wrap(err, "aggregator: search stored events")
	}
	a.log.Debug("stored events in range", zap.Int("count", len(stored)))

	merged := stored
	if len(stored) < maxResults/2 {
		byID := make(map[string]int, len(stored))
		for i, e := range stored {
			byID[e.ID] = i
		}
		for _, e := range a.syncProviders(ctx, req, maxResults) {
			if !e.MatchesTypes(req.Types) || !venueMatches(&e, req.VenueIDs) {
				continue
			}
			// A sync may have refreshed a record the store query already
			// returned; the synced copy wins.
			if i, ok := byID[e.ID]; ok {
				merged[i] = e
				continue
			}
			byID[e.ID] = len(merged)
			merged = append(merged, e)
		}
	}

	// Same ordering SearchEvents uses, restored after the merge so results
	// never depend on provider completion order.
	sort.Slice(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID < b.ID
	})

	if len(merged) > maxResults {
		merged = merged[:maxResults]
	}
	return merged, nil
}

// ProviderStatus reports each configured provider's availability and
// whether its credentials currently work.
func (a *Aggregator) ProviderStatus(ctx context.Context) []ProviderStatus {
	out := make([]ProviderStatus, 0, len(a.providers))
	for _, p := range a.providers {
		s := ProviderStatus{Name: p.Name(), Active: p.Available()}
		if s.Active {
			s.CredentialsValid = p.ValidateCredentials(ctx)
		}
		out = append(out, s)
	}
	return out
}

// syncProviders fans the search out across providers and syncs every
// fetched event into the store. Results are collected per provider slot so
// the merge order never depends on which call finished first.
func (a *Aggregator) syncProviders(ctx context.Context, req Request, maxResults int) []model.Event {
	params := events.SearchParams{
		Location:    req.Location,
		Start:       req.Start,
		End:         req.End,
		RadiusMiles: req.RadiusMiles,
		MaxResults:  maxResults,
	}

	fetched := make([][]events.EventData, len(a.providers))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range a.providers {
		if !p.Available() {
			a.log.Warn("event provider unavailable", zap.String("provider", p.Name()))
			continue
		}
		g.Go(func() error {
			fetched[i] = p.SearchEvents(gctx, params)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.log.Warn("provider fan-out interrupted", zap.Error(err))
	}

	var out []model.Event
	for i, batch := range fetched {
		if len(batch) > 0 {
			a.log.Info("fetched provider events",
				zap.String("provider", a.providers[i].Name()),
				zap.Int("count", len(batch)))
		}
		for _, raw := range batch {
			event, err := a.syncEvent(ctx, &raw)
			if err != nil {
				a.log.Warn("skipping event",
					zap.String("source", raw.Source),
					zap.String("external_id", raw.ExternalID),
					zap.Error(err))
				continue
			}
			out = append(out, *event)
		}
	}
	return out
}

// syncEvent upserts one fetched event. A re-sighting of a known
// (source, external id) pair updates the mutable fields and refreshes the
// verification stamp; its identity, venue link, and type flags stay put. A
// new event first resolves its venue, then is classified and inserted.
func (a *Aggregator) syncEvent(ctx context.Context, raw *events.EventData) (*model.Event, error) {
	existing, err := a.store.FindEventBySource(ctx, raw.Source, raw.ExternalID)
	if err != nil {
		return nil, err
	}
	now := a.now().UTC()

	if existing != nil {
		existing.Title = raw.Title
		existing.Description = raw.Description
		existing.Cost = costOrDefault(raw.Cost)
		existing.RegistrationURL = raw.RegistrationURL
		existing.MaxParticipants = raw.MaxParticipants
		existing.AccessibilityNotes = raw.AccessibilityNotes
		existing.Verification = model.VerificationVerified
		existing.LastVerified = now
		existing.RawPayload = raw.RawPayload
		if err := a.store.UpsertEvent(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	venue, err := a.resolveVenue(ctx, raw)
	if err != nil {
		return nil, err
	}

	event := &model.Event{
		ExternalID:           raw.ExternalID,
		Source:               raw.Source,
		Title:                raw.Title,
		Description:          raw.Description,
		StartDate:            raw.StartDate,
		StartTime:            raw.StartTime,
		EndDate:              raw.EndDate,
		EndTime:              raw.EndTime,
		VenueID:              venue.ID,
		Cost:                 costOrDefault(raw.Cost),
		RegistrationURL:      raw.RegistrationURL,
		MaxParticipants:      raw.MaxParticipants,
		Types:                Classify(raw.Title, raw.Description),
		WheelchairAccessible: venue.Accessibility.WheelchairAccessible,
		AccessibilityNotes:   raw.AccessibilityNotes,
		Verification:         model.VerificationVerified,
		LastVerified:         now,
		RawPayload:           raw.RawPayload,
	}
	if err := a.store.UpsertEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// resolveVenue matches the event's venue by name, backfilling coordinates
// the stored record lacks. With no match it creates a stub: unknown
// category, permissive wheelchair default, flagged for enrichment.
func (a *Aggregator) resolveVenue(ctx context.Context, raw *events.EventData) (*model.Venue, error) {
	if raw.VenueName != "" {
		venue, err := a.store.FindVenueByName(ctx, raw.VenueName)
		if err != nil {
			return nil, err
		}
		if venue != nil {
			if venue.Latitude == 0 && venue.Longitude == 0 &&
				(raw.VenueLatitude != 0 || raw.VenueLongitude != 0) {
				venue.Latitude = raw.VenueLatitude
				venue.Longitude = raw.VenueLongitude
				if err := a.store.UpsertVenue(ctx, venue); err != nil {
					return nil, err
				}
			}
			return venue, nil
		}
	}

	name := raw.VenueName
	if name == "" {
		name = raw.VenueAddress
	}
	stub := &model.Venue{
		Name:      name,
		Address:   raw.VenueAddress,
		Latitude:  raw.VenueLatitude,
		Longitude: raw.VenueLongitude,
		Category:  model.CategoryUnknown,
		Accessibility: model.AccessibilityFlags{
			WheelchairAccessible: true,
		},
		NeedsEnrichment: true,
	}
	if err := a.store.UpsertVenue(ctx, stub); err != nil {
		return nil, err
	}
	a.log.Info("created stub venue", zap.String("name", stub.Name), zap.String("id", stub.ID))
	return stub, nil
}

func venueMatches(e *model.Event, venueIDs []string) bool {
	if len(venueIDs) == 0 {
		return true
	}
	for _, id := range venueIDs {
		if e.VenueID == id {
			return true
		}
	}
	return false
}

func costOrDefault(cost string) string {
	if cost == "" {
		return defaultCost
	}
	return cost
}
