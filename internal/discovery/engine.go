// Package discovery drives venue search: provider query, dedup against the
// store, stale-detail refresh, scoring, filtering, and the ranking sort.
package discovery

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/accessible-outings/outings/internal/geo"
	"github.com/accessible-outings/outings/internal/model"
	"github.com/accessible-outings/outings/internal/scoring"
	"github.com/accessible-outings/outings/internal/store"
	"github.com/accessible-outings/outings/internal/tagging"
	"github.com/accessible-outings/outings/pkg/places"
)

// Stored details older than this are re-fetched from the provider.
const defaultFreshnessWindow = 7 * 24 * time.Hour

// VenueProvider is the slice of the places client the engine drives.
// *places.Client satisfies it; tests substitute a fake.
type VenueProvider interface {
	Name() string
	Available() bool
	SearchNearby(ctx context.Context, pt geo.Point, radiusMiles float64, keyword string) []places.Place
	SearchByKeywords(ctx context.Context, pt geo.Point, radiusMiles float64, keywords []string) []places.Place
	GetDetails(ctx context.Context, placeID string) *places.Place
	Venue(p *places.Place) model.Venue
}

// Request is one discovery search.
type Request struct {
	Center         geo.Point
	RadiusMiles    float64
	Category       model.Category
	WheelchairOnly bool
	Limit          int
}

// Result pairs a venue with its distance from the query point.
type Result struct {
	Venue         model.Venue
	DistanceMiles float64
}

// Option configures the engine.
type Option func(*Engine)

// WithFreshnessWindow overrides how old stored details may be before a
// provider refresh.
func WithFreshnessWindow(d time.Duration) Option {
	return func(e *Engine) {
		e.freshness = d
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine orchestrates venue discovery.
type Engine struct {
	store     store.Store
	provider  VenueProvider
	tagger    *tagging.Tagger
	access    *scoring.AccessibilityScorer
	interest  *scoring.InterestingnessScorer
	freshness time.Duration
	now       func() time.Time
	log       *zap.Logger
}

// NewEngine wires the discovery engine.
func NewEngine(st store.Store, provider VenueProvider, tagger *tagging.Tagger,
	access *scoring.AccessibilityScorer, interest *scoring.InterestingnessScorer, opts ...Option) *Engine {
	e := &Engine{
		store:     st,
		provider:  provider,
		tagger:    tagger,
		access:    access,
		interest:  interest,
		freshness: defaultFreshnessWindow,
		now:       time.Now,
		log:       zap.L().With(zap.String("component", "discovery")),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Discover runs one search request end to end. A provider outage degrades
// to whatever the store already holds for the area; per-record failures
// skip that record and continue the batch. The returned slice is sorted by
// interestingness descending with distance from the query point breaking
// ties.
func (e *Engine) Discover(ctx context.Context, req Request) ([]Result, error) {
	byID := map[string]model.Venue{}

	if e.provider.Available() {
		for _, place := range e.searchProvider(ctx, req) {
			venue, err := e.resolvePlace(ctx, &place)
			if err != nil {
				e.log.Warn("skipping venue",
					zap.String("external_id", place.PlaceID),
					zap.String("name", place.Name),
					zap.Error(err))
				continue
			}
			byID[venue.ID] = *venue
		}
	} else {
		e.log.Warn("venue provider unavailable, serving store only",
			zap.String("provider", e.provider.Name()))
	}

	// Stored venues in range supplement the provider results, and carry the
	// whole response when the provider had nothing.
	box := geo.BoundingBox(req.Center, req.RadiusMiles)
	stored, err := e.store.QueryVenuesInBBox(ctx, box, store.VenueFilter{})
	if err != nil {
		e.log.Warn("store bbox query failed", zap.Error(err))
	}
	for _, v := range stored {
		if _, ok := byID[v.ID]; !ok {
			byID[v.ID] = v
		}
	}

	results := make([]Result, 0, len(byID))
	for _, v := range byID {
		if req.WheelchairOnly && !v.Accessibility.WheelchairAccessible {
			continue
		}
		if req.Category != model.CategoryUnknown && v.Category != req.Category {
			continue
		}
		pt := geo.Point{Lat: v.Latitude, Lon: v.Longitude}
		if !geo.WithinRadius(req.Center, pt, req.RadiusMiles) {
			continue
		}
		results = append(results, Result{
			Venue:         v,
			DistanceMiles: geo.DistanceMiles(req.Center, pt),
		})
	}

	// Interestingness wins ties over proximity. Venue ID is the final
	// tiebreak so ordering never depends on provider completion order.
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Venue.Interestingness != b.Venue.Interestingness {
			return a.Venue.Interestingness > b.Venue.Interestingness
		}
		if a.DistanceMiles != b.DistanceMiles {
			return a.DistanceMiles < b.DistanceMiles
		}
		return a.Venue.ID < b.Venue.ID
	})

	if req.Limit > 0 && len(results) > req.Limit {
		results = results[:req.Limit]
	}
	return results, nil
}

func (e *Engine) searchProvider(ctx context.Context, req Request) []places.Place {
	if req.Category != model.CategoryUnknown {
		return e.provider.SearchByKeywords(ctx, req.Center, req.RadiusMiles, req.Category.SearchKeywords())
	}
	return e.provider.SearchNearby(ctx, req.Center, req.RadiusMiles, "")
}

// resolvePlace dedups a raw provider record against the store, refreshing
// stale details. Fresh stored records are returned as-is; stale or new ones
// pull full details (falling back to the summary when the detail call
// yields nothing), get rescored, and are upserted. The identity key is
// never overwritten on refresh.
func (e *Engine) resolvePlace(ctx context.Context, place *places.Place) (*model.Venue, error) {
	existing, err := e.store.FindVenueByExternalID(ctx, e.provider.Name(), place.PlaceID)
	if err != nil {
		return nil, err
	}
	if existing != nil && !existing.Stale(e.now(), e.freshness) {
		return existing, nil
	}

	detail := e.provider.GetDetails(ctx, place.PlaceID)
	if detail == nil {
		detail = place
	}
	venue := e.provider.Venue(detail)

	if existing != nil {
		venue.ID = existing.ID
		venue.CreatedAt = existing.CreatedAt
		venue.VerifiedAccessible = existing.VerifiedAccessible
		venue.EventFrequencyScore = existing.EventFrequencyScore
		if venue.Category == model.CategoryUnknown {
			venue.Category = existing.Category
		}
	}

	e.Score(&venue, detail.Types, providerReviews(detail))

	if err := e.store.UpsertVenue(ctx, &venue); err != nil {
		return nil, err
	}
	return &venue, nil
}

// Score recomputes a venue's tags and both scores in place.
func (e *Engine) Score(v *model.Venue, providerTypes []string, reviews []model.Review) {
	in := model.ScoreInputs{
		Flags:         v.Accessibility,
		Verified:      v.VerifiedAccessible,
		Category:      v.Category,
		Rating:        v.Rating,
		EventFreq:     v.EventFrequencyScore,
		Reviews:       reviews,
		ProviderTypes: providerTypes,
		Name:          v.Name,
	}
	v.ExperienceTags = e.tagger.Tag(in)
	in.Tags = v.ExperienceTags
	v.AccessibilityScore = e.access.Score(in)
	v.Interestingness = e.interest.Score(in)
}

func providerReviews(p *places.Place) []model.Review {
	reviews := make([]model.Review, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		rating := r.Rating
		reviews = append(reviews, model.Review{
			OverallRating: &rating,
			Text:          r.Text,
		})
	}
	return reviews
}
