package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/accessible-outings/outings/internal/aggregator"
	"github.com/accessible-outings/outings/internal/cache"
	"github.com/accessible-outings/outings/internal/discovery"
	"github.com/accessible-outings/outings/internal/scoring"
	"github.com/accessible-outings/outings/internal/store"
	"github.com/accessible-outings/outings/internal/tagging"
	"github.com/accessible-outings/outings/pkg/events"
	"github.com/accessible-outings/outings/pkg/geocode"
	"github.com/accessible-outings/outings/pkg/places"
)

// appEnv holds the initialized store, clients, and engines shared by the
// discover/events/serve commands.
type appEnv struct {
	Store      store.Store
	Places     *places.Client
	Geocoder   *geocode.Client
	Engine     *discovery.Engine
	Aggregator *aggregator.Aggregator
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.SQLitePath)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initEnv sets up the store, provider clients, scorers, and both engines.
// Callers should defer env.Close().
func initEnv(ctx context.Context) (*appEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	apiCache := cache.NewStoreBacked(st)

	rules := tagging.DefaultRules()
	if cfg.Tagging.RulesPath != "" {
		loaded, err := tagging.LoadRules(cfg.Tagging.RulesPath)
		if err != nil {
			zap.L().Warn("tagging rules unreadable, using defaults",
				zap.String("path", cfg.Tagging.RulesPath), zap.Error(err))
		}
		rules = loaded
	}
	tagger := tagging.New(rules)

	access := scoring.NewAccessibilityScorer(cfg.Scoring.Accessibility)
	interest := scoring.NewInterestingnessScorer(cfg.Scoring.Interestingness, tagger)

	placesClient := places.NewClient(cfg.Places.Key,
		places.WithCache(apiCache),
		places.WithRateLimit(cfg.Places.RateLimit),
		places.WithSearchTTL(time.Duration(cfg.Places.SearchTTLHours)*time.Hour),
		places.WithDetailsTTL(time.Duration(cfg.Places.DetailsTTLHours)*time.Hour),
	)
	geocoder := geocode.NewClient(cfg.Geocode.Key, geocode.WithCache(apiCache))

	engine := discovery.NewEngine(st, placesClient, tagger, access, interest,
		discovery.WithFreshnessWindow(time.Duration(cfg.Discovery.FreshnessDays)*24*time.Hour))

	providers := []events.Provider{
		events.NewEventbrite(cfg.Eventbrite.Token, events.WithEventbriteCache(apiCache)),
	}
	agg := aggregator.New(st, providers)

	return &appEnv{
		Store:      st,
		Places:     placesClient,
		Geocoder:   geocoder,
		Engine:     engine,
		Aggregator: agg,
	}, nil
}
