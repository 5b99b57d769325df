package store

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/accessible-outings/outings/internal/db"
	"github.com/accessible-outings/outings/internal/geo"
	"github.com/accessible-outings/outings/internal/model"
)

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
	now     func() time.Time
}

// PostgresOption configures a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithPostgresClock overrides the time source.
func WithPostgresClock(now func() time.Time) PostgresOption {
	return func(s *PostgresStore) {
		s.now = now
	}
}

// NewPostgres connects to the given DSN.
func NewPostgres(ctx context.Context, dsn string, opts ...PostgresOption) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	s := &PostgresStore{pool: pool, closeFn: pool.Close, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewPostgresWithPool wraps an existing pool, used by tests with pgxmock.
func NewPostgresWithPool(pool db.Pool, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{pool: pool, closeFn: func() {}, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS venues (
	id                    UUID PRIMARY KEY,
	provider              TEXT NOT NULL DEFAULT '',
	external_id           TEXT NOT NULL DEFAULT '',
	name                  TEXT NOT NULL,
	address               TEXT NOT NULL DEFAULT '',
	city                  TEXT NOT NULL DEFAULT '',
	state                 TEXT NOT NULL DEFAULT '',
	zip_code              TEXT NOT NULL DEFAULT '',
	phone                 TEXT NOT NULL DEFAULT '',
	website               TEXT NOT NULL DEFAULT '',
	latitude              DOUBLE PRECISION,
	longitude             DOUBLE PRECISION,
	category              TEXT NOT NULL DEFAULT 'unknown',
	rating                DOUBLE PRECISION,
	wheelchair_accessible BOOLEAN NOT NULL DEFAULT FALSE,
	accessible_parking    BOOLEAN NOT NULL DEFAULT FALSE,
	accessible_restroom   BOOLEAN NOT NULL DEFAULT FALSE,
	elevator_access       BOOLEAN NOT NULL DEFAULT FALSE,
	wide_doorways         BOOLEAN NOT NULL DEFAULT FALSE,
	ramp_access           BOOLEAN NOT NULL DEFAULT FALSE,
	accessible_seating    BOOLEAN NOT NULL DEFAULT FALSE,
	accessibility_notes   TEXT NOT NULL DEFAULT '',
	verified_accessible   BOOLEAN NOT NULL DEFAULT FALSE,
	experience_tags       JSONB NOT NULL DEFAULT '[]',
	accessibility_score   DOUBLE PRECISION NOT NULL DEFAULT 0,
	interestingness_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	event_frequency_score INTEGER NOT NULL DEFAULT 0,
	needs_enrichment      BOOLEAN NOT NULL DEFAULT FALSE,
	created_at            TIMESTAMPTZ NOT NULL,
	last_updated          TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_venues_provider_external
	ON venues(provider, external_id) WHERE external_id != '';
CREATE INDEX IF NOT EXISTS idx_venues_name ON venues(name);
CREATE INDEX IF NOT EXISTS idx_venues_latlon ON venues(latitude, longitude);

CREATE TABLE IF NOT EXISTS events (
	id                    UUID PRIMARY KEY,
	external_id           TEXT NOT NULL DEFAULT '',
	source                TEXT NOT NULL DEFAULT '',
	title                 TEXT NOT NULL,
	description           TEXT NOT NULL DEFAULT '',
	start_date            TIMESTAMPTZ NOT NULL,
	start_time            TEXT NOT NULL DEFAULT '',
	end_date              TIMESTAMPTZ,
	end_time              TEXT NOT NULL DEFAULT '',
	venue_id              UUID NOT NULL REFERENCES venues(id),
	cost                  TEXT NOT NULL DEFAULT '',
	registration_url      TEXT NOT NULL DEFAULT '',
	max_participants      INTEGER NOT NULL DEFAULT 0,
	is_fun                BOOLEAN NOT NULL DEFAULT FALSE,
	is_interesting        BOOLEAN NOT NULL DEFAULT FALSE,
	is_off_beat           BOOLEAN NOT NULL DEFAULT FALSE,
	wheelchair_accessible BOOLEAN NOT NULL DEFAULT FALSE,
	accessibility_notes   TEXT NOT NULL DEFAULT '',
	verification_status   TEXT NOT NULL DEFAULT 'unverified',
	last_verified         TIMESTAMPTZ,
	raw_payload           JSONB,
	created_at            TIMESTAMPTZ NOT NULL,
	updated_at            TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_events_source_external
	ON events(source, external_id) WHERE external_id != '';
CREATE INDEX IF NOT EXISTS idx_events_start_date ON events(start_date);
CREATE INDEX IF NOT EXISTS idx_events_venue_id ON events(venue_id);

CREATE TABLE IF NOT EXISTS reviews (
	id                   UUID PRIMARY KEY,
	venue_id             UUID NOT NULL REFERENCES venues(id),
	overall_rating       DOUBLE PRECISION,
	accessibility_rating DOUBLE PRECISION,
	review_text          TEXT NOT NULL DEFAULT '',
	accessibility_notes  TEXT NOT NULL DEFAULT '',
	created_at           TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reviews_venue_id ON reviews(venue_id);

CREATE TABLE IF NOT EXISTS api_cache (
	cache_key  TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_api_cache_expires_at ON api_cache(expires_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.closeFn()
	return nil
}

func (s *PostgresStore) UpsertVenue(ctx context.Context, v *model.Venue) error {
	now := s.now().UTC()
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	v.LastUpdated = now

	tags, err := json.Marshal(v.ExperienceTags)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal experience tags")
	}

	query := `INSERT INTO venues (` + venueColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30)`
	if v.ExternalID != "" {
		query += `
		ON CONFLICT (provider, external_id) WHERE external_id != '' DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip_code = EXCLUDED.zip_code,
			phone = EXCLUDED.phone,
			website = EXCLUDED.website,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			category = EXCLUDED.category,
			rating = EXCLUDED.rating,
			wheelchair_accessible = EXCLUDED.wheelchair_accessible,
			accessible_parking = EXCLUDED.accessible_parking,
			accessible_restroom = EXCLUDED.accessible_restroom,
			elevator_access = EXCLUDED.elevator_access,
			wide_doorways = EXCLUDED.wide_doorways,
			ramp_access = EXCLUDED.ramp_access,
			accessible_seating = EXCLUDED.accessible_seating,
			accessibility_notes = EXCLUDED.accessibility_notes,
			verified_accessible = EXCLUDED.verified_accessible,
			experience_tags = EXCLUDED.experience_tags,
			accessibility_score = EXCLUDED.accessibility_score,
			interestingness_score = EXCLUDED.interestingness_score,
			event_frequency_score = EXCLUDED.event_frequency_score,
			needs_enrichment = EXCLUDED.needs_enrichment,
			last_updated = EXCLUDED.last_updated`
	} else {
		query += `
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip_code = EXCLUDED.zip_code,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			category = EXCLUDED.category,
			rating = EXCLUDED.rating,
			wheelchair_accessible = EXCLUDED.wheelchair_accessible,
			accessibility_notes = EXCLUDED.accessibility_notes,
			experience_tags = EXCLUDED.experience_tags,
			accessibility_score = EXCLUDED.accessibility_score,
			interestingness_score = EXCLUDED.interestingness_score,
			event_frequency_score = EXCLUDED.event_frequency_score,
			needs_enrichment = EXCLUDED.needs_enrichment,
			last_updated = EXCLUDED.last_updated`
	}
	query += ` RETURNING id`

	row := s.pool.QueryRow(ctx, query,
		v.ID, v.Provider, v.ExternalID, v.Name, v.Address, v.City, v.State, v.ZipCode,
		v.Phone, v.Website, nullFloat(v.Latitude), nullFloat(v.Longitude), v.Category.String(), v.Rating,
		v.Accessibility.WheelchairAccessible, v.Accessibility.AccessibleParking,
		v.Accessibility.AccessibleRestroom, v.Accessibility.ElevatorAccess,
		v.Accessibility.WideDoorways, v.Accessibility.RampAccess, v.Accessibility.AccessibleSeating,
		v.AccessibilityNotes, v.VerifiedAccessible,
		string(tags), v.AccessibilityScore, v.Interestingness, v.EventFrequencyScore,
		v.NeedsEnrichment, v.CreatedAt, v.LastUpdated,
	)
	if err := row.Scan(&v.ID); err != nil {
		return eris.Wrapf(err, "postgres: upsert venue %s", v.Name)
	}
	return nil
}

func (s *PostgresStore) GetVenue(ctx context.Context, id string) (*model.Venue, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+venueColumns+` FROM venues WHERE id = $1`, id)
	return scanPgVenue(row)
}

func (s *PostgresStore) FindVenueByExternalID(ctx context.Context, provider, externalID string) (*model.Venue, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+venueColumns+` FROM venues WHERE provider = $1 AND external_id = $2 AND external_id != ''`,
		provider, externalID)
	return scanPgVenue(row)
}

func (s *PostgresStore) FindVenueByName(ctx context.Context, name string) (*model.Venue, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+venueColumns+` FROM venues WHERE LOWER(name) = LOWER($1) ORDER BY created_at LIMIT 1`,
		name)
	return scanPgVenue(row)
}

func (s *PostgresStore) QueryVenuesInBBox(ctx context.Context, box geo.BBox, filter VenueFilter) ([]model.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues
		WHERE latitude BETWEEN $1 AND $2 AND longitude BETWEEN $3 AND $4`
	args := []any{box.MinLat, box.MaxLat, box.MinLon, box.MaxLon}

	if filter.Category != model.CategoryUnknown {
		args = append(args, filter.Category.String())
		query += ` AND category = $5`
	}
	if filter.WheelchairOnly {
		query += ` AND wheelchair_accessible`
	}
	query += ` ORDER BY interestingness_score DESC, name`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query venues in bbox")
	}
	defer rows.Close()

	var venues []model.Venue
	for rows.Next() {
		v, err := scanPgVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, *v)
	}
	return venues, eris.Wrap(rows.Err(), "postgres: iterate venues")
}

func (s *PostgresStore) ListVenues(ctx context.Context) ([]model.Venue, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+venueColumns+` FROM venues ORDER BY name, id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list venues")
	}
	defer rows.Close()

	var venues []model.Venue
	for rows.Next() {
		v, err := scanPgVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, *v)
	}
	return venues, eris.Wrap(rows.Err(), "postgres: iterate venues")
}

func (s *PostgresStore) AddReview(ctx context.Context, r *model.Review) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO reviews (id, venue_id, overall_rating, accessibility_rating, review_text, accessibility_notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.VenueID, r.OverallRating, r.AccessibilityRating, r.Text, r.AccessibilityNotes, r.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: insert review for venue %s", r.VenueID)
}

func (s *PostgresStore) ListReviews(ctx context.Context, venueID string) ([]model.Review, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, venue_id, overall_rating, accessibility_rating, review_text, accessibility_notes, created_at
		 FROM reviews WHERE venue_id = $1 ORDER BY created_at`,
		venueID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list reviews")
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var r model.Review
		if err := rows.Scan(&r.ID, &r.VenueID, &r.OverallRating, &r.AccessibilityRating,
			&r.Text, &r.AccessibilityNotes, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan review")
		}
		reviews = append(reviews, r)
	}
	return reviews, eris.Wrap(rows.Err(), "postgres: iterate reviews")
}

func (s *PostgresStore) UpsertEvent(ctx context.Context, e *model.Event) error {
	now := s.now().UTC()
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	query := `INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23)`
	if e.ExternalID != "" {
		query += `
		ON CONFLICT (source, external_id) WHERE external_id != '' DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			start_date = EXCLUDED.start_date,
			start_time = EXCLUDED.start_time,
			end_date = EXCLUDED.end_date,
			end_time = EXCLUDED.end_time,
			cost = EXCLUDED.cost,
			registration_url = EXCLUDED.registration_url,
			max_participants = EXCLUDED.max_participants,
			is_fun = EXCLUDED.is_fun,
			is_interesting = EXCLUDED.is_interesting,
			is_off_beat = EXCLUDED.is_off_beat,
			accessibility_notes = EXCLUDED.accessibility_notes,
			verification_status = EXCLUDED.verification_status,
			last_verified = EXCLUDED.last_verified,
			raw_payload = EXCLUDED.raw_payload,
			updated_at = EXCLUDED.updated_at`
	} else {
		query += `
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			start_date = EXCLUDED.start_date,
			start_time = EXCLUDED.start_time,
			end_date = EXCLUDED.end_date,
			end_time = EXCLUDED.end_time,
			cost = EXCLUDED.cost,
			updated_at = EXCLUDED.updated_at`
	}
	query += ` RETURNING id`

	row := s.pool.QueryRow(ctx, query,
		e.ID, e.ExternalID, e.Source, e.Title, e.Description, e.StartDate, e.StartTime,
		nullTime(e.EndDate), e.EndTime, e.VenueID, e.Cost, e.RegistrationURL, e.MaxParticipants,
		e.Types.Fun, e.Types.Interesting, e.Types.OffBeat, e.WheelchairAccessible, e.AccessibilityNotes,
		string(e.Verification), nullTime(e.LastVerified), nullRaw(e.RawPayload), e.CreatedAt, e.UpdatedAt,
	)
	if err := row.Scan(&e.ID); err != nil {
		return eris.Wrapf(err, "postgres: upsert event %s", e.Title)
	}
	return nil
}

func (s *PostgresStore) FindEventBySource(ctx context.Context, source, externalID string) (*model.Event, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE source = $1 AND external_id = $2 AND external_id != ''`,
		source, externalID)
	return scanPgEvent(row)
}

func (s *PostgresStore) SearchEvents(ctx context.Context, filter EventFilter) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE TRUE`
	var args []any

	if !filter.Start.IsZero() {
		args = append(args, filter.Start)
		query += ` AND start_date >= $` + strconv.Itoa(len(args))
	}
	if !filter.End.IsZero() {
		args = append(args, filter.End)
		query += ` AND start_date <= $` + strconv.Itoa(len(args))
	}
	if len(filter.Types) > 0 {
		var conds []string
		for _, t := range filter.Types {
			switch t {
			case "fun":
				conds = append(conds, "is_fun")
			case "interesting":
				conds = append(conds, "is_interesting")
			case "off_beat":
				conds = append(conds, "is_off_beat")
			}
		}
		if len(conds) > 0 {
			query += ` AND (` + strings.Join(conds, " OR ") + `)`
		}
	}
	if len(filter.VenueIDs) > 0 {
		args = append(args, filter.VenueIDs)
		query += ` AND venue_id = ANY($` + strconv.Itoa(len(args)) + `)`
	}
	query += ` ORDER BY start_date, start_time, id`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: search events")
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanPgEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, eris.Wrap(rows.Err(), "postgres: iterate events")
}

func (s *PostgresStore) GetCacheEntry(ctx context.Context, key string) (json.RawMessage, error) {
	now := s.now().UTC()
	row := s.pool.QueryRow(ctx,
		`SELECT payload, expires_at FROM api_cache WHERE cache_key = $1`, key)

	var payload []byte
	var expiresAt time.Time
	err := row.Scan(&payload, &expiresAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get cache entry")
	}
	if !now.Before(expiresAt) {
		if _, err := s.pool.Exec(ctx, `DELETE FROM api_cache WHERE cache_key = $1`, key); err != nil {
			return nil, eris.Wrap(err, "postgres: purge expired cache entry")
		}
		return nil, nil
	}
	return json.RawMessage(payload), nil
}

func (s *PostgresStore) SetCacheEntry(ctx context.Context, key string, payload json.RawMessage, ttl time.Duration) error {
	now := s.now().UTC()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO api_cache (cache_key, payload, expires_at, created_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (cache_key) DO UPDATE SET
			payload = EXCLUDED.payload,
			expires_at = EXCLUDED.expires_at,
			created_at = EXCLUDED.created_at`,
		key, string(payload), now.Add(ttl), now,
	)
	return eris.Wrap(err, "postgres: set cache entry")
}

func (s *PostgresStore) DeleteExpiredCacheEntries(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM api_cache WHERE expires_at <= $1`, s.now().UTC())
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired cache entries")
	}
	return int(tag.RowsAffected()), nil
}

func scanPgVenue(row scannable) (*model.Venue, error) {
	var v model.Venue
	var lat, lon *float64
	var tagsJSON []byte
	var category string

	err := row.Scan(
		&v.ID, &v.Provider, &v.ExternalID, &v.Name, &v.Address, &v.City, &v.State, &v.ZipCode,
		&v.Phone, &v.Website, &lat, &lon, &category, &v.Rating,
		&v.Accessibility.WheelchairAccessible, &v.Accessibility.AccessibleParking,
		&v.Accessibility.AccessibleRestroom, &v.Accessibility.ElevatorAccess,
		&v.Accessibility.WideDoorways, &v.Accessibility.RampAccess, &v.Accessibility.AccessibleSeating,
		&v.AccessibilityNotes, &v.VerifiedAccessible,
		&tagsJSON, &v.AccessibilityScore, &v.Interestingness, &v.EventFrequencyScore,
		&v.NeedsEnrichment, &v.CreatedAt, &v.LastUpdated,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan venue")
	}

	if lat != nil {
		v.Latitude = *lat
	}
	if lon != nil {
		v.Longitude = *lon
	}
	v.Category = model.ParseCategory(category)
	if err := json.Unmarshal(tagsJSON, &v.ExperienceTags); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal experience tags")
	}
	return &v, nil
}

func scanPgEvent(row scannable) (*model.Event, error) {
	var e model.Event
	var endDate, lastVerified *time.Time
	var rawPayload []byte
	var status string

	err := row.Scan(
		&e.ID, &e.ExternalID, &e.Source, &e.Title, &e.Description, &e.StartDate, &e.StartTime,
		&endDate, &e.EndTime, &e.VenueID, &e.Cost, &e.RegistrationURL, &e.MaxParticipants,
		&e.Types.Fun, &e.Types.Interesting, &e.Types.OffBeat, &e.WheelchairAccessible, &e.AccessibilityNotes,
		&status, &lastVerified, &rawPayload, &e.CreatedAt, &e.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan event")
	}

	if endDate != nil {
		e.EndDate = *endDate
	}
	if lastVerified != nil {
		e.LastVerified = *lastVerified
	}
	if len(rawPayload) > 0 {
		e.RawPayload = json.RawMessage(rawPayload)
	}
	e.Verification = model.VerificationStatus(status)
	return &e, nil
}
