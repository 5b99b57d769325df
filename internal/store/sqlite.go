package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/accessible-outings/outings/internal/geo"
	"github.com/accessible-outings/outings/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// SQLiteOption configures a SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithSQLiteClock overrides the time source, used by tests for TTL behavior.
func WithSQLiteClock(now func() time.Time) SQLiteOption {
	return func(s *SQLiteStore) {
		s.now = now
	}
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string, opts ...SQLiteOption) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	s := &SQLiteStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS venues (
	id                    TEXT PRIMARY KEY,
	provider              TEXT NOT NULL DEFAULT '',
	external_id           TEXT NOT NULL DEFAULT '',
	name                  TEXT NOT NULL,
	address               TEXT NOT NULL DEFAULT '',
	city                  TEXT NOT NULL DEFAULT '',
	state                 TEXT NOT NULL DEFAULT '',
	zip_code              TEXT NOT NULL DEFAULT '',
	phone                 TEXT NOT NULL DEFAULT '',
	website               TEXT NOT NULL DEFAULT '',
	latitude              REAL,
	longitude             REAL,
	category              TEXT NOT NULL DEFAULT 'unknown',
	rating                REAL,
	wheelchair_accessible INTEGER NOT NULL DEFAULT 0,
	accessible_parking    INTEGER NOT NULL DEFAULT 0,
	accessible_restroom   INTEGER NOT NULL DEFAULT 0,
	elevator_access       INTEGER NOT NULL DEFAULT 0,
	wide_doorways         INTEGER NOT NULL DEFAULT 0,
	ramp_access           INTEGER NOT NULL DEFAULT 0,
	accessible_seating    INTEGER NOT NULL DEFAULT 0,
	accessibility_notes   TEXT NOT NULL DEFAULT '',
	verified_accessible   INTEGER NOT NULL DEFAULT 0,
	experience_tags       TEXT NOT NULL DEFAULT '[]',
	accessibility_score   REAL NOT NULL DEFAULT 0,
	interestingness_score REAL NOT NULL DEFAULT 0,
	event_frequency_score INTEGER NOT NULL DEFAULT 0,
	needs_enrichment      INTEGER NOT NULL DEFAULT 0,
	created_at            DATETIME NOT NULL,
	last_updated          DATETIME NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_venues_provider_external
	ON venues(provider, external_id) WHERE external_id != '';
CREATE INDEX IF NOT EXISTS idx_venues_name ON venues(name);
CREATE INDEX IF NOT EXISTS idx_venues_latlon ON venues(latitude, longitude);

CREATE TABLE IF NOT EXISTS events (
	id                    TEXT PRIMARY KEY,
	external_id           TEXT NOT NULL DEFAULT '',
	source                TEXT NOT NULL DEFAULT '',
	title                 TEXT NOT NULL,
	description           TEXT NOT NULL DEFAULT '',
	start_date            DATETIME NOT NULL,
	start_time            TEXT NOT NULL DEFAULT '',
	end_date              DATETIME,
	end_time              TEXT NOT NULL DEFAULT '',
	venue_id              TEXT NOT NULL REFERENCES venues(id),
	cost                  TEXT NOT NULL DEFAULT '',
	registration_url      TEXT NOT NULL DEFAULT '',
	max_participants      INTEGER NOT NULL DEFAULT 0,
	is_fun                INTEGER NOT NULL DEFAULT 0,
	is_interesting        INTEGER NOT NULL DEFAULT 0,
	is_off_beat           INTEGER NOT NULL DEFAULT 0,
	wheelchair_accessible INTEGER NOT NULL DEFAULT 0,
	accessibility_notes   TEXT NOT NULL DEFAULT '',
	verification_status   TEXT NOT NULL DEFAULT 'unverified',
	last_verified         DATETIME,
	raw_payload           TEXT,
	created_at            DATETIME NOT NULL,
	updated_at            DATETIME NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_events_source_external
	ON events(source, external_id) WHERE external_id != '';
CREATE INDEX IF NOT EXISTS idx_events_start_date ON events(start_date);
CREATE INDEX IF NOT EXISTS idx_events_venue_id ON events(venue_id);

CREATE TABLE IF NOT EXISTS reviews (
	id                   TEXT PRIMARY KEY,
	venue_id             TEXT NOT NULL REFERENCES venues(id),
	overall_rating       REAL,
	accessibility_rating REAL,
	review_text          TEXT NOT NULL DEFAULT '',
	accessibility_notes  TEXT NOT NULL DEFAULT '',
	created_at           DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reviews_venue_id ON reviews(venue_id);

CREATE TABLE IF NOT EXISTS api_cache (
	cache_key  TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	expires_at DATETIME NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_api_cache_expires_at ON api_cache(expires_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const venueColumns = `id, provider, external_id, name, address, city, state, zip_code,
	phone, website, latitude, longitude, category, rating,
	wheelchair_accessible, accessible_parking, accessible_restroom, elevator_access,
	wide_doorways, ramp_access, accessible_seating, accessibility_notes, verified_accessible,
	experience_tags, accessibility_score, interestingness_score, event_frequency_score,
	needs_enrichment, created_at, last_updated`

// UpsertVenue inserts the venue or, when its (provider, external_id) already
// exists, updates the mutable fields and leaves the identity columns alone.
// The venue's ID is rewritten to the stored row's ID on conflict.
func (s *SQLiteStore) UpsertVenue(ctx context.Context, v *model.Venue) error {
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
		return eris.Wrap(err, "sqlite: marshal experience tags")
	}

	query := `INSERT INTO venues (` + venueColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if v.ExternalID != "" {
		query += `
		ON CONFLICT(provider, external_id) WHERE external_id != '' DO UPDATE SET
			name = excluded.name,
			address = excluded.address,
			city = excluded.city,
			state = excluded.state,
			zip_code = excluded.zip_code,
			phone = excluded.phone,
			website = excluded.website,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			category = excluded.category,
			rating = excluded.rating,
			wheelchair_accessible = excluded.wheelchair_accessible,
			accessible_parking = excluded.accessible_parking,
			accessible_restroom = excluded.accessible_restroom,
			elevator_access = excluded.elevator_access,
			wide_doorways = excluded.wide_doorways,
			ramp_access = excluded.ramp_access,
			accessible_seating = excluded.accessible_seating,
			accessibility_notes = excluded.accessibility_notes,
			verified_accessible = excluded.verified_accessible,
			experience_tags = excluded.experience_tags,
			accessibility_score = excluded.accessibility_score,
			interestingness_score = excluded.interestingness_score,
			event_frequency_score = excluded.event_frequency_score,
			needs_enrichment = excluded.needs_enrichment,
			last_updated = excluded.last_updated`
	} else {
		query += `
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			address = excluded.address,
			city = excluded.city,
			state = excluded.state,
			zip_code = excluded.zip_code,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			category = excluded.category,
			rating = excluded.rating,
			wheelchair_accessible = excluded.wheelchair_accessible,
			accessibility_notes = excluded.accessibility_notes,
			experience_tags = excluded.experience_tags,
			accessibility_score = excluded.accessibility_score,
			interestingness_score = excluded.interestingness_score,
			event_frequency_score = excluded.event_frequency_score,
			needs_enrichment = excluded.needs_enrichment,
			last_updated = excluded.last_updated`
	}
	query += ` RETURNING id`

	row := s.db.QueryRowContext(ctx, query,
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
		return eris.Wrapf(err, "sqlite: upsert venue %s", v.Name)
	}
	return nil
}

func (s *SQLiteStore) GetVenue(ctx context.Context, id string) (*model.Venue, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+venueColumns+` FROM venues WHERE id = ?`, id)
	return scanVenue(row)
}

func (s *SQLiteStore) FindVenueByExternalID(ctx context.Context, provider, externalID string) (*model.Venue, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+venueColumns+` FROM venues WHERE provider = ? AND external_id = ? AND external_id != ''`,
		provider, externalID)
	return scanVenue(row)
}

func (s *SQLiteStore) FindVenueByName(ctx context.Context, name string) (*model.Venue, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+venueColumns+` FROM venues WHERE name = ? COLLATE NOCASE ORDER BY created_at LIMIT 1`,
		name)
	return scanVenue(row)
}

func (s *SQLiteStore) QueryVenuesInBBox(ctx context.Context, box geo.BBox, filter VenueFilter) ([]model.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues
		WHERE latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?`
	args := []any{box.MinLat, box.MaxLat, box.MinLon, box.MaxLon}

	if filter.Category != model.CategoryUnknown {
		query += ` AND category = ?`
		args = append(args, filter.Category.String())
	}
	if filter.WheelchairOnly {
		query += ` AND wheelchair_accessible = 1`
	}
	query += ` ORDER BY interestingness_score DESC, name`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query venues in bbox")
	}
	defer rows.Close()

	var venues []model.Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, *v)
	}
	return venues, eris.Wrap(rows.Err(), "sqlite: iterate venues")
}

func (s *SQLiteStore) ListVenues(ctx context.Context) ([]model.Venue, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+venueColumns+` FROM venues ORDER BY name, id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list venues")
	}
	defer rows.Close()

	var venues []model.Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, *v)
	}
	return venues, eris.Wrap(rows.Err(), "sqlite: iterate venues")
}

func (s *SQLiteStore) AddReview(ctx context.Context, r *model.Review) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reviews (id, venue_id, overall_rating, accessibility_rating, review_text, accessibility_notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.VenueID, r.OverallRating, r.AccessibilityRating, r.Text, r.AccessibilityNotes, r.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: insert review for venue %s", r.VenueID)
}

func (s *SQLiteStore) ListReviews(ctx context.Context, venueID string) ([]model.Review, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, venue_id, overall_rating, accessibility_rating, review_text, accessibility_notes, created_at
		 FROM reviews WHERE venue_id = ? ORDER BY created_at`,
		venueID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list reviews")
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var r model.Review
		if err := rows.Scan(&r.ID, &r.VenueID, &r.OverallRating, &r.AccessibilityRating,
			&r.Text, &r.AccessibilityNotes, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan review")
		}
		reviews = append(reviews, r)
	}
	return reviews, eris.Wrap(rows.Err(), "sqlite: iterate reviews")
}

const eventColumns = `id, external_id, source, title, description, start_date, start_time,
	end_date, end_time, venue_id, cost, registration_url, max_participants,
	is_fun, is_interesting, is_off_beat, wheelchair_accessible, accessibility_notes,
	verification_status, last_verified, raw_payload, created_at, updated_at`

// UpsertEvent inserts the event or updates the mutable fields of the row
// sharing its (source, external_id). Locally authored events (no external id)
// upsert by primary key only.
func (s *SQLiteStore) UpsertEvent(ctx context.Context, e *model.Event) error {
	now := s.now().UTC()
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	query := `INSERT INTO events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if e.ExternalID != "" {
		query += `
		ON CONFLICT(source, external_id) WHERE external_id != '' DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			start_date = excluded.start_date,
			start_time = excluded.start_time,
			end_date = excluded.end_date,
			end_time = excluded.end_time,
			cost = excluded.cost,
			registration_url = excluded.registration_url,
			max_participants = excluded.max_participants,
			is_fun = excluded.is_fun,
			is_interesting = excluded.is_interesting,
			is_off_beat = excluded.is_off_beat,
			accessibility_notes = excluded.accessibility_notes,
			verification_status = excluded.verification_status,
			last_verified = excluded.last_verified,
			raw_payload = excluded.raw_payload,
			updated_at = excluded.updated_at`
	} else {
		query += `
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			start_date = excluded.start_date,
			start_time = excluded.start_time,
			end_date = excluded.end_date,
			end_time = excluded.end_time,
			cost = excluded.cost,
			updated_at = excluded.updated_at`
	}
	query += ` RETURNING id`

	row := s.db.QueryRowContext(ctx, query,
		e.ID, e.ExternalID, e.Source, e.Title, e.Description, e.StartDate, e.StartTime,
		nullTime(e.EndDate), e.EndTime, e.VenueID, e.Cost, e.RegistrationURL, e.MaxParticipants,
		e.Types.Fun, e.Types.Interesting, e.Types.OffBeat, e.WheelchairAccessible, e.AccessibilityNotes,
		string(e.Verification), nullTime(e.LastVerified), nullRaw(e.RawPayload), e.CreatedAt, e.UpdatedAt,
	)
	if err := row.Scan(&e.ID); err != nil {
		return eris.Wrapf(err, "sqlite: upsert event %s", e.Title)
	}
	return nil
}

func (s *SQLiteStore) FindEventBySource(ctx context.Context, source, externalID string) (*model.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE source = ? AND external_id = ? AND external_id != ''`,
		source, externalID)
	return scanEvent(row)
}

func (s *SQLiteStore) SearchEvents(ctx context.Context, filter EventFilter) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`
	var args []any

	if !filter.Start.IsZero() {
		query += ` AND start_date >= ?`
		args = append(args, filter.Start)
	}
	if !filter.End.IsZero() {
		query += ` AND start_date <= ?`
		args = append(args, filter.End)
	}
	if len(filter.Types) > 0 {
		var conds []string
		for _, t := range filter.Types {
			switch t {
			case "fun":
				conds = append(conds, "is_fun = 1")
			case "interesting":
				conds = append(conds, "is_interesting = 1")
			case "off_beat":
				conds = append(conds, "is_off_beat = 1")
			}
		}
		if len(conds) > 0 {
			query += ` AND (` + strings.Join(conds, " OR ") + `)`
		}
	}
	if len(filter.VenueIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(filter.VenueIDs)), ",")
		query += ` AND venue_id IN (` + placeholders + `)`
		for _, id := range filter.VenueIDs {
			args = append(args, id)
		}
	}
	query += ` ORDER BY start_date, start_time, id`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: search events")
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, eris.Wrap(rows.Err(), "sqlite: iterate events")
}

func (s *SQLiteStore) GetCacheEntry(ctx context.Context, key string) (json.RawMessage, error) {
	now := s.now().UTC()
	row := s.db.QueryRowContext(ctx,
		`SELECT payload, expires_at FROM api_cache WHERE cache_key = ?`, key)

	var payload string
	var expiresAt time.Time
	err := row.Scan(&payload, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get cache entry")
	}
	if !now.Before(expiresAt) {
		// Lazy expiration: purge and report absent.
		_, err := s.db.ExecContext(ctx, `DELETE FROM api_cache WHERE cache_key = ?`, key)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: purge expired cache entry")
		}
		return nil, nil
	}
	return json.RawMessage(payload), nil
}

func (s *SQLiteStore) SetCacheEntry(ctx context.Context, key string, payload json.RawMessage, ttl time.Duration) error {
	now := s.now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO api_cache (cache_key, payload, expires_at, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET
			payload = excluded.payload,
			expires_at = excluded.expires_at,
			created_at = excluded.created_at`,
		key, string(payload), now.Add(ttl), now,
	)
	return eris.Wrap(err, "sqlite: set cache entry")
}

func (s *SQLiteStore) DeleteExpiredCacheEntries(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM api_cache WHERE expires_at <= ?`, s.now().UTC())
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired cache entries")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

func scanVenue(row scannable) (*model.Venue, error) {
	var v model.Venue
	var lat, lon sql.NullFloat64
	var tagsJSON, category string

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
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan venue")
	}

	if lat.Valid {
		v.Latitude = lat.Float64
	}
	if lon.Valid {
		v.Longitude = lon.Float64
	}
	v.Category = model.ParseCategory(category)
	if err := json.Unmarshal([]byte(tagsJSON), &v.ExperienceTags); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal experience tags")
	}
	return &v, nil
}

func scanEvent(row scannable) (*model.Event, error) {
	var e model.Event
	var endDate, lastVerified sql.NullTime
	var rawPayload sql.NullString
	var status string

	err := row.Scan(
		&e.ID, &e.ExternalID, &e.Source, &e.Title, &e.Description, &e.StartDate, &e.StartTime,
		&endDate, &e.EndTime, &e.VenueID, &e.Cost, &e.RegistrationURL, &e.MaxParticipants,
		&e.Types.Fun, &e.Types.Interesting, &e.Types.OffBeat, &e.WheelchairAccessible, &e.AccessibilityNotes,
		&status, &lastVerified, &rawPayload, &e.CreatedAt, &e.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan event")
	}

	if endDate.Valid {
		e.EndDate = endDate.Time
	}
	if lastVerified.Valid {
		e.LastVerified = lastVerified.Time
	}
	if rawPayload.Valid {
		e.RawPayload = json.RawMessage(rawPayload.String)
	}
	e.Verification = model.VerificationStatus(status)
	return &e, nil
}

func nullFloat(f float64) any {
	if f == 0 {
		return nil
	}
	return f
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func nullRaw(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
