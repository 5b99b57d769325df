// Package config loads the application configuration from config.yaml and
// the environment, and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/accessible-outings/outings/internal/scoring"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Places     PlacesConfig     `yaml:"places" mapstructure:"places"`
	Eventbrite EventbriteConfig `yaml:"eventbrite" mapstructure:"eventbrite"`
	Geocode    GeocodeConfig    `yaml:"geocode" mapstructure:"geocode"`
	Discovery  DiscoveryConfig  `yaml:"discovery" mapstructure:"discovery"`
	Events     EventsConfig     `yaml:"events" mapstructure:"events"`
	Scoring    ScoringConfig    `yaml:"scoring" mapstructure:"scoring"`
	Tagging    TaggingConfig    `yaml:"tagging" mapstructure:"tagging"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// PlacesConfig holds Google Places API settings.
type PlacesConfig struct {
	Key             string  `yaml:"key" mapstructure:"key"`
	SearchTTLHours  int     `yaml:"search_ttl_hours" mapstructure:"search_ttl_hours"`
	DetailsTTLHours int     `yaml:"details_ttl_hours" mapstructure:"details_ttl_hours"`
	RateLimit       float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// EventbriteConfig holds Eventbrite API credentials.
type EventbriteConfig struct {
	Token string `yaml:"token" mapstructure:"token"`
}

// GeocodeConfig holds Google Geocoding API settings.
type GeocodeConfig struct {
	Key string `yaml:"key" mapstructure:"key"`
}

// DiscoveryConfig configures venue discovery.
type DiscoveryConfig struct {
	FreshnessDays int     `yaml:"freshness_days" mapstructure:"freshness_days"`
	MaxResults    int     `yaml:"max_results" mapstructure:"max_results"`
	RadiusMiles   float64 `yaml:"radius_miles" mapstructure:"radius_miles"`
}

// EventsConfig configures event aggregation.
type EventsConfig struct {
	MaxResults  int     `yaml:"max_results" mapstructure:"max_results"`
	RadiusMiles float64 `yaml:"radius_miles" mapstructure:"radius_miles"`
}

// ScoringConfig carries the tunable scoring constants.
type ScoringConfig struct {
	Accessibility   scoring.AccessibilityWeights  `yaml:"accessibility" mapstructure:"accessibility"`
	Interestingness scoring.InterestingnessParams `yaml:"interestingness" mapstructure:"interestingness"`
}

// TaggingConfig points at an optional experience-tagging rules override.
type TaggingConfig struct {
	RulesPath string `yaml:"rules_path" mapstructure:"rules_path"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("OUTINGS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "outings.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("places.search_ttl_hours", 24)
	v.SetDefault("places.details_ttl_hours", 168)
	v.SetDefault("places.rate_limit", 10.0)
	v.SetDefault("discovery.freshness_days", 7)
	v.SetDefault("discovery.max_results", 60)
	v.SetDefault("discovery.radius_miles", 30)
	v.SetDefault("events.max_results", 50)
	v.SetDefault("events.radius_miles", 25)

	weights := scoring.DefaultAccessibilityWeights()
	v.SetDefault("scoring.accessibility.wheelchair", weights.Wheelchair)
	v.SetDefault("scoring.accessibility.parking", weights.Parking)
	v.SetDefault("scoring.accessibility.restroom", weights.Restroom)
	v.SetDefault("scoring.accessibility.elevator", weights.Elevator)
	v.SetDefault("scoring.accessibility.wide_doors", weights.WideDoors)
	v.SetDefault("scoring.accessibility.ramp", weights.Ramp)
	v.SetDefault("scoring.accessibility.seating", weights.Seating)
	v.SetDefault("scoring.accessibility.verified_bonus", weights.VerifiedBonus)
	v.SetDefault("scoring.accessibility.review_blend", weights.ReviewBlend)

	params := scoring.DefaultInterestingnessParams()
	v.SetDefault("scoring.interestingness.category_priors", params.CategoryPriors)
	v.SetDefault("scoring.interestingness.fallback_prior", params.FallbackPrior)
	v.SetDefault("scoring.interestingness.tag_boost", params.TagBoost)
	v.SetDefault("scoring.interestingness.tag_boost_cap", params.TagBoostCap)
	v.SetDefault("scoring.interestingness.event_weight", params.EventWeight)
	v.SetDefault("scoring.interestingness.event_cap", params.EventCap)
	v.SetDefault("scoring.interestingness.flag_weight", params.FlagWeight)
	v.SetDefault("scoring.interestingness.rating_weight", params.RatingWeight)
	v.SetDefault("scoring.interestingness.rating_pivot", params.RatingPivot)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
