// Package config loads the dashboard server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/hcmaqi/aqidash/internal/airquality"
)

// Overview sources.
const (
	OverviewStatic   = "static"
	OverviewPostgres = "postgres"
)

// DefaultForecastBaseURL is the hosted forecast endpoint.
const DefaultForecastBaseURL = "https://rhvclppzab.execute-api.ap-southeast-2.amazonaws.com"

// ErrDefaultStationNotListed is returned when DEFAULT_STATION is not one of FORECAST_STATIONS.
var ErrDefaultStationNotListed = errors.New("default station is not a forecast station")

var validate = validator.New()

// Config holds the server configuration.
type Config struct {
	Port string `validate:"required,numeric"`
	Env  string `validate:"required,oneof=development staging production test"`

	ForecastBaseURL string        `validate:"required,url"`
	ForecastTimeout time.Duration `validate:"gt=0"`
	Stations        []int         `validate:"required,min=1,dive,gt=0"`
	DefaultStation  int           `validate:"gt=0"`

	DisplayTimezone string         `validate:"required"`
	Location        *time.Location `validate:"-"`

	AQIScaleMin       float64
	AQIScaleMax       float64 `validate:"gtfield=AQIScaleMin"`
	PollutantScaleMin float64
	PollutantScaleMax float64 `validate:"gtfield=PollutantScaleMin"`

	OverviewSource   string        `validate:"oneof=static postgres"`
	OverviewArea     string        `validate:"required"`
	OverviewCacheTTL time.Duration `validate:"gte=0"`

	OTelEnabled     bool
	OTLPEndpoint    string  `validate:"required_if=OTelEnabled true"`
	OTelSampleRatio float64 `validate:"gte=0,lte=1"`

	RequireTLS bool
}

// Load reads an optional .env file, then the environment, and validates the result.
func Load(log zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables without touching .env.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:            getenvDefault("APP_PORT", "8080"),
		Env:             getenvDefault("APP_ENV", "development"),
		ForecastBaseURL: getenvDefault("FORECAST_BASE_URL", DefaultForecastBaseURL),
		DisplayTimezone: getenvDefault("DISPLAY_TIMEZONE", "Asia/Ho_Chi_Minh"),
		OverviewSource:  getenvDefault("OVERVIEW_SOURCE", OverviewStatic),
		OverviewArea:    getenvDefault("OVERVIEW_AREA", "hcm"),
		OTelEnabled:     getenvBool("OTEL_ENABLED"),
		OTLPEndpoint:    getenvDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		RequireTLS:      getenvBool("REQUIRE_TLS"),
	}

	var err error
	if cfg.ForecastTimeout, err = time.ParseDuration(getenvDefault("FORECAST_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("invalid FORECAST_TIMEOUT: %w", err)
	}
	if cfg.Stations, err = parseStations(getenvDefault("FORECAST_STATIONS", "1,2,3,4")); err != nil {
		return nil, fmt.Errorf("invalid FORECAST_STATIONS: %w", err)
	}
	if cfg.OverviewCacheTTL, err = time.ParseDuration(getenvDefault("OVERVIEW_CACHE_TTL", "1m")); err != nil {
		return nil, fmt.Errorf("invalid OVERVIEW_CACHE_TTL: %w", err)
	}
	if cfg.DefaultStation, err = strconv.Atoi(getenvDefault("DEFAULT_STATION", "3")); err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_STATION: %w", err)
	}

	floats := []struct {
		key string
		def string
		dst *float64
	}{
		{"AQI_SCALE_MIN", "0", &cfg.AQIScaleMin},
		{"AQI_SCALE_MAX", "500", &cfg.AQIScaleMax},
		{"POLLUTANT_SCALE_MIN", "0", &cfg.PollutantScaleMin},
		{"POLLUTANT_SCALE_MAX", "1", &cfg.PollutantScaleMax},
		{"OTEL_SAMPLE_RATIO", "1", &cfg.OTelSampleRatio},
	}
	for _, f := range floats {
		if *f.dst, err = strconv.ParseFloat(getenvDefault(f.key, f.def), 64); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", f.key, err)
		}
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if !slices.Contains(cfg.Stations, cfg.DefaultStation) {
		return nil, fmt.Errorf("%w: %d", ErrDefaultStationNotListed, cfg.DefaultStation)
	}

	if cfg.Location, err = time.LoadLocation(cfg.DisplayTimezone); err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE: %w", err)
	}

	return cfg, nil
}

// Normalizer returns the scalers that map model outputs back to display scale.
func (c *Config) Normalizer() *airquality.Normalizer {
	return airquality.NewNormalizer(
		airquality.MinMax{Min: c.AQIScaleMin, Max: c.AQIScaleMax},
		airquality.MinMax{Min: c.PollutantScaleMin, Max: c.PollutantScaleMax},
	)
}

// IsProduction reports whether the server runs in production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func parseStations(raw string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}
