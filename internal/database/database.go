// Package database manages the PostgreSQL pool backing the station overview.
package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
)

var validate = validator.New()

// Config holds database connection configuration.
type Config struct {
	Host            string        `validate:"required,hostname|ip"`
	Port            int           `validate:"gt=0,lte=65535"`
	User            string        `validate:"required"`
	Password        string
	Database        string        `validate:"required"`
	SSLMode         string        `validate:"oneof=disable allow prefer require verify-ca verify-full"`
	MaxOpenConns    int           `validate:"gt=0,lte=1000"`
	MaxIdleConns    int           `validate:"gte=0,ltefield=MaxOpenConns"`
	ConnMaxLifetime time.Duration `validate:"gt=0"`
	ConnectTimeout  time.Duration `validate:"gt=0"`
}

// ConfigFromEnv creates a Config from DB_* environment variables.
func ConfigFromEnv() Config {
	port, _ := strconv.Atoi(getEnvOrDefault("DB_PORT", "5432"))
	maxOpen, _ := strconv.Atoi(getEnvOrDefault("DB_MAX_OPEN_CONNS", "10"))
	maxIdle, _ := strconv.Atoi(getEnvOrDefault("DB_MAX_IDLE_CONNS", "2"))
	lifetime, _ := time.ParseDuration(getEnvOrDefault("DB_CONN_MAX_LIFETIME", "5m"))
	connectTimeout, _ := time.ParseDuration(getEnvOrDefault("DB_CONNECT_TIMEOUT", "5s"))

	return Config{
		Host:            getEnvOrDefault("DB_HOST", "localhost"),
		Port:            port,
		User:            getEnvOrDefault("DB_USER", "aqidash"),
		Password:        getEnvOrDefault("DB_PASSWORD", "localdev"),
		Database:        getEnvOrDefault("DB_NAME", "aqidash"),
		SSLMode:         getEnvOrDefault("DB_SSL_MODE", "disable"),
		MaxOpenConns:    maxOpen,
		MaxIdleConns:    maxIdle,
		ConnMaxLifetime: lifetime,
		ConnectTimeout:  connectTimeout,
	}
}

// Validate checks the configuration before a connection is attempted.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid database config: %w", err)
	}
	return nil
}

// ConnectionString returns the PostgreSQL URL with credentials escaped.
func (c Config) ConnectionString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// Connect validates cfg, opens a pool and pings it within ConnectTimeout.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns) //nolint:gosec // bounded by validation
	poolConfig.MinConns = int32(cfg.MaxIdleConns) //nolint:gosec // bounded by validation
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Schema creates the overview tables when they do not exist.
const Schema = `
CREATE TABLE IF NOT EXISTS areas (
	key            text PRIMARY KEY,
	location       text NOT NULL,
	aqi            double precision NOT NULL,
	main_pollutant text NOT NULL
);

CREATE TABLE IF NOT EXISTS stations (
	id             integer PRIMARY KEY,
	area_key       text NOT NULL REFERENCES areas (key),
	position       integer NOT NULL DEFAULT 0,
	name           text NOT NULL,
	aqi            double precision,
	main_pollutant text
);
`

// EnsureSchema applies Schema.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
