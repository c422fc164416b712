// Package main provides the entrypoint for the AQI dashboard server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hcmaqi/aqidash/internal/airquality"
	"github.com/hcmaqi/aqidash/internal/api"
	"github.com/hcmaqi/aqidash/internal/api/handler"
	"github.com/hcmaqi/aqidash/internal/api/middleware"
	"github.com/hcmaqi/aqidash/internal/config"
	"github.com/hcmaqi/aqidash/internal/dashboard"
	"github.com/hcmaqi/aqidash/internal/database"
	"github.com/hcmaqi/aqidash/internal/forecast"
	"github.com/hcmaqi/aqidash/internal/provider/resilience"
	"github.com/hcmaqi/aqidash/internal/telemetry"
	"github.com/hcmaqi/aqidash/web"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const serviceName = "aqidash"

func main() {
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run(log zerolog.Logger) error {
	cfg, err := config.Load(log)
	if err != nil {
		return err
	}
	if !cfg.IsProduction() {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	log.Info().
		Str("build_time", BuildTime).
		Str("env", cfg.Env).
		Ints("stations", cfg.Stations).
		Str("timezone", cfg.DisplayTimezone).
		Msg("starting AQI dashboard")

	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTelEnabled,
		SampleRatio:    cfg.OTelSampleRatio,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()
	if tp.Enabled() {
		log.Info().Str("otlp_endpoint", cfg.OTLPEndpoint).Msg("OpenTelemetry initialized")
	}

	httpMetrics, err := middleware.NewMetrics()
	if err != nil {
		return err
	}
	forecastMetrics, err := forecast.NewMetrics()
	if err != nil {
		return err
	}

	registry := resilience.NewRegistry()
	forecastClient := forecast.NewClient(forecast.ClientConfig{
		BaseURL:  cfg.ForecastBaseURL,
		Timeout:  cfg.ForecastTimeout,
		Registry: registry,
		Logger:   log.With().Str("component", "forecast").Logger(),
		Metrics:  forecastMetrics,
	})

	overview, checks, closeOverview, err := openOverview(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeOverview()

	router := api.NewRouter(api.RouterConfig{
		Version:    Version,
		BuildTime:  BuildTime,
		Logger:     log,
		Metrics:    httpMetrics,
		RequireTLS: cfg.RequireTLS,
		Dashboard: handler.DashboardConfig{
			Overview:       overview,
			Forecast:       forecastClient,
			Normalizer:     cfg.Normalizer(),
			Formatter:      dashboard.NewTimeFormatter(cfg.Location),
			Stations:       cfg.Stations,
			DefaultStation: cfg.DefaultStation,
			Logger:         log.With().Str("component", "dashboard").Logger(),
		},
		Registry:  registry,
		Checks:    checks,
		Assets:    web.Assets(),
		IndexFile: web.IndexFile,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Forecast requests wait on the upstream, bounded by ForecastTimeout.
		WriteTimeout: cfg.ForecastTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openOverview selects the main page's overview source.
func openOverview(ctx context.Context, cfg *config.Config, log zerolog.Logger) (
	airquality.OverviewProvider, []handler.ReadinessCheck, func(), error,
) {
	if cfg.OverviewSource != config.OverviewPostgres {
		log.Info().Msg("serving built-in station overview")
		return airquality.NewStaticOverviewProvider(airquality.DefaultOverview()), nil, func() {}, nil
	}

	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Str("area", cfg.OverviewArea).
		Msg("database connected")

	checks := []handler.ReadinessCheck{{Name: "database", Check: pool.Ping}}
	cached := airquality.NewOverviewService(airquality.OverviewServiceConfig{
		Provider: airquality.NewPostgresOverviewRepository(pool, cfg.OverviewArea),
		Logger:   log.With().Str("component", "overview").Logger(),
		CacheTTL: cfg.OverviewCacheTTL,
	})
	return cached, checks, pool.Close, nil
}
