// Package api wires the dashboard's HTTP surface: the browser page, its
// static assets and the /v1 JSON endpoints.
package api

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/hcmaqi/aqidash/internal/api/handler"
	"github.com/hcmaqi/aqidash/internal/api/middleware"
	"github.com/hcmaqi/aqidash/internal/api/response"
	"github.com/hcmaqi/aqidash/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version   string
	BuildTime string
	Logger    zerolog.Logger
	Metrics   *middleware.Metrics

	// RequireTLS rejects plain-HTTP requests forwarded by a proxy.
	RequireTLS bool

	Dashboard handler.DashboardConfig
	Registry  *resilience.Registry
	Checks    []handler.ReadinessCheck

	// Assets holds index.html and the files served under /static/. A nil
	// Assets serves the API only.
	Assets    fs.FS
	IndexFile string
}

// NewRouter creates a chi router with the page and API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID) // Generate/propagate request ID first
	r.Use(middleware.Tracing())
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequireTLS(cfg.RequireTLS))

	opsHandler := handler.NewOpsHandler(handler.OpsConfig{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		Registry:  cfg.Registry,
		Checks:    cfg.Checks,
	})
	dashboardHandler := handler.NewDashboardHandler(cfg.Dashboard)
	metadataHandler := handler.NewMetadataHandler(
		cfg.Dashboard.Overview,
		cfg.Dashboard.Stations,
		cfg.Dashboard.DefaultStation,
		cfg.Logger,
	)

	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 100 req/min
	forecastRateLimit := middleware.RateLimitByIP(middleware.ForecastRateLimit) // 30 req/min

	if cfg.Assets != nil {
		r.Group(func(r chi.Router) {
			r.Use(middleware.SecurityHeaders(middleware.PageContentSecurityPolicy))
			r.Get("/", indexHandler(cfg.Assets, cfg.IndexFile))
			r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(cfg.Assets)))
		})
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.SecurityHeaders(middleware.APIContentSecurityPolicy))
		r.Use(middleware.ContentTypeJSON)

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			response.NotFound(w, r, "no such endpoint")
		})

		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		r.Route("/metadata", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/stations", metadataHandler.ListStations)
			r.Get("/enums", metadataHandler.GetEnums)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.With(standardRateLimit).Get("/nav", dashboardHandler.GetNav)
			r.With(standardRateLimit).Get("/main", dashboardHandler.GetMainPage)
			// Each forecast request reaches the upstream service.
			r.With(forecastRateLimit).Get("/forecast", dashboardHandler.GetForecastPage)
		})
	})

	return r
}

func indexHandler(assets fs.FS, name string) http.HandlerFunc {
	if name == "" {
		name = "index.html"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFileFS(w, r, assets, name)
	}
}
