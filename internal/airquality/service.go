package airquality

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// OverviewServiceConfig holds configuration for the overview service.
type OverviewServiceConfig struct {
	// Provider is the source being cached.
	Provider OverviewProvider

	Logger zerolog.Logger

	// CacheTTL is how long a fetched overview is served (default: 1 minute).
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving an expired overview on provider errors (default: 30 minutes).
	StaleIfErrorTTL time.Duration

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// OverviewService caches another OverviewProvider.
type OverviewService struct {
	provider        OverviewProvider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	staleIfErrorTTL time.Duration
	now             func() time.Time

	mu          sync.RWMutex
	overview    *Overview
	fetchedAt   time.Time
	cacheExpiry time.Time
}

// NewOverviewService creates a new caching overview service.
func NewOverviewService(cfg OverviewServiceConfig) *OverviewService {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Minute
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 30 * time.Minute
	}

	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	return &OverviewService{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		staleIfErrorTTL: staleIfErrorTTL,
		now:             now,
	}
}

// FetchOverview returns the cached overview while it is fresh and refreshes it otherwise.
func (s *OverviewService) FetchOverview(ctx context.Context) (*Overview, error) {
	s.mu.RLock()
	if s.overview != nil && s.now().Before(s.cacheExpiry) {
		o := s.overview.clone()
		s.mu.RUnlock()
		return o, nil
	}
	s.mu.RUnlock()

	return s.refresh(ctx)
}

// InvalidateCache clears the cached overview.
func (s *OverviewService) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overview = nil
	s.fetchedAt = time.Time{}
	s.cacheExpiry = time.Time{}
}

// CacheStatus represents the current state of the cache.
type CacheStatus struct {
	HasData      bool
	FetchedAt    time.Time
	ExpiresAt    time.Time
	IsExpired    bool
	IsStale      bool
	StationCount int
}

// CacheStatus returns information about the current cache state.
func (s *OverviewService) CacheStatus() CacheStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.overview == nil {
		return CacheStatus{}
	}

	now := s.now()
	return CacheStatus{
		HasData:      true,
		FetchedAt:    s.fetchedAt,
		ExpiresAt:    s.cacheExpiry,
		IsExpired:    !now.Before(s.cacheExpiry),
		IsStale:      now.After(s.fetchedAt.Add(s.staleIfErrorTTL)),
		StationCount: len(s.overview.Stations),
	}
}

func (s *OverviewService) refresh(ctx context.Context) (*Overview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have refreshed while we waited.
	now := s.now()
	if s.overview != nil && now.Before(s.cacheExpiry) {
		return s.overview.clone(), nil
	}

	s.logger.Debug().Msg("refreshing station overview")

	overview, err := s.provider.FetchOverview(ctx)
	if err != nil {
		if s.overview != nil && now.Before(s.fetchedAt.Add(s.staleIfErrorTTL)) {
			s.logger.Warn().
				Err(err).
				Time("fetched_at", s.fetchedAt).
				Msg("serving stale station overview due to provider error")
			return s.overview.clone(), nil
		}
		if errors.Is(err, ErrOverviewNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Msg("failed to fetch station overview")
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}

	s.overview = overview.clone()
	s.fetchedAt = now
	s.cacheExpiry = now.Add(s.cacheTTL)

	s.logger.Debug().
		Int("stations", len(overview.Stations)).
		Time("expires_at", s.cacheExpiry).
		Msg("station overview refreshed")

	return overview, nil
}

func (o *Overview) clone() *Overview {
	c := *o
	c.Stations = append([]Station(nil), o.Stations...)
	return &c
}

// Ensure OverviewService implements OverviewProvider.
var _ OverviewProvider = (*OverviewService)(nil)
