// Package pricingcfg serves the tunable pricing rule set with a short TTL
// cache and a hardcoded fallback, and exposes the admin update path.
package pricingcfg

import (
	"context"
	"fmt"
	"time"

	"github.com/kanakjewels/kanak-backend/pkg/cache"
	"github.com/kanakjewels/kanak-backend/pkg/logger"
	"github.com/kanakjewels/kanak-backend/pkg/metrics"
)

const cacheName = "pricing_config"

// Service exposes the pricing configuration to the price engine and the admin
// surface. Config never fails; a broken store degrades to Default().
type Service interface {
	Config(ctx context.Context) Config
	Update(ctx context.Context, cfg Config, updatedBy string) (int, error)
	Invalidate()
}

type service struct {
	repo    Repository
	cache   *cache.Cache[Config]
	logg    *logger.Logger
	metrics *metrics.PricingMetrics
}

// Deps wires the config service.
type Deps struct {
	Repo     Repository
	CacheTTL time.Duration
	Clock    cache.Clock
	Logger   *logger.Logger
	Metrics  *metrics.PricingMetrics
}

// NewService builds the pricing config service.
func NewService(deps Deps) (Service, error) {
	if deps.Repo == nil {
		return nil, fmt.Errorf("pricingcfg: repository is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("pricingcfg: logger is required")
	}
	if deps.CacheTTL <= 0 {
		deps.CacheTTL = 5 * time.Minute
	}
	return &service{
		repo:    deps.Repo,
		cache:   cache.New[Config](deps.CacheTTL, deps.Clock),
		logg:    deps.Logger,
		metrics: deps.Metrics,
	}, nil
}

// Config returns the active configuration. Store errors are absorbed: a stale
// cached copy wins over the fallback, and the fallback wins over failing the
// price calculation.
func (s *service) Config(ctx context.Context) Config {
	fetched := false
	cfg, err := s.cache.GetOrRefresh(ctx, func(ctx context.Context) (Config, error) {
		fetched = true
		s.metrics.IncCacheMiss(cacheName)
		cfg, version, err := s.repo.Fetch(ctx)
		if err != nil {
			s.metrics.IncFetchFailure(cacheName)
			return Config{}, err
		}
		if err := Validate(cfg); err != nil {
			s.metrics.IncFetchFailure(cacheName)
			return Config{}, fmt.Errorf("stored config v%d is invalid: %w", version, err)
		}
		s.metrics.IncFetchSuccess(cacheName)
		return cfg, nil
	})
	if !fetched {
		s.metrics.IncCacheHit(cacheName)
	}
	if err != nil {
		if _, ok := s.cache.Peek(); ok {
			s.logg.Warn(ctx, "pricing config refresh failed, serving stale copy")
			return cfg
		}
		s.logg.Error(ctx, "pricing config unavailable, serving fallback", err)
		return Default()
	}
	return cfg
}

// Update validates and persists a new config version, then drops the cache so
// the next read sees it immediately.
func (s *service) Update(ctx context.Context, cfg Config, updatedBy string) (int, error) {
	if err := Validate(cfg); err != nil {
		return 0, err
	}
	version, err := s.repo.Save(ctx, cfg, updatedBy)
	if err != nil {
		return 0, err
	}
	s.cache.Invalidate()
	s.logg.Info(s.logg.WithAdminID(ctx, updatedBy), fmt.Sprintf("pricing config updated to v%d", version))
	return version, nil
}

func (s *service) Invalidate() {
	s.cache.Invalidate()
}
