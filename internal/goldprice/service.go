// Package goldprice serves the gold spot price with an hourly TTL cache, a
// stale-on-error policy, and a hardcoded per-gram fallback.
package goldprice

import (
	"context"
	"fmt"
	"time"

	"github.com/kanakjewels/kanak-backend/pkg/cache"
	"github.com/kanakjewels/kanak-backend/pkg/logger"
	"github.com/kanakjewels/kanak-backend/pkg/metrics"
)

const cacheName = "gold_price"

// Feed abstracts the upstream spot price source.
type Feed interface {
	Fetch(ctx context.Context) (float64, error)
}

// Service exposes the gold spot price to the price engine. PricePerGram never
// fails: stale beats fallback, fallback beats nothing.
type Service interface {
	PricePerGram(ctx context.Context) float64
	Peek() (float64, bool)
	Invalidate()
}

type service struct {
	feed     Feed
	cache    *cache.Cache[float64]
	fallback float64
	logg     *logger.Logger
	metrics  *metrics.PricingMetrics
}

// Deps wires the gold price service.
type Deps struct {
	Feed            Feed
	CacheTTL        time.Duration
	Clock           cache.Clock
	FallbackPerGram float64
	Logger          *logger.Logger
	Metrics         *metrics.PricingMetrics
}

// NewService builds the gold price service.
func NewService(deps Deps) (Service, error) {
	if deps.Feed == nil {
		return nil, fmt.Errorf("goldprice: feed is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("goldprice: logger is required")
	}
	if deps.CacheTTL <= 0 {
		deps.CacheTTL = time.Hour
	}
	if deps.FallbackPerGram <= 0 {
		deps.FallbackPerGram = 6500
	}
	return &service{
		feed:     deps.Feed,
		cache:    cache.New[float64](deps.CacheTTL, deps.Clock),
		fallback: deps.FallbackPerGram,
		logg:     deps.Logger,
		metrics:  deps.Metrics,
	}, nil
}

// PricePerGram returns the cached spot price, refreshing it once per TTL
// window. When the feed fails it serves the previous value; when there is no
// previous value it serves the fallback so a price is always produced.
func (s *service) PricePerGram(ctx context.Context) float64 {
	fetched := false
	price, err := s.cache.GetOrRefresh(ctx, func(ctx context.Context) (float64, error) {
		fetched = true
		s.metrics.IncCacheMiss(cacheName)
		price, err := s.feed.Fetch(ctx)
		if err != nil {
			s.metrics.IncFetchFailure(cacheName)
			return 0, err
		}
		s.metrics.IncFetchSuccess(cacheName)
		return price, nil
	})
	if !fetched {
		s.metrics.IncCacheHit(cacheName)
	}
	if err != nil {
		if _, ok := s.cache.Peek(); ok {
			s.logg.Warn(ctx, "gold feed refresh failed, serving stale price")
			return price
		}
		s.logg.Error(ctx, "gold feed unavailable, serving fallback price", err)
		return s.fallback
	}
	return price
}

// Peek returns the cached price without triggering a refresh.
func (s *service) Peek() (float64, bool) {
	return s.cache.Peek()
}

// Invalidate drops the cached price so the next read hits the feed.
func (s *service) Invalidate() {
	s.cache.Invalidate()
}
