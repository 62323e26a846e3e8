package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics records cache and upstream behavior of the pricing providers.
type PricingMetrics struct {
	fetchSuccess *prometheus.CounterVec
	fetchFailure *prometheus.CounterVec
	cacheHit     *prometheus.CounterVec
	cacheMiss    *prometheus.CounterVec
	calcDuration *prometheus.HistogramVec
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	fetchSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_upstream_fetch_success",
		Help: "Successful upstream fetches by source.",
	}, []string{"source"})
	fetchFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_upstream_fetch_failure",
		Help: "Failed upstream fetches by source.",
	}, []string{"source"})
	cacheHit := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_cache_hit",
		Help: "Pricing cache hits by cache.",
	}, []string{"cache"})
	cacheMiss := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_cache_miss",
		Help: "Pricing cache misses by cache.",
	}, []string{"cache"})
	calcDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_calculation_duration_seconds",
		Help:    "Duration of price calculations by resolved mode.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})
	reg.MustRegister(fetchSuccess, fetchFailure, cacheHit, cacheMiss, calcDuration)
	return &PricingMetrics{
		fetchSuccess: fetchSuccess,
		fetchFailure: fetchFailure,
		cacheHit:     cacheHit,
		cacheMiss:    cacheMiss,
		calcDuration: calcDuration,
	}
}

// IncFetchSuccess increments the success counter for the named source.
func (p *PricingMetrics) IncFetchSuccess(source string) {
	if p == nil || p.fetchSuccess == nil {
		return
	}
	p.fetchSuccess.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncFetchFailure increments the failure counter for the named source.
func (p *PricingMetrics) IncFetchFailure(source string) {
	if p == nil || p.fetchFailure == nil {
		return
	}
	p.fetchFailure.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncCacheHit increments the hit counter for the named cache.
func (p *PricingMetrics) IncCacheHit(cache string) {
	if p == nil || p.cacheHit == nil {
		return
	}
	p.cacheHit.WithLabelValues(normalizeLabel(cache)).Inc()
}

// IncCacheMiss increments the miss counter for the named cache.
func (p *PricingMetrics) IncCacheMiss(cache string) {
	if p == nil || p.cacheMiss == nil {
		return
	}
	p.cacheMiss.WithLabelValues(normalizeLabel(cache)).Inc()
}

// ObserveCalculation records the duration for the resolved pricing mode.
func (p *PricingMetrics) ObserveCalculation(mode string, duration time.Duration) {
	if p == nil || p.calcDuration == nil {
		return
	}
	p.calcDuration.WithLabelValues(normalizeLabel(mode)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
