package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the fusion service.
//
// Metrics:
//   - bazodiac_fusions_total{mode,outcome} - fusion runs
//   - bazodiac_fusion_duration_seconds{mode} - fusion latency
//   - bazodiac_degenerate_harmonics_total{k} - degenerate harmonic orders
//   - bazodiac_unstable_mappings_total - longitudes near a sector edge
//   - bazodiac_branch_lookups_total{op} - map, soft, compare and table calls
//   - bazodiac_engine_cache_hits_total / _misses_total
//   - bazodiac_engine_cache_size - engines currently cached
type Metrics struct {
	FusionsTotal           *prometheus.CounterVec
	FusionDuration         *prometheus.HistogramVec
	DegenerateHarmonics    *prometheus.CounterVec
	UnstableMappings       prometheus.Counter
	BranchLookups          *prometheus.CounterVec
	EngineCacheHitsTotal   prometheus.Counter
	EngineCacheMissesTotal prometheus.Counter
	EngineCacheSize        prometheus.Gauge
}

// NewMetrics registers the service collectors with reg. The daemon passes
// prometheus.DefaultRegisterer; tests pass a fresh registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FusionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bazodiac_fusions_total",
				Help: "Total number of fusion runs",
			},
			[]string{"mode", "outcome"}, // outcome: "ok" or "error"
		),
		FusionDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bazodiac_fusion_duration_seconds",
				Help:    "Duration of fusion runs in seconds",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
			},
			[]string{"mode"},
		),
		DegenerateHarmonics: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bazodiac_degenerate_harmonics_total",
				Help: "Total number of harmonic orders flagged degenerate",
			},
			[]string{"k"},
		),
		UnstableMappings: f.NewCounter(
			prometheus.CounterOpts{
				Name: "bazodiac_unstable_mappings_total",
				Help: "Total number of longitudes mapped within the boundary threshold",
			},
		),
		BranchLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bazodiac_branch_lookups_total",
				Help: "Total number of branch lookups by operation",
			},
			[]string{"op"},
		),
		EngineCacheHitsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "bazodiac_engine_cache_hits_total",
				Help: "Total number of engine cache hits",
			},
		),
		EngineCacheMissesTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "bazodiac_engine_cache_misses_total",
				Help: "Total number of engine cache misses",
			},
		),
		EngineCacheSize: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "bazodiac_engine_cache_size",
				Help: "Current number of cached fusion engines",
			},
		),
	}
}

// RecordFusion records one fusion run.
func (m *Metrics) RecordFusion(mode string, took time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.FusionsTotal.WithLabelValues(mode, outcome).Inc()
	m.FusionDuration.WithLabelValues(mode).Observe(took.Seconds())
}

// RecordDegenerate records a degenerate harmonic order.
func (m *Metrics) RecordDegenerate(k string) {
	if m == nil {
		return
	}
	m.DegenerateHarmonics.WithLabelValues(k).Inc()
}

// RecordUnstable records n unstable mappings.
func (m *Metrics) RecordUnstable(n int) {
	if m == nil || n == 0 {
		return
	}
	m.UnstableMappings.Add(float64(n))
}

// RecordLookup records a branch lookup.
func (m *Metrics) RecordLookup(op string) {
	if m == nil {
		return
	}
	m.BranchLookups.WithLabelValues(op).Inc()
}

// RecordCache records an engine cache lookup and the resulting size.
func (m *Metrics) RecordCache(hit bool, size int) {
	if m == nil {
		return
	}
	if hit {
		m.EngineCacheHitsTotal.Inc()
	} else {
		m.EngineCacheMissesTotal.Inc()
	}
	m.EngineCacheSize.Set(float64(size))
}
