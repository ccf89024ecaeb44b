// Package metrics exposes Prometheus counters for renders, entity fetches
// and cache lookups.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "hass_render_"

	resultSuccess = "success"
	resultError   = "error"
)

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError

	CacheHit    = "hit"
	CacheMiss   = "miss"
	CacheError  = "error"
	CacheBypass = "bypass"

	FetchOK          = "ok"
	FetchNotFound    = "not_found"
	FetchUnavailable = "unavailable"
)

// PoolStats is the view of the render pool the gauges read from.
type PoolStats interface {
	QueueDepth() int
	BusyWorkers() int
}

var (
	registerOnce sync.Once

	rendersTotal  *prometheus.CounterVec
	renderLatency *prometheus.HistogramVec

	entityFetches      *prometheus.CounterVec
	entityFetchLatency prometheus.Histogram

	cacheLookups *prometheus.CounterVec

	httpResponses *prometheus.CounterVec
)

// Init registers the collectors. The pool gauges are only registered when
// pool is non-nil. Later calls are no-ops.
func Init(pool PoolStats) {
	registerOnce.Do(func() {
		rendersTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "renders_total",
				Help: "Total renders by mode and result",
			},
			[]string{"mode", "result"},
		)
		renderLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "render_duration_seconds",
				Help:    "Render duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"mode"},
		)
		entityFetches = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "entity_fetches_total",
				Help: "Total Home Assistant state fetches by outcome",
			},
			[]string{"outcome"},
		)
		entityFetchLatency = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "entity_fetch_duration_seconds",
				Help:    "Home Assistant state fetch latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		)
		cacheLookups = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "cache_lookups_total",
				Help: "Rendered image cache lookups by outcome",
			},
			[]string{"outcome"},
		)
		httpResponses = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_responses_total",
				Help: "Image endpoint responses by route and status code",
			},
			[]string{"route", "code"},
		)

		prometheus.MustRegister(
			rendersTotal,
			renderLatency,
			entityFetches,
			entityFetchLatency,
			cacheLookups,
			httpResponses,
		)

		if pool != nil {
			registerPoolMetrics(pool)
		}
	})
}

func registerPoolMetrics(pool PoolStats) {
	prometheus.MustRegister(
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: metricPrefix + "render_queue_depth",
				Help: "Render jobs waiting for a worker",
			},
			func() float64 { return float64(pool.QueueDepth()) },
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: metricPrefix + "render_workers_busy",
				Help: "Render workers currently rendering",
			},
			func() float64 { return float64(pool.BusyWorkers()) },
		),
	)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRender records one finished render.
func ObserveRender(mode string, err error, duration time.Duration) {
	if mode == "" {
		mode = "unknown"
	}
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	if rendersTotal != nil {
		rendersTotal.WithLabelValues(mode, result).Inc()
	}
	if renderLatency != nil && err == nil {
		renderLatency.WithLabelValues(mode).Observe(duration.Seconds())
	}
}

// ObserveEntityFetch records one Home Assistant request.
func ObserveEntityFetch(outcome string, duration time.Duration) {
	if outcome == "" {
		outcome = "unknown"
	}
	if entityFetches != nil {
		entityFetches.WithLabelValues(outcome).Inc()
	}
	if entityFetchLatency != nil {
		entityFetchLatency.Observe(duration.Seconds())
	}
}

// IncCacheLookup counts one cache lookup by outcome.
func IncCacheLookup(outcome string) {
	if cacheLookups != nil {
		cacheLookups.WithLabelValues(outcome).Inc()
	}
}

// IncHTTPResponse counts one image endpoint response.
func IncHTTPResponse(route, code string) {
	if httpResponses != nil {
		httpResponses.WithLabelValues(route, code).Inc()
	}
}
