// Package metrics exposes Prometheus collectors for the lookup service.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	lookupRequestsTotal        *prometheus.CounterVec
	lookupCacheEventsTotal     *prometheus.CounterVec
	scrapeDurationSeconds      *prometheus.HistogramVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	activeScrapes              prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		lookupRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtjester_lookups_total",
				Help: "Total number of inmate lookups, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		lookupCacheEventsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtjester_cache_events_total",
				Help: "Result cache events, labeled by event (hit, miss, evict).",
			},
			[]string{"event"},
		)

		scrapeDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "courtjester_scrape_duration_seconds",
				Help:    "Histogram of site automation durations, labeled by site.",
				Buckets: []float64{1, 5, 10, 20, 30, 60, 120},
			},
			[]string{"site"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 5, 15, 60, 120},
			},
			[]string{"method", "route"},
		)

		activeScrapes = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "courtjester_active_scrapes",
				Help: "Number of browser automation sessions currently running.",
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveLookup increments the lookup counter for the given outcome.
func ObserveLookup(outcome string) {
	if lookupRequestsTotal == nil {
		return
	}
	lookupRequestsTotal.WithLabelValues(outcome).Inc()
}

// ObserveCacheEvent increments the cache event counter.
func ObserveCacheEvent(event string) {
	if lookupCacheEventsTotal == nil {
		return
	}
	lookupCacheEventsTotal.WithLabelValues(event).Inc()
}

// ObserveScrape records the duration of one site automation pass.
func ObserveScrape(site string, duration time.Duration) {
	if scrapeDurationSeconds == nil {
		return
	}
	scrapeDurationSeconds.WithLabelValues(site).Observe(duration.Seconds())
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, codeLabel(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IncActiveScrapes increments the active scrape gauge.
func IncActiveScrapes() {
	if activeScrapes == nil {
		return
	}
	activeScrapes.Inc()
}

// DecActiveScrapes decrements the active scrape gauge.
func DecActiveScrapes() {
	if activeScrapes == nil {
		return
	}
	activeScrapes.Dec()
}
