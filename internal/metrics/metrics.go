// Package metrics collects Prometheus metrics for analyses and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements the analysis recorder and the HTTP request recorder.
type Collector struct {
	analyses        *prometheus.CounterVec
	analysisLatency prometheus.Histogram
	cacheLookups    *prometheus.CounterVec
	fetches         *prometheus.CounterVec
	fetchLatency    *prometheus.HistogramVec
	personas        *prometheus.CounterVec
	persists        *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
}

// NewCollector creates the metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenith_analyses_total",
			Help: "Analysis requests by outcome.",
		}, []string{"outcome"}),
		analysisLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "zenith_analysis_duration_seconds",
			Help:    "End-to-end analysis latency.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenith_cache_lookups_total",
			Help: "Creator cache lookups by status.",
		}, []string{"status"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenith_platform_fetches_total",
			Help: "Platform fetches by platform and outcome.",
		}, []string{"platform", "outcome"}),
		fetchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zenith_platform_fetch_duration_seconds",
			Help:    "Platform fetch latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"platform"}),
		personas: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenith_persona_generations_total",
			Help: "Persona generations by status.",
		}, []string{"status"}),
		persists: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenith_persist_total",
			Help: "Analysis persistence attempts by status.",
		}, []string{"status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenith_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zenith_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		c.analyses,
		c.analysisLatency,
		c.cacheLookups,
		c.fetches,
		c.fetchLatency,
		c.personas,
		c.persists,
		c.httpRequests,
		c.httpLatency,
	)

	return c
}

func (c *Collector) RecordAnalysis(outcome string, duration time.Duration) {
	c.analyses.WithLabelValues(outcome).Inc()
	c.analysisLatency.Observe(duration.Seconds())
}

func (c *Collector) RecordCacheLookup(status string) {
	c.cacheLookups.WithLabelValues(status).Inc()
}

func (c *Collector) RecordFetch(platform, outcome string, latency time.Duration) {
	c.fetches.WithLabelValues(platform, outcome).Inc()
	c.fetchLatency.WithLabelValues(platform).Observe(latency.Seconds())
}

func (c *Collector) RecordPersona(status string) {
	c.personas.WithLabelValues(status).Inc()
}

func (c *Collector) RecordPersist(status string) {
	c.persists.WithLabelValues(status).Inc()
}

func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(route).Observe(duration.Seconds())
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
