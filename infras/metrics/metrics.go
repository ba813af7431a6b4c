package metrics

import (
	"net/http"
	"strconv"
	"time"
	"todoapp/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "todo"

const (
	OutcomeSuccess     = "success"
	OutcomeNotFound    = "not_found"
	OutcomeInvalid     = "invalid"
	OutcomeConflict    = "conflict"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

type Metrics interface {
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
	TrackInFlight() (done func())
	CacheHit(kind string)
	CacheMiss(kind string)
	CacheError(operation string)
	ObserveQuery(operation string, duration time.Duration)
	ObserveOperation(operation, outcome string, duration time.Duration)
	Handler() http.Handler
}

type metricsImpl struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	httpInFlight   prometheus.Gauge
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	cacheErrors    *prometheus.CounterVec
	queryDuration  *prometheus.HistogramVec
	operations     *prometheus.CounterVec
	operationTimes *prometheus.HistogramVec
}

// New registers every collector on a dedicated registry, plus the Go runtime and process collectors.
func New(config *config.Config) Metrics {
	registry := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"service": config.App.Name}

	m := &metricsImpl{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "HTTP requests by method, route and status code.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency by method and route.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "http_requests_in_flight",
			Help:        "HTTP requests currently being served.",
			ConstLabels: constLabels,
		}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "cache_hits_total",
			Help:        "Cache hits by key kind.",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "cache_misses_total",
			Help:        "Cache misses by key kind.",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		cacheErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "cache_errors_total",
			Help:        "Cache backend errors by operation.",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency by operation.",
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			ConstLabels: constLabels,
		}, []string{"operation"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "operations_total",
			Help:        "Todo service operations by operation and outcome.",
			ConstLabels: constLabels,
		}, []string{"operation", "outcome"}),
		operationTimes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "operation_duration_seconds",
			Help:        "Todo service operation latency by operation.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"operation"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.httpInFlight,
		m.cacheHits,
		m.cacheMisses,
		m.cacheErrors,
		m.queryDuration,
		m.operations,
		m.operationTimes,
	)

	return m
}

func (m *metricsImpl) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *metricsImpl) TrackInFlight() func() {
	m.httpInFlight.Inc()

	return m.httpInFlight.Dec
}

func (m *metricsImpl) CacheHit(kind string) {
	m.cacheHits.WithLabelValues(kind).Inc()
}

func (m *metricsImpl) CacheMiss(kind string) {
	m.cacheMisses.WithLabelValues(kind).Inc()
}

func (m *metricsImpl) CacheError(operation string) {
	m.cacheErrors.WithLabelValues(operation).Inc()
}

func (m *metricsImpl) ObserveQuery(operation string, duration time.Duration) {
	m.queryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *metricsImpl) ObserveOperation(operation, outcome string, duration time.Duration) {
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.operationTimes.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *metricsImpl) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
