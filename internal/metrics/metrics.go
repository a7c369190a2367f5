// Package metrics exposes Prometheus collectors for the back-office API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Manager struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	recommendationRuns     prometheus.Counter
	recommendationLatency  prometheus.Histogram
	recommendedSubmissions prometheus.Gauge

	placementWrites     *prometheus.CounterVec
	notificationsQueued *prometheus.CounterVec
	aggregateCache      *prometheus.CounterVec
}

// NewManager registers every collector on a private registry so tests can
// build as many managers as they like.
func NewManager(namespace string) *Manager {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	auto := promauto.With(registry)

	return &Manager{
		registry: registry,
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status_code"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		recommendationRuns: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clinic",
			Name:      "recommendation_runs_total",
			Help:      "Recommendation computations served.",
		}),
		recommendationLatency: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "clinic",
			Name:      "recommendation_duration_seconds",
			Help:      "Time spent ranking slots, storage reads excluded.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		recommendedSubmissions: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "clinic",
			Name:      "recommended_submissions",
			Help:      "Submissions covered by the latest recommendation run.",
		}),
		placementWrites: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clinic",
			Name:      "placement_writes_total",
			Help:      "Placement upserts by outcome (created, updated, deleted, conflict, invalid, error).",
		}, []string{"outcome"}),
		notificationsQueued: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_queued_total",
			Help:      "Mail messages published to the queue by type.",
		}, []string{"type"}),
		aggregateCache: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clinic",
			Name:      "aggregate_cache_total",
			Help:      "Aggregate cache lookups by result (hit, miss).",
		}, []string{"result"}),
	}
}

func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Manager) ObserveHTTP(route, method string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

func (m *Manager) ObserveRecommendation(submissions int, duration time.Duration) {
	m.recommendationRuns.Inc()
	m.recommendationLatency.Observe(duration.Seconds())
	m.recommendedSubmissions.Set(float64(submissions))
}

func (m *Manager) PlacementWrite(outcome string) {
	m.placementWrites.WithLabelValues(outcome).Inc()
}

func (m *Manager) NotificationQueued(mailType string) {
	m.notificationsQueued.WithLabelValues(mailType).Inc()
}

func (m *Manager) AggregateCache(hit bool) {
	if hit {
		m.aggregateCache.WithLabelValues("hit").Inc()
		return
	}
	m.aggregateCache.WithLabelValues("miss").Inc()
}
