package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry.
// A nil *Metrics is a valid no-op recorder.
type Metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	errors        *prometheus.CounterVec
	transitions   *prometheus.CounterVec
	registrations prometheus.Counter
	reviews       prometheus.Counter
	notifications *prometheus.CounterVec
	queueDepth    prometheus.Gauge
}

// NewMetrics initializes and registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "HTTP requests that ended with a domain error",
		}, []string{"route", "method", "code"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moderation_transitions_total",
			Help: "Status transitions applied by the workflow",
		}, []string{"entity", "status"}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "registrations_total",
			Help: "Technician self-registrations",
		}),
		reviews: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reviews_submitted_total",
			Help: "Public review submissions",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Notification deliveries by kind and result",
		}, []string{"kind", "result"}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notification_queue_depth",
			Help: "Jobs waiting in the notification worker queue",
		}),
	}
	m.registry.MustRegister(
		m.requests, m.latency, m.errors, m.transitions,
		m.registrations, m.reviews, m.notifications, m.queueDepth,
		prometheus.NewGoCollector(),
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// RecordTransition counts a status change of a technician or review.
func (m *Metrics) RecordTransition(entity, status string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(entity, status).Inc()
}

// RecordRegistration counts a technician registration.
func (m *Metrics) RecordRegistration() {
	if m == nil {
		return
	}
	m.registrations.Inc()
}

// RecordReviewSubmitted counts a review submission.
func (m *Metrics) RecordReviewSubmitted() {
	if m == nil {
		return
	}
	m.reviews.Inc()
}

// RecordNotification counts a notification outcome (sent, failed, dropped, skipped).
func (m *Metrics) RecordNotification(kind, result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind, result).Inc()
}

// SetQueueDepth reports the notification queue length.
func (m *Metrics) SetQueueDepth(depth int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(depth))
}
