package metrics

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric exported by the service
const Namespace = "nc_news"

// Metrics holds the Prometheus collectors for the HTTP surface and the
// write paths. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// RequestsTotal counts HTTP requests by method, route and status code.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration observes HTTP request latency in seconds by method and route.
	RequestDuration *prometheus.HistogramVec

	// VotesApplied counts vote deltas applied, labeled by resource ("article", "comment").
	VotesApplied *prometheus.CounterVec

	// CommentsCreated counts comments posted through the API.
	CommentsCreated prometheus.Counter

	// CommentsDeleted counts comments removed through the API.
	CommentsDeleted prometheus.Counter
}

// New creates the service metrics on a fresh registry, together with the Go
// runtime and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		VotesApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "votes_applied_total",
			Help:      "Total number of vote deltas applied",
		}, []string{"resource"}),
		CommentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "comments_created_total",
			Help:      "Total number of comments created",
		}),
		CommentsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "comments_deleted_total",
			Help:      "Total number of comments deleted",
		}),
	}
}

// RegisterDB exports connection pool statistics for db
func (m *Metrics) RegisterDB(db *sql.DB, name string) {
	if m == nil {
		return
	}
	m.registry.MustRegister(collectors.NewDBStatsCollector(db, name))
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest records a finished HTTP request
func (m *Metrics) RecordRequest(method, route string, status int, durationSeconds float64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

// RecordVote records an applied vote delta on the given resource
func (m *Metrics) RecordVote(resource string) {
	if m == nil {
		return
	}
	m.VotesApplied.WithLabelValues(resource).Inc()
}

// RecordCommentCreated records a posted comment
func (m *Metrics) RecordCommentCreated() {
	if m == nil {
		return
	}
	m.CommentsCreated.Inc()
}

// RecordCommentDeleted records a deleted comment
func (m *Metrics) RecordCommentDeleted() {
	if m == nil {
		return
	}
	m.CommentsDeleted.Inc()
}
