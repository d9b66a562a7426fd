package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the various metrics used for monitoring the dashboard.
// It includes counters and a histogram for calls to the employee API,
// counters for fetched items, stale responses and dashboard actions,
// a histogram for audit queries and a gauge of live dashboard sessions.
type Metrics struct {
	APIRequests        *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	ItemsFetched       *prometheus.CounterVec
	StaleResponses     *prometheus.CounterVec
	Actions            *prometheus.CounterVec
	DBQueryDuration    *prometheus.HistogramVec
	Sessions           prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with the provided Registerer.
//
// Parameters:
//   - reg: A prometheus.Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		APIRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "athena_api_requests_total",
			Help: "Total requests issued to the employee API by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		APIRequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "athena_api_request_duration_seconds",
			Help:    "Duration of requests to the employee API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		ItemsFetched: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "athena_items_fetched_total",
			Help: "Total number of fetched items",
		}, []string{"type"}),
		StaleResponses: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "athena_stale_responses_total",
			Help: "Responses dropped because a newer fetch was issued.",
		}, []string{"type"}),
		Actions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "athena_dashboard_actions_total",
			Help: "Save and delete actions issued from the dashboard.",
		}, []string{"action", "status"}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "athena_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}),
		Sessions: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "athena_dashboard_sessions",
			Help: "Number of live dashboard sessions.",
		}),
	}

	metrics.Actions.WithLabelValues("save", "success")
	metrics.Actions.WithLabelValues("save", "failure")
	metrics.Actions.WithLabelValues("delete", "success")
	metrics.Actions.WithLabelValues("delete", "failure")

	return metrics
}
