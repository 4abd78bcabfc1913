// Package metrics provides Prometheus metrics for the lakehub backend
// (HTTP RED plus collector, alerting, and retention counters).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lakehub"

var (
	// HTTPRequestTotal counts requests by method, path, status (RED: rate).
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, path, and status.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDurationSeconds is request latency histogram (RED: duration).
	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2.5, 10), // 1ms to ~9.3s
		},
		[]string{"method", "path"},
	)

	// CollectorRunsTotal counts collection cycles by collector and outcome.
	CollectorRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collector_runs_total",
			Help:      "Total collection cycles by collector and outcome (ok, upstream_error, storage_error, skipped).",
		},
		[]string{"collector", "outcome"},
	)

	// StaleCacheServedTotal counts stale fallback responses by upstream source.
	StaleCacheServedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_cache_served_total",
			Help:      "Times a stale cached value was served because a fresh fetch failed.",
		},
		[]string{"source"},
	)

	// AlertsFiredTotal counts alert events persisted by rule type.
	AlertsFiredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_fired_total",
			Help:      "Alert events written to alert history, by rule type.",
		},
		[]string{"type"},
	)

	// RetentionDeletedTotal counts rows removed by the retention sweeper per dataset.
	RetentionDeletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retention_deleted_rows_total",
			Help:      "Rows deleted by the daily retention sweep, by dataset.",
		},
		[]string{"dataset"},
	)
)
