// Package metrics registers the Prometheus collectors served at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration is the request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	LoginCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_login_count",
			Help: "Total number of successful logins",
		},
		[]string{"role"},
	)

	StockMovementCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_stock_movement_count",
			Help: "Total number of applied stock movements",
		},
		[]string{"reason"}, // in, out, issue, adjust
	)

	PurchaseExportCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_request_export_count",
			Help: "Total number of purchase request exports",
		},
		[]string{"format", "status"},
	)

	AlertDigestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alert_digest_count",
			Help: "Total number of alert digests built by the scheduler",
		},
		[]string{"status"}, // sent, logged, failed
	)

	// ActiveSessions is refreshed by the session sweep job.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_active_sessions",
			Help: "Number of live dashboard sessions",
		},
	)
)

// RecordHTTPRequestDuration observes one handled request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func IncrementLogin(role string) {
	LoginCount.WithLabelValues(role).Inc()
}

func IncrementStockMovement(reason string) {
	StockMovementCount.WithLabelValues(reason).Inc()
}

func IncrementPurchaseExport(format, status string) {
	PurchaseExportCount.WithLabelValues(format, status).Inc()
}

func IncrementAlertDigest(status string) {
	AlertDigestCount.WithLabelValues(status).Inc()
}

func SetActiveSessions(n int) {
	ActiveSessions.Set(float64(n))
}
