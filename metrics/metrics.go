// Package metrics provides Prometheus metrics for the awards engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recalculation metrics, labeled by calculator ("annual", "service",
// "contribution", "unit").
var (
	recalcRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "awards",
		Subsystem: "engine",
		Name:      "recalculations_total",
		Help:      "Profile recalculations performed, by calculator.",
	}, []string{"calculator"})

	recalcFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "awards",
		Subsystem: "engine",
		Name:      "recalculation_failures_total",
		Help:      "Failed profile recalculations, by calculator.",
	}, []string{"calculator"})

	recalcDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "awards",
		Subsystem: "engine",
		Name:      "recalculation_duration_seconds",
		Help:      "Duration of a single profile recalculation.",
		Buckets:   prometheus.DefBuckets,
	})

	bulkRuns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "awards",
		Subsystem: "engine",
		Name:      "bulk_recalculations_total",
		Help:      "Bulk recalculation sweeps performed.",
	})
)

// HTTP metrics for the API surface.
var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "awards",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests, by method and status class.",
	}, []string{"method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "awards",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)

func RecalcSucceeded(calculator string, elapsed time.Duration) {
	recalcRuns.WithLabelValues(calculator).Inc()
	recalcDuration.Observe(elapsed.Seconds())
}

func RecalcFailed(calculator string) {
	recalcFailures.WithLabelValues(calculator).Inc()
}

func BulkRun() {
	bulkRuns.Inc()
}

func HTTPRequest(method, statusClass string, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, statusClass).Inc()
	httpDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}
