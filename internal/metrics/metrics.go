package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every Prometheus collector exported by the server.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ModerationDecisions *prometheus.CounterVec // verdict: allow | block | unavailable
	ModerationDuration  prometheus.Histogram

	AutoRepliesTotal   *prometheus.CounterVec // outcome: generated | fallback | skipped | failed
	SchedulerPending   prometheus.Gauge
	SchedulerRunning   prometheus.Gauge
	PoshtCacheRequests *prometheus.CounterVec // result: hit | miss
}

var (
	instance *Metrics
	once     sync.Once
)

// Get returns the process-wide metrics, registering them on first use.
func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method", "path", "status"},
			),
			ModerationDecisions: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "moderation_decisions_total",
					Help: "Moderation decisions by verdict",
				},
				[]string{"verdict"},
			),
			ModerationDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "moderation_duration_seconds",
					Help:    "Time spent waiting for the moderation model",
					Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
				},
			),
			AutoRepliesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "auto_replies_total",
					Help: "Auto-reply task outcomes",
				},
				[]string{"outcome"},
			),
			SchedulerPending: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "auto_reply_scheduler_pending",
					Help: "Number of auto-reply tasks waiting for their delay",
				},
			),
			SchedulerRunning: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "auto_reply_scheduler_running",
					Help: "Number of auto-reply tasks currently executing",
				},
			),
			PoshtCacheRequests: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "posht_cache_requests_total",
					Help: "Posht detail cache lookups",
				},
				[]string{"result"},
			),
		}
	})
	return instance
}
