package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the console.
type Metrics struct {
	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec
	LoginAttempts    *prometheus.CounterVec
	SessionsExpired  prometheus.Counter
	CitizenCacheHits prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		UpstreamRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "console_upstream_requests_total",
			Help: "Total requests issued to the DINARDAP registry by operation and outcome",
		}, []string{"operation", "outcome"}),
		UpstreamLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "console_upstream_request_seconds",
			Help:    "Latency of DINARDAP registry calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		LoginAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "console_login_attempts_total",
			Help: "Operator login attempts by outcome",
		}, []string{"outcome"}),
		SessionsExpired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "console_sessions_expired_total",
			Help: "Sessions discarded after an upstream 401",
		}),
		CitizenCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "console_citizen_cache_hits_total",
			Help: "Citizen lookups served from the short-lived cache",
		}),
	}
}

// ObserveUpstream records one upstream call.
func (m *Metrics) ObserveUpstream(operation, outcome string, elapsed time.Duration) {
	m.UpstreamRequests.WithLabelValues(operation, outcome).Inc()
	m.UpstreamLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}
