package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "market_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	AIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_ai_requests_total",
			Help: "AI gateway calls by operation and outcome",
		},
		[]string{"operation", "outcome"}, // outcome: ok, fallback
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "market_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	ActivityEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_activity_events_total",
			Help: "Product activity events handled by the activity consumer",
		},
		[]string{"event_type", "result"}, // result: recorded, duplicate, dropped, error
	)

	RecommendSource = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_recommendations_total",
			Help: "Recommendation lists served by selection step",
		},
		[]string{"source"},
	)
)

func ObserveHTTP(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
