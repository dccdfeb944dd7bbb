package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "billing_gateway",
			Subsystem: "gateway",
			Name:      "operations_total",
			Help:      "Gateway operations by outcome error code",
		},
		[]string{"operation", "error_code"},
	)

	resolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "billing_gateway",
			Subsystem: "resolver",
			Name:      "resolutions_total",
			Help:      "Customer resolutions by winning channel and strategy",
		},
		[]string{"channel", "strategy"},
	)

	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "billing_gateway",
			Subsystem: "splynx",
			Name:      "requests_total",
			Help:      "Signed requests sent to the CRM API by classified outcome",
		},
		[]string{"method", "outcome"},
	)

	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "billing_gateway",
			Subsystem: "splynx",
			Name:      "request_duration_seconds",
			Help:      "Signed request latency against the CRM API",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"method"},
	)

	storeQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "billing_gateway",
			Subsystem: "store",
			Name:      "queries_total",
			Help:      "Direct store queries by query name and outcome",
		},
		[]string{"query", "outcome"},
	)
)

func ObserveOperation(operation, errorCode string) {
	operationsTotal.WithLabelValues(operation, errorCode).Inc()
}

func ObserveResolution(channel, strategy string) {
	resolutionsTotal.WithLabelValues(channel, strategy).Inc()
}

func ObserveUpstreamRequest(method, outcome string, elapsed time.Duration) {
	upstreamRequestsTotal.WithLabelValues(method, outcome).Inc()
	upstreamRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func ObserveStoreQuery(query, outcome string) {
	storeQueriesTotal.WithLabelValues(query, outcome).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
