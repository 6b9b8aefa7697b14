package circulation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sip2_upstream_requests_total",
			Help: "Backend requests per resource and response class",
		},
		[]string{"resource", "class"},
	)

	upstreamRequestSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sip2_upstream_request_seconds",
			Help:    "Backend request latency per resource",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	degradedCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sip2_degraded_enrichments_total",
			Help: "Resource calls whose failure was absorbed into an empty field",
		},
		[]string{"resource"},
	)
)

func statusClass(status int) string {
	switch {
	case status == 0:
		return "error"
	case status < 300:
		return "2xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
