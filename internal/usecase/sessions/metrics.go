package sessions

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sip2_sessions_active",
			Help: "Number of terminal sessions currently registered",
		},
	)

	sessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sip2_sessions_expired_total",
			Help: "Sessions removed by the idle cleanup loop",
		},
	)

	resendsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sip2_resends_total",
			Help: "Resend requests per outcome (served or empty)",
		},
		[]string{"outcome"},
	)
)
