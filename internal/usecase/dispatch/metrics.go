package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sip2_commands_total",
			Help: "SIP2 commands handled by command code and outcome",
		},
		[]string{"command", "outcome"},
	)

	commandSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sip2_command_seconds",
			Help:    "Time spent handling a SIP2 command, rendering included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
)
