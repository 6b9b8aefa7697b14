package terminal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeAccepted = "accepted"
	outcomeRejected = "rejected"
	outcomeIdle     = "idle_timeout"
)

var (
	connectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sip2_connections_active",
		Help: "Open terminal connections",
	})

	connectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sip2_connections_total",
			Help: "Terminal connections by outcome",
		},
		[]string{"outcome"},
	)

	messagesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sip2_messages_received_total",
		Help: "SIP2 messages read from terminals",
	})
)
