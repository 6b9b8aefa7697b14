package tenants

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tenantReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sip2_tenant_reloads_total",
			Help: "Tenant registry reloads by outcome",
		},
		[]string{"outcome"},
	)

	tenantsConfigured = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sip2_tenants_configured",
		Help: "Number of tenant entries in the current snapshot",
	})
)
