// Package httpapi implements the admin HTTP routes.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/circulation-toolkit/sip2gateway/config"
	v1 "github.com/circulation-toolkit/sip2gateway/internal/controller/httpapi/v1"
	"github.com/circulation-toolkit/sip2gateway/pkg/logger"
)

// Usecases are the use cases the admin routes call.
type Usecases struct {
	Sessions      v1.SessionsFeature
	Tenants       v1.TenantsFeature
	Configuration v1.ConfigurationReloader
}

// NewRouter -.
func NewRouter(handler *gin.Engine, l logger.Interface, u Usecases, cfg *config.Config) {
	// Options
	handler.Use(gin.Logger())
	handler.Use(gin.Recovery())

	// K8s probe
	handler.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	// Prometheus metrics
	handler.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// version info
	vr := v1.NewVersionRoute(cfg)
	handler.GET("/version", vr.CurrentHandler)

	h := handler.Group("/api/v1")
	{
		v1.NewSessionRoutes(h, u.Sessions, l)
	}

	admin := handler.Group("/api/v1/admin")
	{
		v1.NewTenantRoutes(admin, u.Tenants, u.Configuration, l)
	}
}
