package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/circulation-toolkit/sip2gateway/internal/usecase/tenants"
	"github.com/circulation-toolkit/sip2gateway/pkg/logger"
)

type tenantRoutes struct {
	t   TenantsFeature
	cfg ConfigurationReloader
	l   logger.Interface
}

type tenantsResponse struct {
	Count   int              `json:"count"`
	Tenants []tenants.Tenant `json:"tenants"`
}

// NewTenantRoutes registers the tenant admin endpoints.
func NewTenantRoutes(handler *gin.RouterGroup, t TenantsFeature, cfg ConfigurationReloader, l logger.Interface) {
	r := &tenantRoutes{t: t, cfg: cfg, l: l}

	h := handler.Group("/tenants")
	{
		h.GET("", r.list)
		h.POST("/reload", r.reload)
		h.POST("/:tenant/configuration/reload", r.reloadConfiguration)
	}
}

func (r *tenantRoutes) list(c *gin.Context) {
	list := r.t.List()

	c.JSON(http.StatusOK, tenantsResponse{Count: len(list), Tenants: list})
}

func (r *tenantRoutes) reload(c *gin.Context) {
	if err := r.t.Reload(c.Request.Context()); err != nil {
		r.l.Error(err, "http - v1 - reload tenants")
		ErrorResponse(c, err)

		return
	}

	r.list(c)
}

func (r *tenantRoutes) reloadConfiguration(c *gin.Context) {
	tenant := c.Param("tenant")

	r.cfg.Reload(tenant)
	r.l.Info("http - v1 - dropped cached configuration of tenant %s", tenant)

	c.Status(http.StatusNoContent)
}
