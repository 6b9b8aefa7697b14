package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/circulation-toolkit/sip2gateway/config"
)

// VersionRoute reports the running build.
type VersionRoute struct {
	Name    string `json:"name"`
	Repo    string `json:"repo"`
	Version string `json:"version"`
}

// NewVersionRoute -.
func NewVersionRoute(cfg *config.Config) *VersionRoute {
	return &VersionRoute{Name: cfg.App.Name, Repo: cfg.App.Repo, Version: cfg.App.Version}
}

// CurrentHandler reports the running build.
func (v *VersionRoute) CurrentHandler(c *gin.Context) {
	c.JSON(http.StatusOK, v)
}
