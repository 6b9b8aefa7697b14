package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/circulation-toolkit/sip2gateway/internal/entity"
	"github.com/circulation-toolkit/sip2gateway/pkg/logger"
)

type sessionRoutes struct {
	s SessionsFeature
	l logger.Interface
}

type sessionsResponse struct {
	Count    int                  `json:"count"`
	Sessions []entity.SessionInfo `json:"sessions"`
}

// NewSessionRoutes -.
func NewSessionRoutes(handler *gin.RouterGroup, s SessionsFeature, l logger.Interface) {
	r := &sessionRoutes{s: s, l: l}

	h := handler.Group("/sessions")
	{
		h.GET("", r.list)
	}
}

func (r *sessionRoutes) list(c *gin.Context) {
	list := r.s.List()
	if list == nil {
		list = []entity.SessionInfo{}
	}

	c.JSON(http.StatusOK, sessionsResponse{Count: r.s.Count(), Sessions: list})
}
