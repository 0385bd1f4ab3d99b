package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// breakerStatus exposes the upstream circuit state for probes.
type breakerStatus interface {
	BreakerState() string
}

type HealthHandler struct {
	api breakerStatus
}

func NewHealthHandler(api breakerStatus) *HealthHandler {
	return &HealthHandler{api: api}
}

func (h *HealthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/health", h.Health)
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"upstream": h.api.BreakerState(),
	})
}
