package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ressKim-io/shopper-predict/api-service/internal/domain/service"
)

// HealthHandler handles liveness and readiness endpoints.
// Neither check touches the network.
type HealthHandler struct {
	version  string
	endpoint service.Endpoint
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, endpoint service.Endpoint) *HealthHandler {
	return &HealthHandler{
		version:  version,
		endpoint: endpoint,
	}
}

// HealthStatus represents the liveness response
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ReadyStatus represents the readiness response
type ReadyStatus struct {
	Status   string `json:"status"`
	Endpoint string `json:"endpoint,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthStatus{
		Status:  "healthy",
		Version: h.version,
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.endpoint == nil {
		c.JSON(http.StatusServiceUnavailable, ReadyStatus{Status: "not ready", Error: "endpoint client not initialized"})
		return
	}

	name := h.endpoint.Name()
	if name == "" {
		c.JSON(http.StatusServiceUnavailable, ReadyStatus{Status: "not ready", Error: "endpoint name not configured"})
		return
	}

	c.JSON(http.StatusOK, ReadyStatus{
		Status:   "ready",
		Endpoint: name,
	})
}
