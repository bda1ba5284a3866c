package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vitalis-health/vitalis/pkg/Logger"
	"github.com/vitalis-health/vitalis/pkg/assistant/router"
)

type StatusHandler struct {
	registry *router.Registry
	tracker  *router.Tracker
	logger   *Logger.Logger
}

func NewStatusHandler(registry *router.Registry, tracker *router.Tracker, logger *Logger.Logger) *StatusHandler {
	return &StatusHandler{
		registry: registry,
		tracker:  tracker,
		logger:   logger,
	}
}

// GetStatus reports live per-backend health
// @Summary Router performance report
// @Description Returns each backend's tier and derived window metrics
// @Tags Router
// @Produce json
// @Success 200 {object} StatusResponse "Per-backend status"
// @Router /router/status [get]
func (h *StatusHandler) GetStatus(c *gin.Context) {
	backends := h.registry.List()
	out := make([]BackendStatus, 0, len(backends))
	for _, b := range backends {
		out = append(out, BackendStatus{
			Name:        b.Name,
			Role:        b.Role,
			Provider:    b.Provider,
			Tier:        h.tracker.Tier(b.Name),
			TimeoutSecs: b.Timeout.Seconds(),
			Metrics:     h.tracker.Snapshot(b.Name),
		})
	}

	c.JSON(http.StatusOK, StatusResponse{
		Backends:    out,
		GeneratedAt: time.Now().UTC(),
	})
}

// RegisterStatusRoutes registers router status routes
func (h *StatusHandler) RegisterStatusRoutes(r *gin.RouterGroup) {
	r.GET("/router/status", h.GetStatus)
}
