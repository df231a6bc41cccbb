package handlers

import (
	"statefin-backend/internal/config"
	"statefin-backend/internal/jobs"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	cfg     *config.Config
	monitor *jobs.HealthMonitor
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cfg *config.Config, monitor *jobs.HealthMonitor) *HealthHandler {
	return &HealthHandler{cfg: cfg, monitor: monitor}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns API status
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "🚀 StateFin API v1.0 is running",
		"mode":    h.cfg.AppMode,
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck reports the last scheduled probe of each dependency
// @Summary Health check
// @Description Database and Redis status from the periodic health monitor
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	checks, healthy := h.monitor.Snapshot()

	status, code := "ok", fiber.StatusOK
	if !healthy {
		status, code = "degraded", fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": checks,
	})
}
