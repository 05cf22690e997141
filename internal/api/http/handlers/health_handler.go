package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-bridge/internal/helpdesk"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	client      *helpdesk.Client
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, client *helpdesk.Client) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, client: client}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by probing the upstream API.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	if err := h.client.Ping(ctx); err != nil {
		depStatus["helpdesk"] = err.Error()
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "DEPENDENCY_UNAVAILABLE",
				"message": "upstream helpdesk unavailable",
				"details": depStatus,
			},
		})
	}
	depStatus["helpdesk"] = "ok"

	return c.JSON(fiber.Map{
		"status":       "ready",
		"dependencies": depStatus,
	})
}
