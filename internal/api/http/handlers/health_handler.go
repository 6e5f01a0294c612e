package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/secure-gateway/internal/persistence"
)

// HealthHandler responds to health probes.
type HealthHandler struct {
	serviceName string
	version     string
	postgres    *persistence.Postgres
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, postgres *persistence.Postgres) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, postgres: postgres}
}

// Check reports service health and dependency status.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	depStatus := fiber.Map{}
	healthy := true

	if h.postgres != nil && h.postgres.Pool != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := h.postgres.Pool.Ping(ctx); err != nil {
			depStatus["postgres"] = err.Error()
			healthy = false
		} else {
			depStatus["postgres"] = "ok"
		}
	} else {
		depStatus["credential_store"] = "in-memory"
	}

	status := fiber.StatusOK
	state := "healthy"
	if !healthy {
		status = fiber.StatusServiceUnavailable
		state = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":       state,
		"service":      h.serviceName,
		"version":      h.version,
		"dependencies": depStatus,
	})
}
