package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tour-backoffice/internal/observability"
	"github.com/spec-kit/tour-backoffice/internal/persistence"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	startedAt   time.Time
	postgres    *persistence.Postgres
	redis       *persistence.Redis
	metrics     *observability.Metrics
}

func NewHealthHandler(serviceName, version string, postgres *persistence.Postgres, redis *persistence.Redis, metrics *observability.Metrics) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		startedAt:   time.Now(),
		postgres:    postgres,
		redis:       redis,
		metrics:     metrics,
	}
}

// Live reports process liveness only; no dependency checks.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":          "ok",
		"service":         h.serviceName,
		"version":         h.version,
		"uptime":          time.Since(h.startedAt).Round(time.Second).String(),
		"requests_served": h.metrics.RequestTotal(),
	})
}

// Ready checks the backing stores and returns 503 when any is unreachable.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	type check struct {
		Name   string `json:"name"`
		Status string `json:"status"`
		Error  string `json:"error,omitempty"`
	}

	checks := []check{
		{Name: "postgres", Status: "ok"},
		{Name: "redis", Status: "ok"},
	}
	ready := true

	if err := h.postgres.Ping(ctx); err != nil {
		checks[0].Status = "unavailable"
		checks[0].Error = err.Error()
		ready = false
	}
	if err := h.redis.Ping(ctx); err != nil {
		checks[1].Status = "unavailable"
		checks[1].Error = err.Error()
		ready = false
	}

	status := fiber.StatusOK
	state := "ready"
	if !ready {
		status = fiber.StatusServiceUnavailable
		state = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": state,
		"checks": checks,
	})
}
