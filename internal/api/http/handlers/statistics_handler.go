package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tour-backoffice/internal/service"
)

// StatisticsHandler serves reporting endpoints.
type StatisticsHandler struct {
	service *service.StatisticsService
}

// NewStatisticsHandler constructs handler.
func NewStatisticsHandler(statisticsService *service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{service: statisticsService}
}

// Snapshot GET /staff/statistics.
func (h *StatisticsHandler) Snapshot(c *fiber.Ctx) error {
	snapshot, err := h.service.Snapshot(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": snapshot})
}

// ExportCSV GET /staff/statistics/export.
func (h *StatisticsHandler) ExportCSV(c *fiber.Ctx) error {
	report, err := h.service.ExportCSV(c.UserContext())
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="statistics.csv"`)
	return c.Send(report)
}
