package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/office-helpdesk/internal/service"
)

// StatsHandler serves dashboard figures.
type StatsHandler struct {
	service *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{service: statsService}
}

// Dashboard GET /stats/dashboard.
func (h *StatsHandler) Dashboard(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.Dashboard()})
}
