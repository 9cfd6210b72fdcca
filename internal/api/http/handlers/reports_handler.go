package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/orgwise/orgchart-service/internal/api/dto"
	"github.com/orgwise/orgchart-service/internal/service"
)

// ReportsHandler exposes read-only aggregate views.
type ReportsHandler struct {
	org *service.OrgService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(org *service.OrgService) *ReportsHandler {
	return &ReportsHandler{org: org}
}

// Stats handles GET /api/stats.
func (h *ReportsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.org.GetStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// DetailedStats handles GET /api/stats/detailed.
func (h *ReportsHandler) DetailedStats(c *fiber.Ctx) error {
	stats, err := h.org.GetDetailedStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// Dashboard handles GET /api/dashboard.
func (h *ReportsHandler) Dashboard(c *fiber.Ctx) error {
	dashboard, err := h.org.GetDashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		Stats:         dashboard.Stats,
		RecentChanges: dashboard.RecentChanges,
		InterimRoles:  roleResponses(dashboard.InterimRoles),
	}})
}

// OrgChart handles GET /api/org-chart.
func (h *ReportsHandler) OrgChart(c *fiber.Ctx) error {
	chart, err := h.org.GetOrganizationChart(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": chart})
}

// FunctionTree handles GET /api/function-tree.
func (h *ReportsHandler) FunctionTree(c *fiber.Ctx) error {
	tree, err := h.org.GetFunctionTree(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tree})
}
