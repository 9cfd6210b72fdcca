package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/orgwise/orgchart-service/internal/api/dto"
	"github.com/orgwise/orgchart-service/internal/service"
)

// RolesHandler exposes role endpoints.
type RolesHandler struct {
	org *service.OrgService
}

// NewRolesHandler constructs handler.
func NewRolesHandler(org *service.OrgService) *RolesHandler {
	return &RolesHandler{org: org}
}

// Create handles POST /api/roles.
func (h *RolesHandler) Create(c *fiber.Ctx) error {
	var req dto.RoleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	start, err := dto.ParseDate("start_date", req.StartDate)
	if err != nil {
		return err
	}
	end, err := dto.ParseDate("end_date", req.EndDate)
	if err != nil {
		return err
	}
	out := h.org.CreateRole(c.UserContext(), service.CreateRoleCommand{
		PersonName:         req.PersonName,
		FunctionName:       req.FunctionName,
		OrganizationalUnit: req.OrganizationalUnit,
		JobTitleName:       req.JobTitleName,
		Percentage:         req.Percentage,
		AdInterim:          req.AdInterim,
		ReportsTo:          req.ReportsTo,
		StartDate:          start,
		EndDate:            end,
		Flags:              req.Flags,
	})
	return respondOutcome(c, out, http.StatusCreated)
}

// List handles GET /api/roles with person, function, job_title, reports_to,
// active and interim filters.
func (h *RolesHandler) List(c *fiber.Ctx) error {
	var filter service.RoleListFilter
	if err := c.QueryParser(&filter); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid filter")
	}
	roles, err := h.org.ListRoles(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": roleResponses(roles)})
}

// Interim handles GET /api/roles/interim.
func (h *RolesHandler) Interim(c *fiber.Ctx) error {
	roles, err := h.org.ListInterimRoles(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": roleResponses(roles)})
}

// Get handles GET /api/roles/:id.
func (h *RolesHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	role, err := h.org.GetRole(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": roleResponse(role)})
}

// Update handles PUT /api/roles/:id.
func (h *RolesHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req dto.RoleUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	out := h.org.UpdateRole(c.UserContext(), service.UpdateRoleCommand{
		ID:                 id,
		OrganizationalUnit: req.OrganizationalUnit,
		JobTitleName:       req.JobTitleName,
		Percentage:         req.Percentage,
		AdInterim:          req.AdInterim,
		ReportsTo:          req.ReportsTo,
		Flags:              req.Flags,
	})
	return respondOutcome(c, out, http.StatusOK)
}

// End handles POST /api/roles/:id/end.
func (h *RolesHandler) End(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req dto.EndRoleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	date, err := dto.ParseDate("date", req.Date)
	if err != nil {
		return err
	}
	return respondOutcome(c, h.org.EndRole(c.UserContext(), service.EndRoleCommand{ID: id, Date: date}), http.StatusOK)
}

// Transfer handles POST /api/roles/:id/transfer.
func (h *RolesHandler) Transfer(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req dto.TransferRoleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	date, err := dto.ParseDate("date", req.Date)
	if err != nil {
		return err
	}
	out := h.org.TransferRole(c.UserContext(), service.TransferRoleCommand{
		RoleID:        id,
		NewPersonName: req.NewPersonName,
		Date:          date,
	})
	return respondOutcome(c, out, http.StatusCreated)
}

// ReassignManager handles POST /api/managers/reassign.
func (h *RolesHandler) ReassignManager(c *fiber.Ctx) error {
	var req dto.ReassignManagerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	out := h.org.BulkChangeManager(c.UserContext(), service.BulkChangeManagerCommand{
		OldManager: req.OldManager,
		NewManager: req.NewManager,
	})
	return respondOutcome(c, out, http.StatusOK)
}
