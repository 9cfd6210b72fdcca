package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/orgwise/orgchart-service/internal/api/dto"
	"github.com/orgwise/orgchart-service/internal/service"
)

// FunctionsHandler exposes function endpoints.
type FunctionsHandler struct {
	org *service.OrgService
}

// NewFunctionsHandler constructs handler.
func NewFunctionsHandler(org *service.OrgService) *FunctionsHandler {
	return &FunctionsHandler{org: org}
}

// Create handles POST /api/functions.
func (h *FunctionsHandler) Create(c *fiber.Ctx) error {
	var req dto.FunctionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	out := h.org.CreateFunction(c.UserContext(), service.CreateFunctionCommand{
		Name:      req.Name,
		ReportsTo: req.ReportsTo,
		Flags:     req.Flags,
	})
	return respondOutcome(c, out, http.StatusCreated)
}

// List handles GET /api/functions.
func (h *FunctionsHandler) List(c *fiber.Ctx) error {
	fns, err := h.org.ListFunctions(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.FunctionResponse, 0, len(fns))
	for i := range fns {
		resp = append(resp, functionResponse(&fns[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /api/functions/:name.
func (h *FunctionsHandler) Get(c *fiber.Ctx) error {
	fn, err := h.org.GetFunction(c.UserContext(), nameParam(c, "name"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": functionResponse(fn)})
}

// Details handles GET /api/functions/:name/details.
func (h *FunctionsHandler) Details(c *fiber.Ctx) error {
	details, err := h.org.GetFunctionDetails(c.UserContext(), nameParam(c, "name"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FunctionDetailsResponse{
		Function:     functionResponse(&details.Function),
		ActiveRoles:  roleResponses(details.ActiveRoles),
		Headcount:    details.Headcount,
		Dependencies: details.Dependencies,
		Aliases:      functionAliasResponses(details.Aliases),
		SubFunctions: details.SubFunctions,
	}})
}

// Update handles PUT /api/functions/:name.
func (h *FunctionsHandler) Update(c *fiber.Ctx) error {
	var req dto.FunctionUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	out := h.org.UpdateFunction(c.UserContext(), service.UpdateFunctionCommand{
		Name:      nameParam(c, "name"),
		ReportsTo: req.ReportsTo,
		Flags:     req.Flags,
	})
	return respondOutcome(c, out, http.StatusOK)
}

// Move handles POST /api/functions/:name/move.
func (h *FunctionsHandler) Move(c *fiber.Ctx) error {
	var req dto.MoveFunctionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	out := h.org.ReorganizeFunction(c.UserContext(), service.ReorganizeFunctionCommand{
		Name:      nameParam(c, "name"),
		NewParent: req.NewParent,
	})
	return respondOutcome(c, out, http.StatusOK)
}

// Delete handles DELETE /api/functions/:name.
func (h *FunctionsHandler) Delete(c *fiber.Ctx) error {
	return respondOutcome(c, h.org.DeleteFunction(c.UserContext(), nameParam(c, "name")), http.StatusOK)
}

// Aliases handles GET /api/functions/:name/aliases.
func (h *FunctionsHandler) Aliases(c *fiber.Ctx) error {
	aliases, err := h.org.GetFunctionAliases(c.UserContext(), nameParam(c, "name"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": functionAliasResponses(aliases)})
}

// AddAlias handles POST /api/functions/:name/aliases.
func (h *FunctionsHandler) AddAlias(c *fiber.Ctx) error {
	var req dto.AliasRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	out := h.org.AddFunctionAlias(c.UserContext(), service.AliasCommand{
		Owner: nameParam(c, "name"),
		Alias: req.Alias,
		Flags: req.Flags,
	})
	return respondOutcome(c, out, http.StatusCreated)
}

// RemoveAlias handles DELETE /api/functions/:name/aliases/:alias.
func (h *FunctionsHandler) RemoveAlias(c *fiber.Ctx) error {
	out := h.org.RemoveFunctionAlias(c.UserContext(), service.AliasCommand{
		Owner: nameParam(c, "name"),
		Alias: nameParam(c, "alias"),
	})
	return respondOutcome(c, out, http.StatusOK)
}
