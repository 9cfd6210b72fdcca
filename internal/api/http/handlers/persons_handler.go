package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/orgwise/orgchart-service/internal/api/dto"
	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/service"
)

// PersonsHandler exposes person endpoints.
type PersonsHandler struct {
	org *service.OrgService
}

// NewPersonsHandler constructs handler.
func NewPersonsHandler(org *service.OrgService) *PersonsHandler {
	return &PersonsHandler{org: org}
}

// Create handles POST /api/persons.
func (h *PersonsHandler) Create(c *fiber.Ctx) error {
	var req dto.PersonRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	hireDate, err := dto.ParseDate("hire_date", req.HireDate)
	if err != nil {
		return err
	}
	out := h.org.CreatePerson(c.UserContext(), service.CreatePersonCommand{
		Name:       req.Name,
		Email:      req.Email,
		EmployeeID: req.EmployeeID,
		HireDate:   hireDate,
		Status:     domain.PersonStatus(req.Status),
		Flags:      req.Flags,
	})
	return respondOutcome(c, out, http.StatusCreated)
}

// List handles GET /api/persons.
func (h *PersonsHandler) List(c *fiber.Ctx) error {
	persons, err := h.org.ListPersons(c.UserContext(), parseBoolQuery(c, "active", false))
	if err != nil {
		return err
	}
	resp := make([]dto.PersonResponse, 0, len(persons))
	for i := range persons {
		resp = append(resp, personResponse(&persons[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Search handles GET /api/persons/search?q=.
func (h *PersonsHandler) Search(c *fiber.Ctx) error {
	persons, err := h.org.SearchPersons(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	resp := make([]dto.PersonResponse, 0, len(persons))
	for i := range persons {
		resp = append(resp, personResponse(&persons[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /api/persons/:name.
func (h *PersonsHandler) Get(c *fiber.Ctx) error {
	person, err := h.org.GetPerson(c.UserContext(), nameParam(c, "name"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": personResponse(person)})
}

// Profile handles GET /api/persons/:name/profile.
func (h *PersonsHandler) Profile(c *fiber.Ctx) error {
	profile, err := h.org.GetEmployeeProfile(c.UserContext(), nameParam(c, "name"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProfileResponse{
		Person:            personResponse(&profile.Person),
		ActiveRoles:       roleResponses(profile.ActiveRoles),
		DirectReports:     roleResponses(profile.DirectReports),
		DirectReportCount: profile.DirectReportCount,
	}})
}

// DirectReports handles GET /api/persons/:name/reports.
func (h *PersonsHandler) DirectReports(c *fiber.Ctx) error {
	roles, err := h.org.GetDirectReports(c.UserContext(), nameParam(c, "name"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": roleResponses(roles)})
}

// Update handles PUT /api/persons/:name.
func (h *PersonsHandler) Update(c *fiber.Ctx) error {
	var req dto.PersonUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	hireDate, err := dto.ParseDate("hire_date", req.HireDate)
	if err != nil {
		return err
	}
	cmd := service.UpdatePersonCommand{
		Name:       nameParam(c, "name"),
		Email:      req.Email,
		EmployeeID: req.EmployeeID,
		HireDate:   hireDate,
		Flags:      req.Flags,
	}
	if req.Status != nil {
		status := domain.PersonStatus(*req.Status)
		cmd.Status = &status
	}
	return respondOutcome(c, h.org.UpdatePerson(c.UserContext(), cmd), http.StatusOK)
}

// Deactivate handles POST /api/persons/:name/deactivate.
func (h *PersonsHandler) Deactivate(c *fiber.Ctx) error {
	return respondOutcome(c, h.org.DeactivatePerson(c.UserContext(), nameParam(c, "name")), http.StatusOK)
}

// Terminate handles POST /api/persons/:name/terminate.
func (h *PersonsHandler) Terminate(c *fiber.Ctx) error {
	var req dto.TerminateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	date, err := dto.ParseDate("date", req.Date)
	if err != nil {
		return err
	}
	out := h.org.TerminateEmployee(c.UserContext(), service.TerminateEmployeeCommand{
		Name: nameParam(c, "name"),
		Date: date,
	})
	return respondOutcome(c, out, http.StatusOK)
}

// Delete handles DELETE /api/persons/:name; ?soft=true terminates instead.
func (h *PersonsHandler) Delete(c *fiber.Ctx) error {
	out := h.org.DeletePerson(c.UserContext(), nameParam(c, "name"), parseBoolQuery(c, "soft", false))
	return respondOutcome(c, out, http.StatusOK)
}

// Aliases handles GET /api/persons/:name/aliases.
func (h *PersonsHandler) Aliases(c *fiber.Ctx) error {
	aliases, err := h.org.ListPersonAliases(c.UserContext(), nameParam(c, "name"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": personAliasResponses(aliases)})
}

// AddAlias handles POST /api/persons/:name/aliases.
func (h *PersonsHandler) AddAlias(c *fiber.Ctx) error {
	var req dto.AliasRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	out := h.org.AddPersonAlias(c.UserContext(), service.AliasCommand{
		Owner: nameParam(c, "name"),
		Alias: req.Alias,
		Flags: req.Flags,
	})
	return respondOutcome(c, out, http.StatusCreated)
}

// RemoveAlias handles DELETE /api/persons/:name/aliases/:alias.
func (h *PersonsHandler) RemoveAlias(c *fiber.Ctx) error {
	out := h.org.RemovePersonAlias(c.UserContext(), service.AliasCommand{
		Owner: nameParam(c, "name"),
		Alias: nameParam(c, "alias"),
	})
	return respondOutcome(c, out, http.StatusOK)
}
