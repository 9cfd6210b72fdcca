package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/orgwise/orgchart-service/internal/api/dto"
	"github.com/orgwise/orgchart-service/internal/service"
)

// JobTitlesHandler exposes job title endpoints.
type JobTitlesHandler struct {
	org *service.OrgService
}

// NewJobTitlesHandler constructs handler.
func NewJobTitlesHandler(org *service.OrgService) *JobTitlesHandler {
	return &JobTitlesHandler{org: org}
}

// Create handles POST /api/job-titles.
func (h *JobTitlesHandler) Create(c *fiber.Ctx) error {
	var req dto.JobTitleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	out := h.org.CreateJobTitle(c.UserContext(), service.JobTitleCommand{Name: req.Name, Level: req.Level, Flags: req.Flags})
	return respondOutcome(c, out, http.StatusCreated)
}

// List handles GET /api/job-titles.
func (h *JobTitlesHandler) List(c *fiber.Ctx) error {
	titles, err := h.org.ListJobTitles(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.JobTitleResponse, 0, len(titles))
	for i := range titles {
		resp = append(resp, jobTitleResponse(&titles[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /api/job-titles/:name.
func (h *JobTitlesHandler) Get(c *fiber.Ctx) error {
	title, err := h.org.GetJobTitle(c.UserContext(), nameParam(c, "name"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": jobTitleResponse(title)})
}

// Update handles PUT /api/job-titles/:name.
func (h *JobTitlesHandler) Update(c *fiber.Ctx) error {
	var req dto.JobTitleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	out := h.org.UpdateJobTitle(c.UserContext(), service.JobTitleCommand{
		Name:  nameParam(c, "name"),
		Level: req.Level,
		Flags: req.Flags,
	})
	return respondOutcome(c, out, http.StatusOK)
}

// Delete handles DELETE /api/job-titles/:name.
func (h *JobTitlesHandler) Delete(c *fiber.Ctx) error {
	return respondOutcome(c, h.org.DeleteJobTitle(c.UserContext(), nameParam(c, "name")), http.StatusOK)
}
