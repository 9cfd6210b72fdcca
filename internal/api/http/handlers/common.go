package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/orgwise/orgchart-service/internal/api/dto"
	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/service"
	apperrors "github.com/orgwise/orgchart-service/pkg/util/errorutil"
)

// respondOutcome writes a mutation result. Failures travel to the error
// middleware; a no-op such as ending an ended role is a 200 with success=false.
func respondOutcome(c *fiber.Ctx, out service.Outcome, status int) error {
	if err := out.Err(); err != nil {
		return err
	}
	if !out.Success {
		status = http.StatusOK
	}
	return c.Status(status).JSON(fiber.Map{"data": out})
}

// parseBody decodes the request body into dest. An empty body leaves dest untouched.
func parseBody(c *fiber.Ctx, dest any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(dest); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func parseBoolQuery(c *fiber.Ctx, key string, defaultVal bool) bool {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// nameParam returns an unescaped path parameter; names may contain spaces.
func nameParam(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	if name, err := url.PathUnescape(raw); err == nil {
		return strings.TrimSpace(name)
	}
	return strings.TrimSpace(raw)
}

func idParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("id must be a positive integer", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}

func personResponse(p *domain.Person) dto.PersonResponse {
	return dto.PersonResponse{
		ID:         p.ID,
		Name:       p.Name,
		Email:      p.Email,
		EmployeeID: p.EmployeeID,
		HireDate:   dto.FormatDate(p.HireDate),
		Status:     p.Status,
		Flags:      p.Flags,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func functionResponse(f *domain.Function) dto.FunctionResponse {
	return dto.FunctionResponse{
		ID:        f.ID,
		Name:      f.Name,
		ReportsTo: f.ReportsTo,
		Flags:     f.Flags,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func jobTitleResponse(t *domain.JobTitle) dto.JobTitleResponse {
	return dto.JobTitleResponse{
		ID:        t.ID,
		Name:      t.Name,
		Level:     t.Level,
		Flags:     t.Flags,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func roleResponse(r *domain.Role) dto.RoleResponse {
	return dto.RoleResponse{
		ID:                 r.ID,
		PersonName:         r.PersonName,
		FunctionName:       r.FunctionName,
		OrganizationalUnit: r.OrganizationalUnit,
		JobTitleName:       r.JobTitleName,
		Percentage:         r.Percentage,
		AdInterim:          r.AdInterim,
		ReportsTo:          r.ReportsTo,
		StartDate:          r.StartDate.Format(time.DateOnly),
		EndDate:            dto.FormatDate(r.EndDate),
		State:              string(r.State()),
		Flags:              r.Flags,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func roleResponses(roles []domain.Role) []dto.RoleResponse {
	resp := make([]dto.RoleResponse, 0, len(roles))
	for i := range roles {
		resp = append(resp, roleResponse(&roles[i]))
	}
	return resp
}

func personAliasResponses(aliases []domain.PersonAlias) []dto.AliasResponse {
	resp := make([]dto.AliasResponse, 0, len(aliases))
	for _, a := range aliases {
		resp = append(resp, dto.AliasResponse{ID: a.ID, Owner: a.PersonName, Alias: a.Alias, Flags: a.Flags, CreatedAt: a.CreatedAt})
	}
	return resp
}

func functionAliasResponses(aliases []domain.FunctionAlias) []dto.AliasResponse {
	resp := make([]dto.AliasResponse, 0, len(aliases))
	for _, a := range aliases {
		resp = append(resp, dto.AliasResponse{ID: a.ID, Owner: a.FunctionName, Alias: a.Alias, Flags: a.Flags, CreatedAt: a.CreatedAt})
	}
	return resp
}
