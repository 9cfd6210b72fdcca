package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/orgwise/orgchart-service/internal/api/http/handlers"
	"github.com/orgwise/orgchart-service/internal/auth"
	"github.com/orgwise/orgchart-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Persons        *handlers.PersonsHandler
	Functions      *handlers.FunctionsHandler
	JobTitles      *handlers.JobTitlesHandler
	Roles          *handlers.RolesHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Reads need any valid token, writes need
// editor access.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api", cfg.AuthMiddleware.Handle)
	read := auth.RequireAny()
	edit := auth.RequireEditor()

	persons := api.Group("/persons")
	persons.Get("/", read, cfg.Persons.List)
	persons.Get("/search", read, cfg.Persons.Search)
	persons.Post("/", edit, cfg.Persons.Create)
	persons.Get("/:name", read, cfg.Persons.Get)
	persons.Put("/:name", edit, cfg.Persons.Update)
	persons.Delete("/:name", edit, cfg.Persons.Delete)
	persons.Get("/:name/profile", read, cfg.Persons.Profile)
	persons.Get("/:name/reports", read, cfg.Persons.DirectReports)
	persons.Post("/:name/deactivate", edit, cfg.Persons.Deactivate)
	persons.Post("/:name/terminate", edit, cfg.Persons.Terminate)
	persons.Get("/:name/aliases", read, cfg.Persons.Aliases)
	persons.Post("/:name/aliases", edit, cfg.Persons.AddAlias)
	persons.Delete("/:name/aliases/:alias", edit, cfg.Persons.RemoveAlias)

	functions := api.Group("/functions")
	functions.Get("/", read, cfg.Functions.List)
	functions.Post("/", edit, cfg.Functions.Create)
	functions.Get("/:name", read, cfg.Functions.Get)
	functions.Put("/:name", edit, cfg.Functions.Update)
	functions.Delete("/:name", edit, cfg.Functions.Delete)
	functions.Get("/:name/details", read, cfg.Functions.Details)
	functions.Post("/:name/move", edit, cfg.Functions.Move)
	functions.Get("/:name/aliases", read, cfg.Functions.Aliases)
	functions.Post("/:name/aliases", edit, cfg.Functions.AddAlias)
	functions.Delete("/:name/aliases/:alias", edit, cfg.Functions.RemoveAlias)

	jobTitles := api.Group("/job-titles")
	jobTitles.Get("/", read, cfg.JobTitles.List)
	jobTitles.Post("/", edit, cfg.JobTitles.Create)
	jobTitles.Get("/:name", read, cfg.JobTitles.Get)
	jobTitles.Put("/:name", edit, cfg.JobTitles.Update)
	jobTitles.Delete("/:name", edit, cfg.JobTitles.Delete)

	roles := api.Group("/roles")
	roles.Get("/", read, cfg.Roles.List)
	roles.Get("/interim", read, cfg.Roles.Interim)
	roles.Post("/", edit, cfg.Roles.Create)
	roles.Get("/:id", read, cfg.Roles.Get)
	roles.Put("/:id", edit, cfg.Roles.Update)
	roles.Post("/:id/end", edit, cfg.Roles.End)
	roles.Post("/:id/transfer", edit, cfg.Roles.Transfer)

	api.Post("/managers/reassign", edit, cfg.Roles.ReassignManager)

	api.Get("/stats", read, cfg.Reports.Stats)
	api.Get("/stats/detailed", read, cfg.Reports.DetailedStats)
	api.Get("/dashboard", read, cfg.Reports.Dashboard)
	api.Get("/org-chart", read, cfg.Reports.OrgChart)
	api.Get("/function-tree", read, cfg.Reports.FunctionTree)
}
