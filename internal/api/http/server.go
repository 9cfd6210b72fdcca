package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/orgwise/orgchart-service/internal/api/http/handlers"
	"github.com/orgwise/orgchart-service/internal/auth"
	"github.com/orgwise/orgchart-service/internal/observability"
	"github.com/orgwise/orgchart-service/internal/persistence"
	"github.com/orgwise/orgchart-service/internal/service"
)

// ServerDependencies bundles what the HTTP app needs.
type ServerDependencies struct {
	ServiceName    string
	Version        string
	Org            *service.OrgService
	AuthMiddleware *auth.AuthMiddleware
	Postgres       *persistence.Postgres
	Redis          *persistence.Redis
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	RequestTimeout time.Duration
}

// NewApp builds the fiber application with middlewares and routes.
func NewApp(deps ServerDependencies) *fiber.App {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:               deps.ServiceName,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, logger, deps.Metrics, deps.RequestTimeout)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(deps.ServiceName, deps.Version, deps.Postgres, deps.Redis),
		Persons:        handlers.NewPersonsHandler(deps.Org),
		Functions:      handlers.NewFunctionsHandler(deps.Org),
		JobTitles:      handlers.NewJobTitlesHandler(deps.Org),
		Roles:          handlers.NewRolesHandler(deps.Org),
		Reports:        handlers.NewReportsHandler(deps.Org),
		AuthMiddleware: deps.AuthMiddleware,
		Metrics:        deps.Metrics,
	})
	return app
}
