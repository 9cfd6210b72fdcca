package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/orgwise/orgchart-service/internal/cache"
	"github.com/orgwise/orgchart-service/internal/events"
	"github.com/orgwise/orgchart-service/internal/hierarchy"
	"github.com/orgwise/orgchart-service/internal/observability"
	"github.com/orgwise/orgchart-service/internal/repository"
	"github.com/orgwise/orgchart-service/pkg/util/errorutil"
)

// OrgDependencies bundles collaborators for the org service.
type OrgDependencies struct {
	Store      *repository.Store
	Engine     *hierarchy.Engine
	Dispatcher events.Dispatcher
	Cache      *cache.ReadCache
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// OrgService is the single entry point for org chart operations. Mutations
// return an Outcome; reads return a value or a *errorutil.DomainError.
type OrgService struct {
	persons    repository.PersonRepository
	functions  repository.FunctionRepository
	jobTitles  repository.JobTitleRepository
	roles      repository.RoleRepository
	aliases    repository.AliasRepository
	reports    repository.ReportRepository
	engine     *hierarchy.Engine
	dispatcher events.Dispatcher
	cache      *cache.ReadCache
	metrics    *observability.Metrics
	logger     *zap.Logger
	validate   *validator.Validate
}

// NewOrgService constructs the service.
func NewOrgService(deps OrgDependencies) *OrgService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := deps.Engine
	if engine == nil {
		engine = hierarchy.NewEngineFromStore(deps.Store, logger)
	}
	readCache := deps.Cache
	if readCache == nil {
		readCache = cache.NewReadCache(nil, 0, logger)
	}
	return &OrgService{
		persons:    deps.Store.Persons,
		functions:  deps.Store.Functions,
		jobTitles:  deps.Store.JobTitles,
		roles:      deps.Store.Roles,
		aliases:    deps.Store.Aliases,
		reports:    deps.Store.Reports,
		engine:     engine,
		dispatcher: deps.Dispatcher,
		cache:      readCache,
		metrics:    deps.Metrics,
		logger:     logger,
		validate:   newValidator(),
	}
}

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Outcome is the uniform result of a mutating operation.
type Outcome struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Code    string         `json:"code,omitempty"`
	ID      *int64         `json:"id,omitempty"`
	Count   *int64         `json:"count,omitempty"`
	Details map[string]any `json:"details,omitempty"`

	err *errorutil.DomainError
}

// Err returns the failure behind an unsuccessful outcome.
func (o Outcome) Err() *errorutil.DomainError {
	return o.err
}

func succeeded(message string) Outcome {
	return Outcome{Success: true, Message: message}
}

func (o Outcome) withID(id int64) Outcome {
	o.ID = &id
	return o
}

func (o Outcome) withCount(n int64) Outcome {
	o.Count = &n
	return o
}

// fail converts err into a failed Outcome and records the operation.
func (s *OrgService) fail(op, resource string, err error) Outcome {
	de := s.toDomainError(op, resource, err)
	s.metrics.RecordOperation(op, de.Code)
	return Outcome{
		Success: false,
		Message: de.Message,
		Code:    de.Code,
		Details: de.Details,
		err:     de,
	}
}

func (s *OrgService) done(op string, out Outcome) Outcome {
	s.metrics.RecordOperation(op, "success")
	return out
}

// toDomainError maps engine and repository failures onto the error taxonomy.
// Storage failures are logged here since they never carry a user-facing reason.
func (s *OrgService) toDomainError(op, resource string, err error) *errorutil.DomainError {
	var de *errorutil.DomainError
	if errors.As(err, &de) {
		return de
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return errorutil.ToDomainError(errorutil.NewNotFound(resource, nil))
	case errors.Is(err, repository.ErrDuplicate):
		return errorutil.ToDomainError(errorutil.NewConflict(resource+" already exists", nil))
	case errors.Is(err, repository.ErrConstraint):
		return errorutil.ToDomainError(errorutil.NewValidationError(resource+" violates a storage constraint", nil))
	}
	s.logger.Error("storage failure", zap.String("operation", op), zap.Error(err))
	return errorutil.ToDomainError(errorutil.NewStorageError(err))
}

// readErr converts a read failure, returning nil for nil.
func (s *OrgService) readErr(op, resource string, err error) error {
	if err == nil {
		return nil
	}
	return s.toDomainError(op, resource, err)
}

func (s *OrgService) validateStruct(cmd any) error {
	err := s.validate.Struct(cmd)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errorutil.NewValidationError(err.Error(), nil)
	}
	details := make(map[string]any, len(fieldErrs))
	var names []string
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Tag()
		names = append(names, fe.Field())
	}
	return errorutil.NewValidationError("invalid fields: "+strings.Join(names, ", "), details)
}

func validatePercentage(p float64) error {
	if !(p > 0 && p <= 1) {
		return errorutil.NewValidationError(
			fmt.Sprintf("percentage must be greater than 0 and at most 1, got %v", p),
			map[string]any{"percentage": fmt.Sprint(p)},
		)
	}
	return nil
}

func validateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return errorutil.NewValidationError("end date precedes start date", map[string]any{
			"start_date": start.Format(time.DateOnly),
			"end_date":   end.Format(time.DateOnly),
		})
	}
	return nil
}

// exists reports whether lookup found a row; other failures are returned.
func exists(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *OrgService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Actor = events.ActorFrom(ctx)
	_ = s.dispatcher.Publish(ctx, event)
}
