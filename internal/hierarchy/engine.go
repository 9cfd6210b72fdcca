// Package hierarchy holds the business rules that keep the function tree acyclic
// and drive role lifecycles. It is stateless: every decision is taken from the
// rows returned by the repositories.
package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/repository"
	"github.com/orgwise/orgchart-service/pkg/util/errorutil"
)

// Dependencies bundles collaborators for the engine.
type Dependencies struct {
	Persons   repository.PersonRepository
	Functions repository.FunctionRepository
	JobTitles repository.JobTitleRepository
	Roles     repository.RoleRepository
	Aliases   repository.AliasRepository
	Tx        repository.Transactor
	Logger    *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Engine enforces hierarchy and role lifecycle rules.
type Engine struct {
	persons   repository.PersonRepository
	functions repository.FunctionRepository
	jobTitles repository.JobTitleRepository
	roles     repository.RoleRepository
	aliases   repository.AliasRepository
	tx        repository.Transactor
	logger    *zap.Logger
	now       func() time.Time
}

// NewEngine constructs the engine.
func NewEngine(deps Dependencies) *Engine {
	e := &Engine{
		persons:   deps.Persons,
		functions: deps.Functions,
		jobTitles: deps.JobTitles,
		roles:     deps.Roles,
		aliases:   deps.Aliases,
		tx:        deps.Tx,
		logger:    deps.Logger,
		now:       deps.Now,
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// NewEngineFromStore wires the engine over a repository bundle.
func NewEngineFromStore(store *repository.Store, logger *zap.Logger) *Engine {
	return NewEngine(Dependencies{
		Persons:   store.Persons,
		Functions: store.Functions,
		JobTitles: store.JobTitles,
		Roles:     store.Roles,
		Aliases:   store.Aliases,
		Tx:        store.Tx,
		Logger:    logger,
	})
}

// Today returns the current calendar day.
func (e *Engine) Today() time.Time {
	return domain.DateOf(e.now())
}

func (e *Engine) dateOrToday(date *time.Time) time.Time {
	if date == nil {
		return e.Today()
	}
	return domain.DateOf(*date)
}

func (e *Engine) requirePerson(ctx context.Context, name string) (*domain.Person, error) {
	person, err := e.persons.GetByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errorutil.NewNotFound("person", map[string]any{"name": name})
	}
	if err != nil {
		return nil, fmt.Errorf("load person %q: %w", name, err)
	}
	return person, nil
}

func (e *Engine) requireFunction(ctx context.Context, name string) (*domain.Function, error) {
	fn, err := e.functions.GetByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errorutil.NewNotFound("function", map[string]any{"name": name})
	}
	if err != nil {
		return nil, fmt.Errorf("load function %q: %w", name, err)
	}
	return fn, nil
}

func (e *Engine) requireRole(ctx context.Context, id int64) (*domain.Role, error) {
	role, err := e.roles.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errorutil.NewNotFound("role", map[string]any{"id": id})
	}
	if err != nil {
		return nil, fmt.Errorf("load role %d: %w", id, err)
	}
	return role, nil
}
