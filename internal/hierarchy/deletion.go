package hierarchy

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/observability"
	"github.com/orgwise/orgchart-service/internal/repository"
	"github.com/orgwise/orgchart-service/pkg/util/errorutil"
)

// FunctionDependencies counts child functions and active roles referencing name.
func (e *Engine) FunctionDependencies(ctx context.Context, name string) (domain.FunctionDependencies, error) {
	var deps domain.FunctionDependencies
	children, err := e.functions.CountChildren(ctx, name)
	if err != nil {
		return deps, fmt.Errorf("count sub functions of %q: %w", name, err)
	}
	active, err := e.roles.CountActive(ctx, repository.RoleFilter{FunctionName: name})
	if err != nil {
		return deps, fmt.Errorf("count active roles of %q: %w", name, err)
	}
	deps.SubFunctions = children
	deps.ActiveRoles = active
	return deps, nil
}

// DeleteFunction removes a function and its aliases when nothing depends on it.
func (e *Engine) DeleteFunction(ctx context.Context, name string) error {
	ctx, span := observability.StartSpan(ctx, "hierarchy.DeleteFunction")
	defer span.End()

	err := e.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := e.requireFunction(ctx, name); err != nil {
			return err
		}
		deps, err := e.FunctionDependencies(ctx, name)
		if err != nil {
			return err
		}
		if deps.Blocking() {
			return errorutil.NewConflict(
				fmt.Sprintf("function %q has %d sub-functions and %d active roles", name, deps.SubFunctions, deps.ActiveRoles),
				map[string]any{"sub_functions": deps.SubFunctions, "active_roles": deps.ActiveRoles},
			)
		}
		removed, err := e.aliases.DeleteFunctionAliases(ctx, name)
		if err != nil {
			return fmt.Errorf("delete aliases of %q: %w", name, err)
		}
		if err := e.functions.Delete(ctx, name); err != nil {
			return fmt.Errorf("delete function %q: %w", name, err)
		}
		e.logger.Debug("function deleted", zap.String("function", name), zap.Int64("aliases_removed", removed))
		return nil
	})
	observability.RecordSpanError(span, err)
	return err
}

// DeleteJobTitle removes a job title no active role references.
func (e *Engine) DeleteJobTitle(ctx context.Context, name string) error {
	ctx, span := observability.StartSpan(ctx, "hierarchy.DeleteJobTitle")
	defer span.End()

	err := e.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := e.jobTitles.GetByName(ctx, name); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errorutil.NewNotFound("job title", map[string]any{"name": name})
			}
			return fmt.Errorf("load job title %q: %w", name, err)
		}
		active, err := e.roles.CountActive(ctx, repository.RoleFilter{JobTitleName: name})
		if err != nil {
			return fmt.Errorf("count active roles for job title %q: %w", name, err)
		}
		if active > 0 {
			return errorutil.NewConflict(
				fmt.Sprintf("job title %q is used by %d active roles", name, active),
				map[string]any{"active_roles": active},
			)
		}
		if err := e.jobTitles.Delete(ctx, name); err != nil {
			return fmt.Errorf("delete job title %q: %w", name, err)
		}
		return nil
	})
	observability.RecordSpanError(span, err)
	return err
}

// DeletePerson hard-deletes a person without active roles, whatever the status.
// Ended roles stay as history.
func (e *Engine) DeletePerson(ctx context.Context, name string) error {
	ctx, span := observability.StartSpan(ctx, "hierarchy.DeletePerson")
	defer span.End()

	err := e.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := e.requirePerson(ctx, name); err != nil {
			return err
		}
		active, err := e.roles.CountActive(ctx, repository.RoleFilter{PersonName: name})
		if err != nil {
			return fmt.Errorf("count active roles of %q: %w", name, err)
		}
		if active > 0 {
			return errorutil.NewConflict(
				fmt.Sprintf("person %q still holds %d active roles", name, active),
				map[string]any{"active_roles": active},
			)
		}
		if _, err := e.aliases.DeletePersonAliases(ctx, name); err != nil {
			return fmt.Errorf("delete aliases of %q: %w", name, err)
		}
		if err := e.persons.Delete(ctx, name); err != nil {
			return fmt.Errorf("delete person %q: %w", name, err)
		}
		return nil
	})
	observability.RecordSpanError(span, err)
	return err
}
