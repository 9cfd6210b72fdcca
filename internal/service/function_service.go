package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/events"
	"github.com/orgwise/orgchart-service/internal/repository"
	"github.com/orgwise/orgchart-service/pkg/util/errorutil"
)

// FunctionDetails is a function with the roles, aliases and children attached to it.
type FunctionDetails struct {
	Function     domain.Function             `json:"function"`
	ActiveRoles  []domain.Role               `json:"active_roles"`
	Headcount    int                         `json:"headcount"`
	Dependencies domain.FunctionDependencies `json:"dependencies"`
	Aliases      []domain.FunctionAlias      `json:"aliases"`
	SubFunctions []string                    `json:"sub_functions"`
}

// CreateFunction stores a new function. A parent, when given, must exist.
func (s *OrgService) CreateFunction(ctx context.Context, cmd CreateFunctionCommand) Outcome {
	const op = "create_function"
	cmd.normalize()
	if err := s.validateStruct(cmd); err != nil {
		return s.fail(op, "function", err)
	}
	if cmd.ReportsTo != nil && *cmd.ReportsTo == cmd.Name {
		return s.fail(op, "function", errorutil.NewConflict(
			"a function cannot report to itself", map[string]any{"function": cmd.Name}))
	}

	_, err := s.functions.GetByName(ctx, cmd.Name)
	found, err := exists(err)
	if err != nil {
		return s.fail(op, "function", err)
	}
	if found {
		return s.fail(op, "function", errorutil.NewConflict(
			fmt.Sprintf("function %q already exists", cmd.Name), map[string]any{"name": cmd.Name}))
	}
	if cmd.ReportsTo != nil {
		if _, err := s.functions.GetByName(ctx, *cmd.ReportsTo); err != nil {
			return s.fail(op, "parent function", err)
		}
	}

	fn := &domain.Function{Name: cmd.Name, ReportsTo: cmd.ReportsTo, Flags: cmd.Flags}
	if err := s.functions.Create(ctx, fn); err != nil {
		return s.fail(op, "function", err)
	}
	s.publish(ctx, events.NewEvent(events.EventFunctionCreated, "function", fn.Name, nil))
	return s.done(op, succeeded(fmt.Sprintf("function %q created", fn.Name)).withID(fn.ID))
}

// GetFunction returns a function by name.
func (s *OrgService) GetFunction(ctx context.Context, name string) (*domain.Function, error) {
	fn, err := s.functions.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, s.readErr("get_function", "function", err)
	}
	return fn, nil
}

// GetFunctionDetails returns a function with its active roles, dependency
// counts, aliases and direct sub-functions.
func (s *OrgService) GetFunctionDetails(ctx context.Context, name string) (*FunctionDetails, error) {
	const op = "get_function_details"
	fn, err := s.functions.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, s.readErr(op, "function", err)
	}
	roles, err := s.roles.List(ctx, repository.RoleFilter{FunctionName: fn.Name, ActiveOnly: true})
	if err != nil {
		return nil, s.readErr(op, "role", err)
	}
	deps, err := s.engine.FunctionDependencies(ctx, fn.Name)
	if err != nil {
		return nil, s.readErr(op, "function", err)
	}
	aliases, err := s.aliases.ListFunctionAliases(ctx, fn.Name)
	if err != nil {
		return nil, s.readErr(op, "function alias", err)
	}
	all, err := s.functions.List(ctx)
	if err != nil {
		return nil, s.readErr(op, "function", err)
	}
	children := []string{}
	for _, f := range all {
		if f.ReportsTo != nil && *f.ReportsTo == fn.Name {
			children = append(children, f.Name)
		}
	}
	return &FunctionDetails{
		Function:     *fn,
		ActiveRoles:  nonNil(roles),
		Headcount:    len(roles),
		Dependencies: deps,
		Aliases:      nonNil(aliases),
		SubFunctions: children,
	}, nil
}

// ListFunctions lists functions ordered by name.
func (s *OrgService) ListFunctions(ctx context.Context) ([]domain.Function, error) {
	fns, err := s.functions.List(ctx)
	return fns, s.readErr("list_functions", "function", err)
}

// UpdateFunction replaces the parent and flags of a function. A parent change
// is rejected when it would create a cycle.
func (s *OrgService) UpdateFunction(ctx context.Context, cmd UpdateFunctionCommand) Outcome {
	const op = "update_function"
	cmd.normalize()
	if err := s.validateStruct(cmd); err != nil {
		return s.fail(op, "function", err)
	}
	fn, err := s.engine.UpdateFunction(ctx, cmd.Name, cmd.ReportsTo, cmd.Flags)
	if err != nil {
		return s.fail(op, "function", err)
	}
	s.publish(ctx, events.NewEvent(events.EventFunctionUpdated, "function", fn.Name, nil))
	return s.done(op, succeeded(fmt.Sprintf("function %q updated", fn.Name)).withID(fn.ID))
}

// DeleteFunction removes a function that has no sub-functions and no active roles.
func (s *OrgService) DeleteFunction(ctx context.Context, name string) Outcome {
	const op = "delete_function"
	name = strings.TrimSpace(name)
	if name == "" {
		return s.fail(op, "function", errorutil.NewValidationError("name is required", nil))
	}
	if err := s.engine.DeleteFunction(ctx, name); err != nil {
		return s.fail(op, "function", err)
	}
	s.publish(ctx, events.NewEvent(events.EventFunctionDeleted, "function", name, nil))
	return s.done(op, succeeded(fmt.Sprintf("function %q deleted", name)))
}

// ReorganizeFunction moves a function under a new parent, or to the root when
// NewParent is nil.
func (s *OrgService) ReorganizeFunction(ctx context.Context, cmd ReorganizeFunctionCommand) Outcome {
	const op = "reorganize_function"
	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.NewParent = trimOptional(cmd.NewParent)
	if err := s.validateStruct(cmd); err != nil {
		return s.fail(op, "function", err)
	}

	before, err := s.functions.GetByName(ctx, cmd.Name)
	if err != nil {
		return s.fail(op, "function", err)
	}
	if err := s.engine.ReorganizeFunction(ctx, cmd.Name, cmd.NewParent); err != nil {
		return s.fail(op, "function", err)
	}
	s.publish(ctx, events.NewEvent(events.EventFunctionMoved, "function", cmd.Name, events.FunctionMovedPayload{
		OldParent: before.ReportsTo,
		NewParent: cmd.NewParent,
	}))

	target := "root"
	if cmd.NewParent != nil {
		target = fmt.Sprintf("%q", *cmd.NewParent)
	}
	return s.done(op, succeeded(fmt.Sprintf("function %q moved under %s", cmd.Name, target)).withID(before.ID))
}

// AddFunctionAlias attaches an alias to an existing function.
func (s *OrgService) AddFunctionAlias(ctx context.Context, cmd AliasCommand) Outcome {
	const op = "add_function_alias"
	cmd.normalize()
	if err := s.validateStruct(cmd); err != nil {
		return s.fail(op, "function alias", err)
	}
	if _, err := s.functions.GetByName(ctx, cmd.Owner); err != nil {
		return s.fail(op, "function", err)
	}
	alias := &domain.FunctionAlias{FunctionName: cmd.Owner, Alias: cmd.Alias, Flags: cmd.Flags}
	if err := s.aliases.AddFunctionAlias(ctx, alias); err != nil {
		return s.fail(op, "function alias", err)
	}
	s.publish(ctx, events.NewEvent(events.EventAliasChanged, "function", cmd.Owner, map[string]any{"added": cmd.Alias}))
	return s.done(op, succeeded(fmt.Sprintf("alias %q added to %q", cmd.Alias, cmd.Owner)).withID(alias.ID))
}

// RemoveFunctionAlias detaches an alias from a function.
func (s *OrgService) RemoveFunctionAlias(ctx context.Context, cmd AliasCommand) Outcome {
	const op = "remove_function_alias"
	cmd.normalize()
	if err := s.validateStruct(cmd); err != nil {
		return s.fail(op, "function alias", err)
	}
	if err := s.aliases.RemoveFunctionAlias(ctx, cmd.Owner, cmd.Alias); err != nil {
		return s.fail(op, "function alias", err)
	}
	s.publish(ctx, events.NewEvent(events.EventAliasChanged, "function", cmd.Owner, map[string]any{"removed": cmd.Alias}))
	return s.done(op, succeeded(fmt.Sprintf("alias %q removed from %q", cmd.Alias, cmd.Owner)))
}

// GetFunctionAliases lists aliases of a function.
func (s *OrgService) GetFunctionAliases(ctx context.Context, name string) ([]domain.FunctionAlias, error) {
	const op = "get_function_aliases"
	name = strings.TrimSpace(name)
	if _, err := s.functions.GetByName(ctx, name); err != nil {
		return nil, s.readErr(op, "function", err)
	}
	aliases, err := s.aliases.ListFunctionAliases(ctx, name)
	return nonNil(aliases), s.readErr(op, "function alias", err)
}
