package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/events"
	"github.com/orgwise/orgchart-service/internal/repository"
	"github.com/orgwise/orgchart-service/pkg/util/errorutil"
)

const defaultPercentage = 1.0

// CreateRole assigns a person to a function. Person, function, job title and
// reporting manager must all exist.
func (s *OrgService) CreateRole(ctx context.Context, cmd CreateRoleCommand) Outcome {
	const op = "create_role"
	cmd.normalize()
	if err := s.validateStruct(cmd); err != nil {
		return s.fail(op, "role", err)
	}
	percentage := defaultPercentage
	if cmd.Percentage != nil {
		percentage = *cmd.Percentage
	}
	if err := validatePercentage(percentage); err != nil {
		return s.fail(op, "role", err)
	}
	start := s.engine.Today()
	if cmd.StartDate != nil {
		start = domain.DateOf(*cmd.StartDate)
	}
	end := dateOnly(cmd.EndDate)
	if err := validateDateRange(&start, end); err != nil {
		return s.fail(op, "role", err)
	}
	if err := s.checkRoleReferences(ctx, &cmd.PersonName, &cmd.FunctionName, cmd.JobTitleName, cmd.ReportsTo); err != nil {
		return s.fail(op, "role", err)
	}

	role := &domain.Role{
		PersonName:         cmd.PersonName,
		FunctionName:       cmd.FunctionName,
		OrganizationalUnit: cmd.OrganizationalUnit,
		JobTitleName:       cmd.JobTitleName,
		Percentage:         percentage,
		AdInterim:          cmd.AdInterim,
		ReportsTo:          cmd.ReportsTo,
		StartDate:          start,
		EndDate:            end,
		Flags:              cmd.Flags,
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return s.fail(op, "role", err)
	}
	s.publish(ctx, events.NewEvent(events.EventRoleCreated, "role", role.PersonName, map[string]any{
		"role_id":  role.ID,
		"function": role.FunctionName,
	}))
	return s.done(op, succeeded(fmt.Sprintf("%q assigned to %q", role.PersonName, role.FunctionName)).withID(role.ID))
}

// GetRole returns a role by id.
func (s *OrgService) GetRole(ctx context.Context, id int64) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, s.readErr("get_role", "role", err)
	}
	return role, nil
}

// ListRoles lists roles matching filter.
func (s *OrgService) ListRoles(ctx context.Context, filter RoleListFilter) ([]domain.Role, error) {
	roles, err := s.roles.List(ctx, repository.RoleFilter{
		PersonName:   strings.TrimSpace(filter.PersonName),
		FunctionName: strings.TrimSpace(filter.FunctionName),
		JobTitleName: strings.TrimSpace(filter.JobTitleName),
		ReportsTo:    strings.TrimSpace(filter.ReportsTo),
		ActiveOnly:   filter.ActiveOnly,
		InterimOnly:  filter.InterimOnly,
	})
	return roles, s.readErr("list_roles", "role", err)
}

// ListInterimRoles lists active ad interim roles.
func (s *OrgService) ListInterimRoles(ctx context.Context) ([]domain.Role, error) {
	return s.ListRoles(ctx, RoleListFilter{ActiveOnly: true, InterimOnly: true})
}

// GetDirectReports lists active roles reporting to manager.
func (s *OrgService) GetDirectReports(ctx context.Context, manager string) ([]domain.Role, error) {
	const op = "get_direct_reports"
	manager = strings.TrimSpace(manager)
	if _, err := s.persons.GetByName(ctx, manager); err != nil {
		return nil, s.readErr(op, "person", err)
	}
	roles, err := s.roles.List(ctx, repository.RoleFilter{ReportsTo: manager, ActiveOnly: true})
	return nonNil(roles), s.readErr(op, "role", err)
}

// UpdateRole changes non-temporal fields of an active role. Ended roles are
// reported as not found.
func (s *OrgService) UpdateRole(ctx context.Context, cmd UpdateRoleCommand) Outcome {
	const op = "update_role"
	cmd.normalize()
	if err := s.validateStruct(cmd); err != nil {
		return s.fail(op, "role", err)
	}
	if cmd.Percentage != nil {
		if err := validatePercentage(*cmd.Percentage); err != nil {
			return s.fail(op, "role", err)
		}
	}

	role, err := s.roles.GetByID(ctx, cmd.ID)
	if err != nil {
		return s.fail(op, "role", err)
	}
	if !role.Active() {
		return s.fail(op, "role", errorutil.NewNotFound("active role", map[string]any{"id": cmd.ID}))
	}
	if err := s.checkRoleReferences(ctx, nil, nil, cmd.JobTitleName, cmd.ReportsTo); err != nil {
		return s.fail(op, "role", err)
	}

	if cmd.OrganizationalUnit != nil {
		role.OrganizationalUnit = cmd.OrganizationalUnit
	}
	if cmd.JobTitleName != nil {
		role.JobTitleName = cmd.JobTitleName
	}
	if cmd.Percentage != nil {
		role.Percentage = *cmd.Percentage
	}
	if cmd.AdInterim != nil {
		role.AdInterim = *cmd.AdInterim
	}
	if cmd.ReportsTo != nil {
		role.ReportsTo = cmd.ReportsTo
	}
	if cmd.Flags != nil {
		role.Flags = cmd.Flags
	}
	if err := s.roles.Update(ctx, role); err != nil {
		return s.fail(op, "role", err)
	}
	s.publish(ctx, events.NewEvent(events.EventRoleUpdated, "role", role.PersonName, map[string]any{"role_id": role.ID}))
	return s.done(op, succeeded(fmt.Sprintf("role %d updated", role.ID)).withID(role.ID))
}

// EndRole ends an active role. Ending a role twice is reported as an
// unsuccessful outcome without an error.
func (s *OrgService) EndRole(ctx context.Context, cmd EndRoleCommand) Outcome {
	const op = "end_role"
	if err := s.validateStruct(cmd); err != nil {
		return s.fail(op, "role", err)
	}
	changed, err := s.engine.EndRole(ctx, cmd.ID, cmd.Date)
	if err != nil {
		return s.fail(op, "role", err)
	}
	if !changed {
		s.metrics.RecordOperation(op, "noop")
		return Outcome{Success: false, Message: fmt.Sprintf("role %d has already ended", cmd.ID)}.withID(cmd.ID)
	}
	s.publish(ctx, events.NewEvent(events.EventRoleEnded, "role", fmt.Sprint(cmd.ID), nil))
	return s.done(op, succeeded(fmt.Sprintf("role %d ended", cmd.ID)).withID(cmd.ID))
}

// TransferRole ends a role and hands an identical one to another person in one
// transaction.
func (s *OrgService) TransferRole(ctx context.Context, cmd TransferRoleCommand) Outcome {
	const op = "transfer_role"
	cmd.NewPersonName = strings.TrimSpace(cmd.NewPersonName)
	if err := s.validateStruct(cmd); err != nil {
		return s.fail(op, "role", err)
	}
	source, err := s.roles.GetByID(ctx, cmd.RoleID)
	if err != nil {
		return s.fail(op, "role", err)
	}
	created, err := s.engine.TransferRole(ctx, cmd.RoleID, cmd.NewPersonName, cmd.Date)
	if err != nil {
		return s.fail(op, "role", err)
	}
	s.publish(ctx, events.NewEvent(events.EventRoleTransferred, "role", created.FunctionName, events.RoleTransferredPayload{
		SourceRoleID: cmd.RoleID,
		NewRoleID:    created.ID,
		FromPerson:   source.PersonName,
		ToPerson:     created.PersonName,
		Date:         created.StartDate.Format(time.DateOnly),
	}))
	return s.done(op, succeeded(fmt.Sprintf("role %d transferred from %q to %q as role %d",
		cmd.RoleID, source.PersonName, created.PersonName, created.ID)).withID(created.ID))
}

// BulkChangeManager repoints every active role reporting to OldManager.
func (s *OrgService) BulkChangeManager(ctx context.Context, cmd BulkChangeManagerCommand) Outcome {
	const op = "bulk_change_manager"
	cmd.OldManager = strings.TrimSpace(cmd.OldManager)
	cmd.NewManager = strings.TrimSpace(cmd.NewManager)
	if err := s.validateStruct(cmd); err != nil {
		return s.fail(op, "role", err)
	}
	n, err := s.engine.BulkChangeManager(ctx, cmd.OldManager, cmd.NewManager)
	if err != nil {
		return s.fail(op, "person", err)
	}
	if n > 0 {
		s.publish(ctx, events.NewEvent(events.EventManagerReassigned, "person", cmd.NewManager, events.ManagerReassignedPayload{
			OldManager: cmd.OldManager,
			NewManager: cmd.NewManager,
			Count:      n,
		}))
	}
	return s.done(op, succeeded(fmt.Sprintf("%d roles moved from %q to %q", n, cmd.OldManager, cmd.NewManager)).withCount(n))
}

// checkRoleReferences verifies that every referenced entity exists. Nil
// references are skipped.
func (s *OrgService) checkRoleReferences(ctx context.Context, person, function, jobTitle, manager *string) error {
	if person != nil {
		if _, err := s.persons.GetByName(ctx, *person); err != nil {
			return s.referenceErr("person", *person, err)
		}
	}
	if function != nil {
		if _, err := s.functions.GetByName(ctx, *function); err != nil {
			return s.referenceErr("function", *function, err)
		}
	}
	if jobTitle != nil {
		if _, err := s.jobTitles.GetByName(ctx, *jobTitle); err != nil {
			return s.referenceErr("job title", *jobTitle, err)
		}
	}
	if manager != nil {
		if _, err := s.persons.GetByName(ctx, *manager); err != nil {
			return s.referenceErr("manager", *manager, err)
		}
	}
	return nil
}

func (s *OrgService) referenceErr(resource, name string, err error) error {
	found, err := exists(err)
	if err != nil {
		return err
	}
	if !found {
		return errorutil.NewNotFound(resource, map[string]any{"name": name})
	}
	return nil
}
