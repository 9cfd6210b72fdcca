package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/events"
	"github.com/orgwise/orgchart-service/internal/repository"
	"github.com/orgwise/orgchart-service/pkg/util/errorutil"
)

const minSearchTermLength = 2

// EmployeeProfile is a person with their current roles and direct reports.
type EmployeeProfile struct {
	Person            domain.Person `json:"person"`
	ActiveRoles       []domain.Role `json:"active_roles"`
	DirectReports     []domain.Role `json:"direct_reports"`
	DirectReportCount int           `json:"direct_report_count"`
}

// CreatePerson validates and stores a new person.
func (s *OrgService) CreatePerson(ctx context.Context, cmd CreatePersonCommand) Outcome {
	const op = "create_person"
	cmd.normalize()
	if cmd.Status == "" {
		cmd.Status = domain.PersonStatusActive
	}
	if err := s.validateStruct(cmd); err != nil {
		return s.fail(op, "person", err)
	}

	_, err := s.persons.GetByName(ctx, cmd.Name)
	found, err := exists(err)
	if err != nil {
		return s.fail(op, "person", err)
	}
	if found {
		return s.fail(op, "person", errorutil.NewConflict(
			fmt.Sprintf("person %q already exists", cmd.Name), map[string]any{"name": cmd.Name}))
	}
	if err := s.checkEmployeeID(ctx, cmd.EmployeeID, ""); err != nil {
		return s.fail(op, "person", err)
	}

	person := &domain.Person{
		Name:       cmd.Name,
		Email:      cmd.Email,
		EmployeeID: cmd.EmployeeID,
		HireDate:   dateOnly(cmd.HireDate),
		Status:     cmd.Status,
		Flags:      cmd.Flags,
	}
	if err := s.persons.Create(ctx, person); err != nil {
		return s.fail(op, "person", err)
	}
	s.publish(ctx, events.NewEvent(events.EventPersonCreated, "person", person.Name, nil))
	return s.done(op, succeeded(fmt.Sprintf("person %q created", person.Name)).withID(person.ID))
}

// GetPerson returns a person by name.
func (s *OrgService) GetPerson(ctx context.Context, name string) (*domain.Person, error) {
	person, err := s.persons.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, s.readErr("get_person", "person", err)
	}
	return person, nil
}

// ListPersons lists persons ordered by name, optionally only ACTIVE ones.
func (s *OrgService) ListPersons(ctx context.Context, activeOnly bool) ([]domain.Person, error) {
	persons, err := s.persons.List(ctx, activeOnly)
	return persons, s.readErr("list_persons", "person", err)
}

// UpdatePerson applies the non-nil fields of cmd. Moving a TERMINATED person
// back to another status is allowed but flagged in the outcome and the log.
func (s *OrgService) UpdatePerson(ctx context.Context, cmd UpdatePersonCommand) Outcome {
	const op = "update_person"
	cmd.normalize()
	if err := s.validateStruct(cmd); err != nil {
		return s.fail(op, "person", err)
	}

	person, err := s.persons.GetByName(ctx, cmd.Name)
	if err != nil {
		return s.fail(op, "person", err)
	}
	if cmd.EmployeeID != nil {
		if err := s.checkEmployeeID(ctx, cmd.EmployeeID, person.Name); err != nil {
			return s.fail(op, "person", err)
		}
		person.EmployeeID = cmd.EmployeeID
	}
	if cmd.Email != nil {
		person.Email = cmd.Email
	}
	if cmd.HireDate != nil {
		person.HireDate = dateOnly(cmd.HireDate)
	}
	if cmd.Flags != nil {
		person.Flags = cmd.Flags
	}

	message := fmt.Sprintf("person %q updated", person.Name)
	if cmd.Status != nil {
		if person.Status == domain.PersonStatusTerminated && *cmd.Status != domain.PersonStatusTerminated {
			s.logger.Warn("terminated person reactivated",
				zap.String("person", person.Name),
				zap.String("new_status", string(*cmd.Status)),
				zap.String("actor", events.ActorFrom(ctx)),
			)
			message = fmt.Sprintf("person %q updated; status changed from TERMINATED to %s", person.Name, *cmd.Status)
		}
		person.Status = *cmd.Status
	}

	if err := s.persons.Update(ctx, person); err != nil {
		return s.fail(op, "person", err)
	}
	s.publish(ctx, events.NewEvent(events.EventPersonUpdated, "person", person.Name, nil))
	return s.done(op, succeeded(message).withID(person.ID))
}

// DeactivatePerson moves a person to INACTIVE.
func (s *OrgService) DeactivatePerson(ctx context.Context, name string) Outcome {
	return s.setPersonStatus(ctx, "deactivate_person", strings.TrimSpace(name), domain.PersonStatusInactive)
}

// DeletePerson terminates the person when soft is true, otherwise removes the
// row after checking no active role remains.
func (s *OrgService) DeletePerson(ctx context.Context, name string, soft bool) Outcome {
	name = strings.TrimSpace(name)
	if soft {
		return s.setPersonStatus(ctx, "soft_delete_person", name, domain.PersonStatusTerminated)
	}

	const op = "delete_person"
	if name == "" {
		return s.fail(op, "person", errorutil.NewValidationError("name is required", nil))
	}
	if err := s.engine.DeletePerson(ctx, name); err != nil {
		return s.fail(op, "person", err)
	}
	s.publish(ctx, events.NewEvent(events.EventPersonDeleted, "person", name, nil))
	return s.done(op, succeeded(fmt.Sprintf("person %q deleted", name)))
}

func (s *OrgService) setPersonStatus(ctx context.Context, op, name string, status domain.PersonStatus) Outcome {
	if name == "" {
		return s.fail(op, "person", errorutil.NewValidationError("name is required", nil))
	}
	if err := s.persons.SetStatus(ctx, name, status); err != nil {
		return s.fail(op, "person", err)
	}
	s.publish(ctx, events.NewEvent(events.EventPersonUpdated, "person", name, map[string]any{"status": status}))
	return s.done(op, succeeded(fmt.Sprintf("person %q set to %s", name, status)))
}

// TerminateEmployee ends every active role and marks the person TERMINATED.
// A partial failure is reported rather than hidden.
func (s *OrgService) TerminateEmployee(ctx context.Context, cmd TerminateEmployeeCommand) Outcome {
	const op = "terminate_employee"
	cmd.Name = strings.TrimSpace(cmd.Name)
	if err := s.validateStruct(cmd); err != nil {
		return s.fail(op, "person", err)
	}

	result, err := s.engine.TerminateEmployee(ctx, cmd.Name, cmd.Date)
	if err != nil {
		return s.fail(op, "person", err)
	}
	details := map[string]any{
		"roles_ended":    result.RolesEnded,
		"status_updated": result.StatusUpdated,
	}
	if result.RolesEnded > 0 || result.StatusUpdated {
		s.publish(ctx, events.NewEvent(events.EventPersonTerminated, "person", cmd.Name, events.PersonTerminatedPayload{
			RolesEnded:    result.RolesEnded,
			StatusUpdated: result.StatusUpdated,
		}))
	}

	if !result.Complete() {
		if result.RolesErr != nil {
			details["roles_error"] = result.RolesErr.Error()
		}
		if result.StatusErr != nil {
			details["status_error"] = result.StatusErr.Error()
		}
		s.logger.Warn("partial termination", zap.String("person", cmd.Name), zap.Any("details", details))
		out := s.fail(op, "person", errorutil.NewDomainError(
			errorutil.CodeStorage,
			fmt.Sprintf("termination of %q only partially applied", cmd.Name),
			500,
			details,
		))
		return out.withCount(result.RolesEnded)
	}

	out := succeeded(fmt.Sprintf("%q terminated, %d roles ended", cmd.Name, result.RolesEnded)).withCount(result.RolesEnded)
	out.Details = details
	return s.done(op, out)
}

// SearchPersons matches term against names, aliases and employee ids. Terms
// shorter than two characters return nothing.
func (s *OrgService) SearchPersons(ctx context.Context, term string) ([]domain.Person, error) {
	term = strings.TrimSpace(term)
	if len([]rune(term)) < minSearchTermLength {
		return []domain.Person{}, nil
	}
	persons, err := s.persons.Search(ctx, term)
	return persons, s.readErr("search_persons", "person", err)
}

// GetEmployeeProfile returns a person with active roles and direct reports.
func (s *OrgService) GetEmployeeProfile(ctx context.Context, name string) (*EmployeeProfile, error) {
	const op = "get_employee_profile"
	person, err := s.persons.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, s.readErr(op, "person", err)
	}
	active, err := s.roles.List(ctx, repository.RoleFilter{PersonName: person.Name, ActiveOnly: true})
	if err != nil {
		return nil, s.readErr(op, "role", err)
	}
	reports, err := s.roles.List(ctx, repository.RoleFilter{ReportsTo: person.Name, ActiveOnly: true})
	if err != nil {
		return nil, s.readErr(op, "role", err)
	}
	return &EmployeeProfile{
		Person:            *person,
		ActiveRoles:       nonNil(active),
		DirectReports:     nonNil(reports),
		DirectReportCount: len(reports),
	}, nil
}

// AddPersonAlias attaches an alias to an existing person.
func (s *OrgService) AddPersonAlias(ctx context.Context, cmd AliasCommand) Outcome {
	const op = "add_person_alias"
	cmd.normalize()
	if err := s.validateStruct(cmd); err != nil {
		return s.fail(op, "person alias", err)
	}
	if _, err := s.persons.GetByName(ctx, cmd.Owner); err != nil {
		return s.fail(op, "person", err)
	}
	alias := &domain.PersonAlias{PersonName: cmd.Owner, Alias: cmd.Alias, Flags: cmd.Flags}
	if err := s.aliases.AddPersonAlias(ctx, alias); err != nil {
		return s.fail(op, "person alias", err)
	}
	s.publish(ctx, events.NewEvent(events.EventAliasChanged, "person", cmd.Owner, map[string]any{"added": cmd.Alias}))
	return s.done(op, succeeded(fmt.Sprintf("alias %q added to %q", cmd.Alias, cmd.Owner)).withID(alias.ID))
}

// RemovePersonAlias detaches an alias from a person.
func (s *OrgService) RemovePersonAlias(ctx context.Context, cmd AliasCommand) Outcome {
	const op = "remove_person_alias"
	cmd.normalize()
	if err := s.validateStruct(cmd); err != nil {
		return s.fail(op, "person alias", err)
	}
	if err := s.aliases.RemovePersonAlias(ctx, cmd.Owner, cmd.Alias); err != nil {
		return s.fail(op, "person alias", err)
	}
	s.publish(ctx, events.NewEvent(events.EventAliasChanged, "person", cmd.Owner, map[string]any{"removed": cmd.Alias}))
	return s.done(op, succeeded(fmt.Sprintf("alias %q removed from %q", cmd.Alias, cmd.Owner)))
}

// ListPersonAliases lists aliases of a person.
func (s *OrgService) ListPersonAliases(ctx context.Context, name string) ([]domain.PersonAlias, error) {
	const op = "list_person_aliases"
	name = strings.TrimSpace(name)
	if _, err := s.persons.GetByName(ctx, name); err != nil {
		return nil, s.readErr(op, "person", err)
	}
	aliases, err := s.aliases.ListPersonAliases(ctx, name)
	return nonNil(aliases), s.readErr(op, "person alias", err)
}

func (s *OrgService) checkEmployeeID(ctx context.Context, employeeID *string, owner string) error {
	if employeeID == nil {
		return nil
	}
	other, err := s.persons.GetByEmployeeID(ctx, *employeeID)
	found, err := exists(err)
	if err != nil {
		return err
	}
	if found && other.Name != owner {
		return errorutil.NewConflict(
			fmt.Sprintf("employee id %q already belongs to %q", *employeeID, other.Name),
			map[string]any{"employee_id": *employeeID},
		)
	}
	return nil
}

func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := domain.DateOf(*t)
	return &d
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
