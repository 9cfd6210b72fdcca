package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/events"
	"github.com/orgwise/orgchart-service/pkg/util/errorutil"
)

// CreateJobTitle stores a new job title.
func (s *OrgService) CreateJobTitle(ctx context.Context, cmd JobTitleCommand) Outcome {
	const op = "create_job_title"
	cmd.normalize()
	if err := s.validateStruct(cmd); err != nil {
		return s.fail(op, "job title", err)
	}
	_, err := s.jobTitles.GetByName(ctx, cmd.Name)
	found, err := exists(err)
	if err != nil {
		return s.fail(op, "job title", err)
	}
	if found {
		return s.fail(op, "job title", errorutil.NewConflict(
			fmt.Sprintf("job title %q already exists", cmd.Name), map[string]any{"name": cmd.Name}))
	}

	title := &domain.JobTitle{Name: cmd.Name, Level: cmd.Level, Flags: cmd.Flags}
	if err := s.jobTitles.Create(ctx, title); err != nil {
		return s.fail(op, "job title", err)
	}
	s.publish(ctx, events.NewEvent(events.EventJobTitleChanged, "job_title", title.Name, map[string]any{"action": "created"}))
	return s.done(op, succeeded(fmt.Sprintf("job title %q created", title.Name)).withID(title.ID))
}

// GetJobTitle returns a job title by name.
func (s *OrgService) GetJobTitle(ctx context.Context, name string) (*domain.JobTitle, error) {
	title, err := s.jobTitles.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, s.readErr("get_job_title", "job title", err)
	}
	return title, nil
}

// ListJobTitles lists job titles ordered by name.
func (s *OrgService) ListJobTitles(ctx context.Context) ([]domain.JobTitle, error) {
	titles, err := s.jobTitles.List(ctx)
	return titles, s.readErr("list_job_titles", "job title", err)
}

// UpdateJobTitle replaces the level and flags of a job title.
func (s *OrgService) UpdateJobTitle(ctx context.Context, cmd JobTitleCommand) Outcome {
	const op = "update_job_title"
	cmd.normalize()
	if err := s.validateStruct(cmd); err != nil {
		return s.fail(op, "job title", err)
	}
	title, err := s.jobTitles.GetByName(ctx, cmd.Name)
	if err != nil {
		return s.fail(op, "job title", err)
	}
	title.Level = cmd.Level
	title.Flags = cmd.Flags
	if err := s.jobTitles.Update(ctx, title); err != nil {
		return s.fail(op, "job title", err)
	}
	s.publish(ctx, events.NewEvent(events.EventJobTitleChanged, "job_title", title.Name, map[string]any{"action": "updated"}))
	return s.done(op, succeeded(fmt.Sprintf("job title %q updated", title.Name)).withID(title.ID))
}

// DeleteJobTitle removes a job title no active role uses.
func (s *OrgService) DeleteJobTitle(ctx context.Context, name string) Outcome {
	const op = "delete_job_title"
	name = strings.TrimSpace(name)
	if name == "" {
		return s.fail(op, "job title", errorutil.NewValidationError("name is required", nil))
	}
	if err := s.engine.DeleteJobTitle(ctx, name); err != nil {
		return s.fail(op, "job title", err)
	}
	s.publish(ctx, events.NewEvent(events.EventJobTitleChanged, "job_title", name, map[string]any{"action": "deleted"}))
	return s.done(op, succeeded(fmt.Sprintf("job title %q deleted", name)))
}
