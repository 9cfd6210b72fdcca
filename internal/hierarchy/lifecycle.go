package hierarchy

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/observability"
	"github.com/orgwise/orgchart-service/pkg/util/errorutil"
)

// EndRole stamps the end date (today when nil) on an active role. It returns
// false without error when the role had already ended.
func (e *Engine) EndRole(ctx context.Context, id int64, date *time.Time) (bool, error) {
	ctx, span := observability.StartSpan(ctx, "hierarchy.EndRole")
	defer span.End()

	var changed bool
	err := e.tx.WithTx(ctx, func(ctx context.Context) error {
		role, err := e.requireRole(ctx, id)
		if err != nil {
			return err
		}
		if !role.Active() {
			return nil
		}
		end := e.dateOrToday(date)
		if end.Before(role.StartDate) {
			return errorutil.NewValidationError("end date precedes role start date", map[string]any{
				"start_date": role.StartDate.Format(time.DateOnly),
				"end_date":   end.Format(time.DateOnly),
			})
		}
		changed, err = e.roles.End(ctx, id, end)
		if err != nil {
			return fmt.Errorf("end role %d: %w", id, err)
		}
		return nil
	})
	observability.RecordSpanError(span, err)
	return changed, err
}

// TransferRole ends the source role at date and opens an identical role for
// newPerson starting the same day. Both writes share one transaction.
func (e *Engine) TransferRole(ctx context.Context, id int64, newPerson string, date *time.Time) (*domain.Role, error) {
	ctx, span := observability.StartSpan(ctx, "hierarchy.TransferRole")
	defer span.End()

	var created *domain.Role
	err := e.tx.WithTx(ctx, func(ctx context.Context) error {
		source, err := e.requireRole(ctx, id)
		if err != nil {
			return err
		}
		if !source.Active() {
			return errorutil.NewConflict("role has already ended", map[string]any{"role_id": id})
		}
		if _, err := e.requirePerson(ctx, newPerson); err != nil {
			return err
		}
		if newPerson == source.PersonName {
			return errorutil.NewValidationError("role is already held by this person", map[string]any{"person": newPerson})
		}
		at := e.dateOrToday(date)
		if at.Before(source.StartDate) {
			return errorutil.NewValidationError("transfer date precedes role start date", map[string]any{
				"start_date":    source.StartDate.Format(time.DateOnly),
				"transfer_date": at.Format(time.DateOnly),
			})
		}

		ended, err := e.roles.End(ctx, id, at)
		if err != nil {
			return fmt.Errorf("end source role %d: %w", id, err)
		}
		if !ended {
			return errorutil.NewConflict("role has already ended", map[string]any{"role_id": id})
		}

		next := &domain.Role{
			PersonName:         newPerson,
			FunctionName:       source.FunctionName,
			OrganizationalUnit: source.OrganizationalUnit,
			JobTitleName:       source.JobTitleName,
			Percentage:         source.Percentage,
			AdInterim:          source.AdInterim,
			ReportsTo:          source.ReportsTo,
			StartDate:          at,
			Flags:              source.Flags,
		}
		if err := e.roles.Create(ctx, next); err != nil {
			return fmt.Errorf("create transferred role: %w", err)
		}
		created = next
		return nil
	})
	observability.RecordSpanError(span, err)
	if err != nil {
		return nil, err
	}
	e.logger.Info("role transferred",
		zap.Int64("source_role_id", id),
		zap.Int64("new_role_id", created.ID),
		zap.String("to", newPerson),
	)
	return created, nil
}

// BulkChangeManager repoints every active role reporting to oldManager.
func (e *Engine) BulkChangeManager(ctx context.Context, oldManager, newManager string) (int64, error) {
	ctx, span := observability.StartSpan(ctx, "hierarchy.BulkChangeManager")
	defer span.End()

	if oldManager == newManager {
		return 0, errorutil.NewValidationError("old and new manager are the same", map[string]any{"manager": oldManager})
	}

	var count int64
	err := e.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := e.requirePerson(ctx, newManager); err != nil {
			return err
		}
		n, err := e.roles.ReassignManager(ctx, oldManager, newManager)
		if err != nil {
			return fmt.Errorf("reassign manager: %w", err)
		}
		count = n
		return nil
	})
	observability.RecordSpanError(span, err)
	return count, err
}

// TerminationResult reports each step of a termination separately.
type TerminationResult struct {
	RolesEnded    int64
	StatusUpdated bool
	RolesErr      error
	StatusErr     error
}

// Complete reports whether both steps succeeded.
func (r TerminationResult) Complete() bool {
	return r.RolesErr == nil && r.StatusErr == nil && r.StatusUpdated
}

// TerminateEmployee ends every active role of the person and marks the person
// TERMINATED. The status step runs even when ending roles failed.
func (e *Engine) TerminateEmployee(ctx context.Context, name string, date *time.Time) (TerminationResult, error) {
	ctx, span := observability.StartSpan(ctx, "hierarchy.TerminateEmployee")
	defer span.End()

	var result TerminationResult
	if _, err := e.requirePerson(ctx, name); err != nil {
		observability.RecordSpanError(span, err)
		return result, err
	}

	end := e.dateOrToday(date)
	n, err := e.roles.EndAllForPerson(ctx, name, end)
	if err != nil {
		result.RolesErr = fmt.Errorf("end roles of %q: %w", name, err)
		e.logger.Error("termination: ending roles failed", zap.String("person", name), zap.Error(err))
	} else {
		result.RolesEnded = n
	}

	if err := e.persons.SetStatus(ctx, name, domain.PersonStatusTerminated); err != nil {
		result.StatusErr = fmt.Errorf("set status of %q: %w", name, err)
		e.logger.Error("termination: status update failed", zap.String("person", name), zap.Error(err))
	} else {
		result.StatusUpdated = true
	}
	return result, nil
}
