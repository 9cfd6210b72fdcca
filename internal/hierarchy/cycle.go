package hierarchy

import (
	"context"
	"errors"
	"fmt"

	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/observability"
	"github.com/orgwise/orgchart-service/internal/repository"
	"github.com/orgwise/orgchart-service/pkg/util/errorutil"
)

// WouldCreateCycle reports whether making proposedParent the parent of
// functionName closes a loop. The walk follows reports_to upward from
// proposedParent and stops at a root, a missing function, or a node already
// visited; the last case is an unrelated pre-existing cycle and is not reported.
func (e *Engine) WouldCreateCycle(ctx context.Context, functionName string, proposedParent *string) (bool, error) {
	if proposedParent == nil {
		return false, nil
	}

	visited := make(map[string]struct{})
	current := *proposedParent
	for {
		if current == functionName {
			return true, nil
		}
		if _, seen := visited[current]; seen {
			return false, nil
		}
		visited[current] = struct{}{}

		fn, err := e.functions.GetByName(ctx, current)
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("walk hierarchy at %q: %w", current, err)
		}
		if fn.ReportsTo == nil {
			return false, nil
		}
		current = *fn.ReportsTo
	}
}

// ReorganizeFunction moves name under newParent, or makes it a root when
// newParent is nil. Nothing is written when any check fails.
func (e *Engine) ReorganizeFunction(ctx context.Context, name string, newParent *string) error {
	ctx, span := observability.StartSpan(ctx, "hierarchy.ReorganizeFunction")
	defer span.End()

	err := e.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := e.requireFunction(ctx, name); err != nil {
			return err
		}
		if err := e.checkParent(ctx, name, newParent); err != nil {
			return err
		}
		if err := e.functions.SetParent(ctx, name, newParent); err != nil {
			return fmt.Errorf("set parent of %q: %w", name, err)
		}
		return nil
	})
	observability.RecordSpanError(span, err)
	return err
}

// UpdateFunction writes reports_to and flags. A changed parent goes through the
// same checks as ReorganizeFunction.
func (e *Engine) UpdateFunction(ctx context.Context, name string, reportsTo, flags *string) (*domain.Function, error) {
	ctx, span := observability.StartSpan(ctx, "hierarchy.UpdateFunction")
	defer span.End()

	var updated *domain.Function
	err := e.tx.WithTx(ctx, func(ctx context.Context) error {
		fn, err := e.requireFunction(ctx, name)
		if err != nil {
			return err
		}
		if !sameParent(fn.ReportsTo, reportsTo) {
			if err := e.checkParent(ctx, name, reportsTo); err != nil {
				return err
			}
		}
		fn.ReportsTo = reportsTo
		fn.Flags = flags
		if err := e.functions.Update(ctx, fn); err != nil {
			return fmt.Errorf("update function %q: %w", name, err)
		}
		updated = fn
		return nil
	})
	observability.RecordSpanError(span, err)
	return updated, err
}

func (e *Engine) checkParent(ctx context.Context, name string, parent *string) error {
	if parent == nil {
		return nil
	}
	if *parent == name {
		return errorutil.NewConflict("a function cannot report to itself", map[string]any{"function": name})
	}
	if _, err := e.requireFunction(ctx, *parent); err != nil {
		return err
	}
	cycle, err := e.WouldCreateCycle(ctx, name, parent)
	if err != nil {
		return err
	}
	if cycle {
		return errorutil.NewConflict(
			fmt.Sprintf("moving %q under %q would create a cycle", name, *parent),
			map[string]any{"function": name, "reports_to": *parent},
		)
	}
	return nil
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
