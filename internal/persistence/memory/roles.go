package memory

import (
	"context"
	"sort"
	"time"

	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/repository"
)

type roleRepo struct {
	s *Store
}

func cloneRole(r domain.Role) domain.Role {
	r.OrganizationalUnit = copyString(r.OrganizationalUnit)
	r.JobTitleName = copyString(r.JobTitleName)
	r.ReportsTo = copyString(r.ReportsTo)
	r.EndDate = copyTime(r.EndDate)
	r.Flags = copyString(r.Flags)
	return r
}

// checkRole mirrors the table CHECK constraints.
func checkRole(r domain.Role) error {
	if !(r.Percentage > 0 && r.Percentage <= 1) {
		return repository.ErrConstraint
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return repository.ErrConstraint
	}
	return nil
}

func matchesRole(r domain.Role, f repository.RoleFilter) bool {
	switch {
	case f.PersonName != "" && r.PersonName != f.PersonName:
		return false
	case f.FunctionName != "" && r.FunctionName != f.FunctionName:
		return false
	case f.JobTitleName != "" && !sameString(r.JobTitleName, f.JobTitleName):
		return false
	case f.ReportsTo != "" && !sameString(r.ReportsTo, f.ReportsTo):
		return false
	case f.ActiveOnly && !r.Active():
		return false
	case f.InterimOnly && !r.AdInterim:
		return false
	}
	return true
}

func (r *roleRepo) Create(ctx context.Context, role *domain.Role) error {
	if err := checkRole(*role); err != nil {
		return err
	}
	return r.s.write(ctx, func(st *state) error {
		now := r.s.timestamp()
		role.ID = st.id()
		role.CreatedAt = now
		role.UpdatedAt = now
		st.roles[role.ID] = cloneRole(*role)
		return nil
	})
}

func (r *roleRepo) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	var out *domain.Role
	err := r.s.read(ctx, func(st *state) error {
		role, ok := st.roles[id]
		if !ok {
			return repository.ErrNotFound
		}
		c := cloneRole(role)
		out = &c
		return nil
	})
	return out, err
}

func (r *roleRepo) Update(ctx context.Context, role *domain.Role) error {
	return r.s.write(ctx, func(st *state) error {
		current, ok := st.roles[role.ID]
		if !ok || !current.Active() {
			return repository.ErrNotFound
		}
		current.OrganizationalUnit = role.OrganizationalUnit
		current.JobTitleName = role.JobTitleName
		current.Percentage = role.Percentage
		current.AdInterim = role.AdInterim
		current.ReportsTo = role.ReportsTo
		current.Flags = role.Flags
		if err := checkRole(current); err != nil {
			return err
		}
		current.UpdatedAt = r.s.timestamp()
		st.roles[role.ID] = cloneRole(current)
		return nil
	})
}

func (r *roleRepo) End(ctx context.Context, id int64, endDate time.Time) (bool, error) {
	var changed bool
	err := r.s.write(ctx, func(st *state) error {
		role, ok := st.roles[id]
		if !ok || !role.Active() {
			return nil
		}
		role.EndDate = &endDate
		if err := checkRole(role); err != nil {
			return err
		}
		role.UpdatedAt = r.s.timestamp()
		st.roles[id] = role
		changed = true
		return nil
	})
	return changed, err
}

func (r *roleRepo) EndAllForPerson(ctx context.Context, personName string, endDate time.Time) (int64, error) {
	var count int64
	err := r.s.write(ctx, func(st *state) error {
		now := r.s.timestamp()
		for id, role := range st.roles {
			if role.PersonName != personName || !role.Active() {
				continue
			}
			end := endDate
			if end.Before(role.StartDate) {
				end = role.StartDate
			}
			role.EndDate = &end
			role.UpdatedAt = now
			st.roles[id] = role
			count++
		}
		return nil
	})
	return count, err
}

func (r *roleRepo) ReassignManager(ctx context.Context, oldManager, newManager string) (int64, error) {
	var count int64
	err := r.s.write(ctx, func(st *state) error {
		now := r.s.timestamp()
		for id, role := range st.roles {
			if !role.Active() || !sameString(role.ReportsTo, oldManager) {
				continue
			}
			manager := newManager
			role.ReportsTo = &manager
			role.UpdatedAt = now
			st.roles[id] = role
			count++
		}
		return nil
	})
	return count, err
}

func (r *roleRepo) List(ctx context.Context, filter repository.RoleFilter) ([]domain.Role, error) {
	var out []domain.Role
	err := r.s.read(ctx, func(st *state) error {
		for _, role := range st.roles {
			if matchesRole(role, filter) {
				out = append(out, cloneRole(role))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].FunctionName != out[j].FunctionName {
			return out[i].FunctionName < out[j].FunctionName
		}
		if out[i].PersonName != out[j].PersonName {
			return out[i].PersonName < out[j].PersonName
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *roleRepo) CountActive(ctx context.Context, filter repository.RoleFilter) (int, error) {
	filter.ActiveOnly = true
	var count int
	err := r.s.read(ctx, func(st *state) error {
		for _, role := range st.roles {
			if matchesRole(role, filter) {
				count++
			}
		}
		return nil
	})
	return count, err
}
