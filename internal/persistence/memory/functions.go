package memory

import (
	"context"
	"sort"

	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/repository"
)

type functionRepo struct {
	s *Store
}

func cloneFunction(f domain.Function) domain.Function {
	f.ReportsTo = copyString(f.ReportsTo)
	f.Flags = copyString(f.Flags)
	return f
}

func (r *functionRepo) Create(ctx context.Context, fn *domain.Function) error {
	return r.s.write(ctx, func(st *state) error {
		if _, exists := st.functions[fn.Name]; exists {
			return repository.ErrDuplicate
		}
		now := r.s.timestamp()
		fn.ID = st.id()
		fn.CreatedAt = now
		fn.UpdatedAt = now
		st.functions[fn.Name] = cloneFunction(*fn)
		return nil
	})
}

func (r *functionRepo) Update(ctx context.Context, fn *domain.Function) error {
	return r.s.write(ctx, func(st *state) error {
		current, ok := st.functions[fn.Name]
		if !ok {
			return repository.ErrNotFound
		}
		current.ReportsTo = fn.ReportsTo
		current.Flags = fn.Flags
		current.UpdatedAt = r.s.timestamp()
		fn.UpdatedAt = current.UpdatedAt
		st.functions[fn.Name] = cloneFunction(current)
		return nil
	})
}

func (r *functionRepo) GetByName(ctx context.Context, name string) (*domain.Function, error) {
	var out *domain.Function
	err := r.s.read(ctx, func(st *state) error {
		f, ok := st.functions[name]
		if !ok {
			return repository.ErrNotFound
		}
		c := cloneFunction(f)
		out = &c
		return nil
	})
	return out, err
}

func (r *functionRepo) List(ctx context.Context) ([]domain.Function, error) {
	var out []domain.Function
	err := r.s.read(ctx, func(st *state) error {
		for _, f := range st.functions {
			out = append(out, cloneFunction(f))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *functionRepo) SetParent(ctx context.Context, name string, parent *string) error {
	return r.s.write(ctx, func(st *state) error {
		f, ok := st.functions[name]
		if !ok {
			return repository.ErrNotFound
		}
		f.ReportsTo = copyString(parent)
		f.UpdatedAt = r.s.timestamp()
		st.functions[name] = f
		return nil
	})
}

func (r *functionRepo) CountChildren(ctx context.Context, name string) (int, error) {
	var count int
	err := r.s.read(ctx, func(st *state) error {
		for _, f := range st.functions {
			if sameString(f.ReportsTo, name) {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *functionRepo) Delete(ctx context.Context, name string) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.functions[name]; !ok {
			return repository.ErrNotFound
		}
		delete(st.functions, name)
		return nil
	})
}
