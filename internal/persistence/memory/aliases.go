package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/repository"
)

type aliasRepo struct {
	s *Store
}

func (r *aliasRepo) AddPersonAlias(ctx context.Context, alias *domain.PersonAlias) error {
	return r.s.write(ctx, func(st *state) error {
		for _, a := range st.personAliases {
			if a.PersonName == alias.PersonName && a.Alias == alias.Alias {
				return repository.ErrDuplicate
			}
		}
		alias.ID = st.id()
		alias.CreatedAt = r.s.timestamp()
		c := *alias
		c.Flags = copyString(alias.Flags)
		st.personAliases = append(st.personAliases, c)
		return nil
	})
}

func (r *aliasRepo) RemovePersonAlias(ctx context.Context, personName, alias string) error {
	return r.s.write(ctx, func(st *state) error {
		before := len(st.personAliases)
		st.personAliases = slices.DeleteFunc(st.personAliases, func(a domain.PersonAlias) bool {
			return a.PersonName == personName && a.Alias == alias
		})
		if len(st.personAliases) == before {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *aliasRepo) ListPersonAliases(ctx context.Context, personName string) ([]domain.PersonAlias, error) {
	var out []domain.PersonAlias
	err := r.s.read(ctx, func(st *state) error {
		for _, a := range st.personAliases {
			if a.PersonName == personName {
				out = append(out, a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Alias < out[j].Alias })
	return out, err
}

func (r *aliasRepo) DeletePersonAliases(ctx context.Context, personName string) (int64, error) {
	var removed int64
	err := r.s.write(ctx, func(st *state) error {
		before := len(st.personAliases)
		st.personAliases = slices.DeleteFunc(st.personAliases, func(a domain.PersonAlias) bool {
			return a.PersonName == personName
		})
		removed = int64(before - len(st.personAliases))
		return nil
	})
	return removed, err
}

func (r *aliasRepo) AddFunctionAlias(ctx context.Context, alias *domain.FunctionAlias) error {
	return r.s.write(ctx, func(st *state) error {
		for _, a := range st.functionAliases {
			if a.FunctionName == alias.FunctionName && a.Alias == alias.Alias {
				return repository.ErrDuplicate
			}
		}
		alias.ID = st.id()
		alias.CreatedAt = r.s.timestamp()
		c := *alias
		c.Flags = copyString(alias.Flags)
		st.functionAliases = append(st.functionAliases, c)
		return nil
	})
}

func (r *aliasRepo) RemoveFunctionAlias(ctx context.Context, functionName, alias string) error {
	return r.s.write(ctx, func(st *state) error {
		before := len(st.functionAliases)
		st.functionAliases = slices.DeleteFunc(st.functionAliases, func(a domain.FunctionAlias) bool {
			return a.FunctionName == functionName && a.Alias == alias
		})
		if len(st.functionAliases) == before {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *aliasRepo) ListFunctionAliases(ctx context.Context, functionName string) ([]domain.FunctionAlias, error) {
	var out []domain.FunctionAlias
	err := r.s.read(ctx, func(st *state) error {
		for _, a := range st.functionAliases {
			if a.FunctionName == functionName {
				out = append(out, a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Alias < out[j].Alias })
	return out, err
}

func (r *aliasRepo) DeleteFunctionAliases(ctx context.Context, functionName string) (int64, error) {
	var removed int64
	err := r.s.write(ctx, func(st *state) error {
		before := len(st.functionAliases)
		st.functionAliases = slices.DeleteFunc(st.functionAliases, func(a domain.FunctionAlias) bool {
			return a.FunctionName == functionName
		})
		removed = int64(before - len(st.functionAliases))
		return nil
	})
	return removed, err
}
