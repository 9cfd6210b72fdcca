package memory

import (
	"context"
	"sort"

	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/repository"
)

type jobTitleRepo struct {
	s *Store
}

func cloneJobTitle(t domain.JobTitle) domain.JobTitle {
	t.Level = copyInt(t.Level)
	t.Flags = copyString(t.Flags)
	return t
}

func (r *jobTitleRepo) Create(ctx context.Context, title *domain.JobTitle) error {
	return r.s.write(ctx, func(st *state) error {
		if _, exists := st.jobTitles[title.Name]; exists {
			return repository.ErrDuplicate
		}
		now := r.s.timestamp()
		title.ID = st.id()
		title.CreatedAt = now
		title.UpdatedAt = now
		st.jobTitles[title.Name] = cloneJobTitle(*title)
		return nil
	})
}

func (r *jobTitleRepo) Update(ctx context.Context, title *domain.JobTitle) error {
	return r.s.write(ctx, func(st *state) error {
		current, ok := st.jobTitles[title.Name]
		if !ok {
			return repository.ErrNotFound
		}
		current.Level = title.Level
		current.Flags = title.Flags
		current.UpdatedAt = r.s.timestamp()
		title.UpdatedAt = current.UpdatedAt
		st.jobTitles[title.Name] = cloneJobTitle(current)
		return nil
	})
}

func (r *jobTitleRepo) GetByName(ctx context.Context, name string) (*domain.JobTitle, error) {
	var out *domain.JobTitle
	err := r.s.read(ctx, func(st *state) error {
		t, ok := st.jobTitles[name]
		if !ok {
			return repository.ErrNotFound
		}
		c := cloneJobTitle(t)
		out = &c
		return nil
	})
	return out, err
}

// List orders by level with unlevelled titles last, then by name.
func (r *jobTitleRepo) List(ctx context.Context) ([]domain.JobTitle, error) {
	var out []domain.JobTitle
	err := r.s.read(ctx, func(st *state) error {
		for _, t := range st.jobTitles {
			out = append(out, cloneJobTitle(t))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		li, lj := out[i].Level, out[j].Level
		switch {
		case li != nil && lj != nil && *li != *lj:
			return *li < *lj
		case li != nil && lj == nil:
			return true
		case li == nil && lj != nil:
			return false
		}
		return out[i].Name < out[j].Name
	})
	return out, err
}

func (r *jobTitleRepo) Delete(ctx context.Context, name string) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.jobTitles[name]; !ok {
			return repository.ErrNotFound
		}
		delete(st.jobTitles, name)
		return nil
	})
}
