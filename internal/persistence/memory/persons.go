package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/repository"
)

type personRepo struct {
	s *Store
}

func clonePerson(p domain.Person) domain.Person {
	p.Email = copyString(p.Email)
	p.EmployeeID = copyString(p.EmployeeID)
	p.HireDate = copyTime(p.HireDate)
	p.Flags = copyString(p.Flags)
	return p
}

func employeeIDTaken(st *state, employeeID *string, owner string) bool {
	if employeeID == nil {
		return false
	}
	for _, p := range st.persons {
		if p.Name != owner && sameString(p.EmployeeID, *employeeID) {
			return true
		}
	}
	return false
}

func (r *personRepo) Create(ctx context.Context, person *domain.Person) error {
	return r.s.write(ctx, func(st *state) error {
		if _, exists := st.persons[person.Name]; exists {
			return repository.ErrDuplicate
		}
		if employeeIDTaken(st, person.EmployeeID, person.Name) {
			return repository.ErrDuplicate
		}
		now := r.s.timestamp()
		person.ID = st.id()
		person.CreatedAt = now
		person.UpdatedAt = now
		st.persons[person.Name] = clonePerson(*person)
		return nil
	})
}

func (r *personRepo) Update(ctx context.Context, person *domain.Person) error {
	return r.s.write(ctx, func(st *state) error {
		current, ok := st.persons[person.Name]
		if !ok {
			return repository.ErrNotFound
		}
		if employeeIDTaken(st, person.EmployeeID, person.Name) {
			return repository.ErrDuplicate
		}
		current.Email = person.Email
		current.EmployeeID = person.EmployeeID
		current.HireDate = person.HireDate
		current.Status = person.Status
		current.Flags = person.Flags
		current.UpdatedAt = r.s.timestamp()
		person.UpdatedAt = current.UpdatedAt
		st.persons[person.Name] = clonePerson(current)
		return nil
	})
}

func (r *personRepo) GetByName(ctx context.Context, name string) (*domain.Person, error) {
	var out *domain.Person
	err := r.s.read(ctx, func(st *state) error {
		p, ok := st.persons[name]
		if !ok {
			return repository.ErrNotFound
		}
		c := clonePerson(p)
		out = &c
		return nil
	})
	return out, err
}

func (r *personRepo) GetByEmployeeID(ctx context.Context, employeeID string) (*domain.Person, error) {
	var out *domain.Person
	err := r.s.read(ctx, func(st *state) error {
		for _, p := range st.persons {
			if sameString(p.EmployeeID, employeeID) {
				c := clonePerson(p)
				out = &c
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *personRepo) List(ctx context.Context, activeOnly bool) ([]domain.Person, error) {
	var out []domain.Person
	err := r.s.read(ctx, func(st *state) error {
		for _, p := range st.persons {
			if activeOnly && p.Status != domain.PersonStatusActive {
				continue
			}
			out = append(out, clonePerson(p))
		}
		return nil
	})
	sortPersons(out)
	return out, err
}

func (r *personRepo) Search(ctx context.Context, term string) ([]domain.Person, error) {
	needle := strings.ToLower(term)
	contains := func(v string) bool { return strings.Contains(strings.ToLower(v), needle) }

	var out []domain.Person
	err := r.s.read(ctx, func(st *state) error {
		matched := make(map[string]bool)
		for _, p := range st.persons {
			if contains(p.Name) || (p.EmployeeID != nil && contains(*p.EmployeeID)) {
				matched[p.Name] = true
			}
		}
		for _, a := range st.personAliases {
			if _, ok := st.persons[a.PersonName]; ok && contains(a.Alias) {
				matched[a.PersonName] = true
			}
		}
		for name := range matched {
			out = append(out, clonePerson(st.persons[name]))
		}
		return nil
	})
	sortPersons(out)
	return out, err
}

func (r *personRepo) SetStatus(ctx context.Context, name string, status domain.PersonStatus) error {
	return r.s.write(ctx, func(st *state) error {
		p, ok := st.persons[name]
		if !ok {
			return repository.ErrNotFound
		}
		p.Status = status
		p.UpdatedAt = r.s.timestamp()
		st.persons[name] = p
		return nil
	})
}

func (r *personRepo) Delete(ctx context.Context, name string) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.persons[name]; !ok {
			return repository.ErrNotFound
		}
		delete(st.persons, name)
		return nil
	})
}

func sortPersons(list []domain.Person) {
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
}
