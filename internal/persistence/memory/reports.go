package memory

import (
	"context"
	"sort"

	"github.com/orgwise/orgchart-service/internal/domain"
)

type reportRepo struct {
	s *Store
}

func (r *reportRepo) Stats(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats
	err := r.s.read(ctx, func(st *state) error {
		for _, p := range st.persons {
			if p.Status == domain.PersonStatusActive {
				stats.TotalPersons++
			}
		}
		stats.TotalFunctions = len(st.functions)
		perPerson := make(map[string]int)
		for _, role := range st.roles {
			if !role.Active() {
				continue
			}
			stats.TotalRoles++
			if role.AdInterim {
				stats.InterimRoles++
			}
			perPerson[role.PersonName]++
		}
		for _, n := range perPerson {
			if n > 1 {
				stats.MultiRolePersons++
			}
		}
		return nil
	})
	return stats, err
}

func (r *reportRepo) FunctionsByHeadcount(ctx context.Context, limit int) ([]domain.FunctionHeadcount, error) {
	var out []domain.FunctionHeadcount
	err := r.s.read(ctx, func(st *state) error {
		counts := make(map[string]int)
		for _, role := range st.roles {
			if role.Active() {
				counts[role.FunctionName]++
			}
		}
		for name, n := range counts {
			out = append(out, domain.FunctionHeadcount{FunctionName: name, RoleCount: n})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoleCount != out[j].RoleCount {
			return out[i].RoleCount > out[j].RoleCount
		}
		return out[i].FunctionName < out[j].FunctionName
	})
	return truncate(out, limit), err
}

func (r *reportRepo) TopJobTitles(ctx context.Context, limit int) ([]domain.JobTitleUsage, error) {
	var out []domain.JobTitleUsage
	err := r.s.read(ctx, func(st *state) error {
		counts := make(map[string]int)
		for _, role := range st.roles {
			if role.Active() && role.JobTitleName != nil {
				counts[*role.JobTitleName]++
			}
		}
		for name, n := range counts {
			out = append(out, domain.JobTitleUsage{JobTitleName: name, RoleCount: n})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoleCount != out[j].RoleCount {
			return out[i].RoleCount > out[j].RoleCount
		}
		return out[i].JobTitleName < out[j].JobTitleName
	})
	return truncate(out, limit), err
}

func (r *reportRepo) MultiRolePersons(ctx context.Context) ([]domain.MultiRolePerson, error) {
	var out []domain.MultiRolePerson
	err := r.s.read(ctx, func(st *state) error {
		functions := make(map[string][]string)
		for _, role := range st.roles {
			if role.Active() {
				functions[role.PersonName] = append(functions[role.PersonName], role.FunctionName)
			}
		}
		for person, fns := range functions {
			if len(fns) < 2 {
				continue
			}
			sort.Strings(fns)
			out = append(out, domain.MultiRolePerson{PersonName: person, RoleCount: len(fns), Functions: fns})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoleCount != out[j].RoleCount {
			return out[i].RoleCount > out[j].RoleCount
		}
		return out[i].PersonName < out[j].PersonName
	})
	return out, err
}

func (r *reportRepo) FunctionTree(ctx context.Context) ([]domain.FunctionTreeNode, error) {
	var out []domain.FunctionTreeNode
	err := r.s.read(ctx, func(st *state) error {
		headcount := make(map[string]int)
		for _, role := range st.roles {
			if role.Active() {
				headcount[role.FunctionName]++
			}
		}
		out = buildTree(st.functions, headcount)
		return nil
	})
	return out, err
}

func (r *reportRepo) OrganizationChart(ctx context.Context) ([]domain.OrgChartNode, error) {
	var out []domain.OrgChartNode
	err := r.s.read(ctx, func(st *state) error {
		holders := make(map[string][]domain.Role)
		for _, role := range st.roles {
			if role.Active() {
				holders[role.FunctionName] = append(holders[role.FunctionName], role)
			}
		}
		for _, node := range buildTree(st.functions, nil) {
			roles := holders[node.Name]
			if len(roles) == 0 {
				out = append(out, domain.OrgChartNode{
					FunctionName: node.Name,
					Level:        node.Level,
					Path:         node.Path,
					ReportsTo:    copyString(node.ReportsTo),
				})
				continue
			}
			for _, role := range roles {
				person := role.PersonName
				out = append(out, domain.OrgChartNode{
					FunctionName:       node.Name,
					Level:              node.Level,
					Path:               node.Path,
					PersonName:         &person,
					JobTitleName:       copyString(role.JobTitleName),
					OrganizationalUnit: copyString(role.OrganizationalUnit),
					AdInterim:          role.AdInterim,
					ReportsTo:          copyString(node.ReportsTo),
					PersonReportsTo:    copyString(role.ReportsTo),
				})
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		if a.FunctionName != b.FunctionName {
			return a.FunctionName < b.FunctionName
		}
		switch {
		case a.PersonName == nil:
			return false
		case b.PersonName == nil:
			return true
		}
		return *a.PersonName < *b.PersonName
	})
	return out, err
}

func (r *reportRepo) RecentChanges(ctx context.Context, limit int) ([]domain.ChangeLogEntry, error) {
	var out []domain.ChangeLogEntry
	err := r.s.read(ctx, func(st *state) error {
		out = append(out, st.changes...)
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ChangedAt.Equal(out[j].ChangedAt) {
			return out[i].ChangedAt.After(out[j].ChangedAt)
		}
		return out[i].ID > out[j].ID
	})
	return truncate(out, limit), err
}

// buildTree walks down from the roots. Functions in a cycle or under a missing
// parent are never reached, matching the recursive view.
func buildTree(functions map[string]domain.Function, headcount map[string]int) []domain.FunctionTreeNode {
	children := make(map[string][]string)
	var roots []string
	for name, fn := range functions {
		if fn.ReportsTo == nil {
			roots = append(roots, name)
			continue
		}
		children[*fn.ReportsTo] = append(children[*fn.ReportsTo], name)
	}
	sort.Strings(roots)

	var out []domain.FunctionTreeNode
	visited := make(map[string]bool)
	frontier := make([]domain.FunctionTreeNode, 0, len(roots))
	for _, name := range roots {
		frontier = append(frontier, domain.FunctionTreeNode{Name: name, Path: name})
	}
	for len(frontier) > 0 {
		node := frontier[0]
		frontier = frontier[1:]
		if visited[node.Name] {
			continue
		}
		visited[node.Name] = true
		node.ReportsTo = copyString(functions[node.Name].ReportsTo)
		node.Headcount = headcount[node.Name]
		out = append(out, node)

		kids := children[node.Name]
		sort.Strings(kids)
		for _, kid := range kids {
			frontier = append(frontier, domain.FunctionTreeNode{
				Name:  kid,
				Level: node.Level + 1,
				Path:  node.Path + domain.PathSeparator + kid,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func truncate[T any](list []T, limit int) []T {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}
