package service

import (
	"context"

	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/repository"
)

const (
	topListLimit      = 10
	recentChangeLimit = 20
)

// Dashboard is the landing page aggregate.
type Dashboard struct {
	Stats         domain.Stats            `json:"stats"`
	RecentChanges []domain.ChangeLogEntry `json:"recent_changes"`
	InterimRoles  []domain.Role           `json:"interim_roles"`
}

// GetStats returns the headline counters.
func (s *OrgService) GetStats(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats
	err := s.cache.FetchJSON(ctx, &stats, func(ctx context.Context) (any, error) {
		return s.reports.Stats(ctx)
	}, "stats")
	return stats, s.readErr("get_stats", "stats", err)
}

// GetDetailedStats returns counters plus the top-10 lists and multi-role holders.
func (s *OrgService) GetDetailedStats(ctx context.Context) (domain.DetailedStats, error) {
	var detailed domain.DetailedStats
	err := s.cache.FetchJSON(ctx, &detailed, func(ctx context.Context) (any, error) {
		return s.loadDetailedStats(ctx)
	}, "stats", "detailed")
	return detailed, s.readErr("get_detailed_stats", "stats", err)
}

func (s *OrgService) loadDetailedStats(ctx context.Context) (domain.DetailedStats, error) {
	stats, err := s.reports.Stats(ctx)
	if err != nil {
		return domain.DetailedStats{}, err
	}
	headcount, err := s.reports.FunctionsByHeadcount(ctx, topListLimit)
	if err != nil {
		return domain.DetailedStats{}, err
	}
	titles, err := s.reports.TopJobTitles(ctx, topListLimit)
	if err != nil {
		return domain.DetailedStats{}, err
	}
	multi, err := s.reports.MultiRolePersons(ctx)
	if err != nil {
		return domain.DetailedStats{}, err
	}
	return domain.DetailedStats{
		Stats:                stats,
		FunctionsByHeadcount: nonNil(headcount),
		TopJobTitles:         nonNil(titles),
		MultiRoleDetails:     nonNil(multi),
	}, nil
}

// GetDashboard returns counters, the latest change log rows and active interim roles.
func (s *OrgService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	var dashboard Dashboard
	err := s.cache.FetchJSON(ctx, &dashboard, func(ctx context.Context) (any, error) {
		stats, err := s.reports.Stats(ctx)
		if err != nil {
			return nil, err
		}
		changes, err := s.reports.RecentChanges(ctx, recentChangeLimit)
		if err != nil {
			return nil, err
		}
		interim, err := s.roles.List(ctx, repository.RoleFilter{ActiveOnly: true, InterimOnly: true})
		if err != nil {
			return nil, err
		}
		return Dashboard{
			Stats:         stats,
			RecentChanges: nonNil(changes),
			InterimRoles:  nonNil(interim),
		}, nil
	}, "dashboard")
	if err != nil {
		return nil, s.readErr("get_dashboard", "dashboard", err)
	}
	return &dashboard, nil
}

// GetOrganizationChart returns the chart ordered by level, function and person.
func (s *OrgService) GetOrganizationChart(ctx context.Context) ([]domain.OrgChartNode, error) {
	var chart []domain.OrgChartNode
	err := s.cache.FetchJSON(ctx, &chart, func(ctx context.Context) (any, error) {
		nodes, err := s.reports.OrganizationChart(ctx)
		return nonNil(nodes), err
	}, "chart")
	return chart, s.readErr("get_organization_chart", "organization chart", err)
}

// GetFunctionTree returns every reachable function with its level and path.
func (s *OrgService) GetFunctionTree(ctx context.Context) ([]domain.FunctionTreeNode, error) {
	var tree []domain.FunctionTreeNode
	err := s.cache.FetchJSON(ctx, &tree, func(ctx context.Context) (any, error) {
		nodes, err := s.reports.FunctionTree(ctx)
		return nonNil(nodes), err
	}, "tree")
	return tree, s.readErr("get_function_tree", "function tree", err)
}
