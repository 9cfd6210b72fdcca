package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/observability"
	"github.com/orgwise/orgchart-service/internal/persistence"
)

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository builds the repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) Stats(ctx context.Context) (domain.Stats, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Report.Stats")
	defer span.End()

	const query = `
        SELECT
            (SELECT COUNT(*) FROM persons WHERE status = 'ACTIVE'),
            (SELECT COUNT(*) FROM functions),
            (SELECT COUNT(*) FROM roles WHERE end_date IS NULL),
            (SELECT COUNT(*) FROM roles WHERE ad_interim AND end_date IS NULL),
            (SELECT COUNT(*) FROM (
                SELECT person_name FROM roles WHERE end_date IS NULL
                GROUP BY person_name HAVING COUNT(*) > 1
            ) multi)`
	var stats domain.Stats
	err := persistence.Conn(ctx, r.pool).QueryRow(ctx, query).Scan(
		&stats.TotalPersons,
		&stats.TotalFunctions,
		&stats.TotalRoles,
		&stats.InterimRoles,
		&stats.MultiRolePersons,
	)
	return stats, mapPgError(err)
}

func (r *reportRepository) FunctionsByHeadcount(ctx context.Context, limit int) ([]domain.FunctionHeadcount, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Report.FunctionsByHeadcount")
	defer span.End()

	const query = `
        SELECT function_name, COUNT(*) AS role_count
        FROM roles WHERE end_date IS NULL
        GROUP BY function_name
        ORDER BY role_count DESC, function_name
        LIMIT $1`
	rows, err := persistence.Conn(ctx, r.pool).Query(ctx, query, limit)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.FunctionHeadcount
	for rows.Next() {
		var item domain.FunctionHeadcount
		if err := rows.Scan(&item.FunctionName, &item.RoleCount); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *reportRepository) TopJobTitles(ctx context.Context, limit int) ([]domain.JobTitleUsage, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Report.TopJobTitles")
	defer span.End()

	const query = `
        SELECT job_title_name, COUNT(*) AS role_count
        FROM roles WHERE end_date IS NULL AND job_title_name IS NOT NULL
        GROUP BY job_title_name
        ORDER BY role_count DESC, job_title_name
        LIMIT $1`
	rows, err := persistence.Conn(ctx, r.pool).Query(ctx, query, limit)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.JobTitleUsage
	for rows.Next() {
		var item domain.JobTitleUsage
		if err := rows.Scan(&item.JobTitleName, &item.RoleCount); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *reportRepository) MultiRolePersons(ctx context.Context) ([]domain.MultiRolePerson, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Report.MultiRolePersons")
	defer span.End()

	const query = `
        SELECT person_name, COUNT(*) AS role_count, ARRAY_AGG(function_name ORDER BY function_name)
        FROM roles WHERE end_date IS NULL
        GROUP BY person_name
        HAVING COUNT(*) > 1
        ORDER BY role_count DESC, person_name`
	rows, err := persistence.Conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.MultiRolePerson
	for rows.Next() {
		var item domain.MultiRolePerson
		if err := rows.Scan(&item.PersonName, &item.RoleCount, &item.Functions); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *reportRepository) OrganizationChart(ctx context.Context) ([]domain.OrgChartNode, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Report.OrganizationChart")
	defer span.End()

	const query = `
        SELECT function_name, level, path, person_name, job_title_name, organizational_unit,
               ad_interim, reports_to, person_reports_to
        FROM organization_chart
        ORDER BY level, function_name, person_name`
	rows, err := persistence.Conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.OrgChartNode
	for rows.Next() {
		var node domain.OrgChartNode
		if err := rows.Scan(
			&node.FunctionName,
			&node.Level,
			&node.Path,
			&node.PersonName,
			&node.JobTitleName,
			&node.OrganizationalUnit,
			&node.AdInterim,
			&node.ReportsTo,
			&node.PersonReportsTo,
		); err != nil {
			return nil, err
		}
		result = append(result, node)
	}
	return result, rows.Err()
}

func (r *reportRepository) FunctionTree(ctx context.Context) ([]domain.FunctionTreeNode, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Report.FunctionTree")
	defer span.End()

	const query = `
        SELECT ft.name, ft.reports_to, ft.level, ft.path,
               (SELECT COUNT(*) FROM roles r WHERE r.function_name = ft.name AND r.end_date IS NULL)
        FROM function_tree ft
        ORDER BY ft.level, ft.name`
	rows, err := persistence.Conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.FunctionTreeNode
	for rows.Next() {
		var node domain.FunctionTreeNode
		if err := rows.Scan(&node.Name, &node.ReportsTo, &node.Level, &node.Path, &node.Headcount); err != nil {
			return nil, err
		}
		result = append(result, node)
	}
	return result, rows.Err()
}

func (r *reportRepository) RecentChanges(ctx context.Context, limit int) ([]domain.ChangeLogEntry, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Report.RecentChanges")
	defer span.End()

	const query = `
        SELECT id, entity_type, entity_name, action, changed_by, details, changed_at
        FROM change_log
        ORDER BY changed_at DESC, id DESC
        LIMIT $1`
	rows, err := persistence.Conn(ctx, r.pool).Query(ctx, query, limit)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.ChangeLogEntry
	for rows.Next() {
		var entry domain.ChangeLogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.EntityType,
			&entry.EntityName,
			&entry.Action,
			&entry.ChangedBy,
			&entry.Details,
			&entry.ChangedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
