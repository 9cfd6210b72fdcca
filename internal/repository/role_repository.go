package repository

import (
	"context"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/observability"
	"github.com/orgwise/orgchart-service/internal/persistence"
)

var roleColumns = []string{
	"id", "person_name", "function_name", "organizational_unit", "job_title_name", "percentage",
	"ad_interim", "reports_to", "start_date", "end_date", "flags", "created_at", "updated_at",
}

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository builds the repository.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	ctx, span := observability.StartSpan(ctx, "repository.Role.Create")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("roles")
	sb.Cols("person_name", "function_name", "organizational_unit", "job_title_name", "percentage",
		"ad_interim", "reports_to", "start_date", "end_date", "flags")
	sb.Values(role.PersonName, role.FunctionName, role.OrganizationalUnit, role.JobTitleName, role.Percentage,
		role.AdInterim, role.ReportsTo, role.StartDate, role.EndDate, role.Flags)
	sb.Returning("id", "created_at", "updated_at")

	query, args := sb.Build()
	err := persistence.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&role.ID, &role.CreatedAt, &role.UpdatedAt)
	return mapPgError(err)
}

func (r *roleRepository) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Role.GetByID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(roleColumns...).From("roles").Where(sb.Equal("id", id))

	query, args := sb.Build()
	role, err := scanRole(persistence.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapPgError(err)
	}
	return role, nil
}

func (r *roleRepository) Update(ctx context.Context, role *domain.Role) error {
	ctx, span := observability.StartSpan(ctx, "repository.Role.Update")
	defer span.End()

	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update("roles")
	ub.Set(
		ub.Assign("organizational_unit", role.OrganizationalUnit),
		ub.Assign("job_title_name", role.JobTitleName),
		ub.Assign("percentage", role.Percentage),
		ub.Assign("ad_interim", role.AdInterim),
		ub.Assign("reports_to", role.ReportsTo),
		ub.Assign("flags", role.Flags),
		"updated_at = NOW()",
	)
	ub.Where(ub.Equal("id", role.ID), ub.IsNull("end_date"))

	query, args := ub.Build()
	cmd, err := persistence.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roleRepository) End(ctx context.Context, id int64, endDate time.Time) (bool, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Role.End")
	defer span.End()

	const query = `
        UPDATE roles SET end_date=$1, updated_at=NOW()
        WHERE id=$2 AND end_date IS NULL`
	cmd, err := persistence.Conn(ctx, r.pool).Exec(ctx, query, endDate, id)
	if err != nil {
		return false, mapPgError(err)
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *roleRepository) EndAllForPerson(ctx context.Context, personName string, endDate time.Time) (int64, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Role.EndAllForPerson")
	defer span.End()

	const query = `
        UPDATE roles SET end_date=GREATEST(start_date, $1::date), updated_at=NOW()
        WHERE person_name=$2 AND end_date IS NULL`
	cmd, err := persistence.Conn(ctx, r.pool).Exec(ctx, query, endDate, personName)
	if err != nil {
		return 0, mapPgError(err)
	}
	return cmd.RowsAffected(), nil
}

func (r *roleRepository) ReassignManager(ctx context.Context, oldManager, newManager string) (int64, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Role.ReassignManager")
	defer span.End()

	const query = `
        UPDATE roles SET reports_to=$1, updated_at=NOW()
        WHERE reports_to=$2 AND end_date IS NULL`
	cmd, err := persistence.Conn(ctx, r.pool).Exec(ctx, query, newManager, oldManager)
	if err != nil {
		return 0, mapPgError(err)
	}
	return cmd.RowsAffected(), nil
}

func (r *roleRepository) List(ctx context.Context, filter RoleFilter) ([]domain.Role, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Role.List")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(roleColumns...).From("roles")
	applyRoleFilter(sb, filter)
	sb.OrderBy("function_name", "person_name", "id")

	query, args := sb.Build()
	rows, err := persistence.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *role)
	}
	return result, rows.Err()
}

func (r *roleRepository) CountActive(ctx context.Context, filter RoleFilter) (int, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Role.CountActive")
	defer span.End()

	filter.ActiveOnly = true
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("COUNT(*)").From("roles")
	applyRoleFilter(sb, filter)

	query, args := sb.Build()
	var count int
	err := persistence.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&count)
	return count, mapPgError(err)
}

func applyRoleFilter(sb *sqlbuilder.SelectBuilder, filter RoleFilter) {
	var conds []string
	if filter.PersonName != "" {
		conds = append(conds, sb.Equal("person_name", filter.PersonName))
	}
	if filter.FunctionName != "" {
		conds = append(conds, sb.Equal("function_name", filter.FunctionName))
	}
	if filter.JobTitleName != "" {
		conds = append(conds, sb.Equal("job_title_name", filter.JobTitleName))
	}
	if filter.ReportsTo != "" {
		conds = append(conds, sb.Equal("reports_to", filter.ReportsTo))
	}
	if filter.ActiveOnly {
		conds = append(conds, sb.IsNull("end_date"))
	}
	if filter.InterimOnly {
		conds = append(conds, sb.Equal("ad_interim", true))
	}
	if len(conds) > 0 {
		sb.Where(conds...)
	}
}

func scanRole(row pgx.Row) (*domain.Role, error) {
	var role domain.Role
	if err := row.Scan(
		&role.ID,
		&role.PersonName,
		&role.FunctionName,
		&role.OrganizationalUnit,
		&role.JobTitleName,
		&role.Percentage,
		&role.AdInterim,
		&role.ReportsTo,
		&role.StartDate,
		&role.EndDate,
		&role.Flags,
		&role.CreatedAt,
		&role.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &role, nil
}
