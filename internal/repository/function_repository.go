package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/observability"
	"github.com/orgwise/orgchart-service/internal/persistence"
)

type functionRepository struct {
	pool *pgxpool.Pool
}

// NewFunctionRepository builds the repository.
func NewFunctionRepository(pool *pgxpool.Pool) FunctionRepository {
	return &functionRepository{pool: pool}
}

func (r *functionRepository) Create(ctx context.Context, fn *domain.Function) error {
	ctx, span := observability.StartSpan(ctx, "repository.Function.Create")
	defer span.End()

	const query = `
        INSERT INTO functions (name, reports_to, flags)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	err := persistence.Conn(ctx, r.pool).QueryRow(ctx, query,
		fn.Name,
		fn.ReportsTo,
		fn.Flags,
	).Scan(&fn.ID, &fn.CreatedAt, &fn.UpdatedAt)
	return mapPgError(err)
}

func (r *functionRepository) Update(ctx context.Context, fn *domain.Function) error {
	ctx, span := observability.StartSpan(ctx, "repository.Function.Update")
	defer span.End()

	const query = `
        UPDATE functions SET reports_to=$1, flags=$2, updated_at=NOW()
        WHERE name=$3
        RETURNING updated_at`
	err := persistence.Conn(ctx, r.pool).QueryRow(ctx, query, fn.ReportsTo, fn.Flags, fn.Name).Scan(&fn.UpdatedAt)
	return mapPgError(err)
}

func (r *functionRepository) GetByName(ctx context.Context, name string) (*domain.Function, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Function.GetByName")
	defer span.End()

	const query = `
        SELECT id, name, reports_to, flags, created_at, updated_at
        FROM functions WHERE name=$1`
	var fn domain.Function
	if err := persistence.Conn(ctx, r.pool).QueryRow(ctx, query, name).Scan(
		&fn.ID,
		&fn.Name,
		&fn.ReportsTo,
		&fn.Flags,
		&fn.CreatedAt,
		&fn.UpdatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &fn, nil
}

func (r *functionRepository) List(ctx context.Context) ([]domain.Function, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Function.List")
	defer span.End()

	const query = `
        SELECT id, name, reports_to, flags, created_at, updated_at
        FROM functions ORDER BY name`
	rows, err := persistence.Conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Function
	for rows.Next() {
		var fn domain.Function
		if err := rows.Scan(&fn.ID, &fn.Name, &fn.ReportsTo, &fn.Flags, &fn.CreatedAt, &fn.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, fn)
	}
	return result, rows.Err()
}

func (r *functionRepository) SetParent(ctx context.Context, name string, parent *string) error {
	ctx, span := observability.StartSpan(ctx, "repository.Function.SetParent")
	defer span.End()

	const query = `UPDATE functions SET reports_to=$1, updated_at=NOW() WHERE name=$2`
	cmd, err := persistence.Conn(ctx, r.pool).Exec(ctx, query, parent, name)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *functionRepository) CountChildren(ctx context.Context, name string) (int, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Function.CountChildren")
	defer span.End()

	var count int
	err := persistence.Conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM functions WHERE reports_to=$1`, name).Scan(&count)
	return count, mapPgError(err)
}

func (r *functionRepository) Delete(ctx context.Context, name string) error {
	ctx, span := observability.StartSpan(ctx, "repository.Function.Delete")
	defer span.End()

	cmd, err := persistence.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM functions WHERE name=$1`, name)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
