package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/observability"
	"github.com/orgwise/orgchart-service/internal/persistence"
)

type aliasRepository struct {
	pool *pgxpool.Pool
}

// NewAliasRepository builds the repository.
func NewAliasRepository(pool *pgxpool.Pool) AliasRepository {
	return &aliasRepository{pool: pool}
}

func (r *aliasRepository) AddPersonAlias(ctx context.Context, alias *domain.PersonAlias) error {
	ctx, span := observability.StartSpan(ctx, "repository.Alias.AddPersonAlias")
	defer span.End()

	const query = `
        INSERT INTO person_aliases (person_name, alias, flags)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	err := persistence.Conn(ctx, r.pool).QueryRow(ctx, query, alias.PersonName, alias.Alias, alias.Flags).
		Scan(&alias.ID, &alias.CreatedAt)
	return mapPgError(err)
}

func (r *aliasRepository) RemovePersonAlias(ctx context.Context, personName, alias string) error {
	ctx, span := observability.StartSpan(ctx, "repository.Alias.RemovePersonAlias")
	defer span.End()

	cmd, err := persistence.Conn(ctx, r.pool).Exec(ctx,
		`DELETE FROM person_aliases WHERE person_name=$1 AND alias=$2`, personName, alias)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *aliasRepository) ListPersonAliases(ctx context.Context, personName string) ([]domain.PersonAlias, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Alias.ListPersonAliases")
	defer span.End()

	const query = `
        SELECT id, person_name, alias, flags, created_at
        FROM person_aliases WHERE person_name=$1 ORDER BY alias`
	rows, err := persistence.Conn(ctx, r.pool).Query(ctx, query, personName)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.PersonAlias
	for rows.Next() {
		var a domain.PersonAlias
		if err := rows.Scan(&a.ID, &a.PersonName, &a.Alias, &a.Flags, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *aliasRepository) DeletePersonAliases(ctx context.Context, personName string) (int64, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Alias.DeletePersonAliases")
	defer span.End()

	cmd, err := persistence.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM person_aliases WHERE person_name=$1`, personName)
	if err != nil {
		return 0, mapPgError(err)
	}
	return cmd.RowsAffected(), nil
}

func (r *aliasRepository) AddFunctionAlias(ctx context.Context, alias *domain.FunctionAlias) error {
	ctx, span := observability.StartSpan(ctx, "repository.Alias.AddFunctionAlias")
	defer span.End()

	const query = `
        INSERT INTO function_aliases (function_name, alias, flags)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	err := persistence.Conn(ctx, r.pool).QueryRow(ctx, query, alias.FunctionName, alias.Alias, alias.Flags).
		Scan(&alias.ID, &alias.CreatedAt)
	return mapPgError(err)
}

func (r *aliasRepository) RemoveFunctionAlias(ctx context.Context, functionName, alias string) error {
	ctx, span := observability.StartSpan(ctx, "repository.Alias.RemoveFunctionAlias")
	defer span.End()

	cmd, err := persistence.Conn(ctx, r.pool).Exec(ctx,
		`DELETE FROM function_aliases WHERE function_name=$1 AND alias=$2`, functionName, alias)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *aliasRepository) ListFunctionAliases(ctx context.Context, functionName string) ([]domain.FunctionAlias, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Alias.ListFunctionAliases")
	defer span.End()

	const query = `
        SELECT id, function_name, alias, flags, created_at
        FROM function_aliases WHERE function_name=$1 ORDER BY alias`
	rows, err := persistence.Conn(ctx, r.pool).Query(ctx, query, functionName)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.FunctionAlias
	for rows.Next() {
		var a domain.FunctionAlias
		if err := rows.Scan(&a.ID, &a.FunctionName, &a.Alias, &a.Flags, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *aliasRepository) DeleteFunctionAliases(ctx context.Context, functionName string) (int64, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Alias.DeleteFunctionAliases")
	defer span.End()

	cmd, err := persistence.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM function_aliases WHERE function_name=$1`, functionName)
	if err != nil {
		return 0, mapPgError(err)
	}
	return cmd.RowsAffected(), nil
}
