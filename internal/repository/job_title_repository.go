package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/observability"
	"github.com/orgwise/orgchart-service/internal/persistence"
)

type jobTitleRepository struct {
	pool *pgxpool.Pool
}

// NewJobTitleRepository builds the repository.
func NewJobTitleRepository(pool *pgxpool.Pool) JobTitleRepository {
	return &jobTitleRepository{pool: pool}
}

func (r *jobTitleRepository) Create(ctx context.Context, title *domain.JobTitle) error {
	ctx, span := observability.StartSpan(ctx, "repository.JobTitle.Create")
	defer span.End()

	const query = `
        INSERT INTO job_titles (name, level, flags)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	err := persistence.Conn(ctx, r.pool).QueryRow(ctx, query,
		title.Name,
		title.Level,
		title.Flags,
	).Scan(&title.ID, &title.CreatedAt, &title.UpdatedAt)
	return mapPgError(err)
}

func (r *jobTitleRepository) Update(ctx context.Context, title *domain.JobTitle) error {
	ctx, span := observability.StartSpan(ctx, "repository.JobTitle.Update")
	defer span.End()

	const query = `
        UPDATE job_titles SET level=$1, flags=$2, updated_at=NOW()
        WHERE name=$3
        RETURNING updated_at`
	err := persistence.Conn(ctx, r.pool).QueryRow(ctx, query, title.Level, title.Flags, title.Name).Scan(&title.UpdatedAt)
	return mapPgError(err)
}

func (r *jobTitleRepository) GetByName(ctx context.Context, name string) (*domain.JobTitle, error) {
	ctx, span := observability.StartSpan(ctx, "repository.JobTitle.GetByName")
	defer span.End()

	const query = `
        SELECT id, name, level, flags, created_at, updated_at
        FROM job_titles WHERE name=$1`
	var title domain.JobTitle
	if err := persistence.Conn(ctx, r.pool).QueryRow(ctx, query, name).Scan(
		&title.ID,
		&title.Name,
		&title.Level,
		&title.Flags,
		&title.CreatedAt,
		&title.UpdatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &title, nil
}

func (r *jobTitleRepository) List(ctx context.Context) ([]domain.JobTitle, error) {
	ctx, span := observability.StartSpan(ctx, "repository.JobTitle.List")
	defer span.End()

	const query = `
        SELECT id, name, level, flags, created_at, updated_at
        FROM job_titles ORDER BY level NULLS LAST, name`
	rows, err := persistence.Conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.JobTitle
	for rows.Next() {
		var title domain.JobTitle
		if err := rows.Scan(&title.ID, &title.Name, &title.Level, &title.Flags, &title.CreatedAt, &title.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, title)
	}
	return result, rows.Err()
}

func (r *jobTitleRepository) Delete(ctx context.Context, name string) error {
	ctx, span := observability.StartSpan(ctx, "repository.JobTitle.Delete")
	defer span.End()

	cmd, err := persistence.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM job_titles WHERE name=$1`, name)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
