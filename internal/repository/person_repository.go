package repository

import (
	"context"
	"strings"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/observability"
	"github.com/orgwise/orgchart-service/internal/persistence"
)

var personColumns = []string{
	"p.id", "p.name", "p.email", "p.employee_id", "p.hire_date", "p.status", "p.flags", "p.created_at", "p.updated_at",
}

type personRepository struct {
	pool *pgxpool.Pool
}

// NewPersonRepository builds the repository.
func NewPersonRepository(pool *pgxpool.Pool) PersonRepository {
	return &personRepository{pool: pool}
}

func (r *personRepository) Create(ctx context.Context, person *domain.Person) error {
	ctx, span := observability.StartSpan(ctx, "repository.Person.Create")
	defer span.End()

	const query = `
        INSERT INTO persons (name, email, employee_id, hire_date, status, flags)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	err := persistence.Conn(ctx, r.pool).QueryRow(ctx, query,
		person.Name,
		person.Email,
		person.EmployeeID,
		person.HireDate,
		person.Status,
		person.Flags,
	).Scan(&person.ID, &person.CreatedAt, &person.UpdatedAt)
	return mapPgError(err)
}

func (r *personRepository) Update(ctx context.Context, person *domain.Person) error {
	ctx, span := observability.StartSpan(ctx, "repository.Person.Update")
	defer span.End()

	const query = `
        UPDATE persons SET email=$1, employee_id=$2, hire_date=$3, status=$4, flags=$5, updated_at=NOW()
        WHERE name=$6
        RETURNING updated_at`
	err := persistence.Conn(ctx, r.pool).QueryRow(ctx, query,
		person.Email,
		person.EmployeeID,
		person.HireDate,
		person.Status,
		person.Flags,
		person.Name,
	).Scan(&person.UpdatedAt)
	return mapPgError(err)
}

func (r *personRepository) GetByName(ctx context.Context, name string) (*domain.Person, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Person.GetByName")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(personColumns...).From("persons p").Where(sb.Equal("p.name", name))
	return r.getOne(ctx, sb)
}

func (r *personRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*domain.Person, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Person.GetByEmployeeID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(personColumns...).From("persons p").Where(sb.Equal("p.employee_id", employeeID))
	return r.getOne(ctx, sb)
}

func (r *personRepository) List(ctx context.Context, activeOnly bool) ([]domain.Person, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Person.List")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(personColumns...).From("persons p")
	if activeOnly {
		sb.Where(sb.Equal("p.status", domain.PersonStatusActive))
	}
	sb.OrderBy("p.name")
	return r.getMany(ctx, sb)
}

// Search matches term as a case-insensitive substring of name, alias or employee id.
func (r *personRepository) Search(ctx context.Context, term string) ([]domain.Person, error) {
	ctx, span := observability.StartSpan(ctx, "repository.Person.Search")
	defer span.End()

	pattern := containsPattern(term)
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(personColumns...).Distinct().From("persons p").
		JoinWithOption(sqlbuilder.LeftJoin, "person_aliases pa", "pa.person_name = p.name").
		Where(sb.Or(
			"p.name ILIKE "+sb.Var(pattern)+` ESCAPE '\'`,
			"pa.alias ILIKE "+sb.Var(pattern)+` ESCAPE '\'`,
			"p.employee_id ILIKE "+sb.Var(pattern)+` ESCAPE '\'`,
		)).
		OrderBy("p.name")
	return r.getMany(ctx, sb)
}

func (r *personRepository) SetStatus(ctx context.Context, name string, status domain.PersonStatus) error {
	ctx, span := observability.StartSpan(ctx, "repository.Person.SetStatus")
	defer span.End()

	const query = `UPDATE persons SET status=$1, updated_at=NOW() WHERE name=$2`
	cmd, err := persistence.Conn(ctx, r.pool).Exec(ctx, query, status, name)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *personRepository) Delete(ctx context.Context, name string) error {
	ctx, span := observability.StartSpan(ctx, "repository.Person.Delete")
	defer span.End()

	cmd, err := persistence.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM persons WHERE name=$1`, name)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *personRepository) getOne(ctx context.Context, sb *sqlbuilder.SelectBuilder) (*domain.Person, error) {
	query, args := sb.Build()
	person, err := scanPerson(persistence.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapPgError(err)
	}
	return person, nil
}

func (r *personRepository) getMany(ctx context.Context, sb *sqlbuilder.SelectBuilder) ([]domain.Person, error) {
	query, args := sb.Build()
	rows, err := persistence.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Person
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *person)
	}
	return result, rows.Err()
}

func scanPerson(row pgx.Row) (*domain.Person, error) {
	var person domain.Person
	if err := row.Scan(
		&person.ID,
		&person.Name,
		&person.Email,
		&person.EmployeeID,
		&person.HireDate,
		&person.Status,
		&person.Flags,
		&person.CreatedAt,
		&person.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &person, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern builds an ILIKE pattern matching term literally as a substring.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
