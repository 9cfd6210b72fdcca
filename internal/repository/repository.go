package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/persistence"
)

// PersonRepository manages person persistence.
type PersonRepository interface {
	Create(ctx context.Context, person *domain.Person) error
	Update(ctx context.Context, person *domain.Person) error
	GetByName(ctx context.Context, name string) (*domain.Person, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*domain.Person, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Person, error)
	Search(ctx context.Context, term string) ([]domain.Person, error)
	SetStatus(ctx context.Context, name string, status domain.PersonStatus) error
	Delete(ctx context.Context, name string) error
}

// FunctionRepository manages function persistence.
type FunctionRepository interface {
	Create(ctx context.Context, fn *domain.Function) error
	Update(ctx context.Context, fn *domain.Function) error
	GetByName(ctx context.Context, name string) (*domain.Function, error)
	List(ctx context.Context) ([]domain.Function, error)
	SetParent(ctx context.Context, name string, parent *string) error
	CountChildren(ctx context.Context, name string) (int, error)
	Delete(ctx context.Context, name string) error
}

// JobTitleRepository manages job title persistence.
type JobTitleRepository interface {
	Create(ctx context.Context, title *domain.JobTitle) error
	Update(ctx context.Context, title *domain.JobTitle) error
	GetByName(ctx context.Context, name string) (*domain.JobTitle, error)
	List(ctx context.Context) ([]domain.JobTitle, error)
	Delete(ctx context.Context, name string) error
}

// RoleFilter narrows role listings. Zero values match everything.
type RoleFilter struct {
	PersonName   string
	FunctionName string
	JobTitleName string
	ReportsTo    string
	ActiveOnly   bool
	InterimOnly  bool
}

// RoleRepository manages role persistence.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	GetByID(ctx context.Context, id int64) (*domain.Role, error)
	// Update writes the non-temporal fields of an active role.
	Update(ctx context.Context, role *domain.Role) error
	// End stamps end_date on an active role and reports whether a row changed.
	End(ctx context.Context, id int64, endDate time.Time) (bool, error)
	// EndAllForPerson ends every active role of person, never before a role's start date.
	EndAllForPerson(ctx context.Context, personName string, endDate time.Time) (int64, error)
	ReassignManager(ctx context.Context, oldManager, newManager string) (int64, error)
	List(ctx context.Context, filter RoleFilter) ([]domain.Role, error)
	CountActive(ctx context.Context, filter RoleFilter) (int, error)
}

// AliasRepository manages person and function aliases.
type AliasRepository interface {
	AddPersonAlias(ctx context.Context, alias *domain.PersonAlias) error
	RemovePersonAlias(ctx context.Context, personName, alias string) error
	ListPersonAliases(ctx context.Context, personName string) ([]domain.PersonAlias, error)
	DeletePersonAliases(ctx context.Context, personName string) (int64, error)
	AddFunctionAlias(ctx context.Context, alias *domain.FunctionAlias) error
	RemoveFunctionAlias(ctx context.Context, functionName, alias string) error
	ListFunctionAliases(ctx context.Context, functionName string) ([]domain.FunctionAlias, error)
	DeleteFunctionAliases(ctx context.Context, functionName string) (int64, error)
}

// ReportRepository serves aggregate and derived read models.
type ReportRepository interface {
	Stats(ctx context.Context) (domain.Stats, error)
	FunctionsByHeadcount(ctx context.Context, limit int) ([]domain.FunctionHeadcount, error)
	TopJobTitles(ctx context.Context, limit int) ([]domain.JobTitleUsage, error)
	MultiRolePersons(ctx context.Context) ([]domain.MultiRolePerson, error)
	OrganizationChart(ctx context.Context) ([]domain.OrgChartNode, error)
	FunctionTree(ctx context.Context) ([]domain.FunctionTreeNode, error)
	RecentChanges(ctx context.Context, limit int) ([]domain.ChangeLogEntry, error)
}

// Transactor runs fn in a single storage transaction. Repository calls made with
// the ctx passed to fn join that transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store bundles the repositories of one backend.
type Store struct {
	Persons   PersonRepository
	Functions FunctionRepository
	JobTitles JobTitleRepository
	Roles     RoleRepository
	Aliases   AliasRepository
	Reports   ReportRepository
	Tx        Transactor
}

// NewPostgresStore wires the pgx-backed repositories over pool.
func NewPostgresStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Persons:   NewPersonRepository(pool),
		Functions: NewFunctionRepository(pool),
		JobTitles: NewJobTitleRepository(pool),
		Roles:     NewRoleRepository(pool),
		Aliases:   NewAliasRepository(pool),
		Reports:   NewReportRepository(pool),
		Tx:        persistence.NewTransactor(pool),
	}
}
