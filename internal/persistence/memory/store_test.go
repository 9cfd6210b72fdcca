package memory

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/repository"
)

func strPtr(s string) *string { return &s }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	boom := errors.New("boom")
	err := repos.Tx.WithTx(ctx, func(ctx context.Context) error {
		require.NoError(t, repos.Persons.Create(ctx, &domain.Person{Name: "Alice", Status: domain.PersonStatusActive}))
		_, err := repos.Persons.GetByName(ctx, "Alice")
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = repos.Persons.GetByName(ctx, "Alice")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWithTxCommitsAndJoinsNestedScope(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	err := repos.Tx.WithTx(ctx, func(ctx context.Context) error {
		if err := repos.Functions.Create(ctx, &domain.Function{Name: "Board"}); err != nil {
			return err
		}
		return repos.Tx.WithTx(ctx, func(ctx context.Context) error {
			return repos.Functions.Create(ctx, &domain.Function{Name: "CEO", ReportsTo: strPtr("Board")})
		})
	})
	require.NoError(t, err)

	list, err := repos.Functions.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Board", list[0].Name)
	assert.Equal(t, "CEO", list[1].Name)
}

func TestPersonUniqueness(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	require.NoError(t, repos.Persons.Create(ctx, &domain.Person{Name: "Alice", EmployeeID: strPtr("E1"), Status: domain.PersonStatusActive}))
	assert.ErrorIs(t, repos.Persons.Create(ctx, &domain.Person{Name: "Alice"}), repository.ErrDuplicate)
	assert.ErrorIs(t, repos.Persons.Create(ctx, &domain.Person{Name: "Bob", EmployeeID: strPtr("E1")}), repository.ErrDuplicate)

	bob := &domain.Person{Name: "Bob", Status: domain.PersonStatusActive}
	require.NoError(t, repos.Persons.Create(ctx, bob))
	bob.EmployeeID = strPtr("E1")
	assert.ErrorIs(t, repos.Persons.Update(ctx, bob), repository.ErrDuplicate)
}

func TestSearchMatchesNameAliasAndEmployeeID(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	require.NoError(t, repos.Persons.Create(ctx, &domain.Person{Name: "Alice Rossi", Status: domain.PersonStatusActive}))
	require.NoError(t, repos.Persons.Create(ctx, &domain.Person{Name: "Bob Bianchi", EmployeeID: strPtr("EMP-042"), Status: domain.PersonStatusActive}))
	require.NoError(t, repos.Persons.Create(ctx, &domain.Person{Name: "Carla Verdi", Status: domain.PersonStatusActive}))
	require.NoError(t, repos.Aliases.AddPersonAlias(ctx, &domain.PersonAlias{PersonName: "Carla Verdi", Alias: "Carlotta"}))

	byName, err := repos.Persons.Search(ctx, "rossi")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Alice Rossi", byName[0].Name)

	byEmployee, err := repos.Persons.Search(ctx, "042")
	require.NoError(t, err)
	require.Len(t, byEmployee, 1)
	assert.Equal(t, "Bob Bianchi", byEmployee[0].Name)

	byAlias, err := repos.Persons.Search(ctx, "lott")
	require.NoError(t, err)
	require.Len(t, byAlias, 1)
	assert.Equal(t, "Carla Verdi", byAlias[0].Name)
}

func TestEndAllForPersonClampsToStartDate(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	early := &domain.Role{PersonName: "Alice", FunctionName: "Eng", Percentage: 1, StartDate: day(2024, 1, 1)}
	late := &domain.Role{PersonName: "Alice", FunctionName: "Ops", Percentage: 0.5, StartDate: day(2024, 6, 1)}
	require.NoError(t, repos.Roles.Create(ctx, early))
	require.NoError(t, repos.Roles.Create(ctx, late))

	n, err := repos.Roles.EndAllForPerson(ctx, "Alice", day(2024, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := repos.Roles.GetByID(ctx, early.ID)
	require.NoError(t, err)
	assert.Equal(t, day(2024, 3, 1), *got.EndDate)

	got, err = repos.Roles.GetByID(ctx, late.ID)
	require.NoError(t, err)
	assert.Equal(t, day(2024, 6, 1), *got.EndDate)
}

func TestRoleConstraints(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	assert.ErrorIs(t, repos.Roles.Create(ctx, &domain.Role{PersonName: "A", FunctionName: "F", Percentage: 0}), repository.ErrConstraint)
	assert.ErrorIs(t, repos.Roles.Create(ctx, &domain.Role{PersonName: "A", FunctionName: "F", Percentage: 1.5}), repository.ErrConstraint)
	assert.ErrorIs(t, repos.Roles.Create(ctx, &domain.Role{PersonName: "A", FunctionName: "F", Percentage: math.NaN()}), repository.ErrConstraint)

	end := day(2023, 12, 31)
	assert.ErrorIs(t, repos.Roles.Create(ctx, &domain.Role{
		PersonName: "A", FunctionName: "F", Percentage: 1, StartDate: day(2024, 1, 1), EndDate: &end,
	}), repository.ErrConstraint)
}

func TestFunctionTreeSkipsCycles(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	require.NoError(t, repos.Functions.Create(ctx, &domain.Function{Name: "CEO"}))
	require.NoError(t, repos.Functions.Create(ctx, &domain.Function{Name: "CTO", ReportsTo: strPtr("CEO")}))
	require.NoError(t, repos.Functions.Create(ctx, &domain.Function{Name: "Platform", ReportsTo: strPtr("CTO")}))
	require.NoError(t, repos.Functions.Create(ctx, &domain.Function{Name: "X", ReportsTo: strPtr("Y")}))
	require.NoError(t, repos.Functions.Create(ctx, &domain.Function{Name: "Y", ReportsTo: strPtr("X")}))
	require.NoError(t, repos.Roles.Create(ctx, &domain.Role{PersonName: "Alice", FunctionName: "CTO", Percentage: 1}))

	tree, err := repos.Reports.FunctionTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 3)
	assert.Equal(t, "CEO", tree[0].Path)
	assert.Equal(t, 0, tree[0].Level)
	assert.Equal(t, "CEO > CTO", tree[1].Path)
	assert.Equal(t, 1, tree[1].Headcount)
	assert.Equal(t, "CEO > CTO > Platform", tree[2].Path)
	assert.Equal(t, 2, tree[2].Level)
}

func TestOrganizationChartOrdering(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	require.NoError(t, repos.Functions.Create(ctx, &domain.Function{Name: "CEO"}))
	require.NoError(t, repos.Functions.Create(ctx, &domain.Function{Name: "Sales", ReportsTo: strPtr("CEO")}))
	require.NoError(t, repos.Functions.Create(ctx, &domain.Function{Name: "Eng", ReportsTo: strPtr("CEO")}))
	require.NoError(t, repos.Roles.Create(ctx, &domain.Role{PersonName: "Zoe", FunctionName: "Eng", Percentage: 1, ReportsTo: strPtr("Max")}))
	require.NoError(t, repos.Roles.Create(ctx, &domain.Role{PersonName: "Ann", FunctionName: "Eng", Percentage: 1, AdInterim: true}))
	require.NoError(t, repos.Roles.Create(ctx, &domain.Role{PersonName: "Max", FunctionName: "CEO", Percentage: 1}))

	chart, err := repos.Reports.OrganizationChart(ctx)
	require.NoError(t, err)
	require.Len(t, chart, 4)

	assert.Equal(t, "CEO", chart[0].FunctionName)
	assert.Equal(t, "Max", *chart[0].PersonName)
	assert.Equal(t, "Eng", chart[1].FunctionName)
	assert.Equal(t, "Ann", *chart[1].PersonName)
	assert.True(t, chart[1].AdInterim)
	assert.Equal(t, "Zoe", *chart[2].PersonName)
	assert.Equal(t, "Max", *chart[2].PersonReportsTo)
	assert.Equal(t, "CEO", *chart[2].ReportsTo)
	assert.Equal(t, "Sales", chart[3].FunctionName)
	assert.Nil(t, chart[3].PersonName)
	assert.Equal(t, "CEO > Sales", chart[3].Path)
}

func TestRecentChangesNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	store.RecordChange(domain.ChangeLogEntry{EntityType: "person", EntityName: "Alice", Action: "create", ChangedAt: day(2024, 1, 1)})
	store.RecordChange(domain.ChangeLogEntry{EntityType: "person", EntityName: "Bob", Action: "create", ChangedAt: day(2024, 2, 1)})
	store.RecordChange(domain.ChangeLogEntry{EntityType: "role", EntityName: "1", Action: "end", ChangedAt: day(2024, 3, 1)})

	changes, err := store.Repositories().Reports.RecentChanges(ctx, 2)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, "role", changes[0].EntityType)
	assert.Equal(t, "Bob", changes[1].EntityName)
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	require.NoError(t, repos.Persons.Create(ctx, &domain.Person{Name: "Ann_Lee", Status: domain.PersonStatusActive}))
	require.NoError(t, repos.Persons.Create(ctx, &domain.Person{Name: "AnnXLee", Status: domain.PersonStatusActive}))

	found, err := repos.Persons.Search(ctx, "n_l")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Ann_Lee", found[0].Name)

	found, err = repos.Persons.Search(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, found)
}
