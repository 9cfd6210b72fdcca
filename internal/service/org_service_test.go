package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orgwise/orgchart-service/internal/cache"
	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/events"
	"github.com/orgwise/orgchart-service/internal/hierarchy"
	"github.com/orgwise/orgchart-service/internal/persistence/memory"
	"github.com/orgwise/orgchart-service/internal/repository"
	"github.com/orgwise/orgchart-service/pkg/util/errorutil"
)

var fixedNow = time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func newTestService(t *testing.T) (*OrgService, *repository.Store) {
	t.Helper()
	repos := memory.NewStore().Repositories()
	return NewOrgService(OrgDependencies{Store: repos, Engine: testEngine(repos)}), repos
}

func testEngine(repos *repository.Store) *hierarchy.Engine {
	return hierarchy.NewEngine(hierarchy.Dependencies{
		Persons:   repos.Persons,
		Functions: repos.Functions,
		JobTitles: repos.JobTitles,
		Roles:     repos.Roles,
		Aliases:   repos.Aliases,
		Tx:        repos.Tx,
		Now:       func() time.Time { return fixedNow },
	})
}

func mustSucceed(t *testing.T, out Outcome) Outcome {
	t.Helper()
	require.Truef(t, out.Success, "unexpected failure: %s (%s)", out.Message, out.Code)
	return out
}

func TestAliceScenario(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustSucceed(t, svc.CreatePerson(ctx, CreatePersonCommand{Name: "Alice"}))
	mustSucceed(t, svc.CreateFunction(ctx, CreateFunctionCommand{Name: "Engineering"}))
	created := mustSucceed(t, svc.CreateRole(ctx, CreateRoleCommand{
		PersonName:   "Alice",
		FunctionName: "Engineering",
		Percentage:   floatPtr(1.0),
	}))
	require.NotNil(t, created.ID)

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalRoles)
	assert.Equal(t, 1, stats.TotalPersons)

	out := mustSucceed(t, svc.TerminateEmployee(ctx, TerminateEmployeeCommand{Name: "Alice"}))
	require.NotNil(t, out.Count)
	assert.Equal(t, int64(1), *out.Count)

	stats, err = svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalRoles)

	alice, err := svc.GetPerson(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, domain.PersonStatusTerminated, alice.Status)

	role, err := svc.GetRole(ctx, *created.ID)
	require.NoError(t, err)
	require.NotNil(t, role.EndDate)
	assert.Equal(t, "2024-05-15", role.EndDate.Format(time.DateOnly))
}

func TestCreatePersonValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	out := svc.CreatePerson(ctx, CreatePersonCommand{Name: "   "})
	assert.False(t, out.Success)
	assert.Equal(t, errorutil.CodeValidation, out.Code)
	assert.Contains(t, out.Details, "name")

	out = svc.CreatePerson(ctx, CreatePersonCommand{Name: "Bob", Email: strPtr("bob.example.com")})
	assert.False(t, out.Success)
	assert.Equal(t, errorutil.CodeValidation, out.Code)
	assert.Contains(t, out.Details, "email")

	out = svc.CreatePerson(ctx, CreatePersonCommand{Name: "Bob", Status: "RETIRED"})
	assert.Equal(t, errorutil.CodeValidation, out.Code)

	out = mustSucceed(t, svc.CreatePerson(ctx, CreatePersonCommand{Name: "  Bob  ", Status: "inactive"}))
	bob, err := svc.GetPerson(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, domain.PersonStatusInactive, bob.Status)
	assert.Equal(t, bob.ID, *out.ID)
}

func TestCreatePersonDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustSucceed(t, svc.CreatePerson(ctx, CreatePersonCommand{Name: "Alice", EmployeeID: strPtr("E1")}))

	out := svc.CreatePerson(ctx, CreatePersonCommand{Name: "Alice"})
	assert.Equal(t, errorutil.CodeConflict, out.Code)

	out = svc.CreatePerson(ctx, CreatePersonCommand{Name: "Alicia", EmployeeID: strPtr("E1")})
	assert.Equal(t, errorutil.CodeConflict, out.Code)
	require.NotNil(t, out.Err())
	assert.Equal(t, 409, out.Err().HTTPStatus)
}

func TestUpdatePersonFlagsReactivation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustSucceed(t, svc.CreatePerson(ctx, CreatePersonCommand{Name: "Carol", Status: domain.PersonStatusTerminated}))

	active := domain.PersonStatusActive
	out := mustSucceed(t, svc.UpdatePerson(ctx, UpdatePersonCommand{Name: "Carol", Status: &active}))
	assert.Contains(t, out.Message, "TERMINATED")

	carol, err := svc.GetPerson(ctx, "Carol")
	require.NoError(t, err)
	assert.Equal(t, domain.PersonStatusActive, carol.Status)

	out = mustSucceed(t, svc.UpdatePerson(ctx, UpdatePersonCommand{Name: "Carol", Email: strPtr("carol@example.com")}))
	assert.NotContains(t, out.Message, "TERMINATED")
}

func TestUpdatePersonMissing(t *testing.T) {
	svc, _ := newTestService(t)
	out := svc.UpdatePerson(context.Background(), UpdatePersonCommand{Name: "Nobody"})
	assert.Equal(t, errorutil.CodeNotFound, out.Code)
}

func TestDeletePerson(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustSucceed(t, svc.CreatePerson(ctx, CreatePersonCommand{Name: "Dave"}))
	mustSucceed(t, svc.CreatePerson(ctx, CreatePersonCommand{Name: "Erin"}))

	mustSucceed(t, svc.DeletePerson(ctx, "Dave", true))
	dave, err := svc.GetPerson(ctx, "Dave")
	require.NoError(t, err)
	assert.Equal(t, domain.PersonStatusTerminated, dave.Status)

	mustSucceed(t, svc.DeletePerson(ctx, "Erin", false))
	_, err = svc.GetPerson(ctx, "Erin")
	assert.True(t, errorutil.IsCode(err, errorutil.CodeNotFound))
}

func TestDeactivatePerson(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustSucceed(t, svc.CreatePerson(ctx, CreatePersonCommand{Name: "Frank"}))
	mustSucceed(t, svc.DeactivatePerson(ctx, "Frank"))

	active, err := svc.ListPersons(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.ListPersons(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSearchPersons(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustSucceed(t, svc.CreatePerson(ctx, CreatePersonCommand{Name: "Grace Hopper", EmployeeID: strPtr("EMP-042")}))
	mustSucceed(t, svc.AddPersonAlias(ctx, AliasCommand{Owner: "Grace Hopper", Alias: "Amazing Grace"}))

	short, err := svc.SearchPersons(ctx, "G")
	require.NoError(t, err)
	assert.Empty(t, short)

	byAlias, err := svc.SearchPersons(ctx, "amazing")
	require.NoError(t, err)
	require.Len(t, byAlias, 1)
	assert.Equal(t, "Grace Hopper", byAlias[0].Name)

	byEmployeeID, err := svc.SearchPersons(ctx, "042")
	require.NoError(t, err)
	assert.Len(t, byEmployeeID, 1)
}

func TestPersonAliases(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	out := svc.AddPersonAlias(ctx, AliasCommand{Owner: "Ghost", Alias: "Boo"})
	assert.Equal(t, errorutil.CodeNotFound, out.Code)

	mustSucceed(t, svc.CreatePerson(ctx, CreatePersonCommand{Name: "Heidi"}))
	mustSucceed(t, svc.AddPersonAlias(ctx, AliasCommand{Owner: "Heidi", Alias: "H"}))

	out = svc.AddPersonAlias(ctx, AliasCommand{Owner: "Heidi", Alias: "H"})
	assert.Equal(t, errorutil.CodeConflict, out.Code)

	aliases, err := svc.ListPersonAliases(ctx, "Heidi")
	require.NoError(t, err)
	assert.Len(t, aliases, 1)

	mustSucceed(t, svc.RemovePersonAlias(ctx, AliasCommand{Owner: "Heidi", Alias: "H"}))
	aliases, err = svc.ListPersonAliases(ctx, "Heidi")
	require.NoError(t, err)
	assert.Empty(t, aliases)
}

func TestEmployeeProfile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Ivan", "Judy", "Mallory"} {
		mustSucceed(t, svc.CreatePerson(ctx, CreatePersonCommand{Name: name}))
	}
	mustSucceed(t, svc.CreateFunction(ctx, CreateFunctionCommand{Name: "Sales"}))
	mustSucceed(t, svc.CreateRole(ctx, CreateRoleCommand{PersonName: "Ivan", FunctionName: "Sales"}))
	mustSucceed(t, svc.CreateRole(ctx, CreateRoleCommand{PersonName: "Judy", FunctionName: "Sales", ReportsTo: strPtr("Ivan")}))
	mustSucceed(t, svc.CreateRole(ctx, CreateRoleCommand{PersonName: "Mallory", FunctionName: "Sales", ReportsTo: strPtr("Ivan")}))

	profile, err := svc.GetEmployeeProfile(ctx, "Ivan")
	require.NoError(t, err)
	assert.Len(t, profile.ActiveRoles, 1)
	assert.Equal(t, 2, profile.DirectReportCount)

	reports, err := svc.GetDirectReports(ctx, "Ivan")
	require.NoError(t, err)
	assert.Len(t, reports, 2)
}

func TestCreateFunctionRules(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	out := svc.CreateFunction(ctx, CreateFunctionCommand{Name: "Ops", ReportsTo: strPtr("Ops")})
	assert.Equal(t, errorutil.CodeConflict, out.Code)

	out = svc.CreateFunction(ctx, CreateFunctionCommand{Name: "Ops", ReportsTo: strPtr("Missing")})
	assert.Equal(t, errorutil.CodeNotFound, out.Code)

	mustSucceed(t, svc.CreateFunction(ctx, CreateFunctionCommand{Name: "Company"}))
	mustSucceed(t, svc.CreateFunction(ctx, CreateFunctionCommand{Name: "Ops", ReportsTo: strPtr("Company")}))

	out = svc.CreateFunction(ctx, CreateFunctionCommand{Name: "Ops"})
	assert.Equal(t, errorutil.CodeConflict, out.Code)
}

func TestFunctionCycleRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustSucceed(t, svc.CreateFunction(ctx, CreateFunctionCommand{Name: "A"}))
	mustSucceed(t, svc.CreateFunction(ctx, CreateFunctionCommand{Name: "B", ReportsTo: strPtr("A")}))

	out := svc.ReorganizeFunction(ctx, ReorganizeFunctionCommand{Name: "A", NewParent: strPtr("B")})
	assert.False(t, out.Success)
	assert.Equal(t, errorutil.CodeConflict, out.Code)

	out = svc.UpdateFunction(ctx, UpdateFunctionCommand{Name: "A", ReportsTo: strPtr("B")})
	assert.Equal(t, errorutil.CodeConflict, out.Code)

	a, err := svc.GetFunction(ctx, "A")
	require.NoError(t, err)
	assert.Nil(t, a.ReportsTo)
}

func TestReorganizeFunction(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustSucceed(t, svc.CreateFunction(ctx, CreateFunctionCommand{Name: "Company"}))
	mustSucceed(t, svc.CreateFunction(ctx, CreateFunctionCommand{Name: "IT"}))
	mustSucceed(t, svc.ReorganizeFunction(ctx, ReorganizeFunctionCommand{Name: "IT", NewParent: strPtr("Company")}))

	tree, err := svc.GetFunctionTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "Company > IT", tree[1].Path)
	assert.Equal(t, 1, tree[1].Level)

	mustSucceed(t, svc.ReorganizeFunction(ctx, ReorganizeFunctionCommand{Name: "IT"}))
	it, err := svc.GetFunction(ctx, "IT")
	require.NoError(t, err)
	assert.True(t, it.IsRoot())
}

func TestDeleteFunctionBlocked(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustSucceed(t, svc.CreatePerson(ctx, CreatePersonCommand{Name: "Kim"}))
	mustSucceed(t, svc.CreateFunction(ctx, CreateFunctionCommand{Name: "Finance"}))
	mustSucceed(t, svc.CreateFunction(ctx, CreateFunctionCommand{Name: "Payroll", ReportsTo: strPtr("Finance")}))
	mustSucceed(t, svc.CreateRole(ctx, CreateRoleCommand{PersonName: "Kim", FunctionName: "Finance"}))

	out := svc.DeleteFunction(ctx, "Finance")
	assert.False(t, out.Success)
	assert.Equal(t, errorutil.CodeConflict, out.Code)
	assert.Equal(t, 1, out.Details["sub_functions"])
	assert.Equal(t, 1, out.Details["active_roles"])

	details, err := svc.GetFunctionDetails(ctx, "Finance")
	require.NoError(t, err)
	assert.Equal(t, 1, details.Headcount)
	assert.Equal(t, []string{"Payroll"}, details.SubFunctions)
	assert.True(t, details.Dependencies.Blocking())

	mustSucceed(t, svc.AddFunctionAlias(ctx, AliasCommand{Owner: "Payroll", Alias: "Pay"}))
	mustSucceed(t, svc.DeleteFunction(ctx, "Payroll"))
	_, err = svc.GetFunction(ctx, "Payroll")
	assert.True(t, errorutil.IsCode(err, errorutil.CodeNotFound))
}

func TestJobTitleLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	level := 3
	mustSucceed(t, svc.CreateJobTitle(ctx, JobTitleCommand{Name: "Engineer", Level: &level}))
	assert.Equal(t, errorutil.CodeConflict, svc.CreateJobTitle(ctx, JobTitleCommand{Name: "Engineer"}).Code)

	negative := -1
	assert.Equal(t, errorutil.CodeValidation, svc.CreateJobTitle(ctx, JobTitleCommand{Name: "Intern", Level: &negative}).Code)

	mustSucceed(t, svc.CreatePerson(ctx, CreatePersonCommand{Name: "Leo"}))
	mustSucceed(t, svc.CreateFunction(ctx, CreateFunctionCommand{Name: "R&D"}))
	role := mustSucceed(t, svc.CreateRole(ctx, CreateRoleCommand{PersonName: "Leo", FunctionName: "R&D", JobTitleName: strPtr("Engineer")}))

	out := svc.DeleteJobTitle(ctx, "Engineer")
	assert.Equal(t, errorutil.CodeConflict, out.Code)

	mustSucceed(t, svc.EndRole(ctx, EndRoleCommand{ID: *role.ID}))
	mustSucceed(t, svc.DeleteJobTitle(ctx, "Engineer"))

	titles, err := svc.ListJobTitles(ctx)
	require.NoError(t, err)
	assert.Empty(t, titles)
}

func TestCreateRolePercentage(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustSucceed(t, svc.CreatePerson(ctx, CreatePersonCommand{Name: "Nina"}))
	mustSucceed(t, svc.CreateFunction(ctx, CreateFunctionCommand{Name: "Legal"}))

	for _, p := range []float64{0, 1.5, -0.2, math.NaN(), math.Inf(1)} {
		out := svc.CreateRole(ctx, CreateRoleCommand{PersonName: "Nina", FunctionName: "Legal", Percentage: floatPtr(p)})
		assert.Equalf(t, errorutil.CodeValidation, out.Code, "percentage %v", p)
	}

	out := mustSucceed(t, svc.CreateRole(ctx, CreateRoleCommand{PersonName: "Nina", FunctionName: "Legal", Percentage: floatPtr(0.5)}))
	role, err := svc.GetRole(ctx, *out.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, role.Percentage, 1e-9)
	assert.Equal(t, "2024-05-15", role.StartDate.Format(time.DateOnly))

	out = mustSucceed(t, svc.CreateRole(ctx, CreateRoleCommand{PersonName: "Nina", FunctionName: "Legal"}))
	role, err = svc.GetRole(ctx, *out.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, role.Percentage, 1e-9)
}

func TestCreateRoleReferences(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustSucceed(t, svc.CreatePerson(ctx, CreatePersonCommand{Name: "Oscar"}))
	mustSucceed(t, svc.CreateFunction(ctx, CreateFunctionCommand{Name: "Support"}))

	cases := []CreateRoleCommand{
		{PersonName: "Nobody", FunctionName: "Support"},
		{PersonName: "Oscar", FunctionName: "Nowhere"},
		{PersonName: "Oscar", FunctionName: "Support", JobTitleName: strPtr("Wizard")},
		{PersonName: "Oscar", FunctionName: "Support", ReportsTo: strPtr("Ghost")},
	}
	for _, cmd := range cases {
		out := svc.CreateRole(ctx, cmd)
		assert.Equal(t, errorutil.CodeNotFound, out.Code)
	}

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	out := svc.CreateRole(ctx, CreateRoleCommand{PersonName: "Oscar", FunctionName: "Support", StartDate: &start, EndDate: &end})
	assert.Equal(t, errorutil.CodeValidation, out.Code)
}

func TestUpdateRoleActiveOnly(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustSucceed(t, svc.CreatePerson(ctx, CreatePersonCommand{Name: "Peggy"}))
	mustSucceed(t, svc.CreateFunction(ctx, CreateFunctionCommand{Name: "HR"}))
	created := mustSucceed(t, svc.CreateRole(ctx, CreateRoleCommand{PersonName: "Peggy", FunctionName: "HR"}))

	interim := true
	mustSucceed(t, svc.UpdateRole(ctx, UpdateRoleCommand{ID: *created.ID, AdInterim: &interim, Percentage: floatPtr(0.25)}))

	interimRoles, err := svc.ListInterimRoles(ctx)
	require.NoError(t, err)
	require.Len(t, interimRoles, 1)
	assert.InDelta(t, 0.25, interimRoles[0].Percentage, 1e-9)

	assert.Equal(t, errorutil.CodeValidation, svc.UpdateRole(ctx, UpdateRoleCommand{ID: *created.ID, Percentage: floatPtr(2)}).Code)
	assert.Equal(t, errorutil.CodeValidation, svc.UpdateRole(ctx, UpdateRoleCommand{ID: *created.ID, Percentage: floatPtr(math.NaN())}).Code)

	mustSucceed(t, svc.EndRole(ctx, EndRoleCommand{ID: *created.ID}))
	out := svc.UpdateRole(ctx, UpdateRoleCommand{ID: *created.ID, AdInterim: &interim})
	assert.Equal(t, errorutil.CodeNotFound, out.Code)
}

func TestEndRoleTwice(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustSucceed(t, svc.CreatePerson(ctx, CreatePersonCommand{Name: "Quinn"}))
	mustSucceed(t, svc.CreateFunction(ctx, CreateFunctionCommand{Name: "QA"}))
	created := mustSucceed(t, svc.CreateRole(ctx, CreateRoleCommand{PersonName: "Quinn", FunctionName: "QA"}))

	mustSucceed(t, svc.EndRole(ctx, EndRoleCommand{ID: *created.ID}))
	second := svc.EndRole(ctx, EndRoleCommand{ID: *created.ID})
	assert.False(t, second.Success)
	assert.Empty(t, second.Code)
	assert.Nil(t, second.Err())

	missing := svc.EndRole(ctx, EndRoleCommand{ID: 999})
	assert.Equal(t, errorutil.CodeNotFound, missing.Code)
}

func TestTransferRole(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustSucceed(t, svc.CreatePerson(ctx, CreatePersonCommand{Name: "Rita"}))
	mustSucceed(t, svc.CreatePerson(ctx, CreatePersonCommand{Name: "Sam"}))
	mustSucceed(t, svc.CreateFunction(ctx, CreateFunctionCommand{Name: "Design"}))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	created := mustSucceed(t, svc.CreateRole(ctx, CreateRoleCommand{
		PersonName:   "Rita",
		FunctionName: "Design",
		Percentage:   floatPtr(0.8),
		AdInterim:    true,
		StartDate:    &start,
	}))

	out := mustSucceed(t, svc.TransferRole(ctx, TransferRoleCommand{RoleID: *created.ID, NewPersonName: "Sam"}))
	next, err := svc.GetRole(ctx, *out.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sam", next.PersonName)
	assert.InDelta(t, 0.8, next.Percentage, 1e-9)
	assert.True(t, next.AdInterim)

	source, err := svc.GetRole(ctx, *created.ID)
	require.NoError(t, err)
	require.NotNil(t, source.EndDate)
	assert.Equal(t, next.StartDate, *source.EndDate)

	again := svc.TransferRole(ctx, TransferRoleCommand{RoleID: *created.ID, NewPersonName: "Sam"})
	assert.Equal(t, errorutil.CodeConflict, again.Code)

	missing := svc.TransferRole(ctx, TransferRoleCommand{RoleID: *out.ID, NewPersonName: "Nobody"})
	assert.Equal(t, errorutil.CodeNotFound, missing.Code)
}

func TestBulkChangeManager(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Trent", "Uma", "Victor", "Walter"} {
		mustSucceed(t, svc.CreatePerson(ctx, CreatePersonCommand{Name: name}))
	}
	mustSucceed(t, svc.CreateFunction(ctx, CreateFunctionCommand{Name: "Ops"}))
	mustSucceed(t, svc.CreateRole(ctx, CreateRoleCommand{PersonName: "Victor", FunctionName: "Ops", ReportsTo: strPtr("Trent")}))
	mustSucceed(t, svc.CreateRole(ctx, CreateRoleCommand{PersonName: "Walter", FunctionName: "Ops", ReportsTo: strPtr("Trent")}))

	out := mustSucceed(t, svc.BulkChangeManager(ctx, BulkChangeManagerCommand{OldManager: "Trent", NewManager: "Uma"}))
	require.NotNil(t, out.Count)
	assert.Equal(t, int64(2), *out.Count)

	reports, err := svc.GetDirectReports(ctx, "Uma")
	require.NoError(t, err)
	assert.Len(t, reports, 2)

	same := svc.BulkChangeManager(ctx, BulkChangeManagerCommand{OldManager: "Uma", NewManager: "Uma"})
	assert.Equal(t, errorutil.CodeValidation, same.Code)

	missing := svc.BulkChangeManager(ctx, BulkChangeManagerCommand{OldManager: "Uma", NewManager: "Ghost"})
	assert.Equal(t, errorutil.CodeNotFound, missing.Code)
}

func TestDetailedStatsAndChart(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustSucceed(t, svc.CreatePerson(ctx, CreatePersonCommand{Name: "Xena"}))
	mustSucceed(t, svc.CreateFunction(ctx, CreateFunctionCommand{Name: "Board"}))
	mustSucceed(t, svc.CreateFunction(ctx, CreateFunctionCommand{Name: "Audit", ReportsTo: strPtr("Board")}))
	mustSucceed(t, svc.CreateJobTitle(ctx, JobTitleCommand{Name: "Chair"}))
	mustSucceed(t, svc.CreateRole(ctx, CreateRoleCommand{PersonName: "Xena", FunctionName: "Board", JobTitleName: strPtr("Chair")}))
	mustSucceed(t, svc.CreateRole(ctx, CreateRoleCommand{PersonName: "Xena", FunctionName: "Audit", Percentage: floatPtr(0.2), AdInterim: true}))

	detailed, err := svc.GetDetailedStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, detailed.TotalRoles)
	assert.Equal(t, 1, detailed.InterimRoles)
	assert.Equal(t, 1, detailed.MultiRolePersons)
	require.Len(t, detailed.MultiRoleDetails, 1)
	assert.Equal(t, 2, detailed.MultiRoleDetails[0].RoleCount)
	require.Len(t, detailed.TopJobTitles, 1)
	assert.Equal(t, "Chair", detailed.TopJobTitles[0].JobTitleName)

	chart, err := svc.GetOrganizationChart(ctx)
	require.NoError(t, err)
	require.Len(t, chart, 2)
	assert.Equal(t, "Board", chart[0].FunctionName)
	assert.Equal(t, "Board > Audit", chart[1].Path)
	assert.True(t, chart[1].AdInterim)

	dashboard, err := svc.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, dashboard.Stats.TotalRoles)
	assert.Len(t, dashboard.InterimRoles, 1)
	assert.NotNil(t, dashboard.RecentChanges)
}

func TestReadModelsInvalidatedByChanges(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := zap.NewNop()
	readCache := cache.NewReadCache(client, time.Minute, logger)
	dispatcher := events.NewInMemoryDispatcher(logger)
	NewChangeListener(dispatcher, readCache, logger).RegisterHandlers()

	repos := memory.NewStore().Repositories()
	svc := NewOrgService(OrgDependencies{
		Store:      repos,
		Engine:     testEngine(repos),
		Dispatcher: dispatcher,
		Cache:      readCache,
		Logger:     logger,
	})
	ctx := context.Background()

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalPersons)

	// Writes that bypass the service do not invalidate the cache.
	require.NoError(t, repos.Persons.Create(ctx, &domain.Person{Name: "Yuri", Status: domain.PersonStatusActive}))
	stats, err = svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalPersons)

	mustSucceed(t, svc.CreatePerson(ctx, CreatePersonCommand{Name: "Zoe"}))
	stats, err = svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPersons)
}

func TestStatsFreshAfterFailedInvalidation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := zap.NewNop()
	readCache := cache.NewReadCache(client, time.Minute, logger)
	dispatcher := events.NewInMemoryDispatcher(logger)
	NewChangeListener(dispatcher, readCache, logger).RegisterHandlers()

	repos := memory.NewStore().Repositories()
	svc := NewOrgService(OrgDependencies{
		Store:      repos,
		Engine:     testEngine(repos),
		Dispatcher: dispatcher,
		Cache:      readCache,
		Logger:     logger,
	})
	ctx := context.Background()

	mustSucceed(t, svc.CreatePerson(ctx, CreatePersonCommand{Name: "Alice"}))
	mustSucceed(t, svc.CreateFunction(ctx, CreateFunctionCommand{Name: "Engineering"}))
	mustSucceed(t, svc.CreateRole(ctx, CreateRoleCommand{PersonName: "Alice", FunctionName: "Engineering"}))

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalRoles)

	mr.SetError("LOADING")
	mustSucceed(t, svc.TerminateEmployee(ctx, TerminateEmployeeCommand{Name: "Alice"}))
	mr.SetError("")

	stats, err = svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalRoles)
	assert.Equal(t, 0, stats.TotalPersons)
}

func TestActorRecordedOnEvents(t *testing.T) {
	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher(logger)
	var got []events.Event
	dispatcher.Subscribe(events.EventPersonCreated, func(_ context.Context, e events.Event) error {
		got = append(got, e)
		return nil
	})

	repos := memory.NewStore().Repositories()
	svc := NewOrgService(OrgDependencies{Store: repos, Engine: testEngine(repos), Dispatcher: dispatcher})

	ctx := events.WithActor(context.Background(), "admin")
	mustSucceed(t, svc.CreatePerson(ctx, CreatePersonCommand{Name: "Ada"}))

	require.Len(t, got, 1)
	assert.Equal(t, "admin", got[0].Actor)
	assert.Equal(t, "Ada", got[0].EntityName)
}
