package employees_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/UnknownOlympus/staffbook/internal/form"
	"github.com/UnknownOlympus/staffbook/internal/metrics"
	"github.com/UnknownOlympus/staffbook/internal/models"
	"github.com/UnknownOlympus/staffbook/internal/query"
	"github.com/UnknownOlympus/staffbook/internal/repository"
	"github.com/UnknownOlympus/staffbook/internal/services/employees"
	"github.com/UnknownOlympus/staffbook/internal/storage"
	mocks "github.com/UnknownOlympus/staffbook/mock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func newStaff(t *testing.T) (*employees.Staff, *metrics.Metrics) {
	t.Helper()

	m := metrics.NewMetrics(prometheus.NewRegistry())
	repo := repository.NewEmployeeRepository(newLogger(), storage.NewMemoryBackend(), m, "", nil)

	return employees.NewStaff(newLogger(), repo, m), m
}

func draft() models.FormDraft {
	return models.FormDraft{
		FirstName:  "Grace",
		LastName:   "Hopper",
		Email:      "grace.hopper@company.com",
		Phone:      "+1 (555) 222-3333",
		Position:   "Staff Engineer",
		Department: "Engineering",
		Salary:     "150000",
		HireDate:   "2024-09-01",
		Street:     "1 Navy Yard",
		City:       "Arlington",
		State:      "VA",
		ZipCode:    "22202",
	}
}

func TestNewStaff(t *testing.T) {
	t.Parallel()

	s := employees.NewStaff(slog.Default(), mocks.NewEmployeeRepoIface(t), metrics.NewMetrics(prometheus.NewRegistry()))

	assert.NotNil(t, s)
}

func TestStaff_CreateThenList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	staff, _ := newStaff(t)

	created, errs, err := staff.Create(ctx, draft())

	require.NoError(t, err)
	require.True(t, errs.Valid())
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.StatusActive, created.Status)

	all, err := staff.List(ctx, query.Criteria{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, created, all[3])

	found, err := staff.List(ctx, query.Criteria{Search: "HOPPER"})
	require.NoError(t, err)
	assert.Equal(t, []models.Employee{created}, found)
}

func TestStaff_CreateInvalidDraft(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	staff, m := newStaff(t)

	bad := draft()
	bad.Salary = "-5"

	created, errs, err := staff.Create(ctx, bad)

	require.NoError(t, err)
	assert.Equal(t, models.Employee{}, created)
	assert.Equal(t, form.Errors{form.FieldSalary: "Salary must be a valid positive number"}, errs)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ValidationFailures.WithLabelValues(form.FieldSalary)), 0)

	all, err := staff.List(ctx, query.Criteria{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStaff_EditAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	staff, _ := newStaff(t)

	editDraft, err := staff.EditDraft(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "95000", editDraft.Salary)

	editDraft.Status = "inactive"
	editDraft.Position = "Director of Product"

	updated, errs, err := staff.Edit(ctx, "2", editDraft)
	require.NoError(t, err)
	require.True(t, errs.Valid())
	assert.Equal(t, "2", updated.ID)

	got, err := staff.Get(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, updated, got)
	assert.Equal(t, models.StatusInactive, got.Status)

	require.NoError(t, staff.Delete(ctx, "1"))

	all, err := staff.List(ctx, query.Criteria{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2", all[0].ID)
	assert.Equal(t, "3", all[1].ID)
}

func TestStaff_EditMissingEmployee(t *testing.T) {
	t.Parallel()
	staff, _ := newStaff(t)

	_, errs, err := staff.Edit(context.Background(), "missing", draft())

	require.ErrorIs(t, err, repository.ErrEmployeeNotFound)
	assert.Nil(t, errs)
}

func TestStaff_Dashboard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	staff, _ := newStaff(t)

	created, _, err := staff.Create(ctx, draft())
	require.NoError(t, err)

	dashboard, err := staff.Dashboard(ctx)

	require.NoError(t, err)
	assert.Equal(t, 4, dashboard.Stats.Total)
	assert.Equal(t, 4, dashboard.Stats.Active)
	assert.Equal(t, 3, dashboard.Stats.Departments)
	assert.Equal(t, int64(101250), dashboard.Stats.AverageSalary)
	assert.Equal(t, 2, dashboard.Stats.DepartmentCounts["Engineering"])
	require.Len(t, dashboard.RecentHires, 4)
	assert.Equal(t, created.ID, dashboard.RecentHires[0].ID)
	assert.Equal(t, "3", dashboard.RecentHires[1].ID)
}

func TestStaff_Import(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	staff, m := newStaff(t)

	noEmail := draft()
	noEmail.Email = ""
	invalid := draft()
	invalid.FirstName = "Bad"
	invalid.Salary = "lots"

	report, err := staff.Import(ctx, []models.FormDraft{draft(), noEmail, invalid})

	require.NoError(t, err)
	require.Len(t, report.Created, 2)
	assert.NotEmpty(t, report.Created[1].Email)
	assert.Contains(t, report.Created[1].Email, "@")
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, 3, report.Rejected[0].Row)
	assert.Equal(t, "Bad Hopper", report.Rejected[0].Name)
	assert.Contains(t, report.Rejected[0].Errors, form.FieldSalary)
	assert.InDelta(t, 1, testutil.ToFloat64(m.EmailsGenerated), 0)

	all, err := staff.List(ctx, query.Criteria{})
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestStaff_RepositoryFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := metrics.NewMetrics(prometheus.NewRegistry())

	t.Run("list fails when load fails", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewEmployeeRepoIface(t)
		repo.On("Load", mock.Anything).Return(nil, assert.AnError).Once()

		_, err := employees.NewStaff(newLogger(), repo, m).List(ctx, query.Criteria{})

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to load employees")
	})

	t.Run("dashboard fails when load fails", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewEmployeeRepoIface(t)
		repo.On("Load", mock.Anything).Return(nil, assert.AnError).Once()

		_, err := employees.NewStaff(newLogger(), repo, m).Dashboard(ctx)

		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("create wraps add failure", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewEmployeeRepoIface(t)
		repo.On("GenerateID").Return("id-1").Once()
		repo.On("Add", mock.Anything, mock.MatchedBy(func(e models.Employee) bool {
			return e.ID == "id-1" && e.LastName == "Hopper"
		})).Return(&repository.StorageError{Op: "save", Err: assert.AnError}).Once()

		_, _, err := employees.NewStaff(newLogger(), repo, m).Create(ctx, draft())

		var storageErr *repository.StorageError
		require.ErrorAs(t, err, &storageErr)
		require.ErrorContains(t, err, "failed to save new employee Grace Hopper")
	})

	t.Run("invalid draft never reaches the store", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewEmployeeRepoIface(t)

		_, errs, err := employees.NewStaff(newLogger(), repo, m).Create(ctx, models.FormDraft{})

		require.NoError(t, err)
		assert.Len(t, errs, 12)
		repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "GenerateID")
	})

	t.Run("delete wraps remove failure", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewEmployeeRepoIface(t)
		repo.On("Remove", mock.Anything, "1").Return(assert.AnError).Once()

		err := employees.NewStaff(newLogger(), repo, m).Delete(ctx, "1")

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to delete employee 1")
	})

	t.Run("get wraps not found", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewEmployeeRepoIface(t)
		repo.On("Get", mock.Anything, "x").Return(models.Employee{}, repository.ErrEmployeeNotFound).Once()

		_, err := employees.NewStaff(newLogger(), repo, m).EditDraft(ctx, "x")

		require.ErrorIs(t, err, repository.ErrEmployeeNotFound)
	})

	t.Run("import stops on storage failure", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewEmployeeRepoIface(t)
		repo.On("GenerateID").Return("id-2").Once()
		repo.On("Add", mock.Anything, mock.Anything).Return(assert.AnError).Once()

		report, err := employees.NewStaff(newLogger(), repo, m).Import(ctx, []models.FormDraft{draft(), draft()})

		require.ErrorContains(t, err, "failed to save imported employee")
		assert.Empty(t, report.Created)
	})
}
