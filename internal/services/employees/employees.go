package employees

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tamathecxder/randomail"

	"github.com/UnknownOlympus/staffbook/internal/form"
	"github.com/UnknownOlympus/staffbook/internal/lib/logger/sl"
	"github.com/UnknownOlympus/staffbook/internal/metrics"
	"github.com/UnknownOlympus/staffbook/internal/models"
	"github.com/UnknownOlympus/staffbook/internal/query"
	"github.com/UnknownOlympus/staffbook/internal/repository"
)

// Staff is the entry point a user interface drives: it reads through the record
// store, derives views with the query package and validates drafts before
// committing them.
type Staff struct {
	log     *slog.Logger
	repo    repository.EmployeeRepoIface
	metrics *metrics.Metrics
}

// Dashboard holds everything the overview screen shows.
type Dashboard struct {
	Stats       models.Stats
	RecentHires []models.Employee
}

// Rejection describes an imported row that did not pass validation.
type Rejection struct {
	Row    int
	Name   string
	Errors form.Errors
}

// ImportReport summarizes a bulk import.
type ImportReport struct {
	Created  []models.Employee
	Rejected []Rejection
}

func NewStaff(log *slog.Logger, repo repository.EmployeeRepoIface, metrics *metrics.Metrics) *Staff {
	return &Staff{log: log, repo: repo, metrics: metrics}
}

func (s *Staff) initLogger(opn string) *slog.Logger {
	return s.log.With(
		slog.String("op", opn),
		slog.String("division", "employee"),
	)
}

// List returns the employees matching criteria in collection order.
func (s *Staff) List(ctx context.Context, criteria query.Criteria) ([]models.Employee, error) {
	employees, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}

	return query.Filter(employees, criteria), nil
}

// Dashboard computes the aggregate figures and the most recent hires.
func (s *Staff) Dashboard(ctx context.Context) (Dashboard, error) {
	employees, err := s.repo.Load(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to load employees: %w", err)
	}

	return Dashboard{
		Stats:       query.ComputeStats(employees),
		RecentHires: query.RecentHires(employees, query.DefaultRecentHires),
	}, nil
}

// Get returns one employee.
func (s *Staff) Get(ctx context.Context, id string) (models.Employee, error) {
	employee, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to get employee %s: %w", id, err)
	}

	return employee, nil
}

// EditDraft returns the draft an edit form for the given employee starts from.
func (s *Staff) EditDraft(ctx context.Context, id string) (models.FormDraft, error) {
	employee, err := s.Get(ctx, id)
	if err != nil {
		return models.FormDraft{}, err
	}

	return form.DraftFromEmployee(employee), nil
}

// Create validates draft and, when it is valid, stores it under a freshly
// generated id. Field errors are returned as data with a nil error.
func (s *Staff) Create(ctx context.Context, draft models.FormDraft) (models.Employee, form.Errors, error) {
	const opn = "Employee.Create"
	log := s.initLogger(opn)

	employee, errs := s.validate(ctx, log, draft)
	if !errs.Valid() {
		return models.Employee{}, errs, nil
	}

	employee.ID = s.repo.GenerateID()
	if err := s.repo.Add(ctx, employee); err != nil {
		return models.Employee{}, nil, fmt.Errorf("failed to save new employee %s: %w", employee.FullName(), err)
	}

	log.InfoContext(ctx, "Employee created", sl.EmployeeID(employee.ID))

	return employee, errs, nil
}

// Edit validates draft and replaces the employee with the given id.
func (s *Staff) Edit(ctx context.Context, id string, draft models.FormDraft) (models.Employee, form.Errors, error) {
	const opn = "Employee.Edit"
	log := s.initLogger(opn).With(sl.EmployeeID(id))

	employee, errs := s.validate(ctx, log, draft)
	if !errs.Valid() {
		return models.Employee{}, errs, nil
	}

	employee.ID = id
	if err := s.repo.Update(ctx, employee); err != nil {
		return models.Employee{}, nil, fmt.Errorf("failed to update employee '%s': %w", employee.FullName(), err)
	}

	log.InfoContext(ctx, "Employee updated")

	return employee, errs, nil
}

// Delete removes the employee with the given id. Confirmation is the caller's job.
func (s *Staff) Delete(ctx context.Context, id string) error {
	const opn = "Employee.Delete"
	log := s.initLogger(opn)

	if err := s.repo.Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to delete employee %s: %w", id, err)
	}

	log.InfoContext(ctx, "Employee deleted", sl.EmployeeID(id))

	return nil
}

// Import creates an employee for every valid draft. Drafts without an email get
// a generated placeholder address; drafts that still fail validation are
// skipped and listed in the report. Storage failures abort the import.
func (s *Staff) Import(ctx context.Context, drafts []models.FormDraft) (ImportReport, error) {
	const opn = "Employee.Import"
	log := s.initLogger(opn)

	report := ImportReport{}
	fixed := fillMissingEmails(ctx, log, s.metrics, drafts)

	for row, draft := range fixed {
		employee, errs := s.validate(ctx, log, draft)
		if !errs.Valid() {
			report.Rejected = append(report.Rejected, Rejection{
				Row:    row + 1,
				Name:   strings.TrimSpace(draft.FirstName + " " + draft.LastName),
				Errors: errs,
			})
			continue
		}

		employee.ID = s.repo.GenerateID()
		if err := s.repo.Add(ctx, employee); err != nil {
			return report, fmt.Errorf("failed to save imported employee %s: %w", employee.FullName(), err)
		}
		report.Created = append(report.Created, employee)
	}

	log.InfoContext(ctx, "Import finished", "created", len(report.Created), "rejected", len(report.Rejected))

	return report, nil
}

func (s *Staff) validate(ctx context.Context, log *slog.Logger, draft models.FormDraft) (models.Employee, form.Errors) {
	employee, errs := form.Validate(draft)
	if !errs.Valid() {
		for field := range errs {
			s.metrics.ValidationFailures.WithLabelValues(field).Inc()
		}
		log.InfoContext(ctx, "Draft rejected", sl.Fields(errs))
	}

	return employee, errs
}

func fillMissingEmails(
	ctx context.Context,
	log *slog.Logger,
	metrics *metrics.Metrics,
	drafts []models.FormDraft,
) []models.FormDraft {
	var generated int
	fixed := make([]models.FormDraft, 0, len(drafts))

	for _, draft := range drafts {
		if strings.TrimSpace(draft.Email) == "" {
			draft.Email = randomail.GenerateRandomEmail()
			log.DebugContext(ctx, "Email was not specified, generated placeholder",
				"employee", strings.TrimSpace(draft.FirstName+" "+draft.LastName), "email", draft.Email)
			metrics.EmailsGenerated.Inc()
			generated++
		}
		fixed = append(fixed, draft)
	}

	if generated != 0 {
		log.WarnContext(ctx, "Imported employees without email received placeholder addresses", "value", generated)
	}

	return fixed
}
