package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/UnknownOlympus/staffbook/internal/lib/logger/sl"
	"github.com/UnknownOlympus/staffbook/internal/metrics"
	"github.com/UnknownOlympus/staffbook/internal/models"
	"github.com/UnknownOlympus/staffbook/internal/storage"
	"github.com/google/uuid"
)

var _ EmployeeRepoIface = (*Repository)(nil)

// Repository persists the whole employee collection as one JSON document in a
// single storage slot. Every mutation reads the full document, changes it and
// writes it back.
type Repository struct {
	mu      sync.Mutex
	log     *slog.Logger
	backend storage.Backend
	metrics *metrics.Metrics
	key     string
	seed    []models.Employee
}

// NewEmployeeRepository returns a record store writing into the given slot of
// backend. An empty key selects DefaultKey and a nil seed selects DefaultSeed.
func NewEmployeeRepository(
	log *slog.Logger,
	backend storage.Backend,
	metrics *metrics.Metrics,
	key string,
	seed []models.Employee,
) *Repository {
	if key == "" {
		key = DefaultKey
	}
	if seed == nil {
		seed = DefaultSeed()
	}

	return &Repository{
		log:     log.With(slog.String("division", "store"), slog.String("slot", key)),
		backend: backend,
		metrics: metrics,
		key:     key,
		seed:    slices.Clone(seed),
	}
}

// Load returns the persisted collection. When nothing has been persisted yet,
// or the persisted document cannot be decoded, the seed set is written to the
// slot and returned instead.
func (r *Repository) Load(ctx context.Context) ([]models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer r.observe("load", time.Now())()

	employees, err := r.load(ctx)
	r.record("load", err)

	return employees, err
}

// Save replaces the persisted collection with employees.
func (r *Repository) Save(ctx context.Context, employees []models.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer r.observe("save", time.Now())()

	err := r.save(ctx, employees)
	r.record("save", err)

	return err
}

// Add appends employee to the collection.
func (r *Repository) Add(ctx context.Context, employee models.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer r.observe("add", time.Now())()

	err := r.add(ctx, employee)
	r.record("add", err)

	return err
}

// Update replaces the employee with the same id, keeping its position. If no
// such employee exists nothing is written and ErrEmployeeNotFound is returned.
func (r *Repository) Update(ctx context.Context, employee models.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer r.observe("update", time.Now())()

	err := r.update(ctx, employee)
	r.record("update", err)

	return err
}

// Remove drops the employee with the given id. The collection is written back
// even when no employee matched.
func (r *Repository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer r.observe("remove", time.Now())()

	err := r.remove(ctx, id)
	r.record("remove", err)

	return err
}

// Get returns a single employee by id.
func (r *Repository) Get(ctx context.Context, id string) (models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	employees, err := r.load(ctx)
	if err != nil {
		return models.Employee{}, err
	}

	idx := indexOf(employees, id)
	if idx < 0 {
		return models.Employee{}, fmt.Errorf("%w: %s", ErrEmployeeNotFound, id)
	}

	return employees[idx], nil
}

// GenerateID returns a new time-ordered identifier: a millisecond timestamp
// prefix followed by random bits.
func (r *Repository) GenerateID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (r *Repository) load(ctx context.Context) ([]models.Employee, error) {
	data, err := r.backend.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			r.log.InfoContext(ctx, "No persisted collection, initializing with seed set", "count", len(r.seed))
			return r.reseed(ctx, "empty")
		}
		return nil, &StorageError{Op: "load", Err: err}
	}

	var employees []models.Employee
	if err = json.Unmarshal(data, &employees); err == nil {
		err = checkIDs(employees)
	}
	if err != nil || employees == nil {
		if err == nil {
			err = errors.New("collection is null")
		}
		r.log.WarnContext(ctx, "Persisted collection is corrupt, replacing it with seed set", sl.Err(err))
		return r.reseed(ctx, "corrupt")
	}

	r.metrics.CollectionSize.Set(float64(len(employees)))

	return employees, nil
}

func (r *Repository) reseed(ctx context.Context, reason string) ([]models.Employee, error) {
	seed := slices.Clone(r.seed)
	if err := r.save(ctx, seed); err != nil {
		return nil, err
	}
	r.metrics.Reseeds.WithLabelValues(reason).Inc()

	return seed, nil
}

func (r *Repository) save(ctx context.Context, employees []models.Employee) error {
	if employees == nil {
		employees = []models.Employee{}
	}

	data, err := json.Marshal(employees)
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}

	if err = r.backend.Set(ctx, r.key, data); err != nil {
		return &StorageError{Op: "save", Err: err}
	}

	r.metrics.CollectionSize.Set(float64(len(employees)))

	return nil
}

func (r *Repository) add(ctx context.Context, employee models.Employee) error {
	if employee.ID == "" {
		return ErrInvalidID
	}

	employees, err := r.load(ctx)
	if err != nil {
		return err
	}

	if indexOf(employees, employee.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, employee.ID)
	}

	if err = r.save(ctx, append(employees, employee)); err != nil {
		return err
	}

	r.log.DebugContext(ctx, "Employee added", sl.EmployeeID(employee.ID))

	return nil
}

func (r *Repository) update(ctx context.Context, employee models.Employee) error {
	employees, err := r.load(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(employees, employee.ID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrEmployeeNotFound, employee.ID)
	}
	employees[idx] = employee

	if err = r.save(ctx, employees); err != nil {
		return err
	}

	r.log.DebugContext(ctx, "Employee updated", sl.EmployeeID(employee.ID))

	return nil
}

func (r *Repository) remove(ctx context.Context, id string) error {
	employees, err := r.load(ctx)
	if err != nil {
		return err
	}

	before := len(employees)
	employees = slices.DeleteFunc(employees, func(e models.Employee) bool {
		return e.ID == id
	})

	if err = r.save(ctx, employees); err != nil {
		return err
	}

	r.log.DebugContext(ctx, "Employee removed", sl.EmployeeID(id), "matched", before-len(employees))

	return nil
}

func (r *Repository) observe(operation string, startTime time.Time) func() {
	return func() {
		r.metrics.StoreDuration.WithLabelValues(operation).Observe(time.Since(startTime).Seconds())
	}
}

func (r *Repository) record(operation string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	r.metrics.StoreOperations.WithLabelValues(operation, status).Inc()
}

// checkIDs reports the first record without an id or with an id already used
// by an earlier record.
func checkIDs(employees []models.Employee) error {
	seen := make(map[string]struct{}, len(employees))
	for i, employee := range employees {
		if employee.ID == "" {
			return fmt.Errorf("record %d has no id", i)
		}
		if _, ok := seen[employee.ID]; ok {
			return fmt.Errorf("record %d reuses id %q", i, employee.ID)
		}
		seen[employee.ID] = struct{}{}
	}

	return nil
}

func indexOf(employees []models.Employee, id string) int {
	return slices.IndexFunc(employees, func(e models.Employee) bool {
		return e.ID == id
	})
}
