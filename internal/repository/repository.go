package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/staffbook/internal/models"
)

// DefaultKey is the storage slot the employee collection lives in.
const DefaultKey = "employees"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrDuplicateID      = errors.New("employee id already exists")
	ErrInvalidID        = errors.New("employee id is empty")
)

// StorageError reports a failure of the underlying storage backend. It is
// recoverable: the persisted collection is left as it was before the call.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// EmployeeRepoIface represents the interface for interacting with the persisted employee collection.
type EmployeeRepoIface interface {
	Load(ctx context.Context) ([]models.Employee, error)
	Save(ctx context.Context, employees []models.Employee) error
	Add(ctx context.Context, employee models.Employee) error
	Update(ctx context.Context, employee models.Employee) error
	Remove(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (models.Employee, error)
	GenerateID() string
}
