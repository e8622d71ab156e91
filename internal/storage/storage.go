// Package storage provides the key-value backends the record store persists
// its collection into. Each key holds one opaque document that is always
// replaced as a whole.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound is returned by Get when nothing was ever stored under the key.
	ErrKeyNotFound = errors.New("key not found")
	// ErrInvalidKey is returned for keys that are empty or cannot be mapped to a slot.
	ErrInvalidKey = errors.New("invalid key")
)

// Backend is a minimal key-value store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
}
