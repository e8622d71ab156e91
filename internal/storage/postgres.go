package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UnknownOlympus/staffbook/internal/metrics"
	"github.com/jackc/pgx/v5"
)

const (
	getSlotQuery = `SELECT value FROM kv_store WHERE key = $1`
	setSlotQuery = `
		INSERT INTO kv_store (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP;
	`
)

// PostgresBackend stores every key as one row of the kv_store table.
type PostgresBackend struct {
	db      Database
	metrics *metrics.Metrics
}

// NewPostgresBackend returns a backend that runs its queries on db.
func NewPostgresBackend(db Database, metrics *metrics.Metrics) *PostgresBackend {
	return &PostgresBackend{db: db, metrics: metrics}
}

// Get returns the document stored under key.
func (p *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	startTime := time.Now()
	defer func() {
		duration := time.Since(startTime).Seconds()
		p.metrics.DBQueryDuration.WithLabelValues("get_slot").Observe(duration)
	}()

	var value []byte
	if err := p.db.QueryRow(ctx, getSlotQuery, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get slot %q: %w", key, err)
	}

	return value, nil
}

// Set upserts the document stored under key.
func (p *PostgresBackend) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrInvalidKey
	}

	startTime := time.Now()
	defer func() {
		duration := time.Since(startTime).Seconds()
		p.metrics.DBQueryDuration.WithLabelValues("set_slot").Observe(duration)
	}()

	if _, err := p.db.Exec(ctx, setSlotQuery, key, value); err != nil {
		return fmt.Errorf("failed to set slot %q: %w", key, err)
	}

	return nil
}

// Ping checks the database connection.
func (p *PostgresBackend) Ping(ctx context.Context) error {
	if err := p.db.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}
