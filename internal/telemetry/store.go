// Package telemetry implements the Telemetry Store: an append-only sink
// for plane-state samples with a time-range query, backed by Postgres.
package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS samples (
	id UUID PRIMARY KEY,
	sample_time TIMESTAMPTZ NOT NULL,
	received_at TIMESTAMPTZ NOT NULL,
	payload JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS samples_sample_time_idx ON samples (sample_time);
`

// Store wraps a Postgres connection pool, grounded on the teacher's
// PostgresDB connection-pool setup.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres at dsn and ensures the samples table exists.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("telemetry: failed to open postgres connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("telemetry: failed to ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return nil, fmt.Errorf("telemetry: failed to ensure samples table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Sample is one stored plane-state snapshot.
type Sample struct {
	ID         string          `json:"id"`
	SampleTime time.Time       `json:"sample_time"`
	ReceivedAt time.Time       `json:"received_at"`
	Payload    map[string]any  `json:"payload"`
}
