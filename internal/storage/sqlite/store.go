// Package sqlite provides a SQLite implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Dosenpfand/boulderbar-capacity-tracker/internal/domain"
	"github.com/Dosenpfand/boulderbar-capacity-tracker/internal/storage"

	_ "modernc.org/sqlite"
)

// Store is a SQLite implementation of storage.Store.
type Store struct {
	db *sql.DB
}

// NewMemoryStore creates an in-memory SQLite store.
func NewMemoryStore() (*Store, error) {
	return newStore(":memory:")
}

// NewFileStore creates a file-based SQLite store.
func NewFileStore(path string) (*Store, error) {
	return newStore(path)
}

func newStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The capacity table has exactly one writer (the collector) and many
	// readers. A single connection avoids SQLITE_BUSY between them.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// InsertSamples appends a batch of samples in a single transaction. Either
// every sample in the batch is persisted or none is.
func (s *Store) InsertSamples(ctx context.Context, samples []domain.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.WriteError{Err: fmt.Errorf("begin tx: %w", err)}
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO capacity (timestamp, location_id, location_name, capacity)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return storage.WriteError{Err: fmt.Errorf("prepare: %w", err)}
	}
	defer stmt.Close()

	for _, sample := range samples {
		_, err := stmt.ExecContext(ctx,
			domain.FormatTimestamp(sample.Timestamp),
			sample.LocationID,
			sample.LocationName,
			sample.Capacity,
		)
		if err != nil {
			return storage.WriteError{Err: fmt.Errorf("insert location %d: %w", sample.LocationID, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return storage.WriteError{Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

// QuerySince returns all samples with timestamp >= since, ordered by
// (timestamp, location_id) ascending. A zero since returns everything.
func (s *Store) QuerySince(ctx context.Context, since time.Time) ([]domain.Sample, error) {
	query := `
		SELECT timestamp, location_id, location_name, capacity FROM capacity
		ORDER BY timestamp, location_id
	`
	var args []any
	if !since.IsZero() {
		query = `
			SELECT timestamp, location_id, location_name, capacity FROM capacity
			WHERE timestamp >= ?
			ORDER BY timestamp, location_id
		`
		args = append(args, domain.FormatTimestamp(since))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storage.ReadError{Err: err}
	}
	defer rows.Close()

	var samples []domain.Sample
	for rows.Next() {
		var (
			sample domain.Sample
			ts     string
		)
		if err := rows.Scan(&ts, &sample.LocationID, &sample.LocationName, &sample.Capacity); err != nil {
			return nil, storage.ReadError{Err: err}
		}
		sample.Timestamp, err = domain.ParseTimestamp(ts)
		if err != nil {
			return nil, storage.ReadError{Err: fmt.Errorf("corrupt timestamp %q: %w", ts, err)}
		}
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.ReadError{Err: err}
	}
	return samples, nil
}

// Verify interface compliance
var _ storage.Store = (*Store)(nil)
