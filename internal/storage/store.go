// Package storage provides storage abstractions for the capacity tracker.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/Dosenpfand/boulderbar-capacity-tracker/internal/domain"
)

// Store is the interface for persistent sample storage.
type Store interface {
	// InsertSamples appends a batch of samples in one atomic unit. If any
	// sample in the batch cannot be inserted, no sample is persisted.
	InsertSamples(ctx context.Context, samples []domain.Sample) error

	// QuerySince returns all samples with timestamp >= since, ordered by
	// (timestamp, location_id) ascending. A zero since returns the entire
	// history.
	QuerySince(ctx context.Context, since time.Time) ([]domain.Sample, error)

	// Lifecycle
	Close() error
}

// WriteError is returned when appending a batch fails, either because the
// storage is unavailable or because a sample violates the
// (timestamp, location_id) uniqueness constraint.
type WriteError struct {
	Err error
}

func (e WriteError) Error() string {
	return "storage write failed: " + e.Err.Error()
}

func (e WriteError) Unwrap() error { return e.Err }

// ReadError is returned when a range query fails.
type ReadError struct {
	Err error
}

func (e ReadError) Error() string {
	return "storage read failed: " + e.Err.Error()
}

func (e ReadError) Unwrap() error { return e.Err }

// IsWriteError checks if an error is a WriteError.
func IsWriteError(err error) bool {
	var we WriteError
	return errors.As(err, &we)
}

// IsReadError checks if an error is a ReadError.
func IsReadError(err error) bool {
	var re ReadError
	return errors.As(err, &re)
}
