// Package collector polls the capacity API and persists sample batches.
package collector

import (
	"context"
	"time"

	"github.com/Dosenpfand/boulderbar-capacity-tracker/internal/boulderbar"
	"github.com/Dosenpfand/boulderbar-capacity-tracker/internal/domain"
	"github.com/Dosenpfand/boulderbar-capacity-tracker/internal/storage"
)

// Fetcher abstracts the remote capacity source so the collector can be
// tested with a fake.
type Fetcher interface {
	FetchCapacity(ctx context.Context) ([]boulderbar.LocationCapacity, error)
}

// Collector produces one batch of samples per invocation.
type Collector struct {
	fetcher Fetcher
	store   storage.Store
	now     func() time.Time
}

// New creates a Collector reading from fetcher and writing to store.
func New(fetcher Fetcher, store storage.Store) *Collector {
	return &Collector{
		fetcher: fetcher,
		store:   store,
		now:     time.Now,
	}
}

// CollectOnce fetches the current capacity of all locations and appends one
// sample per location to the store. Every sample in the batch carries the
// same timestamp, captured once at fetch time, and the batch is written
// atomically. Returns the number of samples stored. A fetch or write failure
// is returned to the caller; a skipped round (no data from the API) stores
// nothing and returns no error.
func (c *Collector) CollectOnce(ctx context.Context) (int, error) {
	locations, err := c.fetcher.FetchCapacity(ctx)
	if err != nil {
		return 0, err
	}
	if len(locations) == 0 {
		return 0, nil
	}

	timestamp := c.now().UTC()
	samples := make([]domain.Sample, len(locations))
	for i, loc := range locations {
		samples[i] = domain.Sample{
			Timestamp:    timestamp,
			LocationID:   loc.ID,
			LocationName: loc.Title,
			Capacity:     loc.Capacity,
		}
	}

	if err := c.store.InsertSamples(ctx, samples); err != nil {
		return 0, err
	}
	return len(samples), nil
}
