package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/Dosenpfand/boulderbar-capacity-tracker/internal/domain"
	"github.com/Dosenpfand/boulderbar-capacity-tracker/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleAt(ts time.Time, id int, name string, capacity int) domain.Sample {
	return domain.Sample{
		Timestamp:    ts,
		LocationID:   id,
		LocationName: name,
		Capacity:     capacity,
	}
}

func TestNewMemoryStore(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	assert.NotNil(t, store)
}

func TestNewFileStore(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewFileStore(tmpDir + "/capacity.db")
	require.NoError(t, err)
	defer store.Close()

	assert.NotNil(t, store)
}

func TestMigrateIdempotent(t *testing.T) {
	store := newTestStore(t)

	// Running the schema again must neither error nor disturb existing rows.
	ctx := context.Background()
	ts := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.InsertSamples(ctx, []domain.Sample{sampleAt(ts, 260, "Wien 10", 42)}))

	require.NoError(t, store.migrate())

	samples, err := store.QuerySince(ctx, time.Time{})
	require.NoError(t, err)
	assert.Len(t, samples, 1)
}

func TestInsertAndQueryRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ts := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	batch := []domain.Sample{
		sampleAt(ts, 260, "Wien 10", 42),
		sampleAt(ts, 261, "Wien 23", 17),
		sampleAt(ts, 262, "Hannover", 88),
	}

	require.NoError(t, store.InsertSamples(ctx, batch))

	samples, err := store.QuerySince(ctx, ts.Add(-time.Hour))
	require.NoError(t, err)

	assert.Equal(t, batch, samples)
}

func TestQueryOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t1 := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(5 * time.Minute)

	// Insert out of order; the query must sort by (timestamp, location_id).
	require.NoError(t, store.InsertSamples(ctx, []domain.Sample{
		sampleAt(t2, 261, "Wien 23", 20),
		sampleAt(t2, 260, "Wien 10", 45),
	}))
	require.NoError(t, store.InsertSamples(ctx, []domain.Sample{
		sampleAt(t1, 261, "Wien 23", 17),
		sampleAt(t1, 260, "Wien 10", 42),
	}))

	samples, err := store.QuerySince(ctx, time.Time{})
	require.NoError(t, err)

	require.Len(t, samples, 4)
	assert.Equal(t, []domain.Sample{
		sampleAt(t1, 260, "Wien 10", 42),
		sampleAt(t1, 261, "Wien 23", 17),
		sampleAt(t2, 260, "Wien 10", 45),
		sampleAt(t2, 261, "Wien 23", 20),
	}, samples)
}

func TestInsertDuplicateFailsAtomically(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ts := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.InsertSamples(ctx, []domain.Sample{
		sampleAt(ts, 260, "Wien 10", 42),
	}))

	// Second batch contains a duplicate key plus a fresh row. The whole
	// batch must be rejected without persisting the fresh row.
	err := store.InsertSamples(ctx, []domain.Sample{
		sampleAt(ts, 261, "Wien 23", 17),
		sampleAt(ts, 260, "Wien 10", 99),
	})
	require.Error(t, err)
	assert.True(t, storage.IsWriteError(err))

	samples, err := store.QuerySince(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 42, samples[0].Capacity)
	assert.Equal(t, 260, samples[0].LocationID)
}

func TestQuerySinceFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	recent := sampleAt(now.Add(-30*time.Minute), 260, "Wien 10", 42)
	old := sampleAt(now.Add(-2*time.Hour), 260, "Wien 10", 30)

	require.NoError(t, store.InsertSamples(ctx, []domain.Sample{old}))
	require.NoError(t, store.InsertSamples(ctx, []domain.Sample{recent}))

	samples, err := store.QuerySince(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, recent, samples[0])

	// Zero since means unbounded.
	samples, err = store.QuerySince(ctx, time.Time{})
	require.NoError(t, err)
	assert.Len(t, samples, 2)
}

func TestQuerySinceInclusive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ts := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.InsertSamples(ctx, []domain.Sample{
		sampleAt(ts, 260, "Wien 10", 42),
	}))

	samples, err := store.QuerySince(ctx, ts)
	require.NoError(t, err)
	assert.Len(t, samples, 1)
}

func TestInsertEmptyBatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.InsertSamples(ctx, nil))

	samples, err := store.QuerySince(ctx, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestSubSecondTimestampOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// .5s encodes as .500000, so it must sort after .123456 in TEXT order.
	base := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	early := sampleAt(base.Add(123456*time.Microsecond), 260, "Wien 10", 10)
	late := sampleAt(base.Add(500*time.Millisecond), 260, "Wien 10", 20)

	require.NoError(t, store.InsertSamples(ctx, []domain.Sample{late}))
	require.NoError(t, store.InsertSamples(ctx, []domain.Sample{early}))

	samples, err := store.QuerySince(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, 10, samples[0].Capacity)
	assert.Equal(t, 20, samples[1].Capacity)
}

func TestQueryAfterClose(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.QuerySince(context.Background(), time.Time{})
	require.Error(t, err)
	assert.True(t, storage.IsReadError(err))
}

func TestInsertAfterClose(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	require.NoError(t, store.Close())

	ts := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	err = store.InsertSamples(context.Background(), []domain.Sample{
		sampleAt(ts, 260, "Wien 10", 42),
	})
	require.Error(t, err)
	assert.True(t, storage.IsWriteError(err))
}
