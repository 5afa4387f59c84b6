package bbolt

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Nicolas2912/UnitConverter/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

// newTestStore creates a temporary bbolt store for testing.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "usage.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func ok(dim, from, to string, at int64) ports.UsageEvent {
	return ports.UsageEvent{Dimension: dim, From: from, To: to, Outcome: ports.OutcomeOK, At: at}
}

func TestStore_FreshStoreHasZeroStats(t *testing.T) {
	store, _ := newTestStore(t)

	stats, err := store.Stats()
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.Failed)
	assert.Empty(t, stats.ByOutcome)
	assert.Empty(t, stats.ByDimension)
}

func TestStore_RecordAndStats(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Record(ok("Length", "km", "m", 100)))
	require.NoError(t, store.Record(ok("Length", "km", "m", 101)))
	require.NoError(t, store.Record(ok("Length", "m", "ft", 102)))
	require.NoError(t, store.Record(ok("Temperature", "C", "F", 103)))
	require.NoError(t, store.Record(ports.UsageEvent{Dimension: "Length", Outcome: ports.OutcomeUnknownUnit, At: 104}))
	require.NoError(t, store.Record(ports.UsageEvent{Outcome: ports.OutcomeUnknownDimension, At: 105}))

	stats, err := store.Stats()
	require.NoError(t, err)

	assert.Equal(t, uint64(6), stats.Total)
	assert.Equal(t, uint64(2), stats.Failed)
	assert.Equal(t, int64(105), stats.LastAt)
	assert.Equal(t, map[string]uint64{
		ports.OutcomeOK:               4,
		ports.OutcomeUnknownUnit:      1,
		ports.OutcomeUnknownDimension: 1,
	}, stats.ByOutcome)

	require.Contains(t, stats.ByDimension, "Length")
	length := stats.ByDimension["Length"]
	assert.Equal(t, uint64(3), length.Conversions)
	assert.Equal(t, uint64(1), length.Failed)
	assert.Equal(t, map[string]uint64{"km->m": 2, "m->ft": 1}, length.Pairs)

	require.Contains(t, stats.ByDimension, "Temperature")
	assert.Equal(t, uint64(1), stats.ByDimension["Temperature"].Conversions)
	assert.Len(t, stats.ByDimension, 2, "unknown dimensions get no bucket")
}

func TestStore_RecordRequiresOutcome(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.Record(ports.UsageEvent{Dimension: "Length"})
	assert.Error(t, err)

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.Total, "failed record must not write")
}

func TestStore_Reset(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Record(ok("Mass", "kg", "lb", 1)))

	require.NoError(t, store.Reset())
	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Empty(t, stats.ByDimension)

	// Idempotent
	require.NoError(t, store.Reset())
}

func TestStore_SurvivesRestart(t *testing.T) {
	// Counters committed before close are intact after reopen.
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "usage.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	assert.Equal(t, path, store.Path())
	require.NoError(t, store.Record(ok("Data", "kb", "mb", 7)))
	require.NoError(t, store.Close())

	store2, err := NewStore(path)
	require.NoError(t, err)
	defer store2.Close()

	stats, err := store2.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.Total)
	assert.Equal(t, map[string]uint64{"kb->mb": 1}, stats.ByDimension["Data"].Pairs)
}

func TestStore_ConcurrentRecords(t *testing.T) {
	store, _ := newTestStore(t)

	const workers, each = 8, 25
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < each; j++ {
				assert.NoError(t, store.Record(ok("Time", "hr", "min", int64(j))))
				_, err := store.Stats()
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(workers*each), stats.Total)
	assert.Equal(t, uint64(workers*each), stats.ByDimension["Time"].Pairs["hr->min"])
}

func TestStore_CorruptCounter(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketUsage)
		if err != nil {
			return err
		}
		return b.Put(keyTotal, []byte("abc"))
	}))

	_, err := store.Stats()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "total")

	assert.Error(t, store.Record(ok("Length", "m", "km", 1)), "increment must not overwrite garbage")
}

func TestCounterEncoding(t *testing.T) {
	for _, n := range []uint64{0, 1, 255, 1 << 40, ^uint64(0)} {
		got, err := decodeCounter(encodeCounter(n))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
	_, err := decodeCounter([]byte{1, 2, 3})
	assert.Error(t, err)
}

// =============================================================================
// Lock contention tests: verify the 1s timeout prevents hangs
// =============================================================================

func TestStore_OpenTimeout_DoesNotHang(t *testing.T) {
	// When another process/goroutine holds the bbolt exclusive lock,
	// a second open should timeout in ~1 second, not hang forever.
	_, path := newTestStore(t)

	start := time.Now()
	store2, err := NewStore(path)
	elapsed := time.Since(start)

	require.Error(t, err, "second open should fail with lock timeout")
	assert.Nil(t, store2, "store should be nil on timeout")
	assert.Contains(t, err.Error(), "bbolt open")
	assert.Contains(t, err.Error(), "timeout", "error should mention timeout")
	assert.Less(t, elapsed, 3*time.Second, "should complete within 3s, not hang")
	assert.GreaterOrEqual(t, elapsed, 900*time.Millisecond, "should wait ~1s for the configured timeout")
}

func TestStore_OpenAfterClose_Succeeds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "released.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store1.Record(ok("Length", "m", "cm", 1)))
	store1.Close()

	start := time.Now()
	store2, err := NewStore(path)
	elapsed := time.Since(start)

	require.NoError(t, err, "open after close should succeed")
	require.NotNil(t, store2)
	defer store2.Close()
	assert.Less(t, elapsed, 500*time.Millisecond, "should open instantly after lock released")

	stats, err := store2.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.Total)
}
