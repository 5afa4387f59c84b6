package app

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThroughputTracker_Empty(t *testing.T) {
	tr := NewThroughputTracker(5 * time.Minute)
	assert.Equal(t, float64(0), tr.PerMin())
	assert.Equal(t, int64(0), tr.Total())
}

func TestThroughputTracker_SingleSample(t *testing.T) {
	tr := NewThroughputTracker(5 * time.Minute)
	tr.RecordAt(time.Now())
	// Single sample → 0 rate (need at least 2 points for a span)
	assert.Equal(t, float64(0), tr.PerMin())
	assert.Equal(t, int64(1), tr.Total())
}

func TestThroughputTracker_MultiSample(t *testing.T) {
	tr := NewThroughputTracker(5 * time.Minute)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tr.RecordAt(base)
	tr.RecordAt(base.Add(1 * time.Minute))
	tr.RecordAt(base.Add(2 * time.Minute))

	// 3 conversions over 2 minutes
	assert.InDelta(t, 1.5, tr.PerMinAt(base.Add(2*time.Minute)), 0.001)
	assert.Equal(t, int64(3), tr.Total())
}

func TestThroughputTracker_Eviction(t *testing.T) {
	tr := NewThroughputTracker(5 * time.Minute)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tr.RecordAt(base)
	tr.RecordAt(base.Add(1 * time.Minute))

	// Move clock beyond window, samples should be evicted
	assert.Equal(t, float64(0), tr.PerMinAt(base.Add(10*time.Minute)), "all samples evicted → 0 rate")

	// Total is lifetime, not affected by eviction
	assert.Equal(t, int64(2), tr.Total())
}

func TestThroughputTracker_PartialEviction(t *testing.T) {
	tr := NewThroughputTracker(5 * time.Minute)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tr.RecordAt(base)                      // will be evicted
	tr.RecordAt(base.Add(3 * time.Minute)) // kept
	tr.RecordAt(base.Add(4 * time.Minute)) // kept

	// At 6 minutes: 2 conversions over 3 minutes (from 3:00 to 6:00)
	assert.InDelta(t, 0.6667, tr.PerMinAt(base.Add(6*time.Minute)), 0.001)
}

func TestThroughputTracker_Reset(t *testing.T) {
	tr := NewThroughputTracker(5 * time.Minute)
	tr.Record()

	tr.Reset()
	assert.Equal(t, float64(0), tr.PerMin())
	assert.Equal(t, int64(0), tr.Total())
}

func TestThroughputTracker_Concurrent(t *testing.T) {
	tr := NewThroughputTracker(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.Record()
				tr.PerMin()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(800), tr.Total())
}
