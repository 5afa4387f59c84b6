package app

import (
	"sync"
	"time"
)

// ThroughputTracker computes a rolling conversion rate over a configurable
// window. Safe for concurrent use.
type ThroughputTracker struct {
	mu      sync.Mutex
	window  time.Duration
	samples []time.Time
	total   int64
}

// NewThroughputTracker creates a tracker with the given rolling window duration.
func NewThroughputTracker(window time.Duration) *ThroughputTracker {
	return &ThroughputTracker{window: window}
}

// Record counts one conversion at the current time.
func (t *ThroughputTracker) Record() {
	t.RecordAt(time.Now())
}

// RecordAt counts one conversion at a specific timestamp.
func (t *ThroughputTracker) RecordAt(ts time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.samples = append(t.samples, ts)
	t.total++
	t.evict(ts)
}

// PerMin returns the current rate in conversions per minute.
func (t *ThroughputTracker) PerMin() float64 {
	return t.PerMinAt(time.Now())
}

// PerMinAt computes the rate as of the given time.
func (t *ThroughputTracker) PerMinAt(now time.Time) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.evict(now)
	if len(t.samples) < 2 {
		return 0
	}
	span := now.Sub(t.samples[0])
	if span <= 0 {
		return 0
	}
	return float64(len(t.samples)) / span.Minutes()
}

// Total returns the number of conversions recorded since creation or Reset.
func (t *ThroughputTracker) Total() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Reset clears all samples and the total.
func (t *ThroughputTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.samples = nil
	t.total = 0
}

// evict removes samples older than the window. Caller holds t.mu.
func (t *ThroughputTracker) evict(now time.Time) {
	cutoff := now.Add(-t.window)
	i := 0
	for i < len(t.samples) && t.samples[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		t.samples = t.samples[i:]
	}
}
