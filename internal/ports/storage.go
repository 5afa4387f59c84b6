// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import "errors"

// ErrStatsDisabled is returned by components asked for usage stats when no
// UsageStore is configured.
var ErrStatsDisabled = errors.New("usage stats are disabled")

// UsageStore persists conversion counters to durable storage.
// The backing store (bbolt) serializes writes; concurrent reads are safe.
//
// Crash safety: Record must be transactional. A crash mid-write must not
// corrupt previously committed counters. Nothing in the store is ever read
// back into the unit registry.
type UsageStore interface {
	// Record adds one conversion outcome to the counters.
	Record(ev UsageEvent) error

	// Stats returns the accumulated counters. A fresh store returns
	// zero-valued stats, not an error.
	Stats() (*UsageStats, error)

	// Reset removes all counters. Idempotent.
	Reset() error

	// Close releases the underlying database.
	Close() error
}

// Outcome labels shared by usage events and metrics.
const (
	OutcomeOK               = "ok"
	OutcomeUnknownDimension = "unknown_dimension"
	OutcomeUnknownUnit      = "unknown_unit"
	OutcomeInvalidValue     = "invalid_value"
	OutcomeError            = "error"
)

// UsageEvent is one conversion request outcome. Dimension, From and To are
// canonical ids when they resolved, otherwise empty.
type UsageEvent struct {
	Dimension string
	From      string
	To        string
	Outcome   string
	At        int64 // unix seconds
}

// UsageStats holds lifetime conversion counters.
type UsageStats struct {
	Total       uint64                     `json:"total"`
	Failed      uint64                     `json:"failed"`
	LastAt      int64                      `json:"last_at"`
	ByOutcome   map[string]uint64          `json:"by_outcome"`
	ByDimension map[string]*DimensionUsage `json:"by_dimension"`
}

// DimensionUsage holds per-dimension counters. Pairs is keyed "from->to".
type DimensionUsage struct {
	Conversions uint64            `json:"conversions"`
	Failed      uint64            `json:"failed"`
	Pairs       map[string]uint64 `json:"pairs"`
}

// NewUsageStats returns empty, non-nil stats.
func NewUsageStats() *UsageStats {
	return &UsageStats{
		ByOutcome:   make(map[string]uint64),
		ByDimension: make(map[string]*DimensionUsage),
	}
}

// PairKey formats the key used in DimensionUsage.Pairs.
func PairKey(from, to string) string {
	return from + "->" + to
}
