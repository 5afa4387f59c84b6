package ports

import "time"

// Metrics receives operational observations. Implementations must be safe
// for concurrent use and must keep label cardinality bounded: callers pass
// canonical dimension keys or "unknown", never raw user input.
type Metrics interface {
	ObserveConversion(dimension, outcome string)
	ObserveRequest(route string, code int, elapsed time.Duration)
}

// NopMetrics discards every observation.
type NopMetrics struct{}

func (NopMetrics) ObserveConversion(string, string) {}
func (NopMetrics) ObserveRequest(string, int, time.Duration) {}
