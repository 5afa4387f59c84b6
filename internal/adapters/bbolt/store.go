// Package bbolt implements the ports.UsageStore interface using bbolt (embedded B+ tree).
// All counters live under a single top-level "usage" bucket: global totals as
// keys, per-outcome counters in an "outcomes" sub-bucket, and one sub-bucket
// per dimension holding its own totals and a "pairs" sub-bucket. Writes are
// transactional; a crash mid-write cannot corrupt previously committed data.
package bbolt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Nicolas2912/UnitConverter/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// Bucket keys
var (
	bucketUsage      = []byte("usage")
	bucketOutcomes   = []byte("outcomes")
	bucketDimensions = []byte("dimensions")
	bucketPairs      = []byte("pairs")
	keyTotal         = []byte("total")
	keyFailed        = []byte("failed")
	keyLastAt        = []byte("last_at")
	keyConversions   = []byte("conversions")
)

// Store implements ports.UsageStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

var _ ports.UsageStore = (*Store)(nil)

// NewStore opens (or creates) a bbolt database at the given path.
// The parent directory is created if missing.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.db.Path()
}

// Record adds one conversion outcome to the counters.
func (s *Store) Record(ev ports.UsageEvent) error {
	if ev.Outcome == "" {
		return fmt.Errorf("usage event without outcome")
	}
	failed := ev.Outcome != ports.OutcomeOK

	return s.db.Update(func(tx *bolt.Tx) error {
		ub, err := tx.CreateBucketIfNotExists(bucketUsage)
		if err != nil {
			return err
		}
		if err := incr(ub, keyTotal); err != nil {
			return err
		}
		if failed {
			if err := incr(ub, keyFailed); err != nil {
				return err
			}
		}
		if err := ub.Put(keyLastAt, encodeCounter(uint64(ev.At))); err != nil {
			return err
		}

		ob, err := ub.CreateBucketIfNotExists(bucketOutcomes)
		if err != nil {
			return err
		}
		if err := incr(ob, []byte(ev.Outcome)); err != nil {
			return err
		}

		// Unknown dimensions are counted by outcome only.
		if ev.Dimension == "" {
			return nil
		}
		dims, err := ub.CreateBucketIfNotExists(bucketDimensions)
		if err != nil {
			return err
		}
		db, err := dims.CreateBucketIfNotExists([]byte(ev.Dimension))
		if err != nil {
			return err
		}
		if failed {
			return incr(db, keyFailed)
		}
		if err := incr(db, keyConversions); err != nil {
			return err
		}
		pb, err := db.CreateBucketIfNotExists(bucketPairs)
		if err != nil {
			return err
		}
		return incr(pb, []byte(ports.PairKey(ev.From, ev.To)))
	})
}

// Stats returns the accumulated counters. A fresh store returns zero stats.
func (s *Store) Stats() (*ports.UsageStats, error) {
	stats := ports.NewUsageStats()

	err := s.db.View(func(tx *bolt.Tx) error {
		ub := tx.Bucket(bucketUsage)
		if ub == nil {
			return nil
		}
		var err error
		if stats.Total, err = readCounter(ub, keyTotal); err != nil {
			return err
		}
		if stats.Failed, err = readCounter(ub, keyFailed); err != nil {
			return err
		}
		lastAt, err := readCounter(ub, keyLastAt)
		if err != nil {
			return err
		}
		stats.LastAt = int64(lastAt)

		if ob := ub.Bucket(bucketOutcomes); ob != nil {
			if err := readCounters(ob, stats.ByOutcome); err != nil {
				return fmt.Errorf("outcomes: %w", err)
			}
		}

		dims := ub.Bucket(bucketDimensions)
		if dims == nil {
			return nil
		}
		return dims.ForEach(func(k, v []byte) error {
			if v != nil {
				return nil // not a sub-bucket
			}
			db := dims.Bucket(k)
			du := &ports.DimensionUsage{Pairs: make(map[string]uint64)}
			var err error
			if du.Conversions, err = readCounter(db, keyConversions); err != nil {
				return err
			}
			if du.Failed, err = readCounter(db, keyFailed); err != nil {
				return err
			}
			if pb := db.Bucket(bucketPairs); pb != nil {
				if err := readCounters(pb, du.Pairs); err != nil {
					return fmt.Errorf("pairs of %s: %w", k, err)
				}
			}
			stats.ByDimension[string(k)] = du
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Reset removes all counters.
// Idempotent: resetting an empty store is not an error.
func (s *Store) Reset() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketUsage); errors.Is(err, bolt.ErrBucketNotFound) {
			return nil // idempotent
		} else {
			return err
		}
	})
}
