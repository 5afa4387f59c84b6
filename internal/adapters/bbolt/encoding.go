// Counter encoding for usage buckets.
//
// Every counter is stored as a fixed 8-byte big-endian uint64 so values can
// be incremented in place inside one write transaction without a JSON
// round trip.
package bbolt

import (
	"encoding/binary"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// counterSize is the byte size of an encoded counter.
const counterSize = 8

func encodeCounter(n uint64) []byte {
	buf := make([]byte, counterSize)
	binary.BigEndian.PutUint64(buf, n)
	return buf
}

func decodeCounter(b []byte) (uint64, error) {
	if len(b) != counterSize {
		return 0, fmt.Errorf("counter: want %d bytes, got %d", counterSize, len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

// readCounter returns 0 for a missing key.
func readCounter(b *bolt.Bucket, key []byte) (uint64, error) {
	v := b.Get(key)
	if v == nil {
		return 0, nil
	}
	n, err := decodeCounter(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// readCounters copies every counter key of b into dst, skipping sub-buckets.
func readCounters(b *bolt.Bucket, dst map[string]uint64) error {
	return b.ForEach(func(k, v []byte) error {
		if v == nil {
			return nil
		}
		n, err := decodeCounter(v)
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		dst[string(k)] = n
		return nil
	})
}

func incr(b *bolt.Bucket, key []byte) error {
	n, err := readCounter(b, key)
	if err != nil {
		return err
	}
	return b.Put(key, encodeCounter(n+1))
}
