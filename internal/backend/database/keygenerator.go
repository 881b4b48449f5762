package database

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator mints identifiers for new pairs. Every call must return a value
// that was never returned before.
type IDGenerator func() (string, error)

// NewUUIDGenerator returns a generator producing random RFC 4122 version 4 UUIDs.
func NewUUIDGenerator() IDGenerator {
	return func() (string, error) {
		id, err := uuid.NewRandom()
		if err != nil {
			return "", err
		}
		return id.String(), nil
	}
}

// NewSequentialGenerator returns a deterministic generator yielding
// prefix-1, prefix-2, ... It is safe for concurrent use.
func NewSequentialGenerator(prefix string) IDGenerator {
	var counter atomic.Uint64
	return func() (string, error) {
		return fmt.Sprintf("%s-%d", prefix, counter.Add(1)), nil
	}
}
