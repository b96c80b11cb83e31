package kv

import "context"

// Store is the persisted key-value slot store the tracker reads and writes.
// Values are opaque strings; durability is best effort and owned by the
// implementation.
type Store interface {
	// Get returns the value under key. ok is false when the key was never set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// Closer is implemented by stores holding OS resources.
type Closer interface {
	Close() error
}
