// Package db defines the key-value facade behind the redis secret driver.
package db

import (
	"context"
	"time"
)

// Store is a connected key-value database.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore reads many keys in one round trip. The result is index-aligned
// with keys; a missing key yields a nil entry.
type KVStore interface {
	MGet(ctx context.Context, keys []string) ([][]byte, error)
}
