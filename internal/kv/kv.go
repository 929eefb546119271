// Package kv provides the durable key/value store backing the content
// store, the server-side analogue of the browser's localStorage: a small
// namespaced store with a finite capacity whose writes can be rejected.
package kv

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a key has no persisted value.
	ErrNotFound = errors.New("kv: key not found")
	// ErrCapacity is returned when the backend rejects a write because it
	// is out of space. The caller's in-memory state must not be rolled back.
	ErrCapacity = errors.New("kv: capacity exceeded")
)

// Store is a durable key/value store. Values are opaque byte slices
// (serialized JSON in practice).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
