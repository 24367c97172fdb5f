package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// KV defines the durable key/value operations the terminal keeps its state in.
// Consumers define this interface, not the backends.
type KV interface {
	// Get returns ErrNotFound when nothing was stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
