package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Backend when a key has no stored payload.
var ErrNotFound = errors.New("storage: key not found")

// Backend is a namespaced key/value store for serialized documents.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
	// List returns every key starting with prefix, in ascending order.
	List(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
