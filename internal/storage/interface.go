package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when nothing has been stored under the key.
	ErrNotFound = errors.New("key not found")
	// ErrNotLoaded is returned when a provider is used before Init or Load.
	ErrNotLoaded = errors.New("storage not loaded")
)

// Provider is an opaque key-value byte store holding serialized collections.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Values
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	// Subscribe registers fn to run after every successful Set of key,
	// and after external changes picked up by Watch. The returned func removes it.
	Subscribe(key string, fn func(value []byte)) (unsubscribe func())

	// Utils
	GetConfigPath() string
}

// Watcher is implemented by providers that can observe writes made by other processes.
// Watch blocks until ctx is done.
type Watcher interface {
	Watch(ctx context.Context) error
}
