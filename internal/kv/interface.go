package kv

import (
	"context"
	"errors"
)

// ErrNotLoaded is returned by operations on a provider that has not been
// initialized or loaded.
var ErrNotLoaded = errors.New("storage not loaded")

// Store is the asynchronous string blob store the data store persists into.
// A missing key is reported with ok == false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Provider is a Store with a lifecycle, selected from the --config flag.
type Provider interface {
	Store

	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Keys lists every stored key in lexical order.
	Keys(ctx context.Context) ([]string, error)

	// Utils
	GetConfigPath() string
}
