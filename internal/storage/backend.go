// Package storage provides the local key-value store that survives restarts.
// It plays the role a browser's localStorage plays for a web page: a handful of
// string keys, each value overwritten in full on every write.
package storage

import "errors"

// ErrUnavailable is returned by backends that cannot read or write at all.
var ErrUnavailable = errors.New("storage unavailable")

// Store is a string key-value store.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)

	// Set overwrites the value stored under key.
	Set(key, value string) error

	// Close releases any resources held by the backend.
	Close() error
}

// BackendFactory opens a backend rooted at path. Backends that keep nothing on
// disk ignore path.
type BackendFactory func(path string) (Store, error)
