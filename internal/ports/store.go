package ports

import (
	"context"
	"errors"
)

// ErrEmptyKey is returned by stores when asked for a blank key.
var ErrEmptyKey = errors.New("key is required")

// KeyValueStore persists the per-player profile documents (stats, settings
// and the saved game) as opaque strings.
type KeyValueStore interface {
	// Get returns the value stored under key. found is false when nothing is
	// stored; that is not an error.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key succeeds.
	Remove(ctx context.Context, key string) error
}
