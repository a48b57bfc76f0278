// Package kv provides the key-value port backing local persistence. The
// record store serializes whole collections through it, and the identity
// layer caches offline-login material in it.
package kv

import "context"

// Repository is a serialized-blob key-value store.
type Repository interface {
	// Get returns the value for key, or nil if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error

	// Clear removes every key.
	Clear(ctx context.Context) error
}
