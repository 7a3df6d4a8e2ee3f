// Package store provides the key/value persistence port for game sessions.
// Engines are interchangeable; the session layer treats every failure mode
// the same way (absence or a logged, swallowed error), so none of them need
// transactional guarantees. Concurrent writers are last-write-wins.
package store

import "context"

// Store is the injected persistence port. Get reports absence explicitly
// instead of with a sentinel error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
