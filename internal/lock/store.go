package lock

import (
	"context"
	"time"
)

// Store is the atomic primitive set a lease needs. Every method must be
// a single atomic operation on the backing store.
type Store interface {
	// Acquire sets key=token with the given TTL only if key is absent.
	Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	// Refresh resets the TTL only if key still holds token.
	Refresh(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	// Release deletes key only if it still holds token.
	Release(ctx context.Context, key, token string) (bool, error)
	Close() error
}
