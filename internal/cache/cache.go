// Package cache provides the key-value backends the roles cache sits
// on. Both implementations are safe for concurrent readers racing
// invalidations: a read may see the old or the absent state, never a
// partial value.
package cache

import "context"

// Cache stores values of type V under string keys.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, bool, error)
	Set(ctx context.Context, key string, value V) error
	Remove(ctx context.Context, key string) error
}
