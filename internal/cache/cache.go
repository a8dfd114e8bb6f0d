// Package cache keeps computed report payloads between requests. Values are
// msgpack-encoded so both backends hand out copies, never shared pointers.
package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("cache: key not found")

type Cache interface {
	// Get decodes the value at key into dest, or returns ErrNotFound.
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expire time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// GetOrCompute returns the cached value at key, computing and storing it on a
// miss. Cache failures are logged by the backend and fall through to fn.
func GetOrCompute[T any](ctx context.Context, c Cache, key string, expire time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	if err := c.Get(ctx, key, &out); err == nil {
		return out, nil
	}

	out, err := fn(ctx)
	if err != nil {
		return out, err
	}
	_ = c.Set(ctx, key, out, expire)
	return out, nil
}
