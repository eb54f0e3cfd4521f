package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. Every Get is a miss, so each layout and render is
// computed fresh; the CLI uses it for --no-cache and when [cache] disabled is
// set.
type NullCache struct{}

var _ Cache = NullCache{}

func NewNullCache() Cache { return NullCache{} }

// Get reports a miss, or the context error once ctx is done.
func (NullCache) Get(ctx context.Context, _ string) ([]byte, bool, error) {
	return nil, false, ctx.Err()
}

func (NullCache) Set(ctx context.Context, _ string, _ []byte, _ time.Duration) error {
	return ctx.Err()
}

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }
