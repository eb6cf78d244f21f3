package mock

import (
	"context"
	"time"

	"github.com/specworks/refcrawl"
)

var _ refcrawl.ExtractCache = (*ExtractCache)(nil)

// ExtractCache is a mock implementation of refcrawl.ExtractCache.
type ExtractCache struct {
	GetFn   func(ctx context.Context, url string) (*refcrawl.ExtractResult, time.Time, error)
	PutFn   func(ctx context.Context, url string, res *refcrawl.ExtractResult) error
	PruneFn func(ctx context.Context, cutoff time.Time) (int, error)
}

func (c *ExtractCache) Get(ctx context.Context, url string) (*refcrawl.ExtractResult, time.Time, error) {
	return c.GetFn(ctx, url)
}

func (c *ExtractCache) Put(ctx context.Context, url string, res *refcrawl.ExtractResult) error {
	return c.PutFn(ctx, url, res)
}

func (c *ExtractCache) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	return c.PruneFn(ctx, cutoff)
}
