package mock

import (
	"context"

	"github.com/specworks/refcrawl"
)

var _ refcrawl.SpecResolver = (*SpecResolver)(nil)

// SpecResolver is a mock implementation of refcrawl.SpecResolver.
type SpecResolver struct {
	ResolveFn func(ctx context.Context, raw []string) ([]*refcrawl.Spec, error)
}

func (r *SpecResolver) Resolve(ctx context.Context, raw []string) ([]*refcrawl.Spec, error) {
	return r.ResolveFn(ctx, raw)
}
