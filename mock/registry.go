package mock

import (
	"context"

	"github.com/specworks/refcrawl"
)

var _ refcrawl.SpecRegistry = (*SpecRegistry)(nil)

// SpecRegistry is a mock implementation of refcrawl.SpecRegistry.
type SpecRegistry struct {
	FindVersionsFn func(ctx context.Context, shortname string) (*refcrawl.SpecVersions, error)
	RepositoriesFn func(ctx context.Context, urls []string) (map[string]string, error)
}

func (r *SpecRegistry) FindVersions(ctx context.Context, shortname string) (*refcrawl.SpecVersions, error) {
	return r.FindVersionsFn(ctx, shortname)
}

func (r *SpecRegistry) Repositories(ctx context.Context, urls []string) (map[string]string, error) {
	return r.RepositoriesFn(ctx, urls)
}
