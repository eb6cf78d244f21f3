package mock

import (
	"context"

	"github.com/specworks/refcrawl"
)

var _ refcrawl.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of refcrawl.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, spec *refcrawl.Spec) (*refcrawl.ExtractResult, error)
}

func (e *Extractor) Extract(ctx context.Context, spec *refcrawl.Spec) (*refcrawl.ExtractResult, error) {
	return e.ExtractFn(ctx, spec)
}
