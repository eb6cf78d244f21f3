package mock

import (
	"context"

	"github.com/specworks/refcrawl"
)

var _ refcrawl.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of refcrawl.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *refcrawl.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *refcrawl.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
