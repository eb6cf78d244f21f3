package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/specworks/refcrawl"
)

// DefaultCacheMaxAge is how long a cached extract stays usable.
const DefaultCacheMaxAge = 24 * time.Hour

// Ensure CachingExtractor implements refcrawl.Extractor.
var _ refcrawl.Extractor = (*CachingExtractor)(nil)

// CachingExtractor wraps an Extractor with a URL-keyed extract cache.
// Documents whose cached extract is younger than MaxAge are not fetched
// again. Cache failures are non-fatal: a broken cache degrades to
// extracting every document.
type CachingExtractor struct {
	next   refcrawl.Extractor
	cache  refcrawl.ExtractCache
	maxAge time.Duration
	logger *slog.Logger
}

// NewCachingExtractor creates a CachingExtractor. A non-positive
// maxAge falls back to DefaultCacheMaxAge.
func NewCachingExtractor(next refcrawl.Extractor, cache refcrawl.ExtractCache, maxAge time.Duration, logger *slog.Logger) *CachingExtractor {
	if maxAge <= 0 {
		maxAge = DefaultCacheMaxAge
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachingExtractor{next: next, cache: cache, maxAge: maxAge, logger: logger}
}

// Extract returns the cached extract when fresh, otherwise delegates
// to the wrapped extractor and stores the result.
func (e *CachingExtractor) Extract(ctx context.Context, spec *refcrawl.Spec) (*refcrawl.ExtractResult, error) {
	key := spec.CrawledURL
	if key == "" {
		key = spec.URL
	}

	cached, storedAt, err := e.cache.Get(ctx, key)
	switch {
	case err == nil && time.Since(storedAt) <= e.maxAge:
		e.logger.Debug("cache hit", "url", key, "storedAt", storedAt)
		return cached, nil
	case err != nil && refcrawl.ErrorCode(err) != refcrawl.ENOTFOUND:
		e.logger.Warn("cache read failed", "url", key, "err", err)
	}

	res, err := e.next.Extract(ctx, spec)
	if err != nil {
		return nil, err
	}

	if putErr := e.cache.Put(ctx, key, res); putErr != nil {
		e.logger.Warn("cache write failed", "url", key, "err", putErr)
	}

	return res, nil
}
