// Package slog provides logging decorators for the crawler's service
// interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/specworks/refcrawl"
)

// Ensure LoggingExtractor implements refcrawl.Extractor.
var _ refcrawl.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   refcrawl.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next refcrawl.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the operation.
func (e *LoggingExtractor) Extract(ctx context.Context, spec *refcrawl.Spec) (res *refcrawl.ExtractResult, err error) {
	url := spec.CrawledURL
	if url == "" {
		url = spec.URL
	}
	defer func(begin time.Time) {
		title := ""
		if res != nil {
			title = res.Title
		}
		e.logger.Info("extract",
			"url", url,
			"title", title,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(ctx, spec)
}
