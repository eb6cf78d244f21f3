package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/specworks/refcrawl"
)

// Ensure LoggingResolver implements refcrawl.SpecResolver.
var _ refcrawl.SpecResolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a SpecResolver with debug logging.
type LoggingResolver struct {
	next   refcrawl.SpecResolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next refcrawl.SpecResolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// Resolve delegates to the wrapped resolver and logs the operation.
func (r *LoggingResolver) Resolve(ctx context.Context, raw []string) (specs []*refcrawl.Spec, err error) {
	defer func(begin time.Time) {
		r.logger.Info("resolve",
			"input", len(raw),
			"resolved", len(specs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Resolve(ctx, raw)
}
