package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/specworks/refcrawl"
)

// Ensure LoggingRegistry implements refcrawl.SpecRegistry.
var _ refcrawl.SpecRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps a SpecRegistry with debug logging.
type LoggingRegistry struct {
	next   refcrawl.SpecRegistry
	logger *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next refcrawl.SpecRegistry, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, logger: logger}
}

// FindVersions delegates to the wrapped registry and logs the lookup.
func (r *LoggingRegistry) FindVersions(ctx context.Context, shortname string) (versions *refcrawl.SpecVersions, err error) {
	defer func(begin time.Time) {
		r.logger.Info("registry lookup",
			"shortname", shortname,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.FindVersions(ctx, shortname)
}

// Repositories delegates to the wrapped registry and logs the lookup.
func (r *LoggingRegistry) Repositories(ctx context.Context, urls []string) (repos map[string]string, err error) {
	defer func(begin time.Time) {
		r.logger.Info("repository lookup",
			"urls", len(urls),
			"found", len(repos),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Repositories(ctx, urls)
}
