// Package resolve turns raw spec URLs and shortnames into enriched
// descriptors ready for crawling. Registry lookups are best-effort:
// a failed lookup degrades the affected descriptor to guessed URLs
// and never aborts the resolve.
package resolve

import (
	"context"
	"log/slog"
	"strings"

	"github.com/specworks/refcrawl"
	"github.com/specworks/refcrawl/bloom"
)

// Dedup filter sizing.
const (
	// dedupExpectedURLs is the expected corpus size for Bloom filter sizing.
	dedupExpectedURLs = 10000
	// dedupFalsePositiveRate is the acceptable false positive rate for deduplication.
	dedupFalsePositiveRate = 0.01
)

// Compile-time interface verification.
var _ refcrawl.SpecResolver = (*Resolver)(nil)

// Resolver resolves raw spec identifiers into descriptors.
type Resolver struct {
	Registry refcrawl.SpecRegistry
	Logger   *slog.Logger
}

// NewResolver creates a Resolver backed by the given registry.
func NewResolver(registry refcrawl.SpecRegistry, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{Registry: registry, Logger: logger}
}

// Resolve turns a raw list of URLs or shortnames into descriptors.
// Entries naming the same canonical URL, including fragment and
// trailing-slash variants and registry-known aliases, resolve to one
// descriptor. Input order is preserved.
func (r *Resolver) Resolve(ctx context.Context, raw []string) ([]*refcrawl.Spec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := bloom.NewFilter(dedupExpectedURLs, dedupFalsePositiveRate)
	var specs []*refcrawl.Spec

	for _, entry := range raw {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		rawURL := entry
		if !strings.Contains(entry, "/") && !strings.Contains(entry, ".") {
			// Bare shortname
			rawURL = "https://www.w3.org/TR/" + entry + "/"
		}
		canonical := bloom.Canonicalize(rawURL)

		if seen.TestAndAdd(canonical) {
			continue
		}

		spec := &refcrawl.Spec{URL: canonical}
		spec.Shortname = Shortname(canonical)
		spec.SeriesShortname, spec.SeriesVersion = Series(spec.Shortname)

		r.enrich(ctx, spec)

		// Mark every known alias so later raw entries naming the same
		// spec through a different URL are dropped.
		for _, alias := range spec.Versions.All() {
			seen.Add(alias)
		}

		specs = append(specs, spec)
	}

	r.attachRepositories(ctx, specs)

	return specs, nil
}

// enrich fills in version URLs from the registry. On failure the
// descriptor degrades to a TR guess and records the failure; it is
// still crawled.
func (r *Resolver) enrich(ctx context.Context, spec *refcrawl.Spec) {
	versions, err := r.Registry.FindVersions(ctx, spec.Shortname)
	if err != nil {
		spec.ResolutionError = refcrawl.ErrorMessage(err)
		spec.Versions = &refcrawl.SpecVersions{
			Latest: "https://www.w3.org/TR/" + spec.Shortname + "/",
		}
		r.Logger.Warn("registry lookup failed",
			"shortname", spec.Shortname,
			"err", err,
		)
	} else {
		spec.Versions = versions
	}

	// Crawl the latest published version when known, the input URL
	// otherwise.
	spec.CrawledURL = spec.Versions.Latest
	if spec.CrawledURL == "" {
		spec.CrawledURL = spec.URL
	}
}

// attachRepositories performs the batched repository lookup. Failure
// degrades silently: repository information is best-effort metadata.
func (r *Resolver) attachRepositories(ctx context.Context, specs []*refcrawl.Spec) {
	if len(specs) == 0 {
		return
	}

	urls := make([]string, 0, len(specs))
	for _, spec := range specs {
		urls = append(urls, spec.URL)
	}

	repos, err := r.Registry.Repositories(ctx, urls)
	if err != nil {
		r.Logger.Warn("repository lookup failed", "count", len(urls), "err", err)
		return
	}

	for _, spec := range specs {
		if repo, ok := repos[spec.URL]; ok {
			spec.Repository = repo
		}
	}
}
