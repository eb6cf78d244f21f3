package refcrawl

import (
	"context"
	"sort"
)

// Spec is the descriptor for one specification document. The resolver
// creates it and owns the identity fields; the crawl orchestrator owns
// the extract and error fields for the duration of one crawl attempt
// and never mutates the descriptor afterwards.
type Spec struct {
	// URL is the canonical URL and the identity key of the descriptor.
	URL string `json:"url"`

	// Shortname identifies the document (e.g. "css-color-4").
	Shortname string `json:"shortname,omitempty"`

	// SeriesShortname is the shortname with any version suffix removed
	// (e.g. "css-color"). Specs sharing it form a series.
	SeriesShortname string `json:"seriesShortname,omitempty"`

	// SeriesVersion is the numeric version suffix of the shortname,
	// 0 for unversioned specs. Comparable within a series.
	SeriesVersion int `json:"seriesVersion,omitempty"`

	// Title is the document title, filled in during the crawl.
	Title string `json:"title,omitempty"`

	// Abstract is a short prose summary extracted from the document.
	Abstract string `json:"abstract,omitempty"`

	// CrawledURL is the concrete URL that was actually fetched, which
	// may differ from URL (published snapshot vs editor's draft).
	CrawledURL string `json:"crawledUrl,omitempty"`

	// Versions holds the set of equivalent URLs for this spec.
	Versions *SpecVersions `json:"versions,omitempty"`

	// Repository is the source repository URL, if known.
	Repository string `json:"repository,omitempty"`

	// Error records a terminal failure for this descriptor. A spec with
	// a non-empty Error carries no extract payload.
	Error string `json:"error,omitempty"`

	// ResolutionError records a non-fatal registry lookup failure.
	// The descriptor degrades to best-effort URLs and is still crawled.
	ResolutionError string `json:"resolutionError,omitempty"`

	// Extract payload, written exactly once by the orchestrator.
	Date        string      `json:"date,omitempty"`
	Links       []string    `json:"links,omitempty"`
	References  *References `json:"references,omitempty"`
	IDL         *IDLExtract `json:"idl,omitempty"`
	CSS         *CSSExtract `json:"css,omitempty"`
	ContentHash string      `json:"contentHash,omitempty"`
}

// Validate returns an error if the descriptor is missing required fields.
func (s *Spec) Validate() error {
	if s.URL == "" {
		return Errorf(EINVALID, "spec URL required")
	}
	return nil
}

// SpecVersions is the set of equivalent URLs known for a spec.
type SpecVersions struct {
	// Latest is the latest published version URL.
	Latest string `json:"latest,omitempty"`

	// EditorsDraft is the editor's draft URL.
	EditorsDraft string `json:"editorsDraft,omitempty"`

	// Aliases are additional externally-known equivalent URLs,
	// including dated snapshot URLs.
	Aliases []string `json:"aliases,omitempty"`
}

// All returns every known URL variant, deduplicated, in stable order.
func (v *SpecVersions) All() []string {
	if v == nil {
		return nil
	}
	seen := make(map[string]bool)
	var urls []string
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}
	add(v.Latest)
	add(v.EditorsDraft)
	for _, u := range v.Aliases {
		add(u)
	}
	return urls
}

// SortSpecsByURL sorts specs by URL in place. The crawl completes in
// nondeterministic order; this is the ordering contract for reports.
func SortSpecsByURL(specs []*Spec) {
	sort.Slice(specs, func(i, j int) bool {
		return specs[i].URL < specs[j].URL
	})
}

// SpecResolver turns a raw list of URLs or shortnames into enriched
// descriptors. Resolution failures degrade individual descriptors and
// never abort the whole resolve.
type SpecResolver interface {
	Resolve(ctx context.Context, raw []string) ([]*Spec, error)
}

// SpecRegistry looks up version history and repository metadata for
// specs. Lookups are best-effort; callers degrade on failure.
type SpecRegistry interface {
	// FindVersions returns the known URL variants for a shortname.
	// Returns ENOTFOUND if the registry does not know the shortname.
	FindVersions(ctx context.Context, shortname string) (*SpecVersions, error)

	// Repositories maps spec URLs to repository URLs in one batched
	// call. Missing keys mean "unknown", not error.
	Repositories(ctx context.Context, urls []string) (map[string]string, error)
}
