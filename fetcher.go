package refcrawl

import "context"

// Fetcher retrieves HTML from URLs.
// Implementations may use browser automation: ReSpec documents build
// their definition markup with JavaScript and are near-empty without
// rendering.
type Fetcher interface {
	// Fetch navigates to the URL and returns the document HTML,
	// rendered where the implementation supports it.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases fetcher resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// DomainLimiter provides per-domain rate limiting. Most of a corpus
// lives on a handful of publication hosts; limiting per domain keeps
// the crawl polite without serializing unrelated hosts.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
