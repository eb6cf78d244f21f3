// Package bloom provides spec URL deduplication using Bloom filters.
package bloom

import (
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter deduplicates spec URLs. URLs are canonicalized before testing
// so that fragment and trailing-slash variants of the same document
// count as duplicates.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Filter sized for n expected URLs with the
// given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Canonicalize normalizes a spec URL for deduplication: the fragment
// is stripped and a trailing slash is ensured on extension-less paths.
// Spec publication URLs are directories; html and pdf snapshots keep
// their extension.
func Canonicalize(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		url = url[:idx]
	}
	if url == "" || strings.HasSuffix(url, "/") {
		return url
	}
	last := url[strings.LastIndex(url, "/")+1:]
	if strings.Contains(last, ".") || strings.Contains(last, "?") {
		return url
	}
	return url + "/"
}

// Add marks a URL as seen.
func (f *Filter) Add(url string) {
	f.f.AddString(Canonicalize(url))
}

// Test returns true if the URL might have been seen.
// False positives are possible; false negatives are not.
func (f *Filter) Test(url string) bool {
	return f.f.TestString(Canonicalize(url))
}

// TestAndAdd marks a URL as seen and reports whether it might have
// been seen before.
func (f *Filter) TestAndAdd(url string) bool {
	return f.f.TestAndAddString(Canonicalize(url))
}

// EstimatedCount returns the approximate number of URLs in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
