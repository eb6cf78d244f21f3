// Package merge consolidates per-document CSS extracts into one
// deduplicated dataset. The merge is single-threaded, idempotent and
// insensitive to the arrival order of its input: extraction completes
// in nondeterministic order, so re-running on a permuted input must
// yield a byte-identical dataset.
package merge

import (
	"sort"

	"github.com/specworks/refcrawl"
)

// taggedEntry pairs one raw grammar entry with the series identity of
// the document that contributed it.
type taggedEntry struct {
	series  string
	version int
	entry   *refcrawl.CSSEntry
}

// Consolidate merges the tagged CSS extracts of a crawled corpus into
// one dataset. Inputs are read-only; the returned dataset is owned by
// the caller.
func Consolidate(extracts []refcrawl.SeriesExtract) (*refcrawl.Dataset, error) {
	var atrules, properties, selectors, values []taggedEntry

	// Impose a total order on the input before merging so that every
	// later tie-break is independent of arrival order.
	sorted := make([]refcrawl.SeriesExtract, len(extracts))
	copy(sorted, extracts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Series != sorted[j].Series {
			return sorted[i].Series < sorted[j].Series
		}
		return sorted[i].Version < sorted[j].Version
	})

	for _, ex := range sorted {
		if ex.CSS == nil {
			continue
		}
		atrules = append(atrules, tag(ex, ex.CSS.Atrules)...)
		properties = append(properties, tag(ex, ex.CSS.Properties)...)
		selectors = append(selectors, tag(ex, ex.CSS.Selectors)...)
		values = append(values, tag(ex, ex.CSS.Values)...)
	}

	ds := &refcrawl.Dataset{
		Atrules:    mergeAtrules(atrules),
		Properties: mergeNamed(properties),
		Selectors:  mergeNamed(selectors),
	}
	ds.Functions, ds.Types = mergeValues(values)

	normalizeDataset(ds)

	// Category lists are arrays in the output file even when empty.
	ds.Atrules = nonNil(ds.Atrules)
	ds.Functions = nonNil(ds.Functions)
	ds.Properties = nonNil(ds.Properties)
	ds.Selectors = nonNil(ds.Selectors)
	ds.Types = nonNil(ds.Types)

	return ds, nil
}

func nonNil(entries []*refcrawl.Entry) []*refcrawl.Entry {
	if entries == nil {
		return []*refcrawl.Entry{}
	}
	return entries
}

func tag(ex refcrawl.SeriesExtract, entries []*refcrawl.CSSEntry) []taggedEntry {
	tagged := make([]taggedEntry, 0, len(entries))
	for _, e := range entries {
		if e == nil || e.Name == "" {
			continue
		}
		tagged = append(tagged, taggedEntry{series: ex.Series, version: ex.Version, entry: e})
	}
	return tagged
}
