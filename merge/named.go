package merge

import (
	"sort"
	"strings"

	"github.com/specworks/refcrawl"
)

// named holds the working state for one logical entity keyed by name
// while its contributing definitions are merged.
type named struct {
	name      string
	canonical *taggedEntry
	fragments map[string]bool // newValues fragments, deduplicated
}

// mergeNamed consolidates properties or selectors. All entries sharing
// a name describe one logical entity: the definition from the highest
// series version is canonical, extension fragments are appended to it
// exactly once, and legacy aliases resolve to the canonical syntax of
// their target.
func mergeNamed(entries []taggedEntry) []*refcrawl.Entry {
	byName := make(map[string]*named)
	var aliases []taggedEntry

	for i := range entries {
		te := entries[i]
		e := te.entry

		if e.LegacyAliasOf != "" {
			aliases = append(aliases, te)
			continue
		}

		n := byName[e.Name]
		if n == nil {
			n = &named{name: e.Name, fragments: make(map[string]bool)}
			byName[e.Name] = n
		}

		if e.Value == "" && e.NewValues != "" {
			// Not an independent definition: a fragment extending the
			// canonical entry found elsewhere.
			n.fragments[e.NewValues] = true
			continue
		}

		if moreCanonical(&te, n.canonical) {
			n.canonical = &entries[i]
		}
	}

	resolved := make(map[string]string, len(byName))
	var merged []*refcrawl.Entry

	for _, n := range byName {
		entry := &refcrawl.Entry{Name: n.name}
		var syntax string
		if n.canonical != nil {
			entry.Href = n.canonical.entry.Href
			syntax = n.canonical.entry.Value
		}
		syntax = appendFragments(syntax, n.fragments)
		entry.Syntax = syntax
		resolved[n.name] = syntax
		merged = append(merged, entry)
	}

	// Aliases resolve after every target has been fully merged. An
	// alias whose target never resolves is emitted with no syntax for
	// downstream review; an alias shadowed by a real definition of the
	// same name is dropped.
	for _, alias := range dedupAliases(aliases, byName) {
		merged = append(merged, &refcrawl.Entry{
			Name:   alias.entry.Name,
			Href:   alias.entry.Href,
			Syntax: resolved[alias.entry.LegacyAliasOf],
		})
	}

	return merged
}

// moreCanonical reports whether a should replace b as the canonical
// definition. Higher series version wins; remaining ties are broken
// deterministically so the merge is order-insensitive.
func moreCanonical(a, b *taggedEntry) bool {
	if b == nil {
		return true
	}
	if a.version != b.version {
		return a.version > b.version
	}
	if a.series != b.series {
		return a.series < b.series
	}
	if a.entry.Href != b.entry.Href {
		return a.entry.Href < b.entry.Href
	}
	return a.entry.Value < b.entry.Value
}

// appendFragments appends each distinct extension fragment to the
// syntax with the alternation combinator, in sorted order.
func appendFragments(syntax string, fragments map[string]bool) string {
	if len(fragments) == 0 {
		return syntax
	}
	keys := make([]string, 0, len(fragments))
	for f := range fragments {
		keys = append(keys, f)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys)+1)
	if syntax != "" {
		parts = append(parts, syntax)
	}
	parts = append(parts, keys...)
	return strings.Join(parts, " | ")
}

// dedupAliases drops aliases shadowed by a real definition and keeps
// one record per (name, target), preferring the smallest href.
func dedupAliases(aliases []taggedEntry, defined map[string]*named) []taggedEntry {
	byKey := make(map[string]taggedEntry)
	for _, a := range aliases {
		if _, shadowed := defined[a.entry.Name]; shadowed {
			continue
		}
		key := a.entry.Name + "\x00" + a.entry.LegacyAliasOf
		prev, ok := byKey[key]
		if !ok || a.entry.Href < prev.entry.Href {
			byKey[key] = a
		}
	}
	deduped := make([]taggedEntry, 0, len(byKey))
	for _, a := range byKey {
		deduped = append(deduped, a)
	}
	sort.Slice(deduped, func(i, j int) bool {
		if deduped[i].entry.Name != deduped[j].entry.Name {
			return deduped[i].entry.Name < deduped[j].entry.Name
		}
		return deduped[i].entry.LegacyAliasOf < deduped[j].entry.LegacyAliasOf
	})
	return deduped
}
