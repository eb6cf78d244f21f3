package merge

import (
	"sort"
	"strings"

	"github.com/specworks/refcrawl"
)

// Placeholder tokens an at-rule's syntax may use for its (opaque)
// descriptor block.
var blockPlaceholders = []string{"<declaration-list>", "<rule-list>"}

// mergeAtrules consolidates at-rules. Beyond the named-entity rules
// shared with properties, the descriptors for one at-rule name are
// unioned across every contributing spec, and a declaration-list
// placeholder in the canonical syntax is expanded into an explicit
// grammar block so the at-rule syntax is self-contained.
func mergeAtrules(entries []taggedEntry) []*refcrawl.Entry {
	merged := mergeNamed(entries)

	descriptors := collectDescriptors(entries)

	for _, entry := range merged {
		descs := descriptors[entry.Name]
		if len(descs) == 0 {
			continue
		}
		entry.Descriptors = descs
		entry.Syntax = expandBlock(entry.Syntax, descs)
	}

	return merged
}

// collectDescriptors unions descriptors per at-rule name. Exact
// (name, for, syntax) duplicates are kept once; the survivors are
// ordered alphabetically by name.
func collectDescriptors(entries []taggedEntry) map[string][]*refcrawl.Descriptor {
	type key struct{ name, scope, syntax string }
	seen := make(map[string]map[key]*refcrawl.Descriptor)

	for _, te := range entries {
		atrule := te.entry.Name
		for _, d := range te.entry.Descriptors {
			if d == nil || d.Name == "" {
				continue
			}
			scope := d.For
			if scope == "" {
				scope = atrule
			}
			k := key{name: d.Name, scope: scope, syntax: d.Value}
			if seen[atrule] == nil {
				seen[atrule] = make(map[key]*refcrawl.Descriptor)
			}
			prev, ok := seen[atrule][k]
			if !ok || d.Href < prev.Href {
				seen[atrule][k] = &refcrawl.Descriptor{
					Name:   d.Name,
					For:    scope,
					Href:   d.Href,
					Syntax: d.Value,
				}
			}
		}
	}

	result := make(map[string][]*refcrawl.Descriptor, len(seen))
	for atrule, byKey := range seen {
		descs := make([]*refcrawl.Descriptor, 0, len(byKey))
		for _, d := range byKey {
			descs = append(descs, d)
		}
		sort.Slice(descs, func(i, j int) bool {
			if descs[i].Name != descs[j].Name {
				return descs[i].Name < descs[j].Name
			}
			if descs[i].Syntax != descs[j].Syntax {
				return descs[i].Syntax < descs[j].Syntax
			}
			return descs[i].Href < descs[j].Href
		})
		result[atrule] = descs
	}
	return result
}

// expandBlock replaces an opaque declaration-list placeholder in the
// at-rule syntax with an explicit enumeration of its descriptors,
// alphabetical, combined with the unordered-group combinator. Syntaxes
// without a placeholder are returned unchanged.
func expandBlock(syntax string, descs []*refcrawl.Descriptor) string {
	placeholder := ""
	for _, p := range blockPlaceholders {
		if strings.Contains(syntax, p) {
			placeholder = p
			break
		}
	}
	if placeholder == "" {
		return syntax
	}

	parts := make([]string, 0, len(descs))
	for _, d := range descs {
		parts = append(parts, d.Name+": [ "+d.Syntax+" ];")
	}
	return strings.Replace(syntax, placeholder, strings.Join(parts, " || "), 1)
}
