package merge

import (
	"sort"
	"strings"

	"github.com/specworks/refcrawl"
)

// valueKey is the identity of a promoted value entry. Two entries are
// the same entity iff name, href and syntax are all equal; entries
// sharing a name with a different syntax are distinct overloads.
type valueKey struct {
	name   string
	href   string
	syntax string
}

// valueAcc accumulates the scopes under which one entity was reached.
type valueAcc struct {
	typ      string
	scopes   map[string]bool
	unscoped bool
}

// mergeValues flattens the values entries of all extracts into the
// top-level functions and types categories. Every nested entry is
// promoted with its container's name recorded in its for list; when
// the same entity is also defined unscoped, the unscoped definition is
// authoritative and the scoped duplicates are dropped.
func mergeValues(entries []taggedEntry) (functions, types []*refcrawl.Entry) {
	accs := make(map[valueKey]*valueAcc)

	var visit func(e *refcrawl.CSSEntry, container string)
	visit = func(e *refcrawl.CSSEntry, container string) {
		if e == nil || e.Name == "" {
			return
		}
		key := valueKey{name: e.Name, href: e.Href, syntax: e.Value}
		acc := accs[key]
		if acc == nil {
			acc = &valueAcc{scopes: make(map[string]bool)}
			accs[key] = acc
		}
		if acc.typ == "" {
			acc.typ = valueType(e)
		}

		switch {
		case e.For != "":
			acc.scopes[e.For] = true
		case container != "":
			acc.scopes[container] = true
		default:
			acc.unscoped = true
		}

		// Promote nested entries; the container becomes a plain leaf.
		for _, nested := range e.Values {
			visit(nested, e.Name)
		}
	}

	for _, te := range entries {
		visit(te.entry, "")
	}

	// Collapse distinct hrefs that share (name, syntax): the dataset
	// never carries two entries of one category with the same pair.
	type pairKey struct{ name, syntax string }
	byPair := make(map[pairKey]*refcrawl.Entry)
	pairUnscoped := make(map[pairKey]bool)
	pairScopes := make(map[pairKey]map[string]bool)
	pairType := make(map[pairKey]string)

	keys := make([]valueKey, 0, len(accs))
	for k := range accs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].name != keys[j].name {
			return keys[i].name < keys[j].name
		}
		if keys[i].syntax != keys[j].syntax {
			return keys[i].syntax < keys[j].syntax
		}
		return keys[i].href < keys[j].href
	})

	for _, k := range keys {
		acc := accs[k]
		pk := pairKey{name: k.name, syntax: k.syntax}
		entry := byPair[pk]
		if entry == nil {
			entry = &refcrawl.Entry{Name: k.name, Href: k.href, Syntax: k.syntax}
			byPair[pk] = entry
			pairScopes[pk] = make(map[string]bool)
		}
		if acc.unscoped {
			pairUnscoped[pk] = true
		}
		for s := range acc.scopes {
			pairScopes[pk][s] = true
		}
		if pairType[pk] == "" {
			pairType[pk] = acc.typ
		}
	}

	for pk, entry := range byPair {
		// Scoping information is only materialized when no broader,
		// unscoped definition exists.
		if !pairUnscoped[pk] {
			entry.For = sortedScopes(pairScopes[pk])
		}
		if pairType[pk] == refcrawl.CSSValueFunction {
			functions = append(functions, entry)
		} else {
			types = append(types, entry)
		}
	}

	return functions, types
}

// valueType classifies a values entry, inferring from the name when
// the extract carries no explicit tag.
func valueType(e *refcrawl.CSSEntry) string {
	if e.Type != "" {
		return e.Type
	}
	if strings.HasSuffix(e.Name, ")") {
		return refcrawl.CSSValueFunction
	}
	return refcrawl.CSSValueType
}

func sortedScopes(scopes map[string]bool) []string {
	if len(scopes) == 0 {
		return nil
	}
	list := make([]string, 0, len(scopes))
	for s := range scopes {
		list = append(list, s)
	}
	sort.Strings(list)
	return list
}
