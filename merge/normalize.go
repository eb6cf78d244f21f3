package merge

import (
	"strings"

	"github.com/specworks/refcrawl"
)

// normalizeDataset applies the output schema normalization: angle
// brackets wrapping an entire field value are stripped to the bare
// inner token (scalar fields and elements of array fields; nested
// descriptor objects are left alone), and every category is put into
// its contractual order.
func normalizeDataset(ds *refcrawl.Dataset) {
	for _, entries := range [][]*refcrawl.Entry{
		ds.Atrules, ds.Functions, ds.Properties, ds.Selectors, ds.Types,
	} {
		for _, e := range entries {
			normalizeEntry(e)
		}
		refcrawl.SortEntries(entries)
	}
}

func normalizeEntry(e *refcrawl.Entry) {
	e.Name = stripAngle(e.Name)
	e.Syntax = stripAngle(e.Syntax)
	for i, f := range e.For {
		e.For[i] = stripAngle(f)
	}
}

// stripAngle rewrites a string entirely wrapped in one pair of angle
// brackets to the bare inner token. Strings where the brackets do not
// span the whole value (e.g. "<length> | auto") are left unchanged.
func stripAngle(s string) string {
	if len(s) < 2 || s[0] != '<' || s[len(s)-1] != '>' {
		return s
	}
	// The opening bracket must close at the final character.
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 && i != len(s)-1 {
				return s
			}
		}
	}
	if depth != 0 {
		return s
	}
	return strings.TrimSuffix(strings.TrimPrefix(s, "<"), ">")
}
