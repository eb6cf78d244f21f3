package refcrawl

import "sort"

// Dataset is the consolidated, deduplicated view of all CSS grammar
// elements across the crawled corpus. Each category is sorted by name,
// ties broken by href; that ordering is a hard contract so that two
// runs over the same input produce byte-identical output.
type Dataset struct {
	Atrules    []*Entry `json:"atrules"`
	Functions  []*Entry `json:"functions"`
	Properties []*Entry `json:"properties"`
	Selectors  []*Entry `json:"selectors"`
	Types      []*Entry `json:"types"`
}

// Entry is one canonical grammar element in the merged dataset.
type Entry struct {
	// Name is the element name, with any enclosing angle brackets
	// stripped (<color> becomes color).
	Name string `json:"name"`

	// Href is the URL of the defining anchor.
	Href string `json:"href,omitempty"`

	// Syntax is the merged grammar text.
	Syntax string `json:"syntax,omitempty"`

	// For lists the containers that scope this entry, sorted and
	// deduplicated. Absent on unscoped entries.
	For []string `json:"for,omitempty"`

	// Descriptors are the at-rule's merged descriptor definitions.
	Descriptors []*Descriptor `json:"descriptors,omitempty"`
}

// Descriptor is one at-rule descriptor in the merged dataset.
type Descriptor struct {
	Name   string `json:"name"`
	For    string `json:"for,omitempty"`
	Href   string `json:"href,omitempty"`
	Syntax string `json:"syntax,omitempty"`
}

// SortEntries sorts entries by name, ties broken by href.
func SortEntries(entries []*Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Href < entries[j].Href
	})
}
