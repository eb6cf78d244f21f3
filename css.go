package refcrawl

// CSS value entry types. A values entry is either a production type
// (e.g. <color>) or a functional notation (e.g. calc()).
const (
	CSSValueType     = "type"
	CSSValueFunction = "function"
)

// CSSExtract holds the CSS grammar elements extracted from one
// document. The lists are unordered; ordering is imposed later by
// consolidation.
type CSSExtract struct {
	Atrules    []*CSSEntry `json:"atrules,omitempty"`
	Properties []*CSSEntry `json:"properties,omitempty"`
	Selectors  []*CSSEntry `json:"selectors,omitempty"`
	Values     []*CSSEntry `json:"values,omitempty"`
}

// Empty reports whether the extract contains no entries in any category.
func (e *CSSExtract) Empty() bool {
	if e == nil {
		return true
	}
	return len(e.Atrules) == 0 && len(e.Properties) == 0 &&
		len(e.Selectors) == 0 && len(e.Values) == 0
}

// CSSEntry is one grammar-element record as extracted from a document.
// Which optional fields are set depends on the kind of definition the
// document carries; consolidation handles each combination explicitly.
type CSSEntry struct {
	// Name is the element name (property name, at-rule name including
	// the @, selector text, or <type>/function name).
	Name string `json:"name"`

	// Href is the URL of the defining anchor in the document.
	Href string `json:"href,omitempty"`

	// Type tags values entries as CSSValueType or CSSValueFunction.
	Type string `json:"type,omitempty"`

	// Value is the raw grammar text of the definition. Empty when the
	// entry only extends a definition made elsewhere (see NewValues).
	Value string `json:"value,omitempty"`

	// For names the container that scopes this entry (the at-rule a
	// descriptor belongs to, or the type a nested function belongs to).
	For string `json:"for,omitempty"`

	// NewValues is a grammar fragment extending a same-named definition
	// found in another document.
	NewValues string `json:"newValues,omitempty"`

	// LegacyAliasOf names the entry this one is a legacy alias of.
	LegacyAliasOf string `json:"legacyAliasOf,omitempty"`

	// Descriptors are the at-rule's descriptor definitions.
	Descriptors []*CSSEntry `json:"descriptors,omitempty"`

	// Values are grammar elements defined inside this entry's own
	// grammar (a type containing functions, or vice versa).
	Values []*CSSEntry `json:"values,omitempty"`
}

// SeriesExtract tags one document's CSS extract with its series
// identity. This is the consolidation engine's input unit.
type SeriesExtract struct {
	Series  string
	Version int
	CSS     *CSSExtract
}

// SeriesExtracts collects the CSS extracts of crawled specs, tagged by
// series. Specs that errored or define no CSS are skipped.
func SeriesExtracts(specs []*Spec) []SeriesExtract {
	var extracts []SeriesExtract
	for _, s := range specs {
		if s.Error != "" || s.CSS.Empty() {
			continue
		}
		series := s.SeriesShortname
		if series == "" {
			series = s.Shortname
		}
		extracts = append(extracts, SeriesExtract{
			Series:  series,
			Version: s.SeriesVersion,
			CSS:     s.CSS,
		})
	}
	return extracts
}
