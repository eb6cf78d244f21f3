package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/specworks/refcrawl"
)

var _ DefinitionParser = (*DfnParser)(nil)

// DfnParser extracts CSS definitions from dfn elements annotated with
// data-dfn-type attributes. Both ReSpec and Wattsi emit this markup in
// their rendered output, and Bikeshed emits it alongside its definition
// tables, so this parser doubles as the generic fallback.
type DfnParser struct{}

// NewDfnParser creates a new DfnParser.
func NewDfnParser() *DfnParser {
	return &DfnParser{}
}

// Name returns the parser's identifier.
func (p *DfnParser) Name() string {
	return "dfn"
}

// ParseDefinitions scans dfn elements and buckets them by definition type.
func (p *DfnParser) ParseDefinitions(doc *goquery.Document, baseURL string) (*refcrawl.CSSExtract, error) {
	extract := &refcrawl.CSSExtract{}

	doc.Find("dfn[data-dfn-type]").Each(func(_ int, sel *goquery.Selection) {
		dfnType, _ := sel.Attr("data-dfn-type")
		name := strings.TrimSpace(sel.Text())
		if name == "" {
			return
		}

		entry := &refcrawl.CSSEntry{
			Name: name,
			Href: anchorHref(baseURL, sel),
		}
		if scope, ok := sel.Attr("data-dfn-for"); ok {
			// A dfn can be scoped to several containers; the first one
			// is recorded, consolidation unions the rest across specs.
			entry.For = strings.TrimSpace(strings.Split(scope, ",")[0])
		}

		switch dfnType {
		case "property":
			extract.Properties = append(extract.Properties, entry)
		case "at-rule":
			extract.Atrules = append(extract.Atrules, entry)
		case "selector":
			extract.Selectors = append(extract.Selectors, entry)
		case "type":
			entry.Type = refcrawl.CSSValueType
			extract.Values = append(extract.Values, entry)
		case "function":
			entry.Type = refcrawl.CSSValueFunction
			extract.Values = append(extract.Values, entry)
		}
	})

	return extract, nil
}

// anchorHref builds the definition URL for a dfn from its own id or
// the id of its nearest identified ancestor.
func anchorHref(baseURL string, sel *goquery.Selection) string {
	if id, ok := sel.Attr("id"); ok && id != "" {
		return baseURL + "#" + id
	}
	var href string
	sel.Parents().EachWithBreak(func(_ int, parent *goquery.Selection) bool {
		if id, ok := parent.Attr("id"); ok && id != "" {
			href = baseURL + "#" + id
			return false
		}
		return true
	})
	return href
}
