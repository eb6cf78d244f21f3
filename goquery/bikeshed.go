package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/specworks/refcrawl"
)

var _ DefinitionParser = (*BikeshedParser)(nil)

// BikeshedParser extracts CSS definitions from Bikeshed output. It
// starts from the dfn scan shared with the generic parser, then
// overlays the richer propdef and descdef definition tables, which are
// the only place Bikeshed records grammar text, extension fragments and
// legacy aliases.
type BikeshedParser struct {
	dfn *DfnParser
}

// NewBikeshedParser creates a new BikeshedParser.
func NewBikeshedParser() *BikeshedParser {
	return &BikeshedParser{dfn: NewDfnParser()}
}

// Name returns the parser's identifier.
func (p *BikeshedParser) Name() string {
	return "bikeshed"
}

// ParseDefinitions returns the CSS definitions found in a Bikeshed document.
func (p *BikeshedParser) ParseDefinitions(doc *goquery.Document, baseURL string) (*refcrawl.CSSExtract, error) {
	extract, err := p.dfn.ParseDefinitions(doc, baseURL)
	if err != nil {
		return nil, err
	}

	p.parsePropdefs(doc, baseURL, extract)
	p.parseDescdefs(doc, baseURL, extract)

	return extract, nil
}

// parsePropdefs reads property definition tables. A table row keyed
// "New values" marks a partial definition extending a property defined
// in another document. Table entries replace dfn-derived entries of the
// same name since they carry the grammar text.
func (p *BikeshedParser) parsePropdefs(doc *goquery.Document, baseURL string, extract *refcrawl.CSSExtract) {
	doc.Find("table.propdef").Each(func(_ int, table *goquery.Selection) {
		if table.HasClass("descdef") {
			return
		}
		rows := tableRows(table)

		nameCell := table.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
			return rowKey(tr) == "name"
		}).First()

		href := anchorHref(baseURL, nameCell.Find("dfn").First())

		for _, name := range splitNames(rows["name"]) {
			entry := &refcrawl.CSSEntry{Name: name, Href: href}
			switch {
			case rows["new values"] != "":
				entry.NewValues = rows["new values"]
			case rows["legacy alias of"] != "":
				entry.LegacyAliasOf = rows["legacy alias of"]
			default:
				entry.Value = rows["value"]
			}
			replaceOrAppend(&extract.Properties, entry)
		}
	})
}

// parseDescdefs reads descriptor definition tables and attaches each
// descriptor to the at-rule named in its For row. An at-rule defined
// only through its descriptors gets a grammarless placeholder entry.
func (p *BikeshedParser) parseDescdefs(doc *goquery.Document, baseURL string, extract *refcrawl.CSSExtract) {
	doc.Find("table.descdef").Each(func(_ int, table *goquery.Selection) {
		rows := tableRows(table)

		atruleName := rows["for"]
		if atruleName == "" {
			return
		}

		nameCell := table.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
			return rowKey(tr) == "name"
		}).First()
		href := anchorHref(baseURL, nameCell.Find("dfn").First())

		atrule := findAtrule(extract, atruleName)
		if atrule == nil {
			atrule = &refcrawl.CSSEntry{Name: atruleName}
			extract.Atrules = append(extract.Atrules, atrule)
		}

		for _, name := range splitNames(rows["name"]) {
			atrule.Descriptors = append(atrule.Descriptors, &refcrawl.CSSEntry{
				Name:  name,
				For:   atruleName,
				Href:  href,
				Value: rows["value"],
			})
		}
	})
}

// tableRows flattens a definition table into a key to value map. Keys
// are the th labels lowercased with the trailing colon removed.
func tableRows(table *goquery.Selection) map[string]string {
	rows := make(map[string]string)
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		key := rowKey(tr)
		if key == "" {
			return
		}
		rows[key] = strings.TrimSpace(tr.Find("td").First().Text())
	})
	return rows
}

func rowKey(tr *goquery.Selection) string {
	key := strings.TrimSpace(tr.Find("th").First().Text())
	key = strings.TrimSuffix(key, ":")
	return strings.ToLower(key)
}

// splitNames splits a shared definition table's comma-separated name list.
func splitNames(names string) []string {
	var out []string
	for _, n := range strings.Split(names, ",") {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func replaceOrAppend(entries *[]*refcrawl.CSSEntry, entry *refcrawl.CSSEntry) {
	for i, e := range *entries {
		if e.Name == entry.Name {
			(*entries)[i] = entry
			return
		}
	}
	*entries = append(*entries, entry)
}

func findAtrule(extract *refcrawl.CSSExtract, name string) *refcrawl.CSSEntry {
	for _, e := range extract.Atrules {
		if e.Name == name {
			return e
		}
	}
	return nil
}
