// Package goquery implements in-process extraction of structured data
// from specification documents using CSS selectors.
package goquery

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"
	"github.com/specworks/refcrawl"
)

var _ refcrawl.Extractor = (*Extractor)(nil)

// Extractor extracts titles, dates, links, references, WebIDL and CSS
// definitions from specification documents. Extraction is best effort:
// a document the heuristics cannot fully parse yields a partial result,
// not an error.
type Extractor struct {
	fetcher    refcrawl.Fetcher
	registry   *Registry
	summarizer refcrawl.Summarizer
}

// NewExtractor creates an Extractor. The summarizer may be nil, in
// which case no prose fallback is attempted for title and abstract.
func NewExtractor(fetcher refcrawl.Fetcher, registry *Registry, summarizer refcrawl.Summarizer) *Extractor {
	return &Extractor{
		fetcher:    fetcher,
		registry:   registry,
		summarizer: summarizer,
	}
}

// Extract fetches the spec's crawl URL and parses its content.
func (e *Extractor) Extract(ctx context.Context, spec *refcrawl.Spec) (*refcrawl.ExtractResult, error) {
	target := spec.CrawledURL
	if target == "" {
		target = spec.URL
	}
	if target == "" {
		return nil, refcrawl.Errorf(refcrawl.EINVALID, "spec has no URL to crawl")
	}

	html, err := e.fetcher.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, refcrawl.Errorf(refcrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	res := &refcrawl.ExtractResult{
		Title:       extractTitle(doc),
		Date:        extractDate(doc),
		Links:       extractLinks(doc, target),
		References:  extractReferences(doc),
		IDL:         extractIDL(doc),
		ContentHash: fmt.Sprintf("%016x", xxhash.Sum64String(html)),
		Abstract:    extractAbstract(doc),
	}

	css, err := e.registry.GetForHTML(html).ParseDefinitions(doc, target)
	if err != nil {
		return nil, err
	}
	if !css.Empty() {
		res.CSS = css
	}

	// Prose fallback for documents without recognizable head markup
	if (res.Title == "" || res.Abstract == "") && e.summarizer != nil {
		if summary, err := e.summarizer.Summarize(html); err == nil {
			if res.Title == "" {
				res.Title = summary.Title
			}
			if res.Abstract == "" {
				res.Abstract = summary.Abstract
			}
		}
	}

	return res, nil
}

// extractTitle returns the document title, preferring the head h1 over
// the title element since the latter often carries status suffixes.
func extractTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("div.head h1").First().Text()); title != "" {
		return title
	}
	if title := strings.TrimSpace(doc.Find("h1.title").First().Text()); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// extractDate returns the publication date from the document head.
func extractDate(doc *goquery.Document) string {
	if dt, ok := doc.Find("div.head time[datetime]").First().Attr("datetime"); ok {
		return strings.TrimSpace(dt)
	}
	if dt, ok := doc.Find("time.dt-published[datetime], time.dt-updated[datetime]").First().Attr("datetime"); ok {
		return strings.TrimSpace(dt)
	}
	return ""
}

// extractAbstract returns the document's own abstract section, if any.
func extractAbstract(doc *goquery.Document) string {
	for _, selector := range []string{"div.abstract", "section#abstract", "#abstract"} {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		// Drop the section heading when the abstract is a full section.
		text := strings.TrimSpace(sel.Find("p").Text())
		if text == "" {
			text = strings.TrimSpace(sel.Text())
		}
		if text != "" {
			return text
		}
	}
	return ""
}

// extractLinks returns the distinct out-of-page URLs the document
// references, in document order. Fragments are stripped so anchors
// within one target page collapse to a single link.
func extractLinks(doc *goquery.Document, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})

	return links
}

// extractReferences reads the normative and informative bibliography
// sections. Returns nil when the document has neither.
func extractReferences(doc *goquery.Document) *refcrawl.References {
	normative := referenceList(doc, "#normative")
	informative := referenceList(doc, "#informative")
	if len(normative) == 0 && len(informative) == 0 {
		return nil
	}
	return &refcrawl.References{Normative: normative, Informative: informative}
}

// referenceList reads the definition list following a bibliography
// heading. Each dt holds the reference name in square brackets and the
// following dd links to the referenced document.
func referenceList(doc *goquery.Document, headingSelector string) []refcrawl.Reference {
	heading := doc.Find(headingSelector).First()
	if heading.Length() == 0 {
		return nil
	}
	dl := heading.NextAllFiltered("dl").First()

	var refs []refcrawl.Reference
	dl.Find("dt").Each(func(_ int, dt *goquery.Selection) {
		name := strings.TrimSpace(dt.Text())
		name = strings.TrimPrefix(name, "[")
		name = strings.TrimSuffix(name, "]")
		if name == "" {
			return
		}
		ref := refcrawl.Reference{Name: name}
		if href, ok := dt.NextFiltered("dd").Find("a[href]").First().Attr("href"); ok {
			ref.URL = href
		}
		refs = append(refs, ref)
	})
	return refs
}

// Constructs that no longer parse under the current WebIDL grammar.
var obsoleteIDLConstructs = []string{" implements ", "legacycaller", "serializer"}

// extractIDL concatenates the document's WebIDL blocks. Returns nil
// when the document defines none.
func extractIDL(doc *goquery.Document) *refcrawl.IDLExtract {
	var blocks []string
	doc.Find("pre.idl").Each(func(_ int, sel *goquery.Selection) {
		if sel.HasClass("extract") {
			// Extract blocks restate IDL defined elsewhere in the page.
			return
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	if len(blocks) == 0 {
		return nil
	}

	raw := strings.Join(blocks, "\n\n")
	idl := &refcrawl.IDLExtract{Raw: raw}
	for _, construct := range obsoleteIDLConstructs {
		if strings.Contains(raw, construct) {
			idl.HasObsoleteConstructs = true
			break
		}
	}
	return idl
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed or if the resolved
// URL is self-referential (same as base URL after stripping fragment).
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
