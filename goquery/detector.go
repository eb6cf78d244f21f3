package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/specworks/refcrawl"
)

var _ refcrawl.GeneratorDetector = (*Detector)(nil)

// Detector identifies specification generators from HTML content.
// It checks the meta generator tag first, then falls back to
// structural markers that are unique to each toolchain's output.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the identified generator.
// Returns GeneratorUnknown if the generator cannot be determined.
func (d *Detector) Detect(html string) refcrawl.Generator {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return refcrawl.GeneratorUnknown
	}

	// The meta generator tag is the most reliable signal when present
	if gen := d.detectFromMetaGenerator(doc); gen != refcrawl.GeneratorUnknown {
		return gen
	}

	// ReSpec markers. The respec-ui pill survives in rendered
	// snapshots; unrendered sources still carry the loader script.
	if d.hasSelector(doc, "#respec-ui") ||
		d.hasSelector(doc, "script[data-main*='respec']") ||
		d.hasSelector(doc, "script[src*='respec']") {
		return refcrawl.GeneratorReSpec
	}

	// Bikeshed markers. Propdef tables and the self-link anchors are
	// distinctive of its output even when the meta tag was stripped.
	if d.hasSelector(doc, "table.propdef") ||
		d.hasSelector(doc, "table.descdef") ||
		d.hasSelector(doc, "a.self-link") && d.hasSelector(doc, "div.head") {
		return refcrawl.GeneratorBikeshed
	}

	// Wattsi markers (WHATWG living standards)
	if d.hasSelector(doc, "a#toggleSidebar") ||
		d.hasSelector(doc, "link[href*='spec.whatwg.org']") && d.hasSelector(doc, "dl.domintro") {
		return refcrawl.GeneratorWattsi
	}

	return refcrawl.GeneratorUnknown
}

// detectFromMetaGenerator checks the meta generator tag for toolchain
// identification.
func (d *Detector) detectFromMetaGenerator(doc *goquery.Document) refcrawl.Generator {
	generator := ""
	doc.Find("meta[name='generator']").Each(func(_ int, s *goquery.Selection) {
		if content, exists := s.Attr("content"); exists {
			generator = strings.ToLower(content)
		}
	})

	if generator == "" {
		return refcrawl.GeneratorUnknown
	}

	switch {
	case strings.Contains(generator, "bikeshed"):
		return refcrawl.GeneratorBikeshed
	case strings.Contains(generator, "respec"):
		return refcrawl.GeneratorReSpec
	case strings.Contains(generator, "wattsi"):
		return refcrawl.GeneratorWattsi
	}

	return refcrawl.GeneratorUnknown
}

// hasSelector checks if the document contains at least one element matching the selector.
func (d *Detector) hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}
