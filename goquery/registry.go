package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/specworks/refcrawl"
)

// DefinitionParser extracts CSS grammar definitions from a parsed
// document using the markup conventions of one generator.
type DefinitionParser interface {
	// Name returns the parser's identifier.
	Name() string

	// ParseDefinitions returns the CSS definitions found in the
	// document. Hrefs are anchored on baseURL.
	ParseDefinitions(doc *goquery.Document, baseURL string) (*refcrawl.CSSExtract, error)
}

// Registry manages generator-specific definition parsers and
// auto-detects generators from HTML content. It uses a
// GeneratorDetector to identify the toolchain and returns the
// appropriate parser, falling back to a generic parser when the
// generator is unknown or no specific parser is registered.
type Registry struct {
	detector refcrawl.GeneratorDetector
	fallback DefinitionParser
	parsers  map[refcrawl.Generator]DefinitionParser
}

// NewRegistry creates a new Registry with the given detector and fallback parser.
func NewRegistry(detector refcrawl.GeneratorDetector, fallback DefinitionParser) *Registry {
	return &Registry{
		detector: detector,
		fallback: fallback,
		parsers:  make(map[refcrawl.Generator]DefinitionParser),
	}
}

// Get returns the parser for a specific generator.
// Returns nil if no parser is registered for the generator.
func (r *Registry) Get(gen refcrawl.Generator) DefinitionParser {
	return r.parsers[gen]
}

// GetForHTML detects the generator from HTML and returns the
// appropriate parser. Falls back to the fallback parser if the
// generator is unknown or no parser is registered for it.
func (r *Registry) GetForHTML(html string) DefinitionParser {
	gen := r.detector.Detect(html)
	if parser, ok := r.parsers[gen]; ok {
		return parser
	}
	return r.fallback
}

// Register adds a parser for a generator.
// If a parser is already registered for the generator, it is replaced.
func (r *Registry) Register(gen refcrawl.Generator, parser DefinitionParser) {
	r.parsers[gen] = parser
}

// List returns all registered generators.
func (r *Registry) List() []refcrawl.Generator {
	gens := make([]refcrawl.Generator, 0, len(r.parsers))
	for g := range r.parsers {
		gens = append(gens, g)
	}
	return gens
}

// DefaultRegistry returns a Registry configured with the built-in
// detector and parsers: Bikeshed documents get the table-aware parser,
// everything else falls back to bare dfn scanning.
func DefaultRegistry() *Registry {
	r := NewRegistry(NewDetector(), NewDfnParser())
	r.Register(refcrawl.GeneratorBikeshed, NewBikeshedParser())
	return r
}
