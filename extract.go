package refcrawl

import (
	"context"
	"time"
)

// ExtractResult holds the structured data extracted from one document.
type ExtractResult struct {
	// Title is the document title.
	Title string `json:"title,omitempty"`

	// Date is the document's publication or last-modified date.
	Date string `json:"date,omitempty"`

	// Links are the out-of-page URLs referenced by the document.
	Links []string `json:"links,omitempty"`

	// References are the document's normative and informative
	// bibliography entries.
	References *References `json:"references,omitempty"`

	// IDL is the WebIDL extract, nil when the document defines none.
	IDL *IDLExtract `json:"idl,omitempty"`

	// CSS is the CSS grammar extract, nil when the document defines none.
	CSS *CSSExtract `json:"css,omitempty"`

	// ContentHash is a hash of the source document, used to detect
	// unchanged documents across crawl runs.
	ContentHash string `json:"contentHash,omitempty"`

	// Abstract is a short prose summary of the document.
	Abstract string `json:"abstract,omitempty"`
}

// References holds a document's bibliography split by normativity.
type References struct {
	Normative   []Reference `json:"normative,omitempty"`
	Informative []Reference `json:"informative,omitempty"`
}

// Reference is one bibliography entry.
type Reference struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// IDLExtract holds the WebIDL found in a document.
type IDLExtract struct {
	// Raw is the concatenated IDL blocks as they appear in the document.
	Raw string `json:"raw,omitempty"`

	// HasObsoleteConstructs reports whether the IDL uses constructs
	// that no longer parse under the current WebIDL grammar.
	HasObsoleteConstructs bool `json:"hasObsoleteConstructs,omitempty"`
}

// Extractor extracts structured data from one specification document.
// It is treated as a black box by the orchestrator: any returned error
// (or a hang, bounded by the caller's context) is a recoverable
// per-document failure.
type Extractor interface {
	Extract(ctx context.Context, spec *Spec) (*ExtractResult, error)
}

// Summary is the prose summary of a document.
type Summary struct {
	Title    string
	Abstract string
}

// Summarizer extracts a title and abstract from raw HTML. Used as a
// fallback when structured extraction cannot determine a title.
type Summarizer interface {
	Summarize(html string) (*Summary, error)
}

// ExtractCache stores extract results keyed by crawled URL so that
// unchanged documents can be skipped on subsequent runs.
type ExtractCache interface {
	// Get returns the cached extract for a URL along with the time it
	// was stored. Returns ENOTFOUND if no valid entry exists.
	Get(ctx context.Context, url string) (*ExtractResult, time.Time, error)

	// Put stores an extract for a URL, replacing any previous entry.
	Put(ctx context.Context, url string, res *ExtractResult) error

	// Prune removes entries stored before the cutoff and returns the
	// number removed.
	Prune(ctx context.Context, cutoff time.Time) (int, error)
}
