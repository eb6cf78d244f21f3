// Package trafilatura provides a refcrawl.Summarizer built on
// go-trafilatura's content extraction.
package trafilatura

import (
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/specworks/refcrawl"
)

// maxAbstractLen bounds the fallback abstract taken from body text.
const maxAbstractLen = 500

// Ensure Summarizer implements refcrawl.Summarizer at compile time.
var _ refcrawl.Summarizer = (*Summarizer)(nil)

// Summarizer wraps go-trafilatura to recover a title and abstract from
// documents whose head markup the structured extractor cannot read.
type Summarizer struct{}

// NewSummarizer creates a new Summarizer.
func NewSummarizer() *Summarizer {
	return &Summarizer{}
}

// Summarize processes raw HTML and returns its title and abstract.
func (s *Summarizer) Summarize(rawHTML string) (*refcrawl.Summary, error) {
	if rawHTML == "" {
		return nil, refcrawl.Errorf(refcrawl.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	abstract := strings.TrimSpace(result.Metadata.Description)
	if abstract == "" {
		abstract = truncate(strings.TrimSpace(result.ContentText), maxAbstractLen)
	}

	return &refcrawl.Summary{
		Title:    result.Metadata.Title,
		Abstract: abstract,
	}, nil
}

// truncate cuts text at the last word boundary before the limit.
func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := text[:limit]
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut
}
