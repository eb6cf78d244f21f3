package mock

import "github.com/specworks/refcrawl"

var _ refcrawl.Summarizer = (*Summarizer)(nil)

// Summarizer is a mock implementation of refcrawl.Summarizer.
type Summarizer struct {
	SummarizeFn func(html string) (*refcrawl.Summary, error)
}

func (s *Summarizer) Summarize(html string) (*refcrawl.Summary, error) {
	return s.SummarizeFn(html)
}
