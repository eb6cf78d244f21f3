package refcrawl

import (
	"context"
	"time"
)

// ReportTypeCrawl identifies a crawl report document.
const ReportTypeCrawl = "crawl"

// CrawlOptions records the settings a crawl ran with. They are
// persisted in the report for reproducibility.
type CrawlOptions struct {
	// RunID uniquely identifies one crawl run.
	RunID string `json:"runId,omitempty"`

	// Concurrency is the worker pool width.
	Concurrency int `json:"concurrency,omitempty"`

	// Timeout is the per-document extraction deadline.
	Timeout time.Duration `json:"timeout,omitempty"`

	// Filter is the URL filter expression the run was restricted to.
	Filter string `json:"filter,omitempty"`
}

// CrawlStats summarizes the outcome of a crawl run.
type CrawlStats struct {
	// Crawled is the number of specs that completed successfully.
	Crawled int `json:"crawled"`

	// Errors is the number of specs that failed or timed out.
	Errors int `json:"errors"`
}

// CrawlReport is the persistent record of crawl runs: completed
// descriptors ordered by URL plus run metadata. New results are
// appended to a prior report and re-sorted; individual results are
// never mutated after append.
type CrawlReport struct {
	Type        string       `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Date        string       `json:"date"`
	Options     CrawlOptions `json:"options"`
	Stats       CrawlStats   `json:"stats"`
	Results     []*Spec      `json:"results"`
}

// Merge appends another report's results to this one, replacing any
// same-URL result with the newer one, re-sorts by URL, and recomputes
// stats. Metadata (date, options) is taken from the other report when
// set, since it describes the most recent run.
func (r *CrawlReport) Merge(other *CrawlReport) {
	if other == nil {
		return
	}
	byURL := make(map[string]int, len(r.Results))
	for i, s := range r.Results {
		byURL[s.URL] = i
	}
	for _, s := range other.Results {
		if i, ok := byURL[s.URL]; ok {
			r.Results[i] = s
			continue
		}
		byURL[s.URL] = len(r.Results)
		r.Results = append(r.Results, s)
	}
	SortSpecsByURL(r.Results)

	if other.Date != "" {
		r.Date = other.Date
	}
	if other.Options.RunID != "" {
		r.Options = other.Options
	}
	r.Stats = CrawlStats{}
	for _, s := range r.Results {
		if s.Error != "" {
			r.Stats.Errors++
		} else {
			r.Stats.Crawled++
		}
	}
}

// ReportService persists crawl reports and merged datasets.
type ReportService interface {
	// LoadReport reads the current report. A missing or malformed
	// report file yields an empty report, not an error.
	LoadReport(ctx context.Context) (*CrawlReport, error)

	// SaveReport persists the report, appending its results to any
	// pre-existing report and re-sorting by URL.
	SaveReport(ctx context.Context, report *CrawlReport) error

	// SaveDataset persists a merged dataset.
	SaveDataset(ctx context.Context, ds *Dataset) error
}
