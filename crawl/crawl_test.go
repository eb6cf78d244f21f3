package crawl_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/specworks/refcrawl"
	"github.com/specworks/refcrawl/crawl"
	"github.com/specworks/refcrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func specList(urls ...string) []*refcrawl.Spec {
	specs := make([]*refcrawl.Spec, 0, len(urls))
	for _, u := range urls {
		specs = append(specs, &refcrawl.Spec{URL: u, CrawledURL: u})
	}
	return specs
}

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("empty input yields empty report", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Extractor: &mock.Extractor{},
		}

		report, err := c.Crawl(context.Background(), nil, refcrawl.CrawlOptions{}, nil)

		require.NoError(t, err)
		require.NotNil(t, report)
		assert.Equal(t, refcrawl.ReportTypeCrawl, report.Type)
		assert.Equal(t, 0, report.Stats.Crawled)
		assert.Equal(t, 0, report.Stats.Errors)
		assert.Empty(t, report.Results)
		assert.NotEmpty(t, report.Options.RunID)
	})

	t.Run("extracts every descriptor and sorts results by URL", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Extractor: &mock.Extractor{
				ExtractFn: func(_ context.Context, spec *refcrawl.Spec) (*refcrawl.ExtractResult, error) {
					return &refcrawl.ExtractResult{Title: "Title of " + spec.URL}, nil
				},
			},
			Concurrency: 4,
		}

		specs := specList(
			"https://www.w3.org/TR/css-color-4/",
			"https://drafts.csswg.org/css-grid-2/",
			"https://html.spec.whatwg.org/",
		)

		report, err := c.Crawl(context.Background(), specs, refcrawl.CrawlOptions{}, nil)

		require.NoError(t, err)
		require.Len(t, report.Results, 3)
		assert.Equal(t, 3, report.Stats.Crawled)
		assert.Equal(t, 0, report.Stats.Errors)

		// Sorted by URL regardless of completion order
		assert.Equal(t, "https://drafts.csswg.org/css-grid-2/", report.Results[0].URL)
		assert.Equal(t, "https://html.spec.whatwg.org/", report.Results[1].URL)
		assert.Equal(t, "https://www.w3.org/TR/css-color-4/", report.Results[2].URL)

		for _, spec := range report.Results {
			assert.Equal(t, "Title of "+spec.URL, spec.Title)
		}
	})

	t.Run("one failing unit degrades only its own descriptor", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Extractor: &mock.Extractor{
				ExtractFn: func(_ context.Context, spec *refcrawl.Spec) (*refcrawl.ExtractResult, error) {
					if spec.URL == "https://www.w3.org/TR/broken/" {
						return nil, errors.New("document parse failure")
					}
					return &refcrawl.ExtractResult{Title: "ok"}, nil
				},
			},
			Concurrency: 2,
		}

		specs := specList(
			"https://www.w3.org/TR/a/",
			"https://www.w3.org/TR/broken/",
			"https://www.w3.org/TR/z/",
		)

		report, err := c.Crawl(context.Background(), specs, refcrawl.CrawlOptions{}, nil)

		require.NoError(t, err)
		require.Len(t, report.Results, 3)
		assert.Equal(t, 2, report.Stats.Crawled)
		assert.Equal(t, 1, report.Stats.Errors)

		for _, spec := range report.Results {
			if spec.URL == "https://www.w3.org/TR/broken/" {
				assert.Equal(t, "document parse failure", spec.Error)
				assert.Empty(t, spec.Title)
			} else {
				assert.Empty(t, spec.Error)
				assert.Equal(t, "ok", spec.Title)
			}
		}
	})

	t.Run("panicking unit is recorded as its own error", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Extractor: &mock.Extractor{
				ExtractFn: func(_ context.Context, spec *refcrawl.Spec) (*refcrawl.ExtractResult, error) {
					if spec.URL == "https://www.w3.org/TR/panics/" {
						panic("corrupted DOM")
					}
					return &refcrawl.ExtractResult{}, nil
				},
			},
		}

		specs := specList("https://www.w3.org/TR/ok/", "https://www.w3.org/TR/panics/")

		report, err := c.Crawl(context.Background(), specs, refcrawl.CrawlOptions{}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, report.Stats.Errors)
		for _, spec := range report.Results {
			if spec.URL == "https://www.w3.org/TR/panics/" {
				assert.Contains(t, spec.Error, "extraction panic")
			} else {
				assert.Empty(t, spec.Error)
			}
		}
	})

	t.Run("hanging unit times out without delaying siblings", func(t *testing.T) {
		t.Parallel()

		block := make(chan struct{})
		defer close(block)

		c := &crawl.Crawler{
			Extractor: &mock.Extractor{
				ExtractFn: func(ctx context.Context, spec *refcrawl.Spec) (*refcrawl.ExtractResult, error) {
					if spec.URL == "https://www.w3.org/TR/hangs/" {
						<-block // never responds
					}
					return &refcrawl.ExtractResult{}, nil
				},
			},
			Concurrency: 2,
			Timeout:     50 * time.Millisecond,
		}

		specs := specList("https://www.w3.org/TR/hangs/", "https://www.w3.org/TR/ok/")

		start := time.Now()
		report, err := c.Crawl(context.Background(), specs, refcrawl.CrawlOptions{}, nil)
		elapsed := time.Since(start)

		require.NoError(t, err)
		require.Len(t, report.Results, 2)
		assert.Equal(t, 1, report.Stats.Crawled)
		assert.Equal(t, 1, report.Stats.Errors)
		assert.Equal(t, "crawl timeout", report.Results[0].Error)
		assert.Empty(t, report.Results[1].Error)

		// deadline + epsilon, not deadline * units
		assert.Less(t, elapsed, 2*time.Second)
	})

	t.Run("reports progress events", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Extractor: &mock.Extractor{
				ExtractFn: func(_ context.Context, spec *refcrawl.Spec) (*refcrawl.ExtractResult, error) {
					if spec.URL == "https://www.w3.org/TR/bad/" {
						return nil, errors.New("boom")
					}
					return &refcrawl.ExtractResult{}, nil
				},
			},
			Concurrency: 1,
		}

		var started, completed, failed, finished int
		progress := func(ev crawl.ProgressEvent) {
			switch ev.Type {
			case crawl.ProgressStarted:
				started++
				assert.Equal(t, 2, ev.Total)
			case crawl.ProgressCompleted:
				completed++
			case crawl.ProgressFailed:
				failed++
				assert.Equal(t, "https://www.w3.org/TR/bad/", ev.URL)
				assert.Error(t, ev.Error)
			case crawl.ProgressFinished:
				finished++
			}
		}

		specs := specList("https://www.w3.org/TR/good/", "https://www.w3.org/TR/bad/")
		_, err := c.Crawl(context.Background(), specs, refcrawl.CrawlOptions{}, progress)

		require.NoError(t, err)
		assert.Equal(t, 1, started)
		assert.Equal(t, 1, completed)
		assert.Equal(t, 1, failed)
		assert.Equal(t, 1, finished)
	})

	t.Run("pool width bounds in-flight extractions", func(t *testing.T) {
		t.Parallel()

		var inFlight, maxInFlight atomic.Int64

		c := &crawl.Crawler{
			Extractor: &mock.Extractor{
				ExtractFn: func(_ context.Context, _ *refcrawl.Spec) (*refcrawl.ExtractResult, error) {
					n := inFlight.Add(1)
					for {
						cur := maxInFlight.Load()
						if n <= cur || maxInFlight.CompareAndSwap(cur, n) {
							break
						}
					}
					time.Sleep(10 * time.Millisecond)
					inFlight.Add(-1)
					return &refcrawl.ExtractResult{}, nil
				},
			},
			Concurrency: 3,
		}

		var urls []string
		for i := 0; i < 12; i++ {
			urls = append(urls, "https://www.w3.org/TR/spec-"+string(rune('a'+i))+"/")
		}

		report, err := c.Crawl(context.Background(), specList(urls...), refcrawl.CrawlOptions{}, nil)

		require.NoError(t, err)
		assert.Equal(t, 12, report.Stats.Crawled)
		assert.LessOrEqual(t, maxInFlight.Load(), int64(3))
	})

	t.Run("records run options in the report", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Extractor: &mock.Extractor{
				ExtractFn: func(_ context.Context, _ *refcrawl.Spec) (*refcrawl.ExtractResult, error) {
					return &refcrawl.ExtractResult{}, nil
				},
			},
			Concurrency: 7,
			Timeout:     30 * time.Second,
		}

		report, err := c.Crawl(context.Background(), specList("https://www.w3.org/TR/a/"), refcrawl.CrawlOptions{RunID: "run-1"}, nil)

		require.NoError(t, err)
		assert.Equal(t, "run-1", report.Options.RunID)
		assert.Equal(t, 7, report.Options.Concurrency)
		assert.Equal(t, 30*time.Second, report.Options.Timeout)
	})
}
