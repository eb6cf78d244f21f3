// Package crawl provides crawl orchestration over resolved spec
// descriptors. It schedules extraction with bounded concurrency,
// per-document timeouts and failure isolation, and aggregates the
// outcomes into a deterministic report.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/specworks/refcrawl"
	"golang.org/x/sync/errgroup"
)

// Defaults for the worker pool.
const (
	// DefaultConcurrency is the number of in-flight extractions.
	DefaultConcurrency = 10

	// DefaultTimeout is the per-document extraction deadline.
	DefaultTimeout = 60 * time.Second
)

// TimeoutError is recorded on a descriptor whose extraction exceeded
// its deadline.
const TimeoutError = "crawl timeout"

// Crawler orchestrates extraction over a list of resolved descriptors.
type Crawler struct {
	Extractor   refcrawl.Extractor
	RateLimiter refcrawl.DomainLimiter
	Logger      *slog.Logger
	Concurrency int
	Timeout     time.Duration
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// outcome is the result of one extraction attempt.
type outcome struct {
	res *refcrawl.ExtractResult
	err error
}

// Crawl extracts every descriptor exactly once and returns a report
// with results sorted by URL. A failing, panicking or hanging unit
// degrades only its own descriptor; the batch always completes with
// one outcome per input descriptor.
func (c *Crawler) Crawl(ctx context.Context, specs []*refcrawl.Spec, opts refcrawl.CrawlOptions, progress ProgressFunc) (*refcrawl.CrawlReport, error) {
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	opts.Concurrency = concurrency
	if opts.Timeout == 0 {
		opts.Timeout = c.timeout()
	}

	total := len(specs)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	// Each unit contributes exactly once; the single collector below
	// is the only reader of shared state.
	resultCh := make(chan *refcrawl.Spec, total)
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for _, spec := range specs {
			g.Go(func() error {
				c.crawlSpec(gctx, spec)
				resultCh <- spec
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	var stats refcrawl.CrawlStats
	for spec := range resultCh {
		completed.Add(1)
		if spec.Error != "" {
			stats.Errors++
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressFailed,
					Completed: int(completed.Load()),
					Total:     total,
					URL:       spec.URL,
					Error:     fmt.Errorf("%s", spec.Error),
				})
			}
		} else {
			stats.Crawled++
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressCompleted,
					Completed: int(completed.Load()),
					Total:     total,
					URL:       spec.URL,
				})
			}
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	// Completion order is nondeterministic; the sort is the ordering
	// contract for reports.
	results := make([]*refcrawl.Spec, len(specs))
	copy(results, specs)
	refcrawl.SortSpecsByURL(results)

	return &refcrawl.CrawlReport{
		Type:    refcrawl.ReportTypeCrawl,
		Title:   "Web specifications crawl",
		Date:    time.Now().UTC().Format(time.RFC3339),
		Options: opts,
		Stats:   stats,
		Results: results,
	}, nil
}

// crawlSpec runs one extraction bounded by the per-document deadline.
// The descriptor resolves exactly once: a late result racing the
// timeout is logged and discarded.
func (c *Crawler) crawlSpec(ctx context.Context, spec *refcrawl.Spec) {
	target := spec.CrawledURL
	if target == "" {
		target = spec.URL
	}

	if c.RateLimiter != nil {
		if u, err := url.Parse(target); err == nil && u.Host != "" {
			if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
				spec.Error = err.Error()
				return
			}
		}
	}

	unitCtx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	done := make(chan outcome, 1)
	var resolved atomic.Bool

	deliver := func(res *refcrawl.ExtractResult, err error) {
		if !resolved.CompareAndSwap(false, true) {
			c.logger().Debug("duplicate unit resolution ignored", "url", spec.URL)
			return
		}
		done <- outcome{res: res, err: err}
	}

	go func() {
		defer func() {
			if p := recover(); p != nil {
				deliver(nil, refcrawl.Errorf(refcrawl.EINTERNAL, "extraction panic: %v", p))
			}
		}()
		res, err := c.Extractor.Extract(unitCtx, spec)
		deliver(res, err)
	}()

	select {
	case out := <-done:
		c.apply(spec, out)
	case <-unitCtx.Done():
		if resolved.CompareAndSwap(false, true) {
			spec.Error = TimeoutError
			c.logger().Warn("extraction timed out", "url", spec.URL, "timeout", c.timeout())
		} else {
			// The result won the race against the deadline.
			c.apply(spec, <-done)
		}
	}
}

// apply writes the unit outcome onto the descriptor. This is the only
// writer of a descriptor's mutable fields during a crawl.
func (c *Crawler) apply(spec *refcrawl.Spec, out outcome) {
	if out.err != nil {
		var appErr *refcrawl.Error
		if errors.As(out.err, &appErr) {
			spec.Error = appErr.Message
		} else {
			spec.Error = out.err.Error()
		}
		return
	}
	res := out.res
	if res == nil {
		spec.Error = "extractor returned no result"
		return
	}
	if res.Title != "" {
		spec.Title = res.Title
	}
	spec.Date = res.Date
	spec.Links = res.Links
	spec.References = res.References
	spec.IDL = res.IDL
	spec.CSS = res.CSS
	spec.ContentHash = res.ContentHash
	if res.Abstract != "" {
		spec.Abstract = res.Abstract
	}
}

func (c *Crawler) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
