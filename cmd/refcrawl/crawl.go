package main

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/specworks/refcrawl"
	"github.com/specworks/refcrawl/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	raw := append([]string{}, c.Specs...)

	if c.List != "" {
		listed, err := LoadSpecList(c.List)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", refcrawl.ErrorMessage(err))
			return err
		}
		raw = append(raw, listed...)
	}

	if c.Discover != "" {
		urlFilter, err := c.compileFilter()
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		discovered, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, c.Discover, urlFilter)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", refcrawl.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Discovered %d URLs\n", len(discovered))
		raw = append(raw, discovered...)
	}

	if len(raw) == 0 {
		return fmt.Errorf("no specs to crawl: pass URLs, --list or --discover")
	}

	specs, err := deps.Resolver.Resolve(deps.Ctx, raw)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error resolving: %s\n", refcrawl.ErrorMessage(err))
		return err
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Crawling %d specs\n", event.Total)
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s\n",
				event.Completed, event.Total, crawl.TruncateURL(event.URL, 72))
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.URL, event.Error)
		case crawl.ProgressFinished:
			// Summary printed after the report is saved
		}
	}

	opts := refcrawl.CrawlOptions{
		Filter: strings.Join(c.Filter, "\n"),
	}
	report, err := deps.Crawler.Crawl(deps.Ctx, specs, opts, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %v\n", err)
		return err
	}

	report.Title = "Crawl report"
	report.Date = time.Now().UTC().Format("2006-01-02")

	if err := deps.Reports.SaveReport(deps.Ctx, report); err != nil {
		fmt.Fprintf(deps.Stderr, "error saving report: %s\n", refcrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "  %s\n", crawl.FormatStats(report.Stats.Crawled, report.Stats.Errors))
	return nil
}

// compileFilter validates the discovery filter flags early.
func (c *CrawlCmd) compileFilter() (*refcrawl.URLFilter, error) {
	if len(c.Filter) == 0 && len(c.Exclude) == 0 {
		return nil, nil
	}
	urlFilter := &refcrawl.URLFilter{}
	for _, pattern := range c.Filter {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern %q: %w", pattern, err)
		}
		urlFilter.Include = append(urlFilter.Include, re)
	}
	for _, pattern := range c.Exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		urlFilter.Exclude = append(urlFilter.Exclude, re)
	}
	return urlFilter, nil
}
