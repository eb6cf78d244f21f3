package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/specworks/refcrawl"
	"github.com/specworks/refcrawl/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Resolver refcrawl.SpecResolver
	Crawler  *crawl.Crawler
	Reports  refcrawl.ReportService
	Sitemaps refcrawl.SitemapService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Crawl CrawlCmd `cmd:"" help:"Resolve and crawl specifications into the report"`
	Merge MergeCmd `cmd:"" help:"Consolidate crawled CSS extracts into the dataset"`
	Show  ShowCmd  `cmd:"" help:"Show the current crawl report"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Specs        []string `arg:"" optional:"" help:"Spec URLs or shortnames"`
	List         string   `short:"l" type:"existingfile" help:"YAML file listing specs to crawl"`
	Discover     string   `short:"d" help:"Discover specs from a publication space sitemap URL"`
	Filter       []string `short:"F" name:"filter" help:"Filter discovered URLs by regex (repeatable)"`
	Exclude      []string `short:"X" name:"exclude" help:"Exclude discovered URLs by regex (repeatable)"`
	Concurrency  int      `short:"c" default:"10" help:"Concurrent extraction limit"`
	Timeout      string   `short:"t" default:"60s" help:"Per-spec extraction deadline"`
	Browser      bool     `short:"b" help:"Fetch with a headless browser (required for ReSpec specs)"`
	ExtractorCmd string   `name:"extractor-cmd" help:"Run an external extractor command per spec"`
	Summarizer   string   `default:"trafilatura" enum:"trafilatura,readability" help:"Fallback summarizer backend"`
}

// MergeCmd is the "merge" subcommand.
type MergeCmd struct{}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Shortname string `arg:"" optional:"" help:"Show one spec as JSON"`
	Errors    bool   `help:"Show only failed specs"`
}
