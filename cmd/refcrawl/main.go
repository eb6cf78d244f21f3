package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/specworks/refcrawl"
	"github.com/specworks/refcrawl/crawl"
	"github.com/specworks/refcrawl/exec"
	"github.com/specworks/refcrawl/fs"
	"github.com/specworks/refcrawl/goquery"
	refhttp "github.com/specworks/refcrawl/http"
	"github.com/specworks/refcrawl/readability"
	"github.com/specworks/refcrawl/resolve"
	"github.com/specworks/refcrawl/rod"
	refslog "github.com/specworks/refcrawl/slog"
	"github.com/specworks/refcrawl/sqlite"
	"github.com/specworks/refcrawl/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// File paths. Set before calling Run().
	ReportPath  string
	DatasetPath string
	CachePath   string

	// SQLite cache database, opened when CachePath is set.
	DB *sqlite.DB

	// Services overridable for end-to-end testing. Nil fields are
	// wired with production implementations inside Run.
	Resolver refcrawl.SpecResolver
	Reports  refcrawl.ReportService
	Fetcher  refcrawl.Fetcher
	Sitemaps refcrawl.SitemapService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ReportPath:  defaultPath("REFCRAWL_REPORT", "report.json"),
		DatasetPath: defaultPath("REFCRAWL_DATASET", "dataset.json"),
		CachePath:   os.Getenv("REFCRAWL_CACHE"),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Fetcher != nil {
		if err := m.Fetcher.Close(); err != nil {
			return err
		}
	}
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("refcrawl"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'refcrawl --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logLevel := slog.LevelWarn
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))

	if m.Reports == nil {
		m.Reports = fs.NewStore(m.ReportPath, m.DatasetPath)
	}
	deps.Reports = m.Reports

	if m.Sitemaps == nil {
		m.Sitemaps = refslog.NewLoggingSitemapService(refhttp.NewSitemapService(nil), deps.Logger)
	}
	deps.Sitemaps = m.Sitemaps

	if cmd == "crawl" {
		if err := m.wireCrawl(cli, deps); err != nil {
			return err
		}
		defer m.Close()
	}

	return kongCtx.Run(deps)
}

// wireCrawl builds the resolver and crawler stack for the crawl command.
func (m *Main) wireCrawl(cli *CLI, deps *Dependencies) error {
	if m.Resolver == nil {
		registry := refslog.NewLoggingRegistry(refhttp.NewRegistry(), deps.Logger)
		m.Resolver = refslog.NewLoggingResolver(resolve.NewResolver(registry, deps.Logger), deps.Logger)
	}
	deps.Resolver = m.Resolver

	timeout, err := time.ParseDuration(cli.Crawl.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout %q: %w", cli.Crawl.Timeout, err)
	}

	extractor, err := m.buildExtractor(cli, deps)
	if err != nil {
		return err
	}

	if m.CachePath != "" {
		m.DB = sqlite.NewDB(m.CachePath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(deps.Stderr, "Hint: Set REFCRAWL_CACHE to use a different cache path\n")
			return fmt.Errorf("failed to open cache at %q: %w", m.CachePath, err)
		}
		extractor = crawl.NewCachingExtractor(extractor, sqlite.NewExtractCache(m.DB), 0, deps.Logger)
	}

	deps.Crawler = &crawl.Crawler{
		Extractor:   refslog.NewLoggingExtractor(extractor, deps.Logger),
		RateLimiter: crawl.NewDomainLimiter(1.0),
		Logger:      deps.Logger,
		Concurrency: cli.Crawl.Concurrency,
		Timeout:     timeout,
	}
	return nil
}

// buildExtractor picks the extraction backend from the crawl flags.
func (m *Main) buildExtractor(cli *CLI, deps *Dependencies) (refcrawl.Extractor, error) {
	if cli.Crawl.ExtractorCmd != "" {
		parts := strings.Fields(cli.Crawl.ExtractorCmd)
		return exec.NewExtractor(parts[0], parts[1:]...), nil
	}

	if m.Fetcher == nil {
		if cli.Crawl.Browser {
			fetcher, err := rod.NewFetcher()
			if err != nil {
				fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
				return nil, fmt.Errorf("failed to start browser: %w", err)
			}
			m.Fetcher = fetcher
		} else {
			m.Fetcher = refhttp.NewFetcher()
		}
	}

	var summarizer refcrawl.Summarizer
	switch cli.Crawl.Summarizer {
	case "readability":
		summarizer = readability.NewSummarizer()
	default:
		summarizer = trafilatura.NewSummarizer()
	}

	fetcher := refslog.NewLoggingFetcher(m.Fetcher, deps.Logger)
	return goquery.NewExtractor(fetcher, goquery.DefaultRegistry(), summarizer), nil
}

func defaultPath(env, name string) string {
	if path := os.Getenv(env); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	dir := filepath.Join(home, ".refcrawl")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, name)
}
