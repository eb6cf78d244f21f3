// Package rod provides a browser-backed implementation of
// refcrawl.Fetcher for documents that assemble their content with
// JavaScript, which in practice means unrendered ReSpec sources.
package rod

import (
	"context"

	"github.com/go-rod/rod/lib/proto"
	"github.com/specworks/refcrawl"
)

// Ensure Fetcher implements refcrawl.Fetcher at compile time.
var _ refcrawl.Fetcher = (*Fetcher)(nil)

// respecReadyJS resolves when ReSpec has finished rendering the
// document, immediately on pages that don't embed ReSpec.
const respecReadyJS = `() => document.respec ? document.respec.ready : true`

// Fetcher retrieves rendered HTML from URLs using Chrome browser
// automation. Pages run through a BrowserManager so Chrome is recycled
// before its memory accumulation becomes a problem on long crawls.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
}

// NewFetcher creates a new Fetcher backed by a managed headless Chrome
// browser. Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...ManagerOption) (*Fetcher, error) {
	manager, err := NewBrowserManager(opts...)
	if err != nil {
		return nil, err
	}
	return &Fetcher{manager: manager}, nil
}

// Fetch navigates to the URL, waits for the document to finish
// rendering and returns the resulting HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	// Check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser := f.manager.Browser()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", refcrawl.Errorf(refcrawl.EUNAVAILABLE, "opening page: %v", err)
	}
	defer page.Close()

	// Set context for all subsequent operations
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", refcrawl.Errorf(refcrawl.EUNAVAILABLE, "navigating to %s: %v", url, err)
	}

	if err := page.WaitLoad(); err != nil {
		return "", refcrawl.Errorf(refcrawl.EUNAVAILABLE, "loading %s: %v", url, err)
	}

	// ReSpec builds its definition markup after load; wait for its
	// ready promise so the extractor sees the final document. Best
	// effort on pages where the probe itself fails.
	_, _ = page.Eval(respecReadyJS)

	html, err := page.HTML()
	if err != nil {
		return "", refcrawl.Errorf(refcrawl.EUNAVAILABLE, "reading %s: %v", url, err)
	}

	f.manager.IncrementPageCount()

	return html, nil
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}
