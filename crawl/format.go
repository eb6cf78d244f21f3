package crawl

import "fmt"

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		// Too short for "..." prefix, just return dots
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatStats formats crawl stats in one line for CLI display.
func FormatStats(crawled, errors int) string {
	if errors == 0 {
		return fmt.Sprintf("%d specs crawled", crawled)
	}
	return fmt.Sprintf("%d specs crawled, %d failed", crawled, errors)
}
