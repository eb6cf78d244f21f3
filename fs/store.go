// Package fs provides file-based storage for crawl reports and merged
// datasets.
package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/specworks/refcrawl"
)

// Ensure Store implements refcrawl.ReportService at compile time.
var _ refcrawl.ReportService = (*Store)(nil)

// Store persists the crawl report and the merged dataset as JSON
// files. Writes go through a temporary file in the same directory and
// a rename, so a crash mid-write never leaves a truncated report.
type Store struct {
	reportPath  string
	datasetPath string
}

// NewStore creates a Store writing the report and dataset to the
// given paths.
func NewStore(reportPath, datasetPath string) *Store {
	return &Store{reportPath: reportPath, datasetPath: datasetPath}
}

// LoadReport reads the current report from disk. A missing or
// malformed report file yields an empty report so a crawl can always
// start from whatever state is recoverable.
func (s *Store) LoadReport(ctx context.Context) (*refcrawl.CrawlReport, error) {
	empty := &refcrawl.CrawlReport{
		Type:    refcrawl.ReportTypeCrawl,
		Results: []*refcrawl.Spec{},
	}

	data, err := os.ReadFile(s.reportPath)
	if os.IsNotExist(err) {
		return empty, nil
	}
	if err != nil {
		return nil, refcrawl.Errorf(refcrawl.EINTERNAL, "reading report: %v", err)
	}

	var report refcrawl.CrawlReport
	if err := json.Unmarshal(data, &report); err != nil {
		// A hand-edited or truncated report is not worth failing a
		// crawl over. Start fresh.
		return empty, nil
	}
	if report.Results == nil {
		report.Results = []*refcrawl.Spec{}
	}
	return &report, nil
}

// SaveReport persists the report, merging its results into any
// pre-existing report on disk.
func (s *Store) SaveReport(ctx context.Context, report *refcrawl.CrawlReport) error {
	if report == nil {
		return refcrawl.Errorf(refcrawl.EINVALID, "report required")
	}

	existing, err := s.LoadReport(ctx)
	if err != nil {
		return err
	}
	existing.Merge(report)
	if existing.Type == "" {
		existing.Type = refcrawl.ReportTypeCrawl
	}
	if existing.Title == "" {
		existing.Title = report.Title
	}

	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return refcrawl.Errorf(refcrawl.EINTERNAL, "encoding report: %v", err)
	}
	return writeFileAtomic(s.reportPath, append(data, '\n'))
}

// SaveDataset persists a merged dataset.
func (s *Store) SaveDataset(ctx context.Context, ds *refcrawl.Dataset) error {
	if ds == nil {
		return refcrawl.Errorf(refcrawl.EINVALID, "dataset required")
	}

	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return refcrawl.Errorf(refcrawl.EINTERNAL, "encoding dataset: %v", err)
	}
	return writeFileAtomic(s.datasetPath, append(data, '\n'))
}

// writeFileAtomic writes data to a temporary file next to path and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
