package mock

import (
	"context"

	"github.com/specworks/refcrawl"
)

var _ refcrawl.ReportService = (*ReportService)(nil)

// ReportService is a mock implementation of refcrawl.ReportService.
type ReportService struct {
	LoadReportFn  func(ctx context.Context) (*refcrawl.CrawlReport, error)
	SaveReportFn  func(ctx context.Context, report *refcrawl.CrawlReport) error
	SaveDatasetFn func(ctx context.Context, ds *refcrawl.Dataset) error
}

func (s *ReportService) LoadReport(ctx context.Context) (*refcrawl.CrawlReport, error) {
	return s.LoadReportFn(ctx)
}

func (s *ReportService) SaveReport(ctx context.Context, report *refcrawl.CrawlReport) error {
	return s.SaveReportFn(ctx, report)
}

func (s *ReportService) SaveDataset(ctx context.Context, ds *refcrawl.Dataset) error {
	return s.SaveDatasetFn(ctx, ds)
}
