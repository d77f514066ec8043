package orchestrator

import (
	"context"
	"time"

	"github.com/aleister1102/metawatch/internal/models"
	"github.com/aleister1102/metawatch/internal/reporter"
)

// SitemapResolver lists the page URLs of a sitemap.
type SitemapResolver interface {
	Resolve(ctx context.Context, sitemapURL string) []string
}

// MetadataExtractor scrapes metadata for a batch of pages.
type MetadataExtractor interface {
	ExtractAll(ctx context.Context, urls []string) ([]models.PageMetadata, []models.PageFailure)
}

// MetadataDiffer compares a run against its baseline.
type MetadataDiffer interface {
	Compare(current, previous []models.PageMetadata) *models.DiffResult
}

// SnapshotStore persists and loads baselines.
type SnapshotStore interface {
	LoadGeneric() []models.PageMetadata
	SaveGeneric(records []models.PageMetadata) error
	LoadGroup(path string) []models.PageMetadata
	LatestGroupFile(hostname string, before time.Time) (string, bool)
	GroupFilePath(hostname string, date time.Time) string
}

// SpreadsheetReporter writes the report workbook.
type SpreadsheetReporter interface {
	Write(table *reporter.Table, path string) error
}

// HTMLReporter renders the email body.
type HTMLReporter interface {
	Render(table *reporter.Table, summary reporter.Summary) (string, error)
	PlainText(html string) (string, error)
}

// ReportNotifier delivers a group report.
type ReportNotifier interface {
	Notify(ctx context.Context, report models.Report) error
}
