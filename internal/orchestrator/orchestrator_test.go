package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aleister1102/metawatch/internal/config"
	"github.com/aleister1102/metawatch/internal/datastore"
	"github.com/aleister1102/metawatch/internal/differ"
	"github.com/aleister1102/metawatch/internal/models"
	"github.com/aleister1102/metawatch/internal/notifier"
	"github.com/aleister1102/metawatch/internal/reporter"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

type fakeResolver struct {
	sitemaps map[string][]string
	calls    []string
}

func (f *fakeResolver) Resolve(_ context.Context, sitemapURL string) []string {
	f.calls = append(f.calls, sitemapURL)
	if urls, ok := f.sitemaps[sitemapURL]; ok {
		return urls
	}
	return []string{}
}

type fakeExtractor struct {
	pages map[string]models.PageMetadata
}

func (f *fakeExtractor) ExtractAll(_ context.Context, urls []string) ([]models.PageMetadata, []models.PageFailure) {
	var pages []models.PageMetadata
	var failures []models.PageFailure
	for _, u := range urls {
		if p, ok := f.pages[u]; ok {
			pages = append(pages, p)
			continue
		}
		failures = append(failures, models.PageFailure{URL: u, Reason: "HTTP 500"})
	}
	return pages, failures
}

type fakeNotifier struct {
	reports []models.Report
	err     error
}

func (f *fakeNotifier) Notify(_ context.Context, report models.Report) error {
	f.reports = append(f.reports, report)
	return f.err
}

type harness struct {
	dir       string
	store     *datastore.SnapshotStore
	resolver  *fakeResolver
	extractor *fakeExtractor
	notifier  *fakeNotifier
	orch      *Orchestrator
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	logger := zerolog.Nop()

	cfg := config.NewDefaultGlobalConfig()
	cfg.StorageConfig.OutputDir = dir
	cfg.StorageConfig.SnapshotPath = filepath.Join(dir, "data", "last_run.json")

	store, err := datastore.NewSnapshotStoreBuilder(logger).
		WithStorageConfig(cfg.StorageConfig).
		WithSheetName(cfg.ReporterConfig.SheetName).
		Build()
	require.NoError(t, err)

	htmlReporter, err := reporter.NewHTMLReporter(cfg.ReporterConfig, logger)
	require.NoError(t, err)

	h := &harness{
		dir:       dir,
		store:     store,
		resolver:  &fakeResolver{sitemaps: map[string][]string{}},
		extractor: &fakeExtractor{pages: map[string]models.PageMetadata{}},
		notifier:  &fakeNotifier{},
	}

	orch, err := NewOrchestrator(cfg, Dependencies{
		Resolver:            h.resolver,
		Extractor:           h.extractor,
		Differ:              differ.NewMetadataDiffer(differ.DefaultDiffConfig(), logger),
		Store:               store,
		SpreadsheetReporter: reporter.NewSpreadsheetReporter(cfg.ReporterConfig, logger),
		HTMLReporter:        htmlReporter,
		Notifier:            h.notifier,
	}, logger)
	require.NoError(t, err)
	h.orch = orch.WithClock(func() time.Time { return testNow })
	return h
}

func page(url, title string) models.PageMetadata {
	p := models.PageMetadata{URL: url, Title: title}
	p.RefreshIndexable()
	return p
}

func TestRun_EndToEnd(t *testing.T) {
	h := newHarness(t)
	const sitemap = "https://a.test/sitemap.xml"
	h.resolver.sitemaps[sitemap] = []string{"https://a.test/1", "https://a.test/2"}
	h.extractor.pages["https://a.test/1"] = page("https://a.test/1", "Home")
	require.NoError(t, h.store.SaveGeneric([]models.PageMetadata{page("https://a.test/1", "Old Home")}))

	results := h.orch.Run(context.Background(), []string{sitemap})

	require.Len(t, results, 1)
	res := results[0]
	assert.Equal(t, models.GroupStatusCompleted, res.Status)
	assert.NoError(t, res.Error)
	assert.Equal(t, "a.test", res.Hostname)
	assert.Equal(t, filepath.Join(h.dir, "ScrapedData_a_test_2024-03-05.xlsx"), res.OutputPath)
	assert.Equal(t, 1, res.PagesScraped)
	assert.Equal(t, 1, res.ChangedRows)
	assert.Equal(t, []models.PageFailure{{URL: "https://a.test/2", Reason: "HTTP 500"}}, res.Failures)
	assert.False(t, AnyFailed(results))

	written := h.store.LoadGroup(res.OutputPath)
	require.Len(t, written, 1)
	assert.Equal(t, "Home", written[0].Title)

	snapshot := h.store.LoadGeneric()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "Home", snapshot[0].Title)

	require.Len(t, h.notifier.reports, 1)
	report := h.notifier.reports[0]
	assert.Equal(t, res.OutputPath, report.FilePath)
	assert.Equal(t, config.DefaultEmailSubject, report.Subject)
	assert.True(t, report.HasChanges)
	assert.True(t, report.HasFailures)
	assert.Equal(t, 2, strings.Count(report.HTMLBody, "<tr>"), "header plus one body row")
	assert.Equal(t, 1, strings.Count(report.HTMLBody, "background-color"))
	assert.Contains(t, report.HTMLBody, `<td style="background-color: #FFFF00;">Home</td>`)
	assert.Contains(t, report.HTMLBody, "<li>https://a.test/2: HTTP 500</li>")
	assert.NotEmpty(t, report.TextBody)
}

func TestRun_EmptyGroupIsSkipped(t *testing.T) {
	h := newHarness(t)
	const sitemap = "https://a.test/sitemap.xml"
	h.resolver.sitemaps[sitemap] = []string{"https://a.test/1"}

	results := h.orch.Run(context.Background(), []string{sitemap})

	require.Len(t, results, 1)
	assert.Equal(t, models.GroupStatusSkipped, results[0].Status)
	assert.Empty(t, results[0].OutputPath)
	assert.Empty(t, h.notifier.reports)
	assert.NoFileExists(t, filepath.Join(h.dir, "ScrapedData_a_test_2024-03-05.xlsx"))
	assert.NoFileExists(t, h.store.SnapshotPath())
	assert.False(t, AnyFailed(results))
}

func TestRun_SharedHostMergesSitemaps(t *testing.T) {
	h := newHarness(t)
	h.resolver.sitemaps["https://a.test/pages.xml"] = []string{"https://a.test/1"}
	h.resolver.sitemaps["https://a.test/posts.xml"] = []string{"https://a.test/2"}
	h.resolver.sitemaps["https://b.test/sitemap.xml"] = []string{"https://b.test/1"}
	for _, u := range []string{"https://a.test/1", "https://a.test/2", "https://b.test/1"} {
		h.extractor.pages[u] = page(u, "T")
	}

	results := h.orch.Run(context.Background(), []string{
		"https://a.test/pages.xml",
		"https://b.test/sitemap.xml",
		"https://a.test/posts.xml",
	})

	require.Len(t, results, 2)
	assert.Equal(t, "a.test", results[0].Hostname)
	assert.Equal(t, "b.test", results[1].Hostname)
	assert.Equal(t, 2, results[0].PagesScraped)
	assert.Equal(t, []string{"https://a.test/pages.xml", "https://a.test/posts.xml"}, results[0].SitemapURLs)

	rows := h.store.LoadGroup(results[0].OutputPath)
	require.Len(t, rows, 2)
	assert.Equal(t, "https://a.test/1", rows[0].URL)
	assert.Equal(t, "https://a.test/2", rows[1].URL)
	assert.Len(t, h.notifier.reports, 2)
}

func TestRun_NotificationFailureDoesNotStopNextGroup(t *testing.T) {
	h := newHarness(t)
	h.notifier.err = errors.New("smtp down")
	h.resolver.sitemaps["https://a.test/sitemap.xml"] = []string{"https://a.test/1"}
	h.resolver.sitemaps["https://b.test/sitemap.xml"] = []string{"https://b.test/1"}
	h.extractor.pages["https://a.test/1"] = page("https://a.test/1", "A")
	h.extractor.pages["https://b.test/1"] = page("https://b.test/1", "B")

	results := h.orch.Run(context.Background(), []string{"https://a.test/sitemap.xml", "https://b.test/sitemap.xml"})

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, models.GroupStatusFailed, r.Status)
		assert.ErrorContains(t, r.Error, "smtp down")
	}
	assert.Len(t, h.notifier.reports, 2)
	assert.True(t, AnyFailed(results))
}

func TestRun_NoNotificationChannelIsNotFailure(t *testing.T) {
	h := newHarness(t)
	h.notifier.err = notifier.ErrNoNotifiers
	h.resolver.sitemaps["https://a.test/sitemap.xml"] = []string{"https://a.test/1"}
	h.extractor.pages["https://a.test/1"] = page("https://a.test/1", "A")

	results := h.orch.Run(context.Background(), []string{"https://a.test/sitemap.xml"})
	require.Len(t, results, 1)
	assert.Equal(t, models.GroupStatusCompleted, results[0].Status)
}

func TestRun_BaselineFromEarlierGroupFile(t *testing.T) {
	h := newHarness(t)
	const sitemap = "https://a.test/sitemap.xml"
	h.resolver.sitemaps[sitemap] = []string{"https://a.test/1"}
	h.extractor.pages["https://a.test/1"] = page("https://a.test/1", "Today")

	// The generic snapshot matches, so a change can only come from yesterday's file.
	require.NoError(t, h.store.SaveGeneric([]models.PageMetadata{page("https://a.test/1", "Today")}))
	writeGroupFile(t, h, testNow.AddDate(0, 0, -1), page("https://a.test/1", "Yesterday"))

	results := h.orch.Run(context.Background(), []string{sitemap})
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].ChangedRows)
}

func TestRun_TodaysFileIsPreferredBaseline(t *testing.T) {
	h := newHarness(t)
	const sitemap = "https://a.test/sitemap.xml"
	h.resolver.sitemaps[sitemap] = []string{"https://a.test/1"}
	h.extractor.pages["https://a.test/1"] = page("https://a.test/1", "Same")

	writeGroupFile(t, h, testNow.AddDate(0, 0, -1), page("https://a.test/1", "Older"))
	writeGroupFile(t, h, testNow, page("https://a.test/1", "Same"))

	results := h.orch.Run(context.Background(), []string{sitemap})
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].ChangedRows)
	assert.Equal(t, 0, results[0].NewRows)
}

func TestRun_MissingPagesReported(t *testing.T) {
	h := newHarness(t)
	const sitemap = "https://a.test/sitemap.xml"
	h.resolver.sitemaps[sitemap] = []string{"https://a.test/1"}
	h.extractor.pages["https://a.test/1"] = page("https://a.test/1", "A")
	require.NoError(t, h.store.SaveGeneric([]models.PageMetadata{
		page("https://a.test/1", "A"),
		page("https://a.test/gone", "Gone"),
	}))

	results := h.orch.Run(context.Background(), []string{sitemap})
	require.Len(t, results, 1)
	assert.Equal(t, []string{"https://a.test/gone"}, results[0].MissingURLs)
	require.Len(t, h.notifier.reports, 1)
	assert.Contains(t, h.notifier.reports[0].HTMLBody, "<li>https://a.test/gone</li>")
}

func TestRun_GenericSnapshotOfAnotherHostIsNotBaseline(t *testing.T) {
	h := newHarness(t)
	h.resolver.sitemaps["https://a.example.com/sitemap.xml"] = []string{"https://a.example.com/1"}
	h.resolver.sitemaps["https://b.example.com/sitemap.xml"] = []string{"https://b.example.com/1"}
	h.extractor.pages["https://a.example.com/1"] = page("https://a.example.com/1", "A")
	h.extractor.pages["https://b.example.com/1"] = page("https://b.example.com/1", "B")

	results := h.orch.Run(context.Background(), []string{
		"https://a.example.com/sitemap.xml",
		"https://b.example.com/sitemap.xml",
	})

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, models.GroupStatusCompleted, r.Status)
		assert.Empty(t, r.MissingURLs)
		assert.Equal(t, 1, r.NewRows)
	}
	require.Len(t, h.notifier.reports, 2)
	assert.Equal(t, "b.example.com: 1 pages scraped, 1 new, 0 changed, 0 unchanged", h.notifier.reports[1].Summary)
	assert.NotContains(t, h.notifier.reports[1].HTMLBody, "https://a.example.com/1")
}

func TestRun_GenericSnapshotKeepsOwnHostRecords(t *testing.T) {
	h := newHarness(t)
	const sitemap = "https://a.test/sitemap.xml"
	h.resolver.sitemaps[sitemap] = []string{"https://a.test/1"}
	h.extractor.pages["https://a.test/1"] = page("https://a.test/1", "New")
	require.NoError(t, h.store.SaveGeneric([]models.PageMetadata{
		page("https://other.test/1", "Other"),
		page("https://a.test/1", "Old"),
	}))

	results := h.orch.Run(context.Background(), []string{sitemap})
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].NewRows)
	assert.Equal(t, 1, results[0].ChangedRows)
	assert.Empty(t, results[0].MissingURLs)
}

func TestFilterByHostname(t *testing.T) {
	records := []models.PageMetadata{
		{URL: "https://a.test/1"},
		{URL: "https://b.test/1"},
		{URL: "not a url"},
		{URL: "https://a.test/2"},
	}
	filtered := filterByHostname(records, "a.test")
	require.Len(t, filtered, 2)
	assert.Equal(t, "https://a.test/1", filtered[0].URL)
	assert.Equal(t, "https://a.test/2", filtered[1].URL)
	assert.Empty(t, filterByHostname(nil, "a.test"))
}

func TestRun_CancelledContext(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := h.orch.Run(ctx, []string{"https://a.test/sitemap.xml"})
	assert.Empty(t, results)
	assert.Empty(t, h.resolver.calls)
}

func writeGroupFile(t *testing.T, h *harness, date time.Time, records ...models.PageMetadata) {
	t.Helper()
	rows := make([]models.RowDiff, len(records))
	for i, r := range records {
		rows[i] = models.RowDiff{Record: r}
	}
	path := h.store.GroupFilePath("a.test", date)
	w := reporter.NewSpreadsheetReporter(config.NewDefaultReporterConfig(), zerolog.Nop())
	require.NoError(t, w.Write(reporter.NewTable(rows), path))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestGroupByHostname(t *testing.T) {
	groups := GroupByHostname([]string{
		"https://b.test/sitemap.xml",
		"not a url",
		"https://A.test/one.xml",
		"https://b.test:8443/two.xml",
		"https://a.test/two.xml",
	}, zerolog.Nop())

	require.Len(t, groups, 2)
	assert.Equal(t, "b.test", groups[0].Hostname)
	assert.Len(t, groups[0].SitemapURLs, 2)
	assert.Equal(t, "a.test", groups[1].Hostname)
	assert.Len(t, groups[1].SitemapURLs, 2)

	total := 0
	for _, g := range groups {
		total += len(g.SitemapURLs)
	}
	assert.Equal(t, 4, total)
}

func TestNewOrchestrator_ValidatesDependencies(t *testing.T) {
	_, err := NewOrchestrator(config.NewDefaultGlobalConfig(), Dependencies{}, zerolog.Nop())
	assert.Error(t, err)

	_, err = NewOrchestrator(nil, Dependencies{}, zerolog.Nop())
	assert.Error(t, err)
}
