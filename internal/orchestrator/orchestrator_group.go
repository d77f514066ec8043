package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/aleister1102/metawatch/internal/common"
	"github.com/aleister1102/metawatch/internal/models"
	"github.com/aleister1102/metawatch/internal/notifier"
	"github.com/aleister1102/metawatch/internal/reporter"
	"github.com/aleister1102/metawatch/internal/urlhandler"
)

// processGroup scrapes, diffs, persists and reports one site group.
func (o *Orchestrator) processGroup(ctx context.Context, group models.SiteGroup) models.GroupResult {
	start := time.Now()
	now := o.now()
	logger := o.logger.With().Str("hostname", group.Hostname).Logger()

	result := models.GroupResult{
		Hostname:    group.Hostname,
		SitemapURLs: group.SitemapURLs,
		OutputPath:  o.deps.Store.GroupFilePath(group.Hostname, now),
	}
	fail := func(err error) models.GroupResult {
		result.Status = models.GroupStatusFailed
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}

	baseline := o.loadBaseline(group.Hostname, result.OutputPath, now)

	var records []models.PageMetadata
	for _, sitemapURL := range group.SitemapURLs {
		pageURLs := o.deps.Resolver.Resolve(ctx, sitemapURL)
		if len(pageURLs) == 0 {
			logger.Warn().Str("sitemap", sitemapURL).Msg("Sitemap yielded no page URLs")
			continue
		}

		pages, failures := o.deps.Extractor.ExtractAll(ctx, pageURLs)
		records = append(records, pages...)
		result.Failures = append(result.Failures, failures...)
		logger.Info().
			Str("sitemap", sitemapURL).
			Int("urls", len(pageURLs)).
			Int("scraped", len(pages)).
			Int("failed", len(failures)).
			Msg("Sitemap processed")
	}
	result.PagesScraped = len(records)

	if err := ctx.Err(); err != nil {
		return fail(common.WrapError(err, "group interrupted"))
	}

	if len(records) == 0 {
		logger.Warn().Msg("No pages scraped, skipping report and snapshot update")
		result.OutputPath = ""
		result.Status = models.GroupStatusSkipped
		result.Duration = time.Since(start)
		return result
	}

	diff := o.deps.Differ.Compare(records, baseline)
	result.NewRows = diff.NewCount
	result.ChangedRows = diff.ChangedCount
	result.MissingURLs = diff.MissingURLs

	table := reporter.NewTable(diff.Rows)
	if err := o.deps.SpreadsheetReporter.Write(table, result.OutputPath); err != nil {
		return fail(err)
	}
	if err := o.deps.Store.SaveGeneric(records); err != nil {
		return fail(err)
	}

	report, err := o.buildReport(group.Hostname, table, diff, result.Failures, result.OutputPath, now)
	if err != nil {
		return fail(err)
	}

	if err := o.deps.Notifier.Notify(ctx, report); err != nil {
		if !errors.Is(err, notifier.ErrNoNotifiers) {
			return fail(common.WrapError(err, "failed to deliver report"))
		}
		logger.Warn().Msg("Report written but not delivered: no notification channel configured")
	}

	result.Status = models.GroupStatusCompleted
	result.Duration = time.Since(start)
	return result
}

// loadBaseline picks the previous records for a host: today's group file, then the latest
// earlier group file, then the generic snapshot restricted to the host. The first existing file wins.
func (o *Orchestrator) loadBaseline(hostname, todayPath string, now time.Time) []models.PageMetadata {
	logger := o.logger.With().Str("hostname", hostname).Logger()

	if o.fileManager.FileExists(todayPath) {
		logger.Debug().Str("path", todayPath).Msg("Using today's group file as baseline")
		return o.deps.Store.LoadGroup(todayPath)
	}
	if path, ok := o.deps.Store.LatestGroupFile(hostname, now); ok {
		logger.Debug().Str("path", path).Msg("Using earlier group file as baseline")
		return o.deps.Store.LoadGroup(path)
	}

	baseline := filterByHostname(o.deps.Store.LoadGeneric(), hostname)
	logger.Debug().Int("records", len(baseline)).Msg("Using generic snapshot as baseline")
	return baseline
}

// filterByHostname keeps the records whose URL belongs to hostname. The generic snapshot
// holds the last group written, which may be another host.
func filterByHostname(records []models.PageMetadata, hostname string) []models.PageMetadata {
	filtered := make([]models.PageMetadata, 0, len(records))
	for _, record := range records {
		host, err := urlhandler.ExtractHostname(record.URL)
		if err != nil || host != hostname {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered
}

func (o *Orchestrator) buildReport(hostname string, table *reporter.Table, diff *models.DiffResult,
	failures []models.PageFailure, path string, now time.Time,
) (models.Report, error) {
	emailCfg := o.cfg.NotificationConfig.Email

	summary := reporter.NewSummary(hostname, emailCfg.Intro, diff, failures)
	summary.GeneratedAt = now

	html, err := o.deps.HTMLReporter.Render(table, summary)
	if err != nil {
		return models.Report{}, err
	}

	text, err := o.deps.HTMLReporter.PlainText(html)
	if err != nil {
		o.logger.Warn().Err(err).Str("hostname", hostname).Msg("Falling back to summary for plain-text body")
		text = emailCfg.Intro + "\n\n" + summary.Text()
	}

	return models.Report{
		Hostname:    hostname,
		Subject:     emailCfg.Subject,
		Summary:     summary.Text(),
		HTMLBody:    html,
		TextBody:    text,
		FilePath:    path,
		HasChanges:  diff.HasChanges(),
		HasFailures: len(failures) > 0,
	}, nil
}
