package orchestrator

import (
	"context"
	"time"

	"github.com/aleister1102/metawatch/internal/common"
	"github.com/aleister1102/metawatch/internal/config"
	"github.com/aleister1102/metawatch/internal/models"
	"github.com/aleister1102/metawatch/internal/urlhandler"
	"github.com/rs/zerolog"
)

// Dependencies are the collaborators driven by the orchestrator.
type Dependencies struct {
	Resolver            SitemapResolver
	Extractor           MetadataExtractor
	Differ              MetadataDiffer
	Store               SnapshotStore
	SpreadsheetReporter SpreadsheetReporter
	HTMLReporter        HTMLReporter
	Notifier            ReportNotifier
}

func (d Dependencies) validate() error {
	checks := []struct {
		name    string
		missing bool
	}{
		{"Resolver", d.Resolver == nil},
		{"Extractor", d.Extractor == nil},
		{"Differ", d.Differ == nil},
		{"Store", d.Store == nil},
		{"SpreadsheetReporter", d.SpreadsheetReporter == nil},
		{"HTMLReporter", d.HTMLReporter == nil},
		{"Notifier", d.Notifier == nil},
	}
	for _, c := range checks {
		if c.missing {
			return common.NewValidationError(c.name, nil, "dependency cannot be nil")
		}
	}
	return nil
}

// Orchestrator runs the scrape, diff, report and notify pipeline for every site group.
type Orchestrator struct {
	cfg         *config.GlobalConfig
	deps        Dependencies
	logger      zerolog.Logger
	fileManager *common.FileManager
	now         func() time.Time
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(cfg *config.GlobalConfig, deps Dependencies, logger zerolog.Logger) (*Orchestrator, error) {
	if cfg == nil {
		return nil, common.NewValidationError("config", nil, "global config cannot be nil")
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}

	componentLogger := logger.With().Str("component", "Orchestrator").Logger()
	return &Orchestrator{
		cfg:         cfg,
		deps:        deps,
		logger:      componentLogger,
		fileManager: common.NewFileManager(componentLogger),
		now:         time.Now,
	}, nil
}

// WithClock overrides the clock used for file dates. Intended for tests.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// Run processes the sitemap URLs group by group, in first-occurrence order of their hostnames.
// A failing group is recorded and the next group still runs. Cancellation stops before the next group.
func (o *Orchestrator) Run(ctx context.Context, sitemapURLs []string) []models.GroupResult {
	groups := GroupByHostname(sitemapURLs, o.logger)
	results := make([]models.GroupResult, 0, len(groups))

	o.logger.Info().Int("sitemaps", len(sitemapURLs)).Int("groups", len(groups)).Msg("Starting run")

	for _, group := range groups {
		if common.CheckCancellationWithLog(ctx, o.logger, "group "+group.Hostname).Cancelled {
			break
		}

		result := o.processGroup(ctx, group)
		o.logGroupResult(result)
		results = append(results, result)
	}

	o.logRunSummary(results)
	return results
}

// GroupByHostname partitions sitemap URLs by hostname, preserving first-occurrence order
// of hosts and the order of URLs within each host. Invalid URLs are logged and skipped.
func GroupByHostname(sitemapURLs []string, logger zerolog.Logger) []models.SiteGroup {
	index := make(map[string]int)
	groups := make([]models.SiteGroup, 0)

	for _, raw := range sitemapURLs {
		normalized, err := urlhandler.NormalizeURL(raw)
		if err != nil {
			logger.Warn().Err(err).Str("url", raw).Msg("Skipping invalid sitemap URL")
			continue
		}
		host, err := urlhandler.ExtractHostname(normalized)
		if err != nil {
			logger.Warn().Err(err).Str("url", raw).Msg("Skipping sitemap URL without hostname")
			continue
		}

		i, ok := index[host]
		if !ok {
			i = len(groups)
			index[host] = i
			groups = append(groups, models.SiteGroup{Hostname: host})
		}
		groups[i].SitemapURLs = append(groups[i].SitemapURLs, normalized)
	}
	return groups
}

func (o *Orchestrator) logGroupResult(r models.GroupResult) {
	event := o.logger.Info()
	if r.Failed() {
		event = o.logger.Error().Err(r.Error)
	}
	event.
		Str("hostname", r.Hostname).
		Str("status", string(r.Status)).
		Str("output", r.OutputPath).
		Int("pages", r.PagesScraped).
		Int("failed_pages", len(r.Failures)).
		Int("new_rows", r.NewRows).
		Int("changed_rows", r.ChangedRows).
		Int("missing", len(r.MissingURLs)).
		Dur("duration", r.Duration).
		Msg("Group finished")
}

func (o *Orchestrator) logRunSummary(results []models.GroupResult) {
	var completed, skipped, failed int
	for _, r := range results {
		switch r.Status {
		case models.GroupStatusCompleted:
			completed++
		case models.GroupStatusSkipped:
			skipped++
		case models.GroupStatusFailed:
			failed++
		}
	}
	o.logger.Info().
		Int("completed", completed).
		Int("skipped", skipped).
		Int("failed", failed).
		Msg("Run finished")
}

// AnyFailed reports whether any group failed.
func AnyFailed(results []models.GroupResult) bool {
	for _, r := range results {
		if r.Failed() {
			return true
		}
	}
	return false
}
