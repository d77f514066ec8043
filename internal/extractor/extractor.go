package extractor

import (
	"context"

	"github.com/aleister1102/metawatch/internal/common"
	"github.com/aleister1102/metawatch/internal/common/batchprocessor"
	"github.com/aleister1102/metawatch/internal/httpclient"
	"github.com/aleister1102/metawatch/internal/models"
	"github.com/rs/zerolog"
)

// Extractor fetches pages and turns them into metadata records
type Extractor struct {
	fetcher   httpclient.Fetcher
	processor *batchprocessor.BatchProcessor
	logger    zerolog.Logger
}

// NewExtractor creates an extractor that fetches pages through fetcher
func NewExtractor(fetcher httpclient.Fetcher, cfg ExtractorConfig, logger zerolog.Logger) *Extractor {
	componentLogger := logger.With().Str("component", "MetadataExtractor").Logger()
	return &Extractor{
		fetcher: fetcher,
		processor: batchprocessor.NewBatchProcessor(
			batchprocessor.BatchProcessorConfig{MaxConcurrency: cfg.MaxConcurrency},
			componentLogger,
		),
		logger: componentLogger,
	}
}

// Extract fetches one page and parses its metadata.
// A transport error or non-2xx status is logged and returned; the caller drops the page.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*models.PageMetadata, error) {
	result, err := e.fetcher.FetchContent(httpclient.FetchContentInput{
		URL:     pageURL,
		Context: ctx,
	})
	if err != nil {
		e.logger.Error().Err(err).Str("url", pageURL).Msg("Error fetching metadata")
		return nil, common.WrapError(err, "failed to fetch "+pageURL)
	}

	meta, err := ParseMetadata(pageURL, result.Content, e.logger)
	if err != nil {
		e.logger.Error().Err(err).Str("url", pageURL).Msg("Error parsing page")
		return nil, err
	}
	return meta, nil
}

// ExtractAll extracts every URL concurrently, bounded by the configured limit.
// Successful records keep input order; failures are reported separately.
func (e *Extractor) ExtractAll(ctx context.Context, urls []string) ([]models.PageMetadata, []models.PageFailure) {
	results := batchprocessor.Process(ctx, e.processor, urls, func(ctx context.Context, pageURL string) (*models.PageMetadata, error) {
		return e.Extract(ctx, pageURL)
	})

	records := make([]models.PageMetadata, 0, len(results))
	var failures []models.PageFailure
	for _, r := range results {
		if r.Error != nil || r.Value == nil {
			reason := "no metadata"
			if r.Error != nil {
				reason = r.Error.Error()
			}
			failures = append(failures, models.PageFailure{URL: r.Item, Reason: reason})
			continue
		}
		records = append(records, *r.Value)
	}

	e.logger.Info().
		Int("requested", len(urls)).
		Int("extracted", len(records)).
		Int("failed", len(failures)).
		Msg("Extraction finished")

	return records, failures
}
