package differ

import (
	"github.com/aleister1102/metawatch/internal/models"
	"github.com/rs/zerolog"
)

// MetadataDiffer compares freshly scraped records against a baseline, field by field
type MetadataDiffer struct {
	mapper    *URLMapper
	processor *DiffProcessor
	logger    zerolog.Logger
}

// NewMetadataDiffer creates a new differ
func NewMetadataDiffer(config DiffConfig, logger zerolog.Logger) *MetadataDiffer {
	return &MetadataDiffer{
		mapper:    NewURLMapper(logger),
		processor: NewDiffProcessor(config),
		logger:    logger.With().Str("component", "MetadataDiffer").Logger(),
	}
}

// Compare diffs every current record against the baseline record with the same URL.
// Rows keep the order of current. Unmatched rows carry an empty mask.
func (md *MetadataDiffer) Compare(current, previous []models.PageMetadata) *models.DiffResult {
	index := md.mapper.BuildIndex(previous)
	result := &models.DiffResult{
		Rows: make([]models.RowDiff, 0, len(current)),
	}

	seen := make(map[string]struct{}, len(current))
	for _, record := range current {
		seen[record.URL] = struct{}{}

		row := models.RowDiff{Record: record}
		if old, ok := index[record.URL]; ok {
			row.Matched = true
			row.Changes = md.CompareRecord(record, *old)
		}

		switch row.Status() {
		case models.RowStatusNew:
			result.NewCount++
		case models.RowStatusChanged:
			result.ChangedCount++
		default:
			result.UnchangedCount++
		}
		result.Rows = append(result.Rows, row)
	}

	for _, old := range previous {
		if _, ok := seen[old.URL]; ok {
			continue
		}
		seen[old.URL] = struct{}{}
		result.MissingURLs = append(result.MissingURLs, old.URL)
	}

	md.logger.Debug().
		Int("rows", len(result.Rows)).
		Int("new", result.NewCount).
		Int("changed", result.ChangedCount).
		Int("unchanged", result.UnchangedCount).
		Int("missing", len(result.MissingURLs)).
		Msg("Metadata diff computed")

	return result
}

// CompareRecord returns the fields whose trimmed string values differ. Nil means no change.
func (md *MetadataDiffer) CompareRecord(current, previous models.PageMetadata) models.ChangeMask {
	var mask models.ChangeMask
	for _, field := range models.PageMetadataSchema {
		newValue := current.StringValue(field.Key)
		oldValue := previous.StringValue(field.Key)
		if newValue == oldValue {
			continue
		}
		if mask == nil {
			mask = make(models.ChangeMask)
		}
		mask[field.Key] = models.FieldChange{
			Field:      field.Key,
			Label:      field.Label,
			OldValue:   oldValue,
			NewValue:   newValue,
			InlineDiff: md.processor.InlineDiff(oldValue, newValue),
		}
	}
	return mask
}
