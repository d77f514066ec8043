package differ

import (
	"github.com/aleister1102/metawatch/internal/models"
	"github.com/rs/zerolog"
)

// URLMapper indexes baseline records by URL
type URLMapper struct {
	logger zerolog.Logger
}

// NewURLMapper creates a new URL mapper
func NewURLMapper(logger zerolog.Logger) *URLMapper {
	return &URLMapper{
		logger: logger.With().Str("component", "URLMapper").Logger(),
	}
}

// BuildIndex maps URL to the first record carrying it. Later duplicates are ignored.
func (um *URLMapper) BuildIndex(records []models.PageMetadata) map[string]*models.PageMetadata {
	index := make(map[string]*models.PageMetadata, len(records))
	duplicates := 0
	for i := range records {
		url := records[i].URL
		if _, exists := index[url]; exists {
			duplicates++
			continue
		}
		index[url] = &records[i]
	}

	if duplicates > 0 {
		um.logger.Debug().Int("duplicates", duplicates).Msg("Duplicate URLs in baseline, first occurrence kept")
	}
	return index
}
