package extractor

// ExtractorConfig configures page extraction
type ExtractorConfig struct {
	// MaxConcurrency bounds the number of pages fetched at once per sitemap
	MaxConcurrency int
}

// NewDefaultExtractorConfig returns default extractor settings
func NewDefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{MaxConcurrency: 10}
}
