package config

import "time"

// CrawlerConfig controls how sitemaps and pages are fetched
type CrawlerConfig struct {
	EnableHTTP2         bool   `json:"enable_http2" yaml:"enable_http2"`
	InsecureSkipVerify  bool   `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	MaxConcurrency      int    `json:"max_concurrency,omitempty" yaml:"max_concurrency,omitempty" validate:"min=1"`
	MaxContentSizeBytes int64  `json:"max_content_size_bytes,omitempty" yaml:"max_content_size_bytes,omitempty" validate:"min=0"`
	RequestTimeoutSecs  int    `json:"request_timeout_secs,omitempty" yaml:"request_timeout_secs,omitempty" validate:"min=1"`
	UserAgent           string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
}

// NewDefaultCrawlerConfig creates default crawler configuration
func NewDefaultCrawlerConfig() CrawlerConfig {
	return CrawlerConfig{
		EnableHTTP2:         DefaultCrawlerEnableHTTP2,
		InsecureSkipVerify:  false,
		MaxConcurrency:      DefaultCrawlerMaxConcurrency,
		MaxContentSizeBytes: DefaultCrawlerMaxContentSizeBytes,
		RequestTimeoutSecs:  DefaultCrawlerRequestTimeoutSecs,
		UserAgent:           DefaultCrawlerUserAgent,
	}
}

// RequestTimeout returns the per-request timeout as a duration
func (c CrawlerConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}
