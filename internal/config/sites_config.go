package config

// SitesConfig lists the sitemaps to watch
type SitesConfig struct {
	SitemapURLs []string `json:"sitemap_urls,omitempty" yaml:"sitemap_urls,omitempty" validate:"required,min=1,urls"`
}

// NewDefaultSitesConfig creates an empty sites configuration
func NewDefaultSitesConfig() SitesConfig {
	return SitesConfig{
		SitemapURLs: []string{},
	}
}
