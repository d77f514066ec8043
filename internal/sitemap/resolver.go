package sitemap

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aleister1102/metawatch/internal/common"
	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog"
)

// urlSet mirrors <urlset><url><loc>...</loc></url></urlset>.
type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []struct {
		Loc string `xml:"loc"`
	} `xml:"url"`
}

// ResolverConfig configures sitemap fetching
type ResolverConfig struct {
	UserAgent      string
	RequestTimeout time.Duration
	MaxBodySize    int
}

// Resolver turns a sitemap URL into the page URLs it lists
type Resolver struct {
	transport http.RoundTripper
	config    ResolverConfig
	logger    zerolog.Logger
}

// NewResolver creates a resolver. A nil transport uses http.DefaultTransport.
func NewResolver(transport http.RoundTripper, cfg ResolverConfig, logger zerolog.Logger) *Resolver {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Resolver{
		transport: transport,
		config:    cfg,
		logger:    logger.With().Str("component", "SitemapResolver").Logger(),
	}
}

// Resolve fetches and parses a sitemap, returning its <loc> values in document order.
// Failures are logged and yield an empty slice.
func (r *Resolver) Resolve(ctx context.Context, sitemapURL string) []string {
	body, err := r.fetch(ctx, sitemapURL)
	if err != nil {
		r.logger.Error().Err(err).Str("sitemap", sitemapURL).Msg("Error fetching sitemap")
		return []string{}
	}

	urls, err := ParseURLSet(body)
	if err != nil {
		r.logger.Error().Err(err).Str("sitemap", sitemapURL).Msg("Error parsing sitemap")
		return []string{}
	}

	r.logger.Info().Str("sitemap", sitemapURL).Int("urls", len(urls)).Msg("Sitemap resolved")
	return urls
}

func (r *Resolver) fetch(ctx context.Context, sitemapURL string) ([]byte, error) {
	options := []colly.CollectorOption{
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		colly.StdlibContext(ctx),
	}
	if r.config.UserAgent != "" {
		options = append(options, colly.UserAgent(r.config.UserAgent))
	}
	if r.config.MaxBodySize > 0 {
		options = append(options, colly.MaxBodySize(r.config.MaxBodySize))
	}

	collector := colly.NewCollector(options...)
	if r.config.RequestTimeout > 0 {
		collector.SetRequestTimeout(r.config.RequestTimeout)
	}
	collector.WithTransport(r.transport)

	var body []byte
	var fetchErr error

	collector.OnResponse(func(resp *colly.Response) {
		body = resp.Body
	})
	collector.OnError(func(resp *colly.Response, err error) {
		if resp != nil && resp.StatusCode != 0 {
			fetchErr = common.NewHTTPErrorWithURL(resp.StatusCode, err.Error(), sitemapURL)
			return
		}
		fetchErr = common.NewNetworkError(sitemapURL, "sitemap request failed", err)
	})

	if err := collector.Visit(sitemapURL); err != nil && fetchErr == nil {
		fetchErr = common.NewNetworkError(sitemapURL, "sitemap request failed", err)
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	if body == nil {
		return nil, common.NewNetworkError(sitemapURL, "empty sitemap response", nil)
	}
	return body, nil
}

// ParseURLSet parses a sitemap <urlset> document. A document without a urlset root,
// or a urlset without any <url> entry, is malformed.
func ParseURLSet(data []byte) ([]string, error) {
	var set urlSet
	decoder := xml.NewDecoder(bytes.NewReader(data))
	// Sitemaps are expected to be UTF-8; other declared charsets are read as-is.
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	if err := decoder.Decode(&set); err != nil {
		return nil, common.WrapError(err, "invalid sitemap XML")
	}
	if len(set.URLs) == 0 {
		return nil, common.WrapError(common.ErrMalformedFile, "sitemap has no <url> entries")
	}

	urls := make([]string, 0, len(set.URLs))
	for _, u := range set.URLs {
		loc := strings.TrimSpace(u.Loc)
		if loc == "" {
			continue
		}
		urls = append(urls, loc)
	}
	return urls, nil
}
