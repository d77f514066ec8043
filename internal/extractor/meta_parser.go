package extractor

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
	"github.com/aleister1102/metawatch/internal/common"
	"github.com/aleister1102/metawatch/internal/models"
	"github.com/rs/zerolog"
)

// metaTag maps a <meta> selector to the metadata field it fills
type metaTag struct {
	Selector string
	Field    string
}

var metaTags = []metaTag{
	{`meta[property="og:locale"]`, models.FieldLocale},
	{`meta[property="og:type"]`, models.FieldType},
	{`meta[property="og:title"]`, models.FieldTitle},
	{`meta[property="og:description"]`, models.FieldDescription},
	{`meta[property="og:site_name"]`, models.FieldSiteName},
	{`meta[property="og:updated_time"]`, models.FieldUpdatedTime},
	{`meta[property="og:image"]`, models.FieldImage},
	{`meta[property="og:image:width"]`, models.FieldImageWidth},
	{`meta[property="og:image:height"]`, models.FieldImageHeight},
	{`meta[property="og:image:alt"]`, models.FieldImageAlt},
	{`meta[property="og:image:type"]`, models.FieldImageType},
	{`meta[property="og:video"]`, models.FieldVideo},
	{`meta[property="video:duration"]`, models.FieldVideoDuration},
	{`meta[name="robots"]`, models.FieldRobots},
}

// ParseMetadata builds a PageMetadata record from an HTML document.
// Meta content is taken verbatim from the first matching element.
func ParseMetadata(pageURL string, htmlContent []byte, logger zerolog.Logger) (*models.PageMetadata, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlContent))
	if err != nil {
		return nil, common.WrapError(err, "failed to parse HTML for "+pageURL)
	}

	meta := &models.PageMetadata{URL: pageURL}
	for _, tag := range metaTags {
		content, exists := doc.Find(tag.Selector).First().Attr("content")
		if !exists {
			continue
		}
		if err := meta.SetField(tag.Field, content); err != nil {
			return nil, err
		}
	}

	meta.Schema = extractSchemaTypes(doc, pageURL, logger)
	meta.RefreshIndexable()

	return meta, nil
}
