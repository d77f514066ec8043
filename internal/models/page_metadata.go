package models

import (
	"fmt"
	"strconv"
	"strings"
)

// PageMetadata is the social/SEO metadata scraped from a single page.
// Optional fields hold the empty string when the page does not declare them.
type PageMetadata struct {
	URL           string `json:"url" parquet:"url"`
	Locale        string `json:"locale,omitempty" parquet:"locale"`
	Type          string `json:"type,omitempty" parquet:"type"`
	Title         string `json:"title,omitempty" parquet:"title"`
	Description   string `json:"description,omitempty" parquet:"description"`
	SiteName      string `json:"siteName,omitempty" parquet:"site_name"`
	UpdatedTime   string `json:"updatedTime,omitempty" parquet:"updated_time"`
	Image         string `json:"image,omitempty" parquet:"image"`
	ImageWidth    string `json:"imageWidth,omitempty" parquet:"image_width"`
	ImageHeight   string `json:"imageHeight,omitempty" parquet:"image_height"`
	ImageAlt      string `json:"imageAlt,omitempty" parquet:"image_alt"`
	ImageType     string `json:"imageType,omitempty" parquet:"image_type"`
	Video         string `json:"video,omitempty" parquet:"video"`
	VideoDuration string `json:"videoDuration,omitempty" parquet:"video_duration"`
	Schema        string `json:"schema,omitempty" parquet:"schema"`
	Robots        string `json:"robots,omitempty" parquet:"robots"`
	IsIndexable   bool   `json:"isIndexable" parquet:"is_indexable"`
}

// ComputeIsIndexable reports whether a robots directive allows indexing.
// Only a case-insensitive "noindex" token blocks it.
func ComputeIsIndexable(robots string) bool {
	return !strings.Contains(strings.ToLower(robots), "noindex")
}

// RefreshIndexable recomputes IsIndexable from Robots.
func (p *PageMetadata) RefreshIndexable() {
	p.IsIndexable = ComputeIsIndexable(p.Robots)
}

// Value returns the raw typed value of the field identified by key, or nil for an unknown key.
func (p PageMetadata) Value(key string) interface{} {
	if key == FieldIsIndexable {
		return p.IsIndexable
	}
	if ptr := p.stringField(key); ptr != nil {
		return *ptr
	}
	return nil
}

// StringValue returns the trimmed string form of a field, the representation used for comparisons.
func (p PageMetadata) StringValue(key string) string {
	v := p.Value(key)
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// SetField assigns a raw textual value to the field identified by key.
func (p *PageMetadata) SetField(key, raw string) error {
	if key == FieldIsIndexable {
		if strings.TrimSpace(raw) == "" {
			p.RefreshIndexable()
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid boolean %q for field %s: %w", raw, key, err)
		}
		p.IsIndexable = b
		return nil
	}

	ptr := p.stringField(key)
	if ptr == nil {
		return fmt.Errorf("unknown metadata field: %s", key)
	}
	*ptr = raw
	return nil
}

func (p *PageMetadata) stringField(key string) *string {
	switch key {
	case FieldURL:
		return &p.URL
	case FieldLocale:
		return &p.Locale
	case FieldType:
		return &p.Type
	case FieldTitle:
		return &p.Title
	case FieldDescription:
		return &p.Description
	case FieldSiteName:
		return &p.SiteName
	case FieldUpdatedTime:
		return &p.UpdatedTime
	case FieldImage:
		return &p.Image
	case FieldImageWidth:
		return &p.ImageWidth
	case FieldImageHeight:
		return &p.ImageHeight
	case FieldImageAlt:
		return &p.ImageAlt
	case FieldImageType:
		return &p.ImageType
	case FieldVideo:
		return &p.Video
	case FieldVideoDuration:
		return &p.VideoDuration
	case FieldSchema:
		return &p.Schema
	case FieldRobots:
		return &p.Robots
	}
	return nil
}
