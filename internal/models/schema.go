package models

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Field keys of PageMetadata, in column order.
const (
	FieldURL           = "url"
	FieldLocale        = "locale"
	FieldType          = "type"
	FieldTitle         = "title"
	FieldDescription   = "description"
	FieldSiteName      = "siteName"
	FieldUpdatedTime   = "updatedTime"
	FieldImage         = "image"
	FieldImageWidth    = "imageWidth"
	FieldImageHeight   = "imageHeight"
	FieldImageAlt      = "imageAlt"
	FieldImageType     = "imageType"
	FieldVideo         = "video"
	FieldVideoDuration = "videoDuration"
	FieldSchema        = "schema"
	FieldRobots        = "robots"
	FieldIsIndexable   = "isIndexable"
)

// Field describes one column of the metadata table.
type Field struct {
	Key   string
	Label string
}

// PageMetadataSchema is the ordered column list shared by extraction, diffing,
// rendering and the spreadsheet loader.
var PageMetadataSchema = newSchema(
	FieldURL,
	FieldLocale,
	FieldType,
	FieldTitle,
	FieldDescription,
	FieldSiteName,
	FieldUpdatedTime,
	FieldImage,
	FieldImageWidth,
	FieldImageHeight,
	FieldImageAlt,
	FieldImageType,
	FieldVideo,
	FieldVideoDuration,
	FieldSchema,
	FieldRobots,
	FieldIsIndexable,
)

func newSchema(keys ...string) []Field {
	fields := make([]Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, Field{Key: k, Label: LabelForKey(k)})
	}
	return fields
}

// LabelForKey upper-cases the first letter of a field key: "siteName" becomes "SiteName".
func LabelForKey(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError {
		return key
	}
	return string(unicode.ToUpper(r)) + key[size:]
}

// FieldByLabel finds a schema field by its display label, case-insensitively.
func FieldByLabel(label string) (Field, bool) {
	label = strings.TrimSpace(label)
	for _, f := range PageMetadataSchema {
		if strings.EqualFold(f.Label, label) {
			return f, true
		}
	}
	return Field{}, false
}

// SchemaLabels returns the display labels in column order.
func SchemaLabels() []string {
	labels := make([]string, len(PageMetadataSchema))
	for i, f := range PageMetadataSchema {
		labels[i] = f.Label
	}
	return labels
}

// SchemaIndex returns the column position of a field key, or -1.
func SchemaIndex(key string) int {
	for i, f := range PageMetadataSchema {
		if f.Key == key {
			return i
		}
	}
	return -1
}
