package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

const jsonLDSelector = `script[type="application/ld+json"]`

// extractSchemaTypes collects the JSON-LD @type names of every structured-data block,
// joined with ", " in discovery order. Malformed blocks are logged and skipped.
func extractSchemaTypes(doc *goquery.Document, pageURL string, logger zerolog.Logger) string {
	var types []string

	doc.Find(jsonLDSelector).Each(func(i int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		var data interface{}
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			logger.Warn().Err(err).Str("url", pageURL).Int("block", i).Msg("Error parsing JSON-LD")
			return
		}

		types = append(types, collectTypes(data)...)
	})

	return strings.Join(types, ", ")
}

// collectTypes returns @graph item types when the block has a @graph, otherwise the
// block's own @type. A @graph that is set but not an array yields nothing.
// A top-level array is a list of blocks.
func collectTypes(data interface{}) []string {
	switch v := data.(type) {
	case []interface{}:
		var types []string
		for _, block := range v {
			types = append(types, collectTypes(block)...)
		}
		return types
	case map[string]interface{}:
		if raw := v["@graph"]; truthy(raw) {
			graph, ok := raw.([]interface{})
			if !ok {
				return nil
			}
			var types []string
			for _, item := range graph {
				obj, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				if t := typeName(obj["@type"]); t != "" {
					types = append(types, t)
				}
			}
			return types
		}
		if t := typeName(v["@type"]); t != "" {
			return []string{t}
		}
	}
	return nil
}

// typeName renders a @type value; multiple types are joined with ",".
func typeName(value interface{}) string {
	switch t := value.(type) {
	case nil:
		return ""
	case string:
		return t
	case []interface{}:
		names := make([]string, 0, len(t))
		for _, n := range t {
			names = append(names, fmt.Sprint(n))
		}
		return strings.Join(names, ",")
	default:
		return fmt.Sprint(t)
	}
}

// truthy reports whether a decoded JSON value is set: not null, false, 0 or "".
func truthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}
