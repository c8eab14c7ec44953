package storefront

import (
	"sort"
	"strconv"
	"strings"

	"github.com/storefront/catalog/internal/domain/catalog"
)

// The upstream API does not commit to a single envelope shape per endpoint.
// A list response may be a bare array, `{data: [...]}`, a collection-named
// field (`{products: [...]}`), or an arbitrary object with a single
// list-valued field. Extraction is modeled as an ordered chain of strategies;
// the first one that matches wins.

// listExtractor attempts to pull the item list out of a decoded payload.
// collection is the collection-specific field name (e.g. "products").
type listExtractor func(payload any, collection string) ([]catalog.RawRecord, bool)

var listExtractors = []listExtractor{
	extractBareList,
	extractDataField,
	extractCollectionField,
	extractAnyListField,
}

// ExtractItems returns the record list carried by a list-endpoint payload.
// If no strategy matches, the payload contributes nothing rather than
// failing the fetch.
func ExtractItems(payload any, collection string) []catalog.RawRecord {
	for _, extract := range listExtractors {
		if items, ok := extract(payload, collection); ok {
			return items
		}
	}
	return nil
}

// extractBareList matches a payload that is itself the item list.
func extractBareList(payload any, _ string) ([]catalog.RawRecord, bool) {
	return toRecords(payload)
}

// extractDataField matches the common `{data: [...]}` envelope.
func extractDataField(payload any, _ string) ([]catalog.RawRecord, bool) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, false
	}
	return toRecords(obj["data"])
}

// extractCollectionField matches an envelope keyed by the collection name,
// e.g. `{products: [...], meta: {...}}`.
func extractCollectionField(payload any, collection string) ([]catalog.RawRecord, bool) {
	if collection == "" {
		return nil, false
	}
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, false
	}
	return toRecords(obj[collection])
}

// extractAnyListField is the last resort: any object field whose value is a
// list. encoding/json does not preserve object key order, so keys are
// visited in sorted order to keep the fallback deterministic.
func extractAnyListField(payload any, _ string) ([]catalog.RawRecord, bool) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, false
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if items, ok := toRecords(obj[k]); ok {
			return items, true
		}
	}
	return nil, false
}

// toRecords converts a decoded JSON array into raw records.
// Non-object elements are dropped.
func toRecords(v any) ([]catalog.RawRecord, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	records := make([]catalog.RawRecord, 0, len(list))
	for _, item := range list {
		if rec, ok := item.(map[string]any); ok {
			records = append(records, rec)
		}
	}
	return records, true
}

// TotalPages reads the declared page count from a list-endpoint payload.
// It tolerates `meta.totalPages` as well as a top-level `totalPages`, in
// either numeric or string form. Zero means the metadata is absent.
func TotalPages(payload any) int {
	obj, ok := payload.(map[string]any)
	if !ok {
		return 0
	}
	if meta, ok := obj["meta"].(map[string]any); ok {
		if n := coercePageCount(meta["totalPages"]); n > 0 {
			return n
		}
	}
	return coercePageCount(obj["totalPages"])
}

func coercePageCount(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

// collectionName derives the collection-specific envelope field from an
// endpoint path, e.g. "/products?includeBrand=true" -> "products".
func collectionName(endpoint string) string {
	path := endpoint
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	path = strings.Trim(path, "/")
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		path = path[i+1:]
	}
	return path
}
