package catalog

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/storefront/catalog/internal/domain/catalog"
)

// The upstream API has accumulated several historical field spellings for
// the same foreign keys. Each alias set is checked in fixed priority order;
// the first alias that yields a value wins.
var (
	brandParentCategoryAliases = []string{
		"parentCategoryId", "ParentCategoryID", "parent_category_id", "parentCategory", "category",
	}
	categoryParentAliases = []string{
		"parentId", "ParentID", "parent_id", "parent",
	}
	productBrandAliases = []string{
		"brandId", "BrandID", "brand_id", "brand",
	}
	productCategoryAliases = []string{
		"categoryId", "CategoryID", "category_id", "category",
	}
)

// NormalizeBrand converts a raw brand record into the internal shape.
// The second return value is false when the record carries no usable id;
// such records are dropped by callers, never inserted.
func NormalizeBrand(raw catalog.RawRecord) (catalog.Brand, bool) {
	id := CoerceID(raw)
	if id == "" {
		return catalog.Brand{}, false
	}

	brand := catalog.Brand{
		ID:               id,
		Name:             coerceString(raw["name"]),
		NameAr:           coerceString(firstOf(raw, "nameAr", "name_ar")),
		Code:             coerceString(raw["code"]),
		Logo:             coerceString(firstOf(raw, "logo", "image")),
		ParentCategoryID: FlattenRef(raw, brandParentCategoryAliases...),
	}

	// Keep the legacy Mongo-style id around when it differs; older product
	// records may still reference it.
	if legacy := coerceIDValue(raw["_id"]); legacy != "" && legacy != id {
		brand.LegacyID = legacy
	}
	return brand, true
}

// NormalizeCategory converts a raw category record into the internal shape.
func NormalizeCategory(raw catalog.RawRecord) (catalog.Category, bool) {
	id := CoerceID(raw)
	if id == "" {
		return catalog.Category{}, false
	}
	return catalog.Category{
		ID:       id,
		Name:     coerceString(raw["name"]),
		NameAr:   coerceString(firstOf(raw, "nameAr", "name_ar")),
		ParentID: FlattenRef(raw, categoryParentAliases...),
	}, true
}

// NormalizeProduct converts a raw product record into the internal shape.
// Brand resolution is a separate concern (see ResolveBrandID); the BrandID
// set here is only the directly referenced one and may later be cleared if
// it does not match a known brand.
func NormalizeProduct(raw catalog.RawRecord) (catalog.Product, bool) {
	id := CoerceID(raw)
	if id == "" {
		return catalog.Product{}, false
	}

	price, _ := coerceDecimal(firstOf(raw, "price", "Price"))

	product := catalog.Product{
		ID:          id,
		Name:        coerceString(raw["name"]),
		NameAr:      coerceString(firstOf(raw, "nameAr", "name_ar")),
		BrandID:     FlattenRef(raw, productBrandAliases...),
		Categories:  flattenCategories(raw),
		Price:       price,
		Cost:        coerceCost(raw),
		SKU:         coerceString(firstOf(raw, "sku", "SKU")),
		Barcode:     coerceString(raw["barcode"]),
		Stock:       coerceInt(firstOf(raw, "stock", "quantity")),
		Images:      coerceImages(raw["images"]),
		Featured:    coerceBool(raw["featured"]),
		Path:        coerceString(raw["path"]),
		IsAvailable: coerceBool(firstOf(raw, "isAvailable", "is_available")),
		IsPublished: coerceBool(firstOf(raw, "isPublished", "is_published")),
	}

	if status := strings.ToUpper(coerceString(raw["status"])); status == string(catalog.ProductStatusArchived) {
		product.Status = catalog.ProductStatusArchived
	} else {
		product.Status = catalog.DeriveProductStatus(product.IsAvailable)
	}
	return product, true
}

// flattenCategories reduces each raw category association to a flat
// {CategoryID} entry. Associations may be bare ids, nested objects, or
// objects keyed by any of the historical aliases.
func flattenCategories(raw catalog.RawRecord) []catalog.ProductCategory {
	list, ok := raw["categories"].([]any)
	if !ok {
		// Single-category legacy shape.
		if ref := FlattenRef(raw, productCategoryAliases...); ref != "" {
			return []catalog.ProductCategory{{CategoryID: ref}}
		}
		return nil
	}

	categories := make([]catalog.ProductCategory, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case map[string]any:
			if ref := FlattenRef(v, productCategoryAliases...); ref != "" {
				categories = append(categories, catalog.ProductCategory{CategoryID: ref})
				continue
			}
			// The association object may itself be the category record.
			if id := CoerceID(v); id != "" {
				categories = append(categories, catalog.ProductCategory{CategoryID: id})
			}
		default:
			if id := coerceIDValue(v); id != "" {
				categories = append(categories, catalog.ProductCategory{CategoryID: id})
			}
		}
	}
	return categories
}

// coerceCost reads the product cost, falling back to a nested variant's cost
// when the top-level field is absent.
func coerceCost(raw catalog.RawRecord) *decimal.Decimal {
	if cost, ok := coerceDecimal(firstOf(raw, "cost", "Cost", "cost_price")); ok {
		return &cost
	}
	if variant, ok := raw["variant"].(map[string]any); ok {
		if cost, ok := coerceDecimal(variant["cost"]); ok {
			return &cost
		}
	}
	if variants, ok := raw["variants"].([]any); ok && len(variants) > 0 {
		if variant, ok := variants[0].(map[string]any); ok {
			if cost, ok := coerceDecimal(variant["cost"]); ok {
				return &cost
			}
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Coercion helpers
// ---------------------------------------------------------------------------

// CoerceID extracts the record identifier from `id` or `_id`, trimmed and
// stringified. An empty result means the record has no usable identity.
func CoerceID(raw catalog.RawRecord) string {
	if id := coerceIDValue(raw["id"]); id != "" {
		return id
	}
	return coerceIDValue(raw["_id"])
}

// coerceIDValue stringifies a single id value. Numeric ids are rendered
// without a decimal point.
func coerceIDValue(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	default:
		return ""
	}
}

// FlattenRef resolves a foreign-key field that may arrive as a bare id, a
// nested object carrying id/_id, or under one of several historical aliases.
// Aliases are checked in the given priority order.
func FlattenRef(raw catalog.RawRecord, aliases ...string) string {
	for _, alias := range aliases {
		v, ok := raw[alias]
		if !ok || v == nil {
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			if id := CoerceID(nested); id != "" {
				return id
			}
			continue
		}
		if id := coerceIDValue(v); id != "" {
			return id
		}
	}
	return ""
}

func coerceString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// coerceDecimal converts a JSON number or numeric string to a decimal.
func coerceDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), true
	case string:
		trimmed := strings.TrimSpace(n)
		if trimmed == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(trimmed)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	default:
		return decimal.Zero, false
	}
}

func coerceInt(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int:
		return int64(n)
	case int64:
		return n
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func coerceBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(strings.TrimSpace(b), "true")
	default:
		return false
	}
}

// coerceImages accepts a list of URL strings or objects carrying a url field.
func coerceImages(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	images := make([]string, 0, len(list))
	for _, item := range list {
		switch img := item.(type) {
		case string:
			if img = strings.TrimSpace(img); img != "" {
				images = append(images, img)
			}
		case map[string]any:
			if u := coerceString(firstOf(img, "url", "src")); u != "" {
				images = append(images, u)
			}
		}
	}
	return images
}

// firstOf returns the first non-nil value among the given keys.
func firstOf(raw catalog.RawRecord, keys ...string) any {
	for _, key := range keys {
		if v, ok := raw[key]; ok && v != nil {
			return v
		}
	}
	return nil
}
