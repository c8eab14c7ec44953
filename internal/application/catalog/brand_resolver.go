package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/storefront/catalog/internal/domain/catalog"
)

// minMatchNameLength is the floor (in runes) below which a brand name is
// never matched by substring. Very short brand codes like "PS" would
// otherwise match incidentally inside unrelated product titles.
const minMatchNameLength = 3

// ResolveBrandID assigns a brand to a raw product record.
//
// Phase 1 reads the direct brand reference (brandId, nested brand object or
// historical aliases) and matches it against known brands by canonical id,
// legacy id, or code. Phase 2, only when phase 1 finds nothing, falls back to
// matching known brand names as substrings of the product display name.
// An empty result is an expected outcome, not an error.
func ResolveBrandID(raw catalog.RawRecord, productName string, brands []catalog.Brand) string {
	if ref := FlattenRef(raw, productBrandAliases...); ref != "" {
		for _, brand := range brands {
			if brand.Matches(ref) {
				return brand.ID
			}
		}
	}
	return MatchBrandByName(productName, brands)
}

// MatchBrandByName finds the first known brand whose normalized name or
// localized name occurs as a substring of the normalized product name.
//
// When several brand names are substrings of the product name, the first
// brand in list order wins. That tie-break is inherited behavior with no
// confidence ranking behind it; the heuristic is isolated here so it can be
// replaced without touching call sites.
func MatchBrandByName(productName string, brands []catalog.Brand) string {
	needleSource := normalizeMatchName(productName)
	if needleSource == "" {
		return ""
	}
	for _, brand := range brands {
		for _, name := range []string{brand.Name, brand.NameAr} {
			normalized := normalizeMatchName(name)
			if len([]rune(normalized)) <= minMatchNameLength {
				continue
			}
			if strings.Contains(needleSource, normalized) {
				return brand.ID
			}
		}
	}
	return ""
}

// normalizeMatchName lower-cases a display name and strips everything that
// is not a letter or digit. NFKC folding first, so width and presentation
// variants of Arabic letters compare equal.
func normalizeMatchName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(norm.NFKC.String(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
