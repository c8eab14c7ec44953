package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/storefront/catalog/internal/domain/catalog"
)

var knownBrands = []catalog.Brand{
	{ID: "b1", Name: "PlayStation", NameAr: "بلايستيشن"},
	{ID: "b2", Name: "PS", Code: "PS"},
	{ID: "b3", Name: "Xbox", LegacyID: "mongo-b3"},
	{ID: "b4", Name: "Nintendo Switch"},
}

func TestResolveBrandIDDirectReference(t *testing.T) {
	tests := []struct {
		name string
		raw  catalog.RawRecord
		want string
	}{
		{"canonical id", catalog.RawRecord{"brandId": "b1"}, "b1"},
		{"legacy id", catalog.RawRecord{"brandId": "mongo-b3"}, "b3"},
		{"code", catalog.RawRecord{"brandId": "PS"}, "b2"},
		{"nested object", catalog.RawRecord{"brand": map[string]any{"id": "b4"}}, "b4"},
		{"snake case alias", catalog.RawRecord{"brand_id": "b1"}, "b1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveBrandID(tt.raw, "Some Product", knownBrands)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveBrandIDDirectReferenceBeatsNameMatch(t *testing.T) {
	// The product name textually matches PlayStation, but the valid direct
	// reference to Xbox must win.
	got := ResolveBrandID(catalog.RawRecord{"brandId": "b3"}, "PlayStation Controller", knownBrands)
	assert.Equal(t, "b3", got)
}

func TestResolveBrandIDFallsBackToNameHeuristic(t *testing.T) {
	// Unknown direct reference: fall through to name matching.
	got := ResolveBrandID(catalog.RawRecord{"brandId": "does-not-exist"}, "PlayStation Plus 12 Month", knownBrands)
	assert.Equal(t, "b1", got)

	// No direct reference at all.
	got = ResolveBrandID(catalog.RawRecord{}, "Nintendo Switch OLED Console", knownBrands)
	assert.Equal(t, "b4", got)
}

func TestMatchBrandByName(t *testing.T) {
	tests := []struct {
		name        string
		productName string
		want        string
	}{
		{"plain substring", "PlayStation Plus 12 Month", "b1"},
		{"case and punctuation ignored", "PLAY-STATION plus card", "b1"},
		{"normalized match", "playstation network card", "b1"},
		{"arabic name", "بطاقة بلايستيشن ستور", "b1"},
		{"no match", "Steam Wallet Card", ""},
		{"empty product name", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchBrandByName(tt.productName, knownBrands))
		})
	}
}

func TestMatchBrandByNameSkipsShortNames(t *testing.T) {
	// "PS" is well under the substring floor; it must never match even
	// though "ps" occurs inside the product name.
	got := MatchBrandByName("Gypsum Board", []catalog.Brand{{ID: "b2", Name: "PS"}})
	assert.Empty(t, got)

	// Exactly at the floor is still skipped.
	got = MatchBrandByName("Cable Box", []catalog.Brand{{ID: "b5", Name: "ble"}})
	assert.Empty(t, got)
}

func TestMatchBrandByNameFirstBrandWins(t *testing.T) {
	brands := []catalog.Brand{
		{ID: "first", Name: "Sony"},
		{ID: "second", Name: "Sony PlayStation"},
	}
	got := MatchBrandByName("Sony PlayStation 5 Console", brands)
	assert.Equal(t, "first", got)
}

func TestNormalizeMatchName(t *testing.T) {
	assert.Equal(t, "playstation5", normalizeMatchName("Play-Station 5!"))
	assert.Equal(t, "", normalizeMatchName(" --- "))
}
