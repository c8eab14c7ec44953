package catalog

import "strings"

// Brand represents a manufacturer or product line in the storefront catalog.
// Brands live in a flat list; ParentCategoryID links a brand into the
// category tree when the upstream data provides one.
type Brand struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	NameAr           string `json:"nameAr"`
	Code             string `json:"code,omitempty"`
	Logo             string `json:"logo,omitempty"`
	ParentCategoryID string `json:"parentCategoryId,omitempty"`

	// LegacyID carries the upstream "_id" value when it differs from ID.
	// Older product records may still reference brands by it.
	LegacyID string `json:"-"`
}

// Matches reports whether the given reference identifies this brand,
// either by canonical ID, legacy ID, or brand code.
func (b Brand) Matches(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}
	if ref == b.ID {
		return true
	}
	if b.LegacyID != "" && ref == b.LegacyID {
		return true
	}
	return b.Code != "" && ref == b.Code
}
