package catalog

import "github.com/shopspring/decimal"

// ProductStatus represents the publication status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "ACTIVE"
	ProductStatusDraft    ProductStatus = "DRAFT"
	ProductStatusArchived ProductStatus = "ARCHIVED"
)

// ProductCategory is a single category membership of a product.
// A product may belong to several categories at once.
type ProductCategory struct {
	CategoryID string `json:"categoryId,omitempty"`
}

// Product represents a normalized storefront product.
// BrandID is empty when no brand could be resolved for the product;
// that is an expected state, not an error.
type Product struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	NameAr      string            `json:"nameAr"`
	BrandID     string            `json:"brandId,omitempty"`
	Categories  []ProductCategory `json:"categories"`
	Price       decimal.Decimal   `json:"price"`
	Cost        *decimal.Decimal  `json:"cost,omitempty"`
	SKU         string            `json:"sku,omitempty"`
	Barcode     string            `json:"barcode,omitempty"`
	Stock       int64             `json:"stock"`
	Status      ProductStatus     `json:"status"`
	Images      []string          `json:"images"`
	Featured    bool              `json:"featured,omitempty"`
	Path        string            `json:"path,omitempty"`
	IsAvailable bool              `json:"isAvailable"`
	IsPublished bool              `json:"isPublished"`
}

// DeriveProductStatus maps availability to the publication status:
// available products are ACTIVE, everything else is DRAFT.
// ARCHIVED is only ever carried through from upstream data.
func DeriveProductStatus(isAvailable bool) ProductStatus {
	if isAvailable {
		return ProductStatusActive
	}
	return ProductStatusDraft
}

// InCategory returns true if the product belongs to the given category.
func (p Product) InCategory(categoryID string) bool {
	if categoryID == "" {
		return false
	}
	for _, c := range p.Categories {
		if c.CategoryID == categoryID {
			return true
		}
	}
	return false
}
