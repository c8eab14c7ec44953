package catalog

import (
	"github.com/storefront/catalog/internal/domain/catalog"
)

// The Explorer consumes the three flat store lists as a navigable hierarchy:
// categories nested by parent, brands attached under their parent category,
// products grouped under their brand. Everything here is a read-only
// projection over store snapshots.

// BrandNode is a brand with the products that reference it.
type BrandNode struct {
	Brand    catalog.Brand     `json:"brand"`
	Products []catalog.Product `json:"products"`
}

// CategoryNode is a category with its child categories and attached brands.
type CategoryNode struct {
	Category catalog.Category `json:"category"`
	Children []*CategoryNode  `json:"children"`
	Brands   []*BrandNode     `json:"brands"`
}

// Tree is the assembled catalog hierarchy.
type Tree struct {
	// Categories are the root category nodes. A category whose parent is
	// missing from the set is promoted to a root, not treated as an error.
	Categories []*CategoryNode `json:"categories"`
	// OrphanBrands have no parent category reference (or an unknown one).
	OrphanBrands []*BrandNode `json:"orphanBrands"`
	// UnbrandedProducts could not be attached to any brand.
	UnbrandedProducts []catalog.Product `json:"unbrandedProducts"`
}

// BuildTree assembles the hierarchy from flat catalog lists.
// Input order is preserved at every level.
func BuildTree(brands []catalog.Brand, categories []catalog.Category, products []catalog.Product) *Tree {
	nodesByID := make(map[string]*CategoryNode, len(categories))
	ordered := make([]*CategoryNode, 0, len(categories))
	for _, category := range categories {
		node := &CategoryNode{Category: category}
		nodesByID[category.ID] = node
		ordered = append(ordered, node)
	}

	tree := &Tree{}
	for _, node := range ordered {
		parent, ok := nodesByID[node.Category.ParentID]
		if node.Category.ParentID == "" || !ok || parent == node {
			tree.Categories = append(tree.Categories, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	brandNodesByID := make(map[string]*BrandNode, len(brands))
	for _, brand := range brands {
		node := &BrandNode{Brand: brand}
		brandNodesByID[brand.ID] = node

		if parent, ok := nodesByID[brand.ParentCategoryID]; ok {
			parent.Brands = append(parent.Brands, node)
		} else {
			tree.OrphanBrands = append(tree.OrphanBrands, node)
		}
	}

	for _, product := range products {
		if node, ok := brandNodesByID[product.BrandID]; ok && product.BrandID != "" {
			node.Products = append(node.Products, product)
			continue
		}
		tree.UnbrandedProducts = append(tree.UnbrandedProducts, product)
	}

	return tree
}
