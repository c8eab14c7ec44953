package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/catalog/internal/domain/catalog"
)

func TestBuildTreeNestsCategories(t *testing.T) {
	tree := BuildTree(nil, []catalog.Category{
		{ID: "c1", Name: "Gaming"},
		{ID: "c2", Name: "Consoles", ParentID: "c1"},
		{ID: "c3", Name: "Accessories", ParentID: "c1"},
	}, nil)

	require.Len(t, tree.Categories, 1)
	root := tree.Categories[0]
	assert.Equal(t, "c1", root.Category.ID)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "c2", root.Children[0].Category.ID)
	assert.Equal(t, "c3", root.Children[1].Category.ID)
}

func TestBuildTreePromotesOrphanCategoriesToRoots(t *testing.T) {
	tree := BuildTree(nil, []catalog.Category{
		{ID: "c1", ParentID: "missing"},
		{ID: "c2", ParentID: "c2"}, // self-parent
	}, nil)

	require.Len(t, tree.Categories, 2)
}

func TestBuildTreeAttachesBrandsAndProducts(t *testing.T) {
	brands := []catalog.Brand{
		{ID: "b1", Name: "Sony", ParentCategoryID: "c1"},
		{ID: "b2", Name: "NoHome"},
	}
	categories := []catalog.Category{{ID: "c1", Name: "Gaming"}}
	products := []catalog.Product{
		{ID: "p1", BrandID: "b1"},
		{ID: "p2"},
	}

	tree := BuildTree(brands, categories, products)

	require.Len(t, tree.Categories, 1)
	require.Len(t, tree.Categories[0].Brands, 1)
	sony := tree.Categories[0].Brands[0]
	assert.Equal(t, "b1", sony.Brand.ID)
	require.Len(t, sony.Products, 1)
	assert.Equal(t, "p1", sony.Products[0].ID)

	require.Len(t, tree.OrphanBrands, 1)
	assert.Equal(t, "b2", tree.OrphanBrands[0].Brand.ID)

	require.Len(t, tree.UnbrandedProducts, 1)
	assert.Equal(t, "p2", tree.UnbrandedProducts[0].ID)
}

func TestBuildTreeEmptyInput(t *testing.T) {
	tree := BuildTree(nil, nil, nil)
	assert.Empty(t, tree.Categories)
	assert.Empty(t, tree.OrphanBrands)
	assert.Empty(t, tree.UnbrandedProducts)
}
