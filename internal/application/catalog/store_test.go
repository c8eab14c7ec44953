package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/catalog/internal/domain/catalog"
)

func TestStoreReplaceAllDedupesLastWins(t *testing.T) {
	store := NewStore()
	store.ReplaceAll(
		[]catalog.Brand{
			{ID: "b1", Name: "old"},
			{ID: "b2", Name: "other"},
			{ID: "b1", Name: "new"},
		},
		nil,
		nil,
	)

	brands := store.Brands()
	require.Len(t, brands, 2)
	// First occurrence keeps its position, last occurrence supplies the value.
	assert.Equal(t, "b1", brands[0].ID)
	assert.Equal(t, "new", brands[0].Name)
	assert.Equal(t, "b2", brands[1].ID)
}

func TestStoreReplaceAllSwapsAtomically(t *testing.T) {
	store := NewStore()
	store.ReplaceAll(
		[]catalog.Brand{{ID: "b1"}},
		[]catalog.Category{{ID: "c1"}},
		[]catalog.Product{{ID: "p1"}},
	)

	snapshot := store.Products()
	store.ReplaceAll(nil, nil, []catalog.Product{{ID: "p2"}})

	// The snapshot taken before the swap is untouched.
	require.Len(t, snapshot, 1)
	assert.Equal(t, "p1", snapshot[0].ID)

	products := store.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "p2", products[0].ID)
}

func TestStoreAppendIsIdempotent(t *testing.T) {
	store := NewStore()

	assert.True(t, store.AppendBrand(catalog.Brand{ID: "b1", Name: "first"}))
	assert.False(t, store.AppendBrand(catalog.Brand{ID: "b1", Name: "second"}))

	brands := store.Brands()
	require.Len(t, brands, 1)
	// The duplicate append is a no-op; the original value stays.
	assert.Equal(t, "first", brands[0].Name)
}

func TestStoreAppendPreservesExistingSnapshots(t *testing.T) {
	store := NewStore()
	store.AppendCategory(catalog.Category{ID: "c1"})

	snapshot := store.Categories()
	store.AppendCategory(catalog.Category{ID: "c2"})

	assert.Len(t, snapshot, 1)
	assert.Len(t, store.Categories(), 2)
}

func TestStoreSnapshotMutationDoesNotLeakBack(t *testing.T) {
	store := NewStore()
	store.AppendProduct(catalog.Product{ID: "p1", Name: "original"})

	snapshot := store.Products()
	snapshot[0].Name = "mutated"

	products := store.Products()
	assert.Equal(t, "original", products[0].Name)
}

func TestStoreCounts(t *testing.T) {
	store := NewStore()
	store.ReplaceAll(
		[]catalog.Brand{{ID: "b1"}},
		[]catalog.Category{{ID: "c1"}, {ID: "c2"}},
		[]catalog.Product{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}},
	)

	brands, categories, products := store.Counts()
	assert.Equal(t, 1, brands)
	assert.Equal(t, 2, categories)
	assert.Equal(t, 3, products)
}
