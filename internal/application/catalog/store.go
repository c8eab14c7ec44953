package catalog

import (
	"sync"

	"github.com/storefront/catalog/internal/domain/catalog"
)

// Store holds the reconciled catalog in memory.
//
// Mutators always install freshly built slices instead of mutating in place,
// so a consumer iterating a previously returned snapshot never observes a
// half-updated collection. Readers get copies for the same reason.
type Store struct {
	mu         sync.RWMutex
	brands     []catalog.Brand
	categories []catalog.Category
	products   []catalog.Product
}

// NewStore creates an empty catalog store
func NewStore() *Store {
	return &Store{}
}

// Brands returns a snapshot of the brand list.
func (s *Store) Brands() []catalog.Brand {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Brand, len(s.brands))
	copy(out, s.brands)
	return out
}

// Categories returns a snapshot of the category list.
func (s *Store) Categories() []catalog.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// Products returns a snapshot of the product list.
func (s *Store) Products() []catalog.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Counts returns the number of entities per collection.
func (s *Store) Counts() (brands, categories, products int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.brands), len(s.categories), len(s.products)
}

// ReplaceAll atomically replaces the three collections after a full
// reconciliation pass. Each list is deduplicated by id with the last
// occurrence superseding earlier ones: a later page or freshly created
// entity must win over a stale duplicate.
func (s *Store) ReplaceAll(brands []catalog.Brand, categories []catalog.Category, products []catalog.Product) {
	dedupedBrands := dedupeBrands(brands)
	dedupedCategories := dedupeCategories(categories)
	dedupedProducts := dedupeProducts(products)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.brands = dedupedBrands
	s.categories = dedupedCategories
	s.products = dedupedProducts
}

// AppendBrand adds a single brand unless its id is already present.
// Used after interactive creates so the consumer updates without a reload.
func (s *Store) AppendBrand(brand catalog.Brand) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.brands {
		if existing.ID == brand.ID {
			return false
		}
	}
	s.brands = appendCopy(s.brands, brand)
	return true
}

// AppendCategory adds a single category unless its id is already present.
func (s *Store) AppendCategory(category catalog.Category) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if existing.ID == category.ID {
			return false
		}
	}
	s.categories = appendCopy(s.categories, category)
	return true
}

// AppendProduct adds a single product unless its id is already present.
func (s *Store) AppendProduct(product catalog.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.products {
		if existing.ID == product.ID {
			return false
		}
	}
	s.products = appendCopy(s.products, product)
	return true
}

// appendCopy builds a new backing array so previously returned snapshots
// are never written through.
func appendCopy[T any](list []T, item T) []T {
	out := make([]T, len(list), len(list)+1)
	copy(out, list)
	return append(out, item)
}

// Dedup keeps the position of the first occurrence and the value of the
// last, which preserves list-building order while letting later records
// supersede earlier ones.

func dedupeBrands(list []catalog.Brand) []catalog.Brand {
	index := make(map[string]int, len(list))
	out := make([]catalog.Brand, 0, len(list))
	for _, item := range list {
		if at, seen := index[item.ID]; seen {
			out[at] = item
			continue
		}
		index[item.ID] = len(out)
		out = append(out, item)
	}
	return out
}

func dedupeCategories(list []catalog.Category) []catalog.Category {
	index := make(map[string]int, len(list))
	out := make([]catalog.Category, 0, len(list))
	for _, item := range list {
		if at, seen := index[item.ID]; seen {
			out[at] = item
			continue
		}
		index[item.ID] = len(out)
		out = append(out, item)
	}
	return out
}

func dedupeProducts(list []catalog.Product) []catalog.Product {
	index := make(map[string]int, len(list))
	out := make([]catalog.Product, 0, len(list))
	for _, item := range list {
		if at, seen := index[item.ID]; seen {
			out[at] = item
			continue
		}
		index[item.ID] = len(out)
		out = append(out, item)
	}
	return out
}
