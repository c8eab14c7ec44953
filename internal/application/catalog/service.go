package catalog

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/storefront/catalog/internal/domain/catalog"
	"github.com/storefront/catalog/internal/domain/shared"
)

// Collection endpoints on the upstream API.
const (
	brandsEndpoint     = "/brands"
	categoriesEndpoint = "/categories"
	productsEndpoint   = "/products"
)

// defaultReloadDebounce is how long a scheduled full reload waits so that a
// burst of bulk-import completions collapses into a single reload.
const defaultReloadDebounce = 500 * time.Millisecond

// productListParams asks the upstream to embed brand and category
// associations in product records.
func productListParams() url.Values {
	return url.Values{
		"includeBrand":      {"true"},
		"includeCategories": {"true"},
	}
}

// Service orchestrates the reconciliation passes that keep the in-memory
// catalog consistent with the upstream API.
type Service struct {
	gateway catalog.Gateway
	store   *Store
	logger  *zap.Logger

	// loading guards the full load against concurrent re-entry; rapid UI
	// events must not trigger duplicate reconciliation passes.
	loading atomic.Bool

	reloadMu      sync.Mutex
	reloadTimer   *time.Timer
	reloadDelay   time.Duration
	reloadContext func() context.Context
}

// ServiceOption is a functional option for configuring the service
type ServiceOption func(*Service)

// WithReloadDelay overrides the debounce delay for scheduled full reloads.
func WithReloadDelay(delay time.Duration) ServiceOption {
	return func(s *Service) {
		if delay > 0 {
			s.reloadDelay = delay
		}
	}
}

// NewService creates a catalog service backed by the given gateway and store
func NewService(gateway catalog.Gateway, store *Store, logger *zap.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		gateway:       gateway,
		store:         store,
		logger:        logger,
		reloadDelay:   defaultReloadDebounce,
		reloadContext: context.Background,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store exposes the reconciled catalog to consumers.
func (s *Service) Store() *Store {
	return s.store
}

// ---------------------------------------------------------------------------
// Full reconciliation pass
// ---------------------------------------------------------------------------

// LoadAll runs a full reconciliation pass: the three collections are fetched
// concurrently, normalized, brand references resolved, and the store
// replaced atomically. A pass already in flight causes the call to be
// skipped. On any failure the previous store state is left intact.
func (s *Service) LoadAll(ctx context.Context) error {
	if !s.loading.CompareAndSwap(false, true) {
		s.logger.Debug("Full catalog load already in flight, skipping")
		return nil
	}
	defer s.loading.Store(false)

	started := time.Now()

	var (
		wg          sync.WaitGroup
		rawBrands   []catalog.RawRecord
		rawCats     []catalog.RawRecord
		rawProducts []catalog.RawRecord
		errBrands   error
		errCats     error
		errProducts error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		rawBrands, errBrands = s.gateway.FetchAll(ctx, brandsEndpoint, nil)
	}()
	go func() {
		defer wg.Done()
		rawCats, errCats = s.gateway.FetchAll(ctx, categoriesEndpoint, nil)
	}()
	go func() {
		defer wg.Done()
		rawProducts, errProducts = s.gateway.FetchAll(ctx, productsEndpoint, productListParams())
	}()
	wg.Wait()

	for _, err := range []error{errBrands, errCats, errProducts} {
		if err != nil {
			s.logger.Error("Full catalog load failed, keeping previous state", zap.Error(err))
			return fmt.Errorf("catalog: full load failed: %w", err)
		}
	}

	brands := normalizeBrands(rawBrands)
	categories := normalizeCategories(rawCats)
	products := normalizeProducts(rawProducts, brands)

	s.store.ReplaceAll(brands, categories, products)

	s.logger.Info("Catalog reconciled",
		zap.Int("brands", len(brands)),
		zap.Int("categories", len(categories)),
		zap.Int("products", len(products)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return nil
}

// LoadProductsByCategory fetches and normalizes the products of a single
// category for lazy sub-tree expansion. The store is not mutated.
func (s *Service) LoadProductsByCategory(ctx context.Context, categoryID string) ([]catalog.Product, error) {
	extra := productListParams()
	extra.Set("categoryId", categoryID)

	raws, err := s.gateway.FetchAll(ctx, productsEndpoint, extra)
	if err != nil {
		return nil, fmt.Errorf("catalog: load products for category %s: %w", categoryID, err)
	}
	return normalizeProducts(raws, s.store.Brands()), nil
}

func normalizeBrands(raws []catalog.RawRecord) []catalog.Brand {
	brands := make([]catalog.Brand, 0, len(raws))
	for _, raw := range raws {
		if brand, ok := NormalizeBrand(raw); ok {
			brands = append(brands, brand)
		}
	}
	return brands
}

func normalizeCategories(raws []catalog.RawRecord) []catalog.Category {
	categories := make([]catalog.Category, 0, len(raws))
	for _, raw := range raws {
		if category, ok := NormalizeCategory(raw); ok {
			categories = append(categories, category)
		}
	}
	return categories
}

// normalizeProducts normalizes raw product records and resolves each
// product's brand against the known brand set. A direct reference that does
// not match any known brand is treated as absent and the name heuristic is
// attempted; a miss leaves the product unbranded.
func normalizeProducts(raws []catalog.RawRecord, brands []catalog.Brand) []catalog.Product {
	products := make([]catalog.Product, 0, len(raws))
	for _, raw := range raws {
		product, ok := NormalizeProduct(raw)
		if !ok {
			continue
		}
		product.BrandID = ResolveBrandID(raw, product.Name, brands)
		products = append(products, product)
	}
	return products
}

// ---------------------------------------------------------------------------
// Interactive creates
// ---------------------------------------------------------------------------

// OnCreateBrand creates a brand upstream, appends it to the store and
// returns it. A created record without a usable id is a hard error: letting
// it through would corrupt the catalog tree.
func (s *Service) OnCreateBrand(ctx context.Context, data map[string]any, opts url.Values) (catalog.Brand, error) {
	raw, err := s.gateway.CreateBrand(ctx, data, opts)
	if err != nil {
		return catalog.Brand{}, fmt.Errorf("catalog: create brand: %w", err)
	}
	brand, ok := NormalizeBrand(raw)
	if !ok {
		return catalog.Brand{}, fmt.Errorf("catalog: created brand: %w", shared.ErrMissingID)
	}
	s.store.AppendBrand(brand)
	return brand, nil
}

// OnCreateCategory creates a category upstream, appends it to the store and
// returns it.
func (s *Service) OnCreateCategory(ctx context.Context, data map[string]any, opts url.Values) (catalog.Category, error) {
	raw, err := s.gateway.CreateCategory(ctx, data, opts)
	if err != nil {
		return catalog.Category{}, fmt.Errorf("catalog: create category: %w", err)
	}
	category, ok := NormalizeCategory(raw)
	if !ok {
		return catalog.Category{}, fmt.Errorf("catalog: created category: %w", shared.ErrMissingID)
	}
	s.store.AppendCategory(category)
	return category, nil
}

// OnCreateProduct creates a product upstream, appends it to the store and
// returns it.
func (s *Service) OnCreateProduct(ctx context.Context, data map[string]any, opts url.Values) (catalog.Product, error) {
	raw, err := s.gateway.CreateProduct(ctx, data, opts)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("catalog: create product: %w", err)
	}
	product, ok := NormalizeProduct(raw)
	if !ok {
		return catalog.Product{}, fmt.Errorf("catalog: created product: %w", shared.ErrMissingID)
	}
	product.BrandID = ResolveBrandID(raw, product.Name, s.store.Brands())
	s.store.AppendProduct(product)
	return product, nil
}

// ---------------------------------------------------------------------------
// Bulk-update notifications
// ---------------------------------------------------------------------------

// OnBrandsUpdate schedules a debounced full reload after a bulk brand change.
func (s *Service) OnBrandsUpdate() { s.ScheduleFullReload(s.reloadDelay) }

// OnCategoriesUpdate schedules a debounced full reload after a bulk category
// change.
func (s *Service) OnCategoriesUpdate() { s.ScheduleFullReload(s.reloadDelay) }

// OnProductsUpdate schedules a debounced full reload after a bulk product
// change (e.g. spreadsheet import).
func (s *Service) OnProductsUpdate() { s.ScheduleFullReload(s.reloadDelay) }

// ScheduleFullReload schedules a full reconciliation pass after the given
// delay. A pending reload is superseded rather than stacked, so a burst of
// bulk operations triggers at most one reload once the burst settles.
func (s *Service) ScheduleFullReload(after time.Duration) {
	if after <= 0 {
		after = s.reloadDelay
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if s.reloadTimer != nil {
		s.reloadTimer.Stop()
	}
	s.reloadTimer = time.AfterFunc(after, func() {
		if err := s.LoadAll(s.reloadContext()); err != nil {
			s.logger.Error("Scheduled catalog reload failed", zap.Error(err))
		}
	})
}
