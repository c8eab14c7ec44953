package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/storefront/catalog/internal/application/catalog"
)

// CatalogHandler exposes the reconciled catalog over HTTP
type CatalogHandler struct {
	BaseHandler
	service *catalogapp.Service
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(service *catalogapp.Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers catalog routes on the API group
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/catalog")
	g.GET("/brands", h.ListBrands)
	g.GET("/categories", h.ListCategories)
	g.GET("/categories/:id/products", h.ProductsByCategory)
	g.GET("/products", h.ListProducts)
	g.GET("/tree", h.GetTree)
	g.POST("/brands", h.CreateBrand)
	g.POST("/categories", h.CreateCategory)
	g.POST("/products", h.CreateProduct)
	g.POST("/reload", h.Reload)
}

// CreateBrandRequest represents a request to create a brand
type CreateBrandRequest struct {
	Name             string `json:"name" binding:"required,min=1,max=200"`
	NameAr           string `json:"name_ar" binding:"max=200"`
	Code             string `json:"code" binding:"max=50"`
	Logo             string `json:"logo"`
	ParentCategoryID string `json:"parent_category_id"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=200"`
	NameAr   string `json:"name_ar" binding:"max=200"`
	ParentID string `json:"parent_id"`
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name       string   `json:"name" binding:"required,min=1,max=500"`
	NameAr     string   `json:"name_ar" binding:"max=500"`
	Price      string   `json:"price" binding:"required"`
	Cost       string   `json:"cost"`
	SKU        string   `json:"sku"`
	Barcode    string   `json:"barcode"`
	Stock      int64    `json:"stock" binding:"min=0"`
	BrandID    string   `json:"brand_id"`
	CategoryID string   `json:"category_id"`
	Images     []string `json:"images"`
}

// ListBrands returns the current brand snapshot
func (h *CatalogHandler) ListBrands(c *gin.Context) {
	brands := h.service.Store().Brands()
	h.SuccessWithMeta(c, brands, len(brands))
}

// ListCategories returns the current category snapshot
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories := h.service.Store().Categories()
	h.SuccessWithMeta(c, categories, len(categories))
}

// ListProducts returns the current product snapshot
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products := h.service.Store().Products()
	h.SuccessWithMeta(c, products, len(products))
}

// ProductsByCategory fetches products for one category straight from the
// storefront API, without touching the catalog snapshot
func (h *CatalogHandler) ProductsByCategory(c *gin.Context) {
	categoryID := c.Param("id")
	if categoryID == "" {
		h.BadRequest(c, "category id is required")
		return
	}

	products, err := h.service.LoadProductsByCategory(c.Request.Context(), categoryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, len(products))
}

// GetTree returns the catalog assembled as a category/brand/product hierarchy
func (h *CatalogHandler) GetTree(c *gin.Context) {
	store := h.service.Store()
	tree := catalogapp.BuildTree(store.Brands(), store.Categories(), store.Products())
	h.Success(c, tree)
}

// CreateBrand creates a brand on the storefront and appends it to the catalog
func (h *CatalogHandler) CreateBrand(c *gin.Context) {
	var req CreateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	data := map[string]any{"name": req.Name}
	if req.NameAr != "" {
		data["nameAr"] = req.NameAr
	}
	if req.Code != "" {
		data["code"] = req.Code
	}
	if req.Logo != "" {
		data["logo"] = req.Logo
	}
	if req.ParentCategoryID != "" {
		data["parentCategoryId"] = req.ParentCategoryID
	}

	brand, err := h.service.OnCreateBrand(c.Request.Context(), data, nil)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, brand)
}

// CreateCategory creates a category on the storefront and appends it to the
// catalog
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	data := map[string]any{"name": req.Name}
	if req.NameAr != "" {
		data["nameAr"] = req.NameAr
	}
	if req.ParentID != "" {
		data["parentId"] = req.ParentID
	}

	category, err := h.service.OnCreateCategory(c.Request.Context(), data, nil)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// CreateProduct creates a product on the storefront and appends it to the
// catalog
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	data := map[string]any{
		"name":  req.Name,
		"price": req.Price,
	}
	if req.NameAr != "" {
		data["nameAr"] = req.NameAr
	}
	if req.Cost != "" {
		data["cost"] = req.Cost
	}
	if req.SKU != "" {
		data["sku"] = req.SKU
	}
	if req.Barcode != "" {
		data["barcode"] = req.Barcode
	}
	if req.Stock > 0 {
		data["stock"] = req.Stock
	}
	if req.BrandID != "" {
		data["brandId"] = req.BrandID
	}
	if req.CategoryID != "" {
		data["categories"] = []map[string]any{{"categoryId": req.CategoryID}}
	}
	if len(req.Images) > 0 {
		data["images"] = req.Images
	}

	product, err := h.service.OnCreateProduct(c.Request.Context(), data, nil)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Reload runs a full catalog reload and returns the resulting counts.
// A reload already in flight makes this a no-op; the current counts are
// returned either way.
func (h *CatalogHandler) Reload(c *gin.Context) {
	if err := h.service.LoadAll(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}

	brands, categories, products := h.service.Store().Counts()
	h.Success(c, gin.H{
		"brands":     brands,
		"categories": categories,
		"products":   products,
	})
}
