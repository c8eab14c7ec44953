package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storefront/catalog/internal/domain/catalog"
)

// ProductCatalog is the interface the importer drives. It is implemented by
// the catalog application service: each valid row becomes an interactive
// create, and completion fires the bulk-update notification so the catalog
// schedules a single debounced full reload for the whole import.
type ProductCatalog interface {
	OnCreateProduct(ctx context.Context, data map[string]any, opts url.Values) (catalog.Product, error)
	OnProductsUpdate()
}

// RowError describes a single rejected row. Row numbers are 1-based and
// count the header row.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result summarizes an import run
type Result struct {
	JobID     uuid.UUID  `json:"jobId"`
	Total     int        `json:"total"`
	Succeeded int        `json:"succeeded"`
	Failed    int        `json:"failed"`
	Errors    []RowError `json:"errors,omitempty"`
}

// columnAliases maps canonical column names to accepted header spellings.
// Spreadsheets come from several storefront generations, so the historical
// spellings are tolerated the same way the normalizer tolerates field
// aliases.
var columnAliases = map[string][]string{
	"name":        {"name", "product_name", "title"},
	"name_ar":     {"name_ar", "namear", "arabic_name"},
	"price":       {"price"},
	"cost":        {"cost", "cost_price"},
	"sku":         {"sku"},
	"barcode":     {"barcode"},
	"stock":       {"stock", "quantity"},
	"brand_id":    {"brand_id", "brandid", "brand"},
	"category_id": {"category_id", "categoryid", "category"},
	"image":       {"image", "image_url"},
}

// ProductImporter imports products from a CSV spreadsheet
type ProductImporter struct {
	catalog ProductCatalog
	logger  *zap.Logger
}

// NewProductImporter creates a product importer
func NewProductImporter(catalog ProductCatalog, logger *zap.Logger) *ProductImporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductImporter{catalog: catalog, logger: logger}
}

// Import reads a product CSV, creates each valid row through the catalog and
// returns a per-row report. Row failures are collected, not fatal; only an
// unreadable file or header aborts the run. If at least one row succeeded
// the bulk-update notification is fired so the catalog reconciles once the
// burst settles.
func (i *ProductImporter) Import(ctx context.Context, r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("importer: failed to read header: %w", err)
	}
	columns, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	result := &Result{JobID: uuid.New()}

	for rowNum := 2; ; rowNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Total++
			result.Failed++
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}

		result.Total++
		data, rowErr := buildProductPayload(columns, record, rowNum)
		if rowErr != nil {
			result.Failed++
			result.Errors = append(result.Errors, *rowErr)
			continue
		}

		if _, err := i.catalog.OnCreateProduct(ctx, data, nil); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		result.Succeeded++
	}

	if result.Succeeded > 0 {
		i.catalog.OnProductsUpdate()
	}

	i.logger.Info("Product import finished",
		zap.String("job_id", result.JobID.String()),
		zap.Int("total", result.Total),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// mapHeader resolves CSV headers to canonical column indexes.
func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(columnAliases))
	for idx, cell := range header {
		normalized := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff")))
		for canonical, aliases := range columnAliases {
			if _, taken := columns[canonical]; taken {
				continue
			}
			for _, alias := range aliases {
				if normalized == alias {
					columns[canonical] = idx
					break
				}
			}
		}
	}
	if _, ok := columns["name"]; !ok {
		return nil, fmt.Errorf("importer: required column %q not found in header", "name")
	}
	if _, ok := columns["price"]; !ok {
		return nil, fmt.Errorf("importer: required column %q not found in header", "price")
	}
	return columns, nil
}

// buildProductPayload validates one row and builds the create payload.
func buildProductPayload(columns map[string]int, record []string, rowNum int) (map[string]any, *RowError) {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	name := cell("name")
	if name == "" {
		return nil, &RowError{Row: rowNum, Field: "name", Message: "name is required"}
	}

	priceRaw := cell("price")
	if priceRaw == "" {
		return nil, &RowError{Row: rowNum, Field: "price", Message: "price is required"}
	}
	price, err := decimal.NewFromString(priceRaw)
	if err != nil {
		return nil, &RowError{Row: rowNum, Field: "price", Message: "price is not a valid number"}
	}
	if price.IsNegative() {
		return nil, &RowError{Row: rowNum, Field: "price", Message: "price cannot be negative"}
	}

	data := map[string]any{
		"name":  name,
		"price": price.String(),
	}

	if nameAr := cell("name_ar"); nameAr != "" {
		data["nameAr"] = nameAr
	}
	if costRaw := cell("cost"); costRaw != "" {
		cost, err := decimal.NewFromString(costRaw)
		if err != nil || cost.IsNegative() {
			return nil, &RowError{Row: rowNum, Field: "cost", Message: "cost is not a valid number"}
		}
		data["cost"] = cost.String()
	}
	if sku := cell("sku"); sku != "" {
		data["sku"] = sku
	}
	if barcode := cell("barcode"); barcode != "" {
		data["barcode"] = barcode
	}
	if stockRaw := cell("stock"); stockRaw != "" {
		stock, err := strconv.ParseInt(stockRaw, 10, 64)
		if err != nil || stock < 0 {
			return nil, &RowError{Row: rowNum, Field: "stock", Message: "stock is not a valid quantity"}
		}
		data["stock"] = stock
	}
	if brandID := cell("brand_id"); brandID != "" {
		data["brandId"] = brandID
	}
	if categoryID := cell("category_id"); categoryID != "" {
		data["categories"] = []map[string]any{{"categoryId": categoryID}}
	}
	if image := cell("image"); image != "" {
		data["images"] = []string{image}
	}

	return data, nil
}
