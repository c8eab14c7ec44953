package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storefront/catalog/internal/infrastructure/importer"
)

// maxImportFileSize limits uploaded CSV files to 10MB
const maxImportFileSize = 10 << 20

// ImportHandler handles bulk product import uploads
type ImportHandler struct {
	BaseHandler
	importer *importer.ProductImporter
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(productImporter *importer.ProductImporter) *ImportHandler {
	return &ImportHandler{importer: productImporter}
}

// RegisterRoutes registers import routes on the API group
func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/catalog/products/import", h.ImportProducts)
}

// ImportProducts accepts a CSV upload and creates one product per valid row.
// Row failures are reported back, not treated as a request failure.
func (h *ImportHandler) ImportProducts(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > maxImportFileSize {
		h.BadRequest(c, "file exceeds the 10MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "failed to open uploaded file")
		return
	}
	defer file.Close()

	result, err := h.importer.Import(c.Request.Context(), file)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	h.Success(c, result)
}
