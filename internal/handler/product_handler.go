package handler

import (
	"bytes"
	"net/http"

	"github.com/cloud-wave-best-zizon/battery-store/internal/bulk"
	"github.com/cloud-wave-best-zizon/battery-store/internal/catalog"
	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/cloud-wave-best-zizon/battery-store/internal/metrics"
	"github.com/cloud-wave-best-zizon/battery-store/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const exportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ProductHandler struct {
	catalogService *service.CatalogService
	exportService  *service.ExportService
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

func NewProductHandler(catalogService *service.CatalogService, exportService *service.ExportService, m *metrics.Metrics, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		exportService:  exportService,
		metrics:        m,
		logger:         logger.Named("product_handler"),
	}
}

// ListProducts serves the filtered, sorted catalog. Admins use the same
// query parameters.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	criteria, err := catalog.ParseCriteria(c.Request.URL.Query())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	items := h.catalogService.Browse(criteria)
	c.JSON(http.StatusOK, gin.H{"products": items, "count": len(items)})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	item, err := h.catalogService.Item(c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req domain.ProductDraft
	if !bindJSON(c, h.logger, &req) {
		return
	}

	product, err := h.catalogService.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req domain.ProductPatch
	if !bindJSON(c, h.logger, &req) {
		return
	}

	product, err := h.catalogService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.catalogService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type bulkRequest struct {
	Action   bulk.Action `json:"action"`
	IDs      []string    `json:"ids"`
	Category string      `json:"category"`
}

// BulkProducts runs one confirmed bulk action over the submitted selection.
// Item failures are reported in the body; the request fails only when no
// item succeeded.
func (h *ProductHandler) BulkProducts(c *gin.Context) {
	var req bulkRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	workflow := bulk.NewWorkflow(h.catalogService)
	if err := workflow.SelectAll(req.IDs); err != nil {
		writeError(c, h.logger, err)
		return
	}
	if err := workflow.Request(req.Action, req.Category); err != nil {
		writeError(c, h.logger, err)
		return
	}
	report, err := workflow.Confirm(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	h.metrics.BulkItems(string(report.Action), report.Succeeded, report.Failed)

	status := http.StatusOK
	switch {
	case report.AllFailed():
		status = http.StatusUnprocessableEntity
		h.logger.Warn("Bulk action failed for every item",
			zap.String("action", string(report.Action)),
			zap.Int("total", report.Total))
	case report.Partial():
		status = http.StatusMultiStatus
	}
	c.JSON(status, report)
}

func (h *ProductHandler) ExportProducts(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.exportService.WriteProducts(&buf); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="products.xlsx"`)
	c.Data(http.StatusOK, exportContentType, buf.Bytes())
}
