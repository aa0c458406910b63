package handler

import (
	"net/http"

	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/cloud-wave-best-zizon/battery-store/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ContentHandler struct {
	contentService *service.ContentService
	logger         *zap.Logger
}

func NewContentHandler(contentService *service.ContentService, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{contentService: contentService, logger: logger.Named("content_handler")}
}

func (h *ContentHandler) ListCategories(activeOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := h.contentService.Categories(c.Request.Context(), activeOnly)
		if err != nil {
			writeError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}

func (h *ContentHandler) CreateCategory(c *gin.Context) {
	var req domain.CategoryInput
	if !bindJSON(c, h.logger, &req) {
		return
	}
	category, err := h.contentService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *ContentHandler) UpdateCategory(c *gin.Context) {
	var req domain.CategoryInput
	if !bindJSON(c, h.logger, &req) {
		return
	}
	category, err := h.contentService.UpdateCategory(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *ContentHandler) DeleteCategory(c *gin.Context) {
	if err := h.contentService.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ContentHandler) ListBanners(activeOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		banners, err := h.contentService.Banners(c.Request.Context(), activeOnly)
		if err != nil {
			writeError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"banners": banners})
	}
}

func (h *ContentHandler) CreateBanner(c *gin.Context) {
	var req domain.BannerInput
	if !bindJSON(c, h.logger, &req) {
		return
	}
	banner, err := h.contentService.CreateBanner(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, banner)
}

func (h *ContentHandler) UpdateBanner(c *gin.Context) {
	var req domain.BannerInput
	if !bindJSON(c, h.logger, &req) {
		return
	}
	banner, err := h.contentService.UpdateBanner(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, banner)
}

func (h *ContentHandler) DeleteBanner(c *gin.Context) {
	if err := h.contentService.DeleteBanner(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

func (h *ContentHandler) ReorderBanners(c *gin.Context) {
	var req reorderRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	banners, err := h.contentService.ReorderBanners(c.Request.Context(), req.IDs)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"banners": banners})
}

func (h *ContentHandler) ListPaymentMethods(activeOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		methods, err := h.contentService.PaymentMethods(c.Request.Context(), activeOnly)
		if err != nil {
			writeError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"payment_methods": methods})
	}
}

func (h *ContentHandler) CreatePaymentMethod(c *gin.Context) {
	var req domain.PaymentMethodInput
	if !bindJSON(c, h.logger, &req) {
		return
	}
	method, err := h.contentService.CreatePaymentMethod(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, method)
}

func (h *ContentHandler) UpdatePaymentMethod(c *gin.Context) {
	var req domain.PaymentMethodInput
	if !bindJSON(c, h.logger, &req) {
		return
	}
	method, err := h.contentService.UpdatePaymentMethod(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, method)
}

func (h *ContentHandler) DeletePaymentMethod(c *gin.Context) {
	if err := h.contentService.DeletePaymentMethod(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ContentHandler) GetSettings(c *gin.Context) {
	values, err := h.contentService.SettingValues(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, values)
}

func (h *ContentHandler) PutSetting(c *gin.Context) {
	var req domain.SettingInput
	if !bindJSON(c, h.logger, &req) {
		return
	}
	setting, err := h.contentService.PutSetting(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}

func (h *ContentHandler) ListDeliveryAreas(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"delivery_areas": h.contentService.DeliveryAreas()})
}
