package handler

import (
	"net/http"

	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/cloud-wave-best-zizon/battery-store/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CartHandler struct {
	cartService     *service.CartService
	checkoutService *service.CheckoutService
	logger          *zap.Logger
}

func NewCartHandler(cartService *service.CartService, checkoutService *service.CheckoutService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService:     cartService,
		checkoutService: checkoutService,
		logger:          logger.Named("cart_handler"),
	}
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) CreateCart(c *gin.Context) {
	view, err := h.cartService.Create(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.cartService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AddItem treats a missing or non-positive quantity as one.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	view, err := h.cartService.AddItem(c.Request.Context(), c.Param("id"), req.ProductID, req.Quantity)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	view, err := h.cartService.UpdateItem(c.Request.Context(), c.Param("id"), c.Param("product_id"), req.Quantity)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	view, err := h.cartService.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("product_id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) Checkout(c *gin.Context) {
	var req domain.CheckoutRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	order, err := h.checkoutService.Checkout(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *CartHandler) ListOrders(c *gin.Context) {
	orders, err := h.checkoutService.Orders(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
