package handler

import (
	"net/http"

	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/cloud-wave-best-zizon/battery-store/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	bookingService *service.BookingService
	logger         *zap.Logger
}

func NewBookingHandler(bookingService *service.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{bookingService: bookingService, logger: logger.Named("booking_handler")}
}

func (h *BookingHandler) SubmitBooking(c *gin.Context) {
	var req domain.BookingRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	booking, err := h.bookingService.Submit(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) ListBookings(c *gin.Context) {
	bookings, err := h.bookingService.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}
