package handler

import (
	"net/http"

	"github.com/cloud-wave-best-zizon/battery-store/internal/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxUploadBytes = 5 << 20

type UploadHandler struct {
	images storage.ImageStore
	logger *zap.Logger
}

func NewUploadHandler(images storage.ImageStore, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{images: images, logger: logger.Named("upload_handler")}
}

// UploadImage stores the multipart "image" field and returns its public URL.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required", "field": "image"})
		return
	}
	if header.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image must be 5MB or smaller", "field": "image"})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Error("Failed to open upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}
	defer file.Close()

	url, err := h.images.Save(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	h.logger.Info("Image uploaded", zap.String("url", url))
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
