package controllers

import (
	"net/http"

	"github.com/freshfold/laundry-api/services"
	"github.com/gin-gonic/gin"
)

// UploadOrderPhoto handles POST /api/v1/orders/:id/photo - attaches a garment photo
// (multipart field "image") to the caller's own order
func UploadOrderPhoto(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	if services.GetImageService() == nil {
		respondError(c, http.StatusServiceUnavailable, "PHOTO_STORAGE_UNAVAILABLE", "Photo uploads are not configured", nil)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "An image file is required in the 'image' field", nil)
		return
	}

	order, err := newOrderService(c).AttachPhoto(c.Request.Context(), *user, orderID, fileHeader)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    services.ProjectOrder(*order, user.Role),
	})
}
