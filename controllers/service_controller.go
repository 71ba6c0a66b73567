package controllers

import (
	"net/http"
	"strconv"

	"github.com/freshfold/laundry-api/config"
	"github.com/freshfold/laundry-api/middleware"
	"github.com/freshfold/laundry-api/services"
	"github.com/gin-gonic/gin"
)

// ListServices handles GET /api/v1/services - the active catalog, by name
func ListServices(c *gin.Context) {
	catalog, err := services.NewCatalogService(config.GetDB(), middleware.Logger(c)).ListActive(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    services.ProjectServices(catalog),
	})
}

// GetService handles GET /api/v1/services/:id - one catalog entry with its unit price.
// Inactive services stay readable so existing orders can show what was ordered.
func GetService(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "INVALID_SERVICE_ID", "Service ID must be a positive integer", nil)
		return
	}

	service, err := services.NewCatalogService(config.GetDB(), middleware.Logger(c)).Find(c.Request.Context(), uint(id))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    services.ProjectService(*service),
	})
}

// CreateService handles POST /api/v1/services - adds a catalog entry (admin only)
func CreateService(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.CreateServiceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
		return
	}

	service, err := services.NewCatalogService(config.GetDB(), middleware.Logger(c)).Create(c.Request.Context(), *user, req)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    services.ProjectService(*service),
	})
}
