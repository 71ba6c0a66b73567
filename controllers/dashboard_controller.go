package controllers

import (
	"net/http"

	"github.com/freshfold/laundry-api/config"
	"github.com/freshfold/laundry-api/middleware"
	"github.com/freshfold/laundry-api/services"
	"github.com/gin-gonic/gin"
)

// GetDashboard handles GET /api/v1/dashboard - customer or staff summary depending on the caller's role
func GetDashboard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	dashboard, err := services.NewDashboardService(config.GetDB(), middleware.Logger(c), nil).BuildDashboard(c.Request.Context(), *user)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dashboard,
	})
}
