package controllers

import (
	"net/http"
	"strconv"

	"github.com/freshfold/laundry-api/config"
	"github.com/freshfold/laundry-api/middleware"
	"github.com/freshfold/laundry-api/models"
	"github.com/freshfold/laundry-api/services"
	"github.com/gin-gonic/gin"
)

// newOrderService builds the order service for the current request from the app config
func newOrderService(c *gin.Context) *services.OrderService {
	cfg := config.GetConfig()
	return services.NewOrderService(
		config.GetDB(),
		middleware.Logger(c),
		services.WithStrictTransitions(cfg.StrictTransitions),
		services.WithMaxAttempts(cfg.OrderNumberMaxAttempts),
		services.WithImageService(services.GetImageService()),
	)
}

// parseOrderID reads the :id path parameter, writing a 400 when it is not a positive integer
func parseOrderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "INVALID_ORDER_ID", "Order ID must be a positive integer", nil)
		return 0, false
	}
	return uint(id), true
}

// CreateOrder handles POST /api/v1/orders - places a new order (customers only)
func CreateOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
		return
	}

	order, err := newOrderService(c).CreateOrder(c.Request.Context(), *user, req)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    services.ProjectOrder(*order, user.Role),
	})
}

// ListOrders handles GET /api/v1/orders - customers see their own orders, staff see all
func ListOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", c.Query("limit")))

	result, err := newOrderService(c).ListOrders(c.Request.Context(), *user, page, perPage)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    services.ProjectOrders(result.Orders, user.Role),
		"pagination": gin.H{
			"page":       result.Page,
			"limit":      result.PerPage,
			"total":      result.Total,
			"totalPages": result.TotalPages,
		},
	})
}

// GetOrder handles GET /api/v1/orders/:id - order detail, with the assignable staff for staff viewers
func GetOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	orderService := newOrderService(c)
	order, err := orderService.GetOrder(c.Request.Context(), *user, orderID)
	if err != nil {
		renderError(c, err)
		return
	}

	staffMembers := []services.StaffMember{}
	var nextStatuses []models.OrderStatus
	if user.IsStaff() {
		staff, err := orderService.AssignableStaff(c.Request.Context())
		if err != nil {
			renderError(c, err)
			return
		}
		staffMembers = services.ProjectStaff(staff)
		nextStatuses = order.Status.NextStatuses()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order":         services.ProjectOrder(*order, user.Role),
			"staff_members": staffMembers,
			"next_statuses": nextStatuses,
			"user_role":     user.Role,
		},
	})
}

// UpdateOrderStatus handles PUT /api/v1/orders/:id/status - staff and admin only
func UpdateOrderStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req services.UpdateStatusInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
		return
	}

	order, err := newOrderService(c).UpdateStatus(c.Request.Context(), *user, orderID, req)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    services.ProjectOrder(*order, user.Role),
	})
}
