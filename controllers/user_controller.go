package controllers

import (
	"net/http"
	"strings"

	"github.com/freshfold/laundry-api/config"
	"github.com/freshfold/laundry-api/middleware"
	"github.com/freshfold/laundry-api/models"
	"github.com/freshfold/laundry-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UpdateUserRequest represents the request body for updating a user profile
type UpdateUserRequest struct {
	Name    string  `json:"name" binding:"omitempty,max=255"`
	Email   string  `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=32"`
	Address *string `json:"address" binding:"omitempty,max=500"`
}

// CreateUser handles POST /api/v1/users - creates a new user from Auth0 userinfo
// This endpoint requires authentication and fetches user data from Auth0's /userinfo endpoint
func CreateUser(c *gin.Context) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user ID from token", nil)
		return
	}

	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "MISSING_TOKEN", "Access token not found", nil)
		return
	}

	logger := middleware.Logger(c)
	auth0Service := services.NewAuth0Service(config.GetConfig())
	userInfo, err := auth0Service.GetUserInfo(c.Request.Context(), accessToken)
	if err != nil {
		logger.Warn("auth0 userinfo lookup failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "AUTH0_ERROR", "Failed to fetch user information from Auth0", nil)
		return
	}

	if userInfo.Email == "" {
		respondError(c, http.StatusBadRequest, "MISSING_EMAIL", "Email not provided by Auth0", nil)
		return
	}
	if userInfo.Name == "" {
		respondError(c, http.StatusBadRequest, "MISSING_NAME", "Name not provided by Auth0", nil)
		return
	}

	// the token's role claim only seeds the profile
	role := models.RoleCustomer
	if claimed := middleware.GetRoleClaim(c); models.ValidRole(claimed) {
		role = claimed
	}

	user := models.User{
		Auth0ID: auth0ID,
		Name:    userInfo.Name,
		Email:   userInfo.Email,
		Role:    role,
		Phone:   userInfo.PhoneNumber,
	}

	db := config.GetDB().WithContext(c.Request.Context())
	if err := db.Create(&user).Error; err != nil {
		if services.IsUniqueViolation(err) {
			respondError(c, http.StatusConflict, "USER_EXISTS", "A user with this Auth0 ID or email already exists", nil)
			return
		}
		logger.Error("failed to create user", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create user", nil)
		return
	}

	logger.Info("user profile created", zap.Uint("user_id", user.ID), zap.String("role", user.Role))
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
	})
}

// GetMyProfile handles GET /api/v1/users/me - gets current user's profile
func GetMyProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// UpdateMyProfile handles PUT /api/v1/users/me - updates name, email, phone and address
func UpdateMyProfile(c *gin.Context) {
	if _, err := middleware.GetUserID(c); err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information", nil)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	updates := make(map[string]interface{})
	if name := strings.TrimSpace(req.Name); name != "" {
		updates["name"] = name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		updates["address"] = strings.TrimSpace(*req.Address)
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    user,
		})
		return
	}

	db := config.GetDB().WithContext(c.Request.Context())
	if err := db.Model(user).Updates(updates).Error; err != nil {
		if services.IsUniqueViolation(err) {
			respondError(c, http.StatusConflict, "EMAIL_EXISTS", "A user with this email already exists", nil)
			return
		}
		middleware.Logger(c).Error("failed to update user", zap.Uint("user_id", user.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update user profile", nil)
		return
	}

	if err := db.First(user, user.ID).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch updated profile", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}
