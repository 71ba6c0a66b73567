package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/freshfold/laundry-api/config"
	"github.com/freshfold/laundry-api/middleware"
	"github.com/freshfold/laundry-api/models"
	"github.com/freshfold/laundry-api/services"
	"github.com/freshfold/laundry-api/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// respondError writes the standard error envelope
func respondError(c *gin.Context, status int, code, message string, details any) {
	body := gin.H{
		"code":    code,
		"message": message,
	}
	if details != nil {
		body["details"] = details
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   body,
	})
}

// renderError maps a service error to its HTTP status and error code
func renderError(c *gin.Context, err error) {
	var (
		validationErr *services.ValidationError
		notFoundErr   *services.NotFoundError
		forbiddenErr  *services.UnauthorizedError
		transitionErr *services.InvalidTransitionError
		uploadErr     *utils.FileUploadError
	)

	switch {
	case errors.As(err, &validationErr):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "The given data was invalid.", validationErr.Fields)
	case errors.As(err, &notFoundErr):
		respondError(c, http.StatusNotFound, notFoundErr.Code(), resourceLabel(notFoundErr.Resource)+" not found", nil)
	case errors.As(err, &forbiddenErr):
		respondError(c, http.StatusForbidden, "FORBIDDEN", forbiddenErr.Message, nil)
	case errors.As(err, &transitionErr):
		respondError(c, http.StatusUnprocessableEntity, "INVALID_TRANSITION", transitionErr.Error(), gin.H{
			"from":    transitionErr.From,
			"to":      transitionErr.To,
			"allowed": transitionErr.From.NextStatuses(),
		})
	case errors.As(err, &uploadErr):
		respondError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message, nil)
	case errors.Is(err, services.ErrVersionConflict):
		respondError(c, http.StatusConflict, "VERSION_CONFLICT", "The order was changed by someone else. Reload it and try again.", nil)
	case errors.Is(err, services.ErrOrderNumberExhausted):
		middleware.Logger(c).Error("order number allocation failed", zap.Error(err))
		respondError(c, http.StatusServiceUnavailable, "ORDER_NUMBER_UNAVAILABLE", "Could not allocate an order number. Please try again.", nil)
	case errors.Is(err, services.ErrServiceMisconfigured):
		middleware.Logger(c).Error("laundry service misconfigured", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "SERVICE_MISCONFIGURED", "The selected service cannot be priced.", nil)
	default:
		middleware.Logger(c).Error("request failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "An unexpected error occurred", nil)
	}
}

func resourceLabel(resource string) string {
	if resource == "" {
		return "Resource"
	}
	return strings.ToUpper(resource[:1]) + resource[1:]
}

// currentUser loads the profile of the authenticated caller. It writes the
// error response itself and returns false when there is no usable profile.
func currentUser(c *gin.Context) (*models.User, bool) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information", nil)
		return nil, false
	}

	var user models.User
	err = config.GetDB().WithContext(c.Request.Context()).Where("auth0_id = ?", auth0ID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User profile not found. Please create a profile first.", nil)
		return nil, false
	}
	if err != nil {
		renderError(c, err)
		return nil, false
	}

	return &user, true
}
