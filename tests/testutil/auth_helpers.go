package testutil

import (
	"strings"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/freshfold/laundry-api/middleware"
	"github.com/gin-gonic/gin"
)

// MockValidatedClaims creates a mock ValidatedClaims for testing
func MockValidatedClaims(subject, role string, scopes []string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  "https://test.auth0.local/",
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Scope: strings.Join(scopes, " "),
			Role:  role,
		},
	}
}

// SetMockAuthContext sets the values EnsureValidToken would leave in the context
func SetMockAuthContext(c *gin.Context, userID, role, accessToken string) {
	c.Set("user_id", userID)
	c.Set("access_token", accessToken)
	c.Set("validated_claims", MockValidatedClaims(userID, role, nil))
}

// BearerSubjectAuth stands in for the JWT middleware: the bearer token is taken
// as the Auth0 subject, and requests without one get the same 401 as a bad JWT.
func BearerSubjectAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, subject, found := strings.Cut(c.GetHeader("Authorization"), " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(subject) == "" {
			c.AbortWithStatusJSON(401, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TOKEN",
					"message": "Failed to validate JWT.",
				},
			})
			return
		}
		subject = strings.TrimSpace(subject)
		SetMockAuthContext(c, subject, "", subject)
		c.Next()
	}
}
