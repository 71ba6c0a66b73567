package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/freshfold/laundry-api/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by EnsureValidToken
const (
	userIDKey      = "user_id"
	claimsKey      = "validated_claims"
	accessTokenKey = "access_token"
)

// CustomClaims contains custom data we want from the token.
// Role is only used to seed a new profile; the stored profile is authoritative afterwards.
type CustomClaims struct {
	Scope string `json:"scope"`
	Role  string `json:"https://freshfold.app/role"`
}

// Validate does nothing, but we need it to satisfy the validator.CustomClaims interface.
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// EnsureValidToken is a middleware that will check the validity of our JWT.
func EnsureValidToken(cfg *config.Config, logger *zap.Logger) gin.HandlerFunc {
	issuerURL, err := url.Parse("https://" + cfg.Auth0Domain + "/")
	if err != nil {
		logger.Fatal("failed to parse the issuer url", zap.Error(err))
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{cfg.Auth0Audience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		logger.Fatal("failed to set up the jwt validator", zap.Error(err))
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Info("rejected JWT", zap.String("path", r.URL.Path), zap.Error(err))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TOKEN","message":"Failed to validate JWT."}}`)); writeErr != nil {
			logger.Warn("failed to write error response", zap.Error(writeErr))
		}
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		validated := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			validated = true
			token := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)

			c.Set(userIDKey, token.RegisteredClaims.Subject)
			c.Set(claimsKey, token)
			c.Set(accessTokenKey, bearerToken(r.Header.Get("Authorization")))

			// keep the request the JWT middleware enriched
			c.Request = r
			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
		if !validated {
			c.Abort()
		}
	}
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// GetUserID extracts the Auth0 user ID (the sub claim) from the Gin context
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userIDStr, ok := userID.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a string"}
	}

	return userIDStr, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get(claimsKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// GetRoleClaim returns the role carried by the token, or "" if there is none
func GetRoleClaim(c *gin.Context) string {
	claims, err := GetClaims(c)
	if err != nil {
		return ""
	}
	custom, ok := claims.CustomClaims.(*CustomClaims)
	if !ok || custom == nil {
		return ""
	}
	return custom.Role
}

// GetAccessToken returns the raw bearer token of the current request
func GetAccessToken(c *gin.Context) (string, error) {
	token, exists := c.Get(accessTokenKey)
	if !exists {
		return "", &AuthError{Code: "MISSING_ACCESS_TOKEN", Message: "Access token not found in context"}
	}

	tokenStr, ok := token.(string)
	if !ok || tokenStr == "" {
		return "", &AuthError{Code: "INVALID_ACCESS_TOKEN", Message: "Access token is empty"}
	}

	return tokenStr, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
