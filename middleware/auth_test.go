package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/freshfold/laundry-api/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		setupFunc func(*gin.Context)
		wantID    string
		wantErr   bool
	}{
		{
			name: "successfully extracts user ID",
			setupFunc: func(c *gin.Context) {
				c.Set("user_id", "auth0|123456")
			},
			wantID:  "auth0|123456",
			wantErr: false,
		},
		{
			name: "user ID not found in context",
			setupFunc: func(c *gin.Context) {
				// Don't set user_id
			},
			wantID:  "",
			wantErr: true,
		},
		{
			name: "user ID is not a string",
			setupFunc: func(c *gin.Context) {
				c.Set("user_id", 12345) // Set as int instead of string
			},
			wantID:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.setupFunc(c)

			gotID, err := GetUserID(c)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, gotID)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, gotID)
			}
		})
	}
}

func TestGetClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		setupFunc func(*gin.Context)
		wantErr   bool
	}{
		{
			name: "successfully extracts claims",
			setupFunc: func(c *gin.Context) {
				claims := &validator.ValidatedClaims{
					RegisteredClaims: validator.RegisteredClaims{
						Issuer:  "https://test.auth0.com/",
						Subject: "auth0|123456",
					},
					CustomClaims: &CustomClaims{
						Scope: "read:orders",
						Role:  "customer",
					},
				}
				c.Set("validated_claims", claims)
			},
			wantErr: false,
		},
		{
			name: "claims not found in context",
			setupFunc: func(c *gin.Context) {
				// Don't set validated_claims
			},
			wantErr: true,
		},
		{
			name: "claims are not the expected type",
			setupFunc: func(c *gin.Context) {
				c.Set("validated_claims", "invalid")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.setupFunc(c)

			claims, err := GetClaims(c)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, claims)
			}
		})
	}
}

func TestGetRoleClaim(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetRoleClaim(c))

	c.Set("validated_claims", &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{Subject: "auth0|staff"},
		CustomClaims:     &CustomClaims{Role: "staff"},
	})
	assert.Equal(t, "staff", GetRoleClaim(c))

	c.Set("validated_claims", &validator.ValidatedClaims{})
	assert.Empty(t, GetRoleClaim(c))
}

func TestGetAccessToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		setupFunc func(*gin.Context)
		want      string
		wantErr   bool
	}{
		{
			name:      "token present",
			setupFunc: func(c *gin.Context) { c.Set("access_token", "abc.def.ghi") },
			want:      "abc.def.ghi",
		},
		{
			name:      "token missing",
			setupFunc: func(c *gin.Context) {},
			wantErr:   true,
		},
		{
			name:      "token empty",
			setupFunc: func(c *gin.Context) { c.Set("access_token", "") },
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			tt.setupFunc(c)

			got, err := GetAccessToken(c)
			if tt.wantErr {
				var authErr *AuthError
				assert.ErrorAs(t, err, &authErr)
				assert.Empty(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer abc"))
	assert.Empty(t, bearerToken("Basic abc"))
	assert.Empty(t, bearerToken("abc"))
	assert.Empty(t, bearerToken(""))
}

func TestEnsureValidToken_RejectsMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	reached := false
	router := gin.New()
	router.Use(EnsureValidToken(&config.Config{Auth0Domain: "test.auth0.com", Auth0Audience: "https://api.test"}, zap.NewNop()))
	router.GET("/private", func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	assert.False(t, reached, "handlers after a rejected token must not run")
}

func TestAuthError(t *testing.T) {
	err := &AuthError{
		Code:    "TEST_ERROR",
		Message: "This is a test error",
	}

	assert.Equal(t, "This is a test error", err.Error())
}
