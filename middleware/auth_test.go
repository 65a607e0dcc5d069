package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/lavexpress/lavexpress-api/middleware"
	"github.com/lavexpress/lavexpress-api/tests/testutil"
)

func mockClaimsMiddleware(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		testutil.SetMockAuthContext(c, "auth0|123", "https://test.eu.auth0.com/", role, []string{"openid", "profile"})
		c.Next()
	}
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin/ping", mockClaimsMiddleware("admin"), middleware.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdminRejectsRegularUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin/ping", mockClaimsMiddleware("user"), middleware.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestRequireAdminWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin/ping", middleware.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/scoped", mockClaimsMiddleware("user"), middleware.RequireScope("profile"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	router.GET("/forbidden", mockClaimsMiddleware("user"), middleware.RequireScope("admin:all"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/scoped", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/forbidden", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "INSUFFICIENT_SCOPE")
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := middleware.GetUserID(c)
	assert.Error(t, err)

	c.Set("user_id", "auth0|123")
	userID, err := middleware.GetUserID(c)
	assert.NoError(t, err)
	assert.Equal(t, "auth0|123", userID)
}

func TestGetAccessToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := middleware.GetAccessToken(c)
	assert.Error(t, err)

	c.Set("access_token", "eyJ.raw.token")
	token, err := middleware.GetAccessToken(c)
	assert.NoError(t, err)
	assert.Equal(t, "eyJ.raw.token", token)
}

func TestGetClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := middleware.GetClaims(c)
	assert.Error(t, err)

	c.Set("validated_claims", testutil.MockValidatedClaims("auth0|123", "https://test.eu.auth0.com/", "admin", nil))
	claims, err := middleware.GetClaims(c)
	assert.NoError(t, err)
	assert.Equal(t, "auth0|123", claims.RegisteredClaims.Subject)
}

func TestHasScope(t *testing.T) {
	claims := middleware.CustomClaims{Scope: "openid profile email"}

	assert.True(t, claims.HasScope("profile"))
	assert.False(t, claims.HasScope("admin:all"))
}
