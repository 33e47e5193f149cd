package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/bookhive/bookhive/internal/entities"
)

func setRole(role entities.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyUserID, uint(1))
		c.Set(ContextKeyUsername, "tester")
		c.Set(ContextKeyRole, role)
		c.Next()
	}
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMiddleware(nil, nil)

	router := gin.New()
	router.GET("/admin", setRole(entities.UserRoleAdmin), m.RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin_RejectsMember(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMiddleware(nil, nil)

	handlerRan := false
	router := gin.New()
	router.GET("/admin", setRole(entities.UserRoleMember), m.RequireAdmin(), func(c *gin.Context) {
		handlerRan = true
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, handlerRan)
}

func TestRequireAdmin_RejectsMissingRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMiddleware(nil, nil)

	router := gin.New()
	router.GET("/admin", m.RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_RedirectsAnonymousToLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMiddleware(nil, nil)

	router := gin.New()
	router.Use(m.Handler())
	router.GET("/books", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=/books", w.Header().Get("Location"))
}

func TestHandler_PublicPathsPassThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMiddleware(nil, nil)

	router := gin.New()
	router.Use(m.Handler())
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
