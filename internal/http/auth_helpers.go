package http

import (
	"github.com/gin-gonic/gin"

	"github.com/bookhive/bookhive/internal/auth"
	"github.com/bookhive/bookhive/internal/entities"
)

// AuthTemplateData holds the caller's identity for templates. Templates
// access it via .Auth in the page data.
type AuthTemplateData struct {
	LoggedIn  bool
	Username  string
	IsAdmin   bool
	CSRFToken string
}

// AuthContextMiddleware injects authentication data into the Gin context
// for templates.
func AuthContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authData := AuthTemplateData{
			CSRFToken: auth.GetCSRFToken(c),
		}

		if auth.GetUserID(c) != 0 {
			authData.LoggedIn = true
			authData.Username = auth.GetUsername(c)
			authData.IsAdmin = auth.GetUserRole(c) == entities.UserRoleAdmin
		}

		c.Set("auth_template_data", authData)
		c.Next()
	}
}

// GetAuthTemplateData retrieves auth data from the context.
func GetAuthTemplateData(c *gin.Context) AuthTemplateData {
	if data, exists := c.Get("auth_template_data"); exists {
		if authData, ok := data.(AuthTemplateData); ok {
			return authData
		}
	}
	return AuthTemplateData{}
}
