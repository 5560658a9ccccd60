package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fleet-dashboard/internal/model"
	"fleet-dashboard/pkg/utils"
)

const (
	CSRFCookie = "fleet_csrf"
	CSRFHeader = "X-CSRF-Token"
)

// CSRF rejects state-changing requests whose header token does not match
// the cookie issued with the page.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		cookie, err := c.Cookie(CSRFCookie)
		header := c.GetHeader(CSRFHeader)
		if err != nil || cookie == "" || subtle.ConstantTimeCompare([]byte(cookie), []byte(header)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, model.ErrorResponse{
				Success: false,
				Code:    utils.CodeValidation,
				Message: "missing or invalid anti-forgery token",
			})
			return
		}
		c.Next()
	}
}

// issueCSRFToken reuses the caller's token when it has one.
func issueCSRFToken(c *gin.Context) string {
	if token, err := c.Cookie(CSRFCookie); err == nil && token != "" {
		return token
	}
	token := uuid.NewString()
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CSRFCookie, token, 0, "/", "", c.Request.TLS != nil, true)
	return token
}
