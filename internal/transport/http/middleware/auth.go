package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dropit/internal/app"
	"dropit/internal/transport/http/response"
)

const ContextAuthenticatedKey = "authenticated"

// AuthCookie rejects requests whose session cookie is missing, tampered or
// expired.
func AuthCookie(authService *app.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			response.Abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		claims, err := authService.Verify(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		c.Set(ContextAuthenticatedKey, claims.Authenticated)
		c.Next()
	}
}
