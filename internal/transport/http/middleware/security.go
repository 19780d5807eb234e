package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"dropit/internal/app"
)

// SecurityHeaders adds security headers to all responses.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'")
		c.Next()
	}
}

// UploadHeaders keeps stored files from running as active content on the
// app origin. Only images render inline; everything else downloads.
func UploadHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Content-Security-Policy", "default-src 'none'; sandbox")
		if !strings.HasPrefix(app.TypeFromPath(c.Request.URL.Path), "image/") {
			h.Set("Content-Disposition", "attachment")
		}
		c.Next()
	}
}
