package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"dropit/internal/app"
	"dropit/internal/metrics"
	"dropit/internal/transport/http/response"
)

type AuthHandler struct {
	authService  *app.AuthService
	cookieName   string
	secureCookie bool
}

type LoginRequest struct {
	Password any `json:"password"`
}

func NewAuthHandler(authService *app.AuthService, cookieName string, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieName:   cookieName,
		secureCookie: secureCookie,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	if !strings.HasPrefix(c.ContentType(), "application/json") {
		response.Error(c, http.StatusBadRequest, "content type must be application/json")
		return
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	password, err := loginPassword(req.Password)
	var token string
	if err == nil {
		token, err = h.authService.Login(password)
	}
	if err != nil {
		switch {
		case errors.Is(err, app.ErrPasswordRequired):
			metrics.LoginAttempts.WithLabelValues("invalid").Inc()
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrInvalidPassword):
			metrics.LoginAttempts.WithLabelValues("invalid").Inc()
			response.Error(c, http.StatusUnauthorized, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "login failed")
		}
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	h.setCookie(c, token, int(h.authService.TokenTTL().Seconds()))
	response.OK(c, "login successful", nil)
}

// Status reports whether the caller holds a valid session cookie.
func (h *AuthHandler) Status(c *gin.Context) {
	token, err := c.Cookie(h.cookieName)
	if err == nil {
		if _, err = h.authService.Verify(token); err == nil {
			c.JSON(http.StatusOK, gin.H{"authenticated": true})
			return
		}
	}
	c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.setCookie(c, "", -1)
	response.OK(c, "logged out", nil)
}

// loginPassword treats a falsy JSON value as missing and any other
// non-string as a wrong password.
func loginPassword(v any) (string, error) {
	switch p := v.(type) {
	case nil:
		return "", app.ErrPasswordRequired
	case string:
		if p == "" {
			return "", app.ErrPasswordRequired
		}
		return p, nil
	case bool:
		if !p {
			return "", app.ErrPasswordRequired
		}
	case float64:
		if p == 0 {
			return "", app.ErrPasswordRequired
		}
	}
	return "", app.ErrInvalidPassword
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookieName, value, maxAge, "/", "", h.secureCookie, true)
}
