package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Storage string      `json:"storage,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// OKWithStorage also reports which key-value backend served the read.
func OKWithStorage(c *gin.Context, data interface{}, storage string) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Storage: storage,
	})
}

func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, ErrorResponse{Error: message})
}

func Abort(c *gin.Context, httpStatus int, message string) {
	c.AbortWithStatusJSON(httpStatus, ErrorResponse{Error: message})
}
