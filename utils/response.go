package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Success responses
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Message writes a plain-text confirmation.
func Message(c *gin.Context, message string) {
	c.String(http.StatusOK, message)
}

// Error responses
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, &ErrorResponse{Error: message})
}

func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, &ErrorResponse{Error: message})
}

func TooLarge(c *gin.Context, message string) {
	c.JSON(http.StatusRequestEntityTooLarge, &ErrorResponse{Error: message})
}

func UnsupportedMediaType(c *gin.Context, message string) {
	c.JSON(http.StatusUnsupportedMediaType, &ErrorResponse{Error: message})
}

func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, &ErrorResponse{Error: message})
}

func ServiceUnavailable(c *gin.Context, data interface{}) {
	c.JSON(http.StatusServiceUnavailable, data)
}
