package middleware

import (
	"net/http"

	"notekeep/utils"

	"github.com/gin-gonic/gin"
)

// RequestSizeLimiter caps the request body at maxSize bytes.
func RequestSizeLimiter(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				&utils.ErrorResponse{Error: "request body too large"})
			return
		}

		var w http.ResponseWriter = c.Writer
		c.Request.Body = http.MaxBytesReader(w, c.Request.Body, maxSize)

		c.Next()
	}
}
