package middleware

import (
	"net/http"

	"notekeep/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func EnhancedRecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic while handling request",
					zap.Any("panic", err),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString(RequestIDKey)),
					zap.Stack("stack"),
				)
				utils.TrackError("panic", "handler")
				c.AbortWithStatusJSON(http.StatusInternalServerError, &utils.ErrorResponse{Error: "internal server error"})
			}
		}()
		c.Next()
	}
}
