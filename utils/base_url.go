package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// GetBaseURL returns scheme://host for the current request, honouring
// X-Forwarded-Proto when the service sits behind a proxy.
func GetBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + c.Request.Host
}
